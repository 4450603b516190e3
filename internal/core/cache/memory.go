package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store for single-instance deployments and local runs.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(cleanupInterval time.Duration) *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return v.([]byte), nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	b := make([]byte, len(val))
	copy(b, val)
	m.c.Set(key, b, ttl)
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Memory) TTL(_ context.Context, key string) (time.Duration, error) {
	_, exp, ok := m.c.GetWithExpiration(key)
	if !ok {
		return 0, ErrMiss
	}
	if exp.IsZero() {
		return -1, nil
	}
	return time.Until(exp), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
