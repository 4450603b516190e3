package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get and Store.TTL when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the key-value contract the cache-aside reader consumes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error)              { return nil, ErrMiss }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Del(context.Context, ...string) error                     { return nil }
func (Nop) TTL(context.Context, string) (time.Duration, error)       { return 0, ErrMiss }
func (Nop) Ping(context.Context) error                               { return nil }
func (Nop) Close() error                                             { return nil }
