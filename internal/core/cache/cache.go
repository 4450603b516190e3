package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Result says where a value came from.
type Result string

const (
	Hit  Result = "hit"
	Miss Result = "miss"
	// Fault means the cache misbehaved and the value came from the loader.
	Fault Result = "error"
)

// Cache wraps a Store with cache-aside semantics. Store failures never fail
// a read; they are logged and the loader is used instead.
type Cache struct {
	store       Store
	log         *zap.Logger
	opTimeout   time.Duration
	loadTimeout time.Duration
	sf          singleflight.Group
}

type Option func(*Cache)

// WithLoadTimeout bounds a shared load. Zero leaves it unbounded.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) { c.loadTimeout = d }
}

func New(store Store, log *zap.Logger, opTimeout time.Duration, opts ...Option) *Cache {
	if store == nil {
		store = Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cache{store: store, log: log, opTimeout: opTimeout, loadTimeout: 10 * time.Second}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Cache) Store() Store { return c.store }

func (c *Cache) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.opTimeout)
}

// Lookup reads key. It returns Hit with the payload, Miss, or Fault.
func (c *Cache) Lookup(ctx context.Context, key string) ([]byte, Result) {
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	b, err := c.store.Get(opCtx, key)
	switch {
	case err == nil:
		return b, Hit
	case errors.Is(err, ErrMiss):
		return nil, Miss
	default:
		c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, Fault
	}
}

// Put stores val under key with ttl and reports whether it was stored.
func (c *Cache) Put(ctx context.Context, key string, val []byte, ttl time.Duration) bool {
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := c.store.Set(opCtx, key, val, ttl); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Invalidate deletes keys; failures are logged and returned.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := c.store.Del(opCtx, keys...); err != nil {
		c.log.Warn("cache del failed", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}

// GetOrLoad returns the cached bytes for key, or runs load once per key
// across concurrent callers and stores its result with ttl.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, Result, error) {
	b, res := c.Lookup(ctx, key)
	if res == Hit {
		return b, Hit, nil
	}
	return c.fill(ctx, key, ttl, load, res)
}

// fill runs the shared load on a context that outlives any one caller, so a
// caller that gives up does not fail the others waiting on the same key.
// Each caller still returns as soon as its own ctx is done.
func (c *Cache) fill(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error), res Result) ([]byte, Result, error) {
	ch := c.sf.DoChan(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		if c.loadTimeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(lctx, c.loadTimeout)
			defer cancel()
		}
		b, err := load(lctx)
		if err != nil {
			return nil, err
		}
		return filled{b: b, stored: c.Put(lctx, key, b, ttl)}, nil
	})

	select {
	case <-ctx.Done():
		return nil, res, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, res, r.Err
		}
		f := r.Val.(filled)
		if !f.stored {
			res = Fault
		}
		return f.b, res, nil
	}
}

type filled struct {
	b      []byte
	stored bool
}
