package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// GetOrLoadJSON is GetOrLoad for values serialized as JSON. An undecodable
// cached payload is treated like a cache fault and the loader runs instead.
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, Result, error) {
	encode := func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}

	var out T
	b, res, err := c.GetOrLoad(ctx, key, ttl, encode)
	if err != nil {
		return out, res, err
	}
	err = json.Unmarshal(b, &out)
	if err == nil || res != Hit {
		return out, res, err
	}

	c.log.Warn("cache payload undecodable", zap.String("key", key), zap.Error(err))
	out = *new(T)
	b, res, err = c.fill(ctx, key, ttl, encode, Fault)
	if err != nil {
		return out, res, err
	}
	err = json.Unmarshal(b, &out)
	return out, res, err
}
