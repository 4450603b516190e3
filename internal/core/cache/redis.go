package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	RDB *redis.Client
}

type RedisOpts struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewRedis builds the client without dialing. go-redis connects lazily and
// reconnects on its own, so an unreachable server only surfaces as faults.
func NewRedis(o RedisOpts) *Redis {
	return &Redis{RDB: redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
		PoolSize: o.PoolSize,
	})}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

// Set is SET key val EX ttl.
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.RDB.Set(ctx, key, val, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.RDB.Del(ctx, keys...).Err()
}

func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := r.RDB.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// -2: no such key, -1: no expiry
	if d == -2 {
		return 0, ErrMiss
	}
	return d, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.RDB.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.RDB.Close() }
