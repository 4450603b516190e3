package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-gin-gorm-cache/internal/core/cache"
	"go-gin-gorm-cache/internal/domain"
)

// AllUsersKey caches the full user list. Single users are cached under their id.
const AllUsersKey = "allUsers"

var cacheLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "user_cache_lookups_total", Help: "User cache lookups by entry and result"},
	[]string{"entry", "result"},
)

func init() { prometheus.MustRegister(cacheLookups) }

type userSource interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// cached payload shapes
type userList struct {
	Users []domain.User `json:"users"`
}

type userEntry struct {
	User *domain.User `json:"user"`
}

// UserReader serves user reads cache-aside. Entries expire after ttl and
// are not touched by writes unless Invalidate is called.
type UserReader struct {
	src   userSource
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewUserReader(src userSource, c *cache.Cache, ttl time.Duration, log *zap.Logger) *UserReader {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserReader{src: src, cache: c, ttl: ttl, log: log}
}

func (r *UserReader) ListUsers(ctx context.Context) ([]domain.User, cache.Result, error) {
	v, res, err := cache.GetOrLoadJSON(r.cache, ctx, AllUsersKey, r.ttl, func(ctx context.Context) (userList, error) {
		users, err := r.src.List(ctx)
		return userList{Users: users}, err
	})
	r.observe("list", AllUsersKey, res)
	if err != nil {
		return nil, res, err
	}
	if v.Users == nil {
		v.Users = []domain.User{}
	}
	return v.Users, res, nil
}

// GetUser returns domain.ErrNotFound for unknown ids; absence is never cached.
func (r *UserReader) GetUser(ctx context.Context, id string) (*domain.User, cache.Result, error) {
	if id == AllUsersKey {
		u, err := r.src.FindByID(ctx, id)
		return u, cache.Miss, err
	}
	v, res, err := cache.GetOrLoadJSON(r.cache, ctx, id, r.ttl, func(ctx context.Context) (userEntry, error) {
		u, err := r.src.FindByID(ctx, id)
		return userEntry{User: u}, err
	})
	r.observe("user", id, res)
	if err != nil {
		return nil, res, err
	}
	if v.User == nil {
		return nil, res, domain.ErrNotFound
	}
	return v.User, res, nil
}

// Invalidate drops the list entry and the entries for ids.
func (r *UserReader) Invalidate(ctx context.Context, ids ...string) error {
	keys := append([]string{AllUsersKey}, ids...)
	if err := r.cache.Invalidate(ctx, keys...); err != nil {
		return err
	}
	r.log.Debug("user cache invalidated", zap.Strings("keys", keys))
	return nil
}

// TTL reports how long the cached entry for id has left.
func (r *UserReader) TTL(ctx context.Context, id string) (time.Duration, error) {
	return r.cache.Store().TTL(ctx, id)
}

func (r *UserReader) observe(entry, key string, res cache.Result) {
	cacheLookups.WithLabelValues(entry, string(res)).Inc()
	switch res {
	case cache.Hit:
		r.log.Debug("used cache", zap.String("key", key))
	default:
		r.log.Debug("used db", zap.String("key", key), zap.String("result", string(res)))
	}
}
