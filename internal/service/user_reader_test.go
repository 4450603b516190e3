package service

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gorm-cache/internal/core/cache"
	"go-gin-gorm-cache/internal/domain"
)

func TestReaderGetUserCachesForTTL(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	svc := NewUserService(f.users)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)

	first, res, err := f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, res)
	assert.Equal(t, time.Minute, f.mr.TTL(u.ID))

	// the store changes underneath, the cache does not
	require.NoError(t, f.db.Model(&domain.User{}).Where("id = ?", u.ID).Update("name", "Ada2").Error)

	second, res, err := f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.Hit, res)
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, "Ada", second.Name)

	f.mr.FastForward(61 * time.Second)

	third, res, err := f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, res)
	assert.Equal(t, "Ada2", third.Name)
}

func TestReaderGetUserNotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, res, err := f.reader.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, cache.Miss, res)
	assert.False(t, f.mr.Exists("missing"))
}

func TestReaderListUsers(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	svc := NewUserService(f.users)

	users, res, err := f.reader.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, res)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	// an empty list is cached too, so the new user stays invisible until expiry
	_, err = svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	users, res, err = f.reader.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.Hit, res)
	assert.Empty(t, users)

	raw, err := f.mr.Get(AllUsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[]}`, raw)

	f.mr.FastForward(61 * time.Second)
	users, res, err = f.reader.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, res)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)
}

func TestReaderStoredPayloadShape(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	svc := NewUserService(f.users)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)
	_, _, err = f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)

	raw, err := f.mr.Get(u.ID)
	require.NoError(t, err)
	var entry map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, "Ada", entry["user"]["name"])
	assert.Equal(t, u.ID, entry["user"]["id"])
}

func TestReaderInvalidate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	svc := NewUserService(f.users, WithInvalidator(f.reader))

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)
	_, _, err = f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)
	_, _, err = f.reader.ListUsers(ctx)
	require.NoError(t, err)
	require.True(t, f.mr.Exists(u.ID))
	require.True(t, f.mr.Exists(AllUsersKey))

	_, err = svc.Update(ctx, u.ID, UpdateUserInput{Name: "Ada2"})
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(u.ID))
	assert.False(t, f.mr.Exists(AllUsersKey))

	got, res, err := f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, res)
	assert.Equal(t, "Ada2", got.Name)
}

func TestReaderCacheDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	svc := NewUserService(f.users)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	f.mr.SetError("ERR injected failure")

	got, res, err := f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.Fault, res)
	assert.Equal(t, "Ada", got.Name)

	users, res, err := f.reader.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.Fault, res)
	assert.Len(t, users, 1)
}

func TestReaderReservedKeyBypassesCache(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, _, err := f.reader.ListUsers(ctx)
	require.NoError(t, err)

	_, res, err := f.reader.GetUser(ctx, AllUsersKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, cache.Miss, res)
}

func TestReaderTTL(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	svc := NewUserService(f.users)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	_, err = f.reader.TTL(ctx, u.ID)
	assert.ErrorIs(t, err, cache.ErrMiss)

	_, _, err = f.reader.GetUser(ctx, u.ID)
	require.NoError(t, err)
	ttl, err := f.reader.TTL(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)
}
