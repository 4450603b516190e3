package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-gin-gorm-cache/internal/core/cache"
	"go-gin-gorm-cache/internal/core/database"
	"go-gin-gorm-cache/internal/repo"
)

type fixture struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	users  *repo.UserRepo
	posts  *repo.PostRepo
	reader *UserReader
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "service.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	mr := miniredis.RunT(t)
	store := cache.NewRedis(cache.RedisOpts{Addr: mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })

	users := repo.NewUserRepo(db)
	return &fixture{
		db:     db,
		mr:     mr,
		users:  users,
		posts:  repo.NewPostRepo(db),
		reader: NewUserReader(users, cache.New(store, nil, time.Second), 60*time.Second, nil),
	}
}
