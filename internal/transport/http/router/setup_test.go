package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-gin-gorm-cache/internal/core/auth"
	"go-gin-gorm-cache/internal/core/cache"
	"go-gin-gorm-cache/internal/core/database"
	"go-gin-gorm-cache/internal/repo"
	"go-gin-gorm-cache/internal/service"
	"go-gin-gorm-cache/internal/transport/http/handler"
)

func init() { gin.SetMode(gin.TestMode) }

type testApp struct {
	api   *gin.Engine
	admin *gin.Engine
	db    *gorm.DB
	mr    *miniredis.Miniredis
	jwt   *auth.JWTer
}

func newTestApp(t *testing.T, invalidateOnWrite bool) *testApp {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "api.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	mr := miniredis.RunT(t)
	store := cache.NewRedis(cache.RedisOpts{Addr: mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })

	userRepo := repo.NewUserRepo(db)
	reader := service.NewUserReader(userRepo, cache.New(store, nil, time.Second), 60*time.Second, nil)
	var opts []service.UserOption
	if invalidateOnWrite {
		opts = append(opts, service.WithInvalidator(reader))
	}
	users := service.NewUserService(userRepo, opts...)
	posts := service.NewPostService(repo.NewPostRepo(db), userRepo)

	health := map[string]Pinger{
		"db":    func(ctx context.Context) error { return database.Ping(ctx, db) },
		"cache": store.Ping,
	}
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	limits := Limits{RPS: 1000, Burst: 1000, PerIPRPS: 1000, PerIPBurst: 1000}

	return &testApp{
		api: NewAPIEngine(Options{
			Limits: limits,
			Health: health,
			Modules: []APIModule{
				handler.NewPostHandler(posts, nil),
				handler.NewUserHandler(users, reader, nil),
			},
		}),
		admin: NewAdminEngine(AdminOptions{
			Limits:  limits,
			Health:  health,
			JWT:     jwter,
			Modules: []AdminModule{handler.NewAdminHandler(users, reader, nil)},
		}),
		db:  db,
		mr:  mr,
		jwt: jwter,
	}
}

func call(r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
