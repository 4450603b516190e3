// Package bootstrap turns a Config into the process-wide clients and services
// shared by cmd/api and cmd/admin.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gin-gorm-cache/internal/core/cache"
	"go-gin-gorm-cache/internal/core/config"
	"go-gin-gorm-cache/internal/core/database"
	"go-gin-gorm-cache/internal/core/logger"
	"go-gin-gorm-cache/internal/repo"
	"go-gin-gorm-cache/internal/service"
	"go-gin-gorm-cache/internal/transport/http/router"
)

type Deps struct {
	Log    *zap.Logger
	DB     *gorm.DB
	Store  cache.Store
	Reader *service.UserReader
	Users  *service.UserService
	Posts  *service.PostService
}

// Logger builds the process logger and routes the std log through it.
func Logger(cfg *config.Config) (*zap.Logger, func()) {
	l, flush := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	return l, func() {
		undo()
		flush()
	}
}

// Open connects the store and the cache and wires repositories and services.
// On error everything opened so far is closed again.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Deps, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                log,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("cache open: %w", err)
	}
	log.Info("cache ready",
		zap.String("driver", cfg.Cache.Driver),
		zap.Duration("ttl", cfg.Cache.TTL()),
		zap.Bool("invalidate_on_write", cfg.Cache.InvalidateOnWrite),
	)

	userRepo := repo.NewUserRepo(db)
	reader := service.NewUserReader(userRepo, cache.New(store, log, cfg.Cache.OpTimeout(),
		cache.WithLoadTimeout(time.Duration(cfg.App.HTTP.RequestTimeoutSec)*time.Second)), cfg.Cache.TTL(), log)
	var opts []service.UserOption
	if cfg.Cache.InvalidateOnWrite {
		opts = append(opts, service.WithInvalidator(reader))
	}

	return &Deps{
		Log:    log,
		DB:     db,
		Store:  store,
		Reader: reader,
		Users:  service.NewUserService(userRepo, opts...),
		Posts:  service.NewPostService(repo.NewPostRepo(db), userRepo),
	}, nil
}

// openStore builds the configured store. An unreachable redis is logged and
// kept: reads fall through to the database until it comes back.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Store, error) {
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		r := cache.NewRedis(cache.RedisOpts{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := r.Ping(ctx); err != nil {
			log.Warn("redis unreachable, serving reads from the database",
				zap.String("addr", cfg.Redis.Address()), zap.Error(err))
		}
		return r, nil
	case config.CacheMemory:
		return cache.NewMemory(time.Minute), nil
	case config.CacheNone:
		return cache.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

// Health lists the backends /health pings.
func (d *Deps) Health() map[string]router.Pinger {
	return map[string]router.Pinger{
		"db":    func(ctx context.Context) error { return database.Ping(ctx, d.DB) },
		"cache": d.Store.Ping,
	}
}

func Limits(cfg *config.Config) router.Limits {
	return router.Limits{
		RPS:            cfg.Limits.RPS,
		Burst:          cfg.Limits.Burst,
		PerIPRPS:       cfg.Limits.PerIPRPS,
		PerIPBurst:     cfg.Limits.PerIPBurst,
		MaxConcurrent:  cfg.Limits.MaxConcurrent,
		MaxBodyBytes:   cfg.Limits.MaxBodyBytes,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
	}
}

func (d *Deps) Close() error {
	return errors.Join(d.Store.Close(), database.Close(d.DB))
}
