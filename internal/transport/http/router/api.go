package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-gorm-cache/internal/core/server"
	mdw "go-gin-gorm-cache/internal/transport/http/middleware"
	resp "go-gin-gorm-cache/internal/transport/http/response"
)

type Limits struct {
	RPS            float64
	Burst          int
	PerIPRPS       float64
	PerIPBurst     int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Pinger checks a backing service for /health.
type Pinger func(ctx context.Context) error

type Options struct {
	Log     *zap.Logger
	Limits  Limits
	Health  map[string]Pinger
	Modules []APIModule
}

func withDefaults(l Limits) Limits {
	if l.RPS <= 0 {
		l.RPS, l.Burst = 200, 400
	}
	if l.PerIPRPS <= 0 {
		l.PerIPRPS, l.PerIPBurst = 50, 100
	}
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 16 << 20
	}
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = 10 * time.Second
	}
	return l
}

func baseEngine(l *zap.Logger, lim Limits) *gin.Engine {
	lim = withDefaults(lim)
	r := server.NewRouter(l)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.RequestTimeout),
		mdw.Metrics(),
	)
	return r
}

func healthHandler(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		failed := gin.H{}
		for name, ping := range checks {
			if err := ping(c.Request.Context()); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, resp.Resp{Success: false, Data: failed, Error: "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	}
}

// NewAPIEngine serves the user-facing routes at the root and under /api/v1.
func NewAPIEngine(o Options) *gin.Engine {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	r := baseEngine(o.Log, o.Limits)

	r.GET("/health", healthHandler(o.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Fail("route not found"))
	})

	mountAPI(&r.RouterGroup, o.Modules)
	mountAPI(r.Group("/api/v1"), o.Modules)
	return r
}
