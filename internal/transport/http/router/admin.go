package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-cache/internal/core/auth"
	"go-gin-gorm-cache/internal/domain"
	mdw "go-gin-gorm-cache/internal/transport/http/middleware"
)

type AdminOptions struct {
	Log     *zap.Logger
	Limits  Limits
	Health  map[string]Pinger
	JWT     *auth.JWTer
	Modules []AdminModule
}

// NewAdminEngine serves /admin/v1, restricted to admin and superuser tokens.
func NewAdminEngine(o AdminOptions) *gin.Engine {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	r := baseEngine(o.Log, o.Limits)

	r.GET("/health", healthHandler(o.Health))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(o.JWT, domain.RoleAdmin, domain.RoleSuperuser))
	mountAdmin(admin, o.Modules)
	return r
}
