package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-cache/internal/core/auth"
	resp "go-gin-gorm-cache/internal/transport/http/response"
)

const KeyClaims = "claims"

// AuthJWT requires a bearer token carrying one of roles (any role if none given).
func AuthJWT(j *auth.JWTer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail("missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail("invalid token"))
			return
		}
		if !claims.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Fail("forbidden"))
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}
