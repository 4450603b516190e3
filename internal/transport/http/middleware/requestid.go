package middleware

import (
	"github.com/gin-gonic/gin"

	"go-gin-gorm-cache/pkg/utils"
)

const KeyRequestID = "X-Request-ID"

const maxRequestIDLen = 64

// RequestID echoes a caller-supplied id or mints one. Ids that are too long
// or carry non-printable bytes are replaced so they can't poison the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if !usableRequestID(rid) {
			rid = utils.NewID()
		}
		c.Header(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

func usableRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
