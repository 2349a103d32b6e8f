package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuditAdminChanges records every mutating admin request with the acting
// admin and the outcome, so price and stock edits can be traced.
func AuditAdminChanges() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		c.Next()

		log.Info().
			Str("audit", "admin").
			Str("admin_id", c.GetString(KeyUserID)).
			Str("admin_email", c.GetString(KeyEmail)).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("target", c.Param("id")).
			Int("status", c.Writer.Status()).
			Msg("📝 Admin change")
	}
}
