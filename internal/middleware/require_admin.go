package middleware

import (
	"net/http"

	"jp_storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after AuthRequired.
func RequireAdmin(c *gin.Context) {
	if c.GetString(KeyRole) != models.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	c.Next()
}
