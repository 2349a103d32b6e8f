package middleware

import (
	"context"
	"net/http"
	"strings"

	"jp_storefront/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Context keys set by AuthRequired and OptionalAuth.
const (
	KeyUserID = "user_id"
	KeyEmail  = "email"
	KeyRole   = "role"
	KeyToken  = "token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Claims, error)
}

// bearerToken reads the Authorization header. Browsers cannot set headers
// on a websocket handshake, so upgrades may pass access_token instead.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" && websocket.IsWebSocketUpgrade(c.Request) {
		token := c.Query("access_token")
		return token, token != ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, token string, claims auth.Claims) {
	c.Set(KeyUserID, claims.UserID)
	c.Set(KeyEmail, claims.Email)
	c.Set(KeyRole, claims.Role)
	c.Set(KeyToken, token)
}

// AuthRequired rejects requests without a valid, unrevoked bearer token.
func AuthRequired(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed Authorization header"})
			return
		}
		claims, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("❌ Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		setClaims(c, token, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is sent
// and lets anonymous requests through. Checkout uses it to link orders to
// signed-in customers.
func OptionalAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := a.Authenticate(c.Request.Context(), token); err == nil {
				setClaims(c, token, claims)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or nil for guests.
func UserID(c *gin.Context) *string {
	id := c.GetString(KeyUserID)
	if id == "" {
		return nil
	}
	return &id
}
