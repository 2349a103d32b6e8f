// Package handlers holds what the shop, account and admin handlers share:
// the dependency graph built in main and the error-to-HTTP mapping.
package handlers

import (
	"errors"
	"net/http"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/auth"
	"jp_storefront/internal/cache"
	"jp_storefront/internal/cart"
	"jp_storefront/internal/config"
	"jp_storefront/internal/events"
	"jp_storefront/internal/notify"
	"jp_storefront/internal/order"
	"jp_storefront/internal/repository"
	"jp_storefront/internal/search"
	"jp_storefront/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

// Deps is everything a handler may need. Store is the Redis read-through
// store; Images is nil when MinIO is not configured.
type Deps struct {
	Config   *config.Config
	Store    repository.Store
	Tokens   *cache.Tokens
	Carts    *cart.Store
	Orders   *order.Service
	Auth     *auth.Service
	Search   *search.Service
	Images   *storage.Images
	WhatsApp *notify.Relay
	Email    *notify.EmailRelay
	Feed     *events.Hub
}

// WriteError maps the apperr taxonomy onto status codes. Persistence
// details are logged, never sent to the client.
func WriteError(c *gin.Context, err error) {
	var verrs apperr.ValidationErrors
	var authErr *apperr.AuthorizationError
	var persistErr *apperr.PersistenceError

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": verrs.Error(), "fields": verrs.Fields()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperr.ErrIllegalTransition), errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
	case errors.As(err, &authErr) && errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Reason})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Reason})
	case errors.As(err, &persistErr):
		log.Error().Err(err).Str("op", persistErr.Op).Str("path", c.FullPath()).Msg("❌ Store error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable, please retry"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("❌ Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// BindJSON decodes the body into v and answers 400 on failure.
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// ParseID reads a uuid path parameter and answers 400 when malformed.
func ParseID(c *gin.Context, param string) (gocql.UUID, bool) {
	id, err := gocql.ParseUUID(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return gocql.UUID{}, false
	}
	return id, true
}

// QueryBool parses an optional boolean query parameter; absent or
// unparsable values do not filter.
func QueryBool(c *gin.Context, key string) *bool {
	switch c.Query(key) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}
