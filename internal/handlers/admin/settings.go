package admin

import (
	"net/http"
	"sort"
	"strings"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GET /api/admin/settings
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.d.Orders.ShopSettings(c.Request.Context()))
}

// PUT /api/admin/settings
// Accepts any subset of the known keys; one unknown key rejects the whole
// body.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if !handlers.BindJSON(c, &values) {
		return
	}
	if len(values) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	var errs apperr.ValidationErrors
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if !models.IsSettingKey(k) {
			errs.Add(k, "unknown setting")
			continue
		}
		values[k] = strings.TrimSpace(v)
		keys = append(keys, k)
	}
	if err := errs.Err(); err != nil {
		handlers.WriteError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.d.Store.UpsertSettings(ctx, values); err != nil {
		handlers.WriteError(c, err)
		return
	}
	sort.Strings(keys)
	log.Info().Strs("keys", keys).Msg("✅ Settings saved")
	c.JSON(http.StatusOK, h.d.Orders.ShopSettings(ctx))
}
