package admin

import (
	"net/http"
	"strings"
	"time"

	"jp_storefront/internal/catalog"
	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

// GET /api/admin/categories
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.d.Store.ListCategories(c.Request.Context())
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// POST /api/admin/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var cat models.Category
	if !handlers.BindJSON(c, &cat) {
		return
	}
	cat.ID = gocql.UUID{}
	cat.CreatedAt = time.Time{}
	cat.Name = strings.TrimSpace(cat.Name)
	if err := catalog.ValidateCategory(cat); err != nil {
		handlers.WriteError(c, err)
		return
	}
	if err := h.d.Store.CreateCategory(c.Request.Context(), &cat); err != nil {
		handlers.WriteError(c, err)
		return
	}
	log.Info().Str("category_id", cat.ID.String()).Str("name", cat.Name).Msg("✅ Category created")
	c.JSON(http.StatusCreated, cat)
}

// PATCH /api/admin/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	var patch models.CategoryPatch
	if !handlers.BindJSON(c, &patch) {
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if patch.Name != nil {
		if err := catalog.ValidateCategory(models.Category{Name: *patch.Name}); err != nil {
			handlers.WriteError(c, err)
			return
		}
	}
	cat, err := h.d.Store.UpdateCategory(c.Request.Context(), id, patch)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// DELETE /api/admin/categories/:id
// Products of the category keep their category_id; the storefront shows
// them uncategorised.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.d.Store.DeleteCategory(c.Request.Context(), id); err != nil {
		handlers.WriteError(c, err)
		return
	}
	log.Info().Str("category_id", id.String()).Msg("🗑️ Category deleted")
	c.JSON(http.StatusOK, gin.H{"message": "category deleted", "id": id})
}
