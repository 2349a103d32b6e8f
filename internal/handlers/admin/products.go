package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/catalog"
	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"
	"jp_storefront/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

const indexTimeout = 5 * time.Second

// reindex keeps the search index in step with a product write. It runs
// detached from the request so a slow cluster never delays the admin.
func (h *Handler) reindex(p models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()
		if err := h.d.Search.IndexProduct(ctx, p); err != nil {
			log.Warn().Err(err).Str("product_id", p.ID.String()).Msg("⚠️ Product not indexed")
		}
	}()
}

// GET /api/admin/products?in_stock=&category=&best_seller=&offer=
func (h *Handler) ListProducts(c *gin.Context) {
	filter := models.ProductFilter{
		InStock:    handlers.QueryBool(c, "in_stock"),
		BestSeller: handlers.QueryBool(c, "best_seller"),
		Offer:      handlers.QueryBool(c, "offer"),
	}
	if raw := c.Query("category"); raw != "" {
		id, err := gocql.ParseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		filter.CategoryID = &id
	}

	products, err := h.d.Store.ListProducts(c.Request.Context(), filter)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/admin/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	p, err := h.d.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) checkCategory(ctx context.Context, id *gocql.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := h.d.Store.GetCategory(ctx, *id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Invalid("category_id", "category does not exist")
		}
		return err
	}
	return nil
}

// POST /api/admin/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var p models.Product
	if !handlers.BindJSON(c, &p) {
		return
	}
	p.ID = gocql.UUID{}
	p.CreatedAt = time.Time{}
	p.Name = strings.TrimSpace(p.Name)
	if p.Unit == "" {
		p.Unit = catalog.DefaultUnit
	}
	if !p.IsOffer {
		p.OfferPrice = nil
	}
	if err := catalog.ValidateProduct(p); err != nil {
		handlers.WriteError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.checkCategory(ctx, p.CategoryID); err != nil {
		handlers.WriteError(c, err)
		return
	}
	if err := h.d.Store.CreateProduct(ctx, &p); err != nil {
		handlers.WriteError(c, err)
		return
	}
	log.Info().Str("product_id", p.ID.String()).Str("name", p.Name).Msg("✅ Product created")
	h.reindex(p)
	c.JSON(http.StatusCreated, p)
}

// PATCH /api/admin/products/:id
// Only the fields present in the body change. The merged product is
// validated before anything is written.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	var patch models.ProductPatch
	if !handlers.BindJSON(c, &patch) {
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	ctx := c.Request.Context()
	current, err := h.d.Store.GetProduct(ctx, id)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	merged := *current
	patch.Apply(&merged)
	if err := catalog.ValidateProduct(merged); err != nil {
		handlers.WriteError(c, err)
		return
	}
	if err := h.checkCategory(ctx, patch.CategoryID); err != nil {
		handlers.WriteError(c, err)
		return
	}

	p, err := h.d.Store.UpdateProduct(ctx, id, patch)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	h.reindex(*p)
	c.JSON(http.StatusOK, p)
}

// POST /api/admin/products/:id/toggle-stock
func (h *Handler) ToggleStock(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	current, err := h.d.Store.GetProduct(ctx, id)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	inStock := !current.InStock
	p, err := h.d.Store.UpdateProduct(ctx, id, models.ProductPatch{InStock: &inStock})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	log.Info().Str("product_id", id.String()).Bool("in_stock", inStock).Msg("✅ Stock toggled")
	h.reindex(*p)
	c.JSON(http.StatusOK, p)
}

// DELETE /api/admin/products/:id
// The stored image and the search document go with the product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p, err := h.d.Store.GetProduct(ctx, id)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	if err := h.d.Store.DeleteProduct(ctx, id); err != nil {
		handlers.WriteError(c, err)
		return
	}

	if h.d.Images != nil && p.ImageURL != "" {
		if object, ours := h.d.Images.ObjectFromURL(p.ImageURL); ours {
			if err := h.d.Images.Delete(ctx, object); err != nil {
				log.Warn().Err(err).Str("product_id", id.String()).Msg("⚠️ Product image not deleted")
			}
		}
	}
	if err := h.d.Search.DeleteProduct(ctx, id); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("⚠️ Product not removed from search")
	}
	log.Info().Str("product_id", id.String()).Msg("🗑️ Product deleted")
	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "id": id})
}

// POST /api/admin/products/images (multipart field "file")
func (h *Handler) UploadImage(c *gin.Context) {
	if h.d.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if file.Size > storage.MaxImageSize {
		handlers.WriteError(c, apperr.Invalid("file", "image must be 5 MB or less"))
		return
	}
	contentType := file.Header.Get("Content-Type")
	ext, ok := storage.ExtensionFor(contentType)
	if !ok {
		handlers.WriteError(c, apperr.Invalid("file", "only JPEG, PNG, WebP and GIF images are accepted"))
		return
	}

	f, err := file.Open()
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	defer f.Close()

	url, err := h.d.Images.Upload(c.Request.Context(), storage.ObjectName(ext), f, file.Size, contentType)
	if err != nil {
		handlers.WriteError(c, apperr.Persistence("upload image", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
