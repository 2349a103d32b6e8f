// Package shop serves the customer storefront: catalog, session cart and
// checkout.
package shop

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"
	"jp_storefront/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/skip2/go-qrcode"
)

// featuredLimit is how many best sellers and offers the home page shows.
const featuredLimit = 4

type Handler struct {
	d *handlers.Deps
}

func New(d *handlers.Deps) *Handler {
	return &Handler{d: d}
}

// GET /api/shop/settings
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.d.Orders.ShopSettings(c.Request.Context()))
}

// GET /api/shop/whatsapp-qr?text=
// PNG QR code opening a WhatsApp chat with the shop.
func (h *Handler) WhatsAppQR(c *gin.Context) {
	shop := h.d.Orders.ShopSettings(c.Request.Context())
	link := "https://wa.me/" + notify.CleanPhone(shop.WhatsAppNumber)
	if text := strings.TrimSpace(c.Query("text")); text != "" {
		link += "?text=" + url.QueryEscape(text)
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > 1024 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.d.Store.ListCategories(c.Request.Context())
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GET /api/products?category=&offers=true
// Only in-stock products, newest first.
func (h *Handler) ListProducts(c *gin.Context) {
	inStock := true
	filter := models.ProductFilter{InStock: &inStock}
	if raw := c.Query("category"); raw != "" {
		id, err := gocql.ParseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		filter.CategoryID = &id
	}
	if offers := handlers.QueryBool(c, "offers"); offers != nil && *offers {
		filter.Offer = offers
	}

	products, err := h.d.Store.ListProducts(c.Request.Context(), filter)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) featured(c *gin.Context, filter models.ProductFilter) {
	inStock := true
	filter.InStock = &inStock
	filter.Limit = featuredLimit
	products, err := h.d.Store.ListProducts(c.Request.Context(), filter)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/best-sellers
func (h *Handler) BestSellers(c *gin.Context) {
	yes := true
	h.featured(c, models.ProductFilter{BestSeller: &yes})
}

// GET /api/products/offers
func (h *Handler) Offers(c *gin.Context) {
	yes := true
	h.featured(c, models.ProductFilter{Offer: &yes})
}

// GET /api/products/search?q=
func (h *Handler) Search(c *gin.Context) {
	products, err := h.d.Search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/:id
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

// GET /api/weights
func (h *Handler) Weights(c *gin.Context) {
	c.JSON(http.StatusOK, models.WeightOptions)
}
