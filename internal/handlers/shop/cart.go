package shop

import (
	"net/http"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/cart"
	"jp_storefront/internal/catalog"
	"jp_storefront/internal/handlers"
	"jp_storefront/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

type cartLineInput struct {
	ProductID string `json:"product_id"`
	Weight    string `json:"weight"`
	Quantity  int    `json:"quantity"`
}

// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	crt, err := h.d.Carts.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

// POST /api/cart/items
// The unit price is resolved here from the catalog; the client never
// sends one.
func (h *Handler) AddItem(c *gin.Context) {
	var in cartLineInput
	if !handlers.BindJSON(c, &in) {
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		handlers.WriteError(c, apperr.Invalid("quantity", "quantity must be positive"))
		return
	}
	id, err := gocql.ParseUUID(in.ProductID)
	if err != nil {
		handlers.WriteError(c, apperr.Invalid("product_id", "invalid product id"))
		return
	}

	ctx := c.Request.Context()
	p, err := h.d.Store.GetProduct(ctx, id)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	item, err := catalog.CartItem(*p, in.Weight)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	crt, err := h.d.Carts.Update(ctx, middleware.SessionID(c), func(crt *cart.Cart) error {
		crt.AddItem(item, in.Quantity)
		return nil
	})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

// PATCH /api/cart/items
// A quantity of zero or less removes the line, or does nothing when the
// line is absent. Any other quantity on an absent line is a 404.
func (h *Handler) SetQuantity(c *gin.Context) {
	var in cartLineInput
	if !handlers.BindJSON(c, &in) {
		return
	}
	crt, err := h.d.Carts.Update(c.Request.Context(), middleware.SessionID(c), func(crt *cart.Cart) error {
		if !crt.SetQuantity(in.ProductID, in.Weight, in.Quantity) {
			return apperr.ErrNotFound
		}
		return nil
	})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

// DELETE /api/cart/items/:product_id/:weight
func (h *Handler) RemoveItem(c *gin.Context) {
	crt, err := h.d.Carts.Update(c.Request.Context(), middleware.SessionID(c), func(crt *cart.Cart) error {
		crt.RemoveItem(c.Param("product_id"), c.Param("weight"))
		return nil
	})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

// DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.d.Carts.Delete(c.Request.Context(), middleware.SessionID(c)); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, (&cart.Cart{}).View())
}
