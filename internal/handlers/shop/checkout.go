package shop

import (
	"net/http"

	"jp_storefront/internal/handlers"
	"jp_storefront/internal/middleware"
	"jp_storefront/internal/order"

	"github.com/gin-gonic/gin"
)

// POST /api/checkout
// Places a cash-on-delivery order from the session cart. Signed-in
// customers get the order linked to their account.
func (h *Handler) Checkout(c *gin.Context) {
	var form order.CheckoutForm
	if !handlers.BindJSON(c, &form) {
		return
	}
	conf, err := h.d.Orders.Place(c.Request.Context(), middleware.SessionID(c), middleware.UserID(c), form)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}
