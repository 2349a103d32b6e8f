package admin

import (
	"net/http"

	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// orderView adds the statuses the admin may move the order to.
type orderView struct {
	models.Order
	NextStatuses []models.OrderStatus `json:"next_statuses"`
}

func newOrderView(o models.Order) orderView {
	next := o.OrderStatus.NextStatuses()
	if next == nil {
		next = []models.OrderStatus{}
	}
	return orderView{Order: o, NextStatuses: next}
}

// GET /api/admin/orders?status=
func (h *Handler) ListOrders(c *gin.Context) {
	var filter models.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + raw})
			return
		}
		filter.Status = &status
	}
	orders, err := h.d.Store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	c.JSON(http.StatusOK, views)
}

// GET /api/admin/orders/:order_id
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.d.Store.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderView(*o))
}

// PATCH /api/admin/orders/:order_id/status
// An illegal move answers 409 and leaves the order untouched.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var in struct {
		Status models.OrderStatus `json:"status"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	o, err := h.d.Orders.UpdateStatus(c.Request.Context(), c.Param("order_id"), in.Status)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderView(*o))
}

// GET /api/admin/orders/feed (websocket)
func (h *Handler) OrderFeed(c *gin.Context) {
	// On a failed upgrade the upgrader has already answered the client.
	_ = h.d.Feed.Serve(c.Writer, c.Request)
}
