package admin

import (
	"net/http"
	"strings"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// orderPayload is the order shape the storefront functions accept. It is
// camelCase, unlike the stored order.
type orderPayload struct {
	OrderID         string             `json:"orderId"`
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	CustomerEmail   string             `json:"customerEmail"`
	Items           []models.OrderItem `json:"items"`
	TotalAmount     float64            `json:"totalAmount"`
	DeliveryOption  string             `json:"deliveryOption"`
	PaymentMethod   string             `json:"paymentMethod"`
}

// toOrder checks the payload and maps it onto an order. A missing total is
// taken from the items.
func (p orderPayload) toOrder() (models.Order, error) {
	o := models.Order{
		OrderID:        strings.TrimSpace(p.OrderID),
		CustomerName:   strings.TrimSpace(p.CustomerName),
		Phone:          strings.TrimSpace(p.CustomerPhone),
		Address:        strings.TrimSpace(p.CustomerAddress),
		Email:          strings.TrimSpace(p.CustomerEmail),
		Items:          p.Items,
		TotalAmount:    p.TotalAmount,
		DeliveryOption: models.DeliveryOption(strings.TrimSpace(p.DeliveryOption)),
		PaymentMethod:  models.PaymentMethod(strings.TrimSpace(p.PaymentMethod)),
	}

	var errs apperr.ValidationErrors
	if o.OrderID == "" {
		errs.Add("order.orderId", "orderId is required")
	}
	if o.Phone == "" {
		errs.Add("order.customerPhone", "customerPhone is required")
	}
	if !o.DeliveryOption.Valid() {
		errs.Add("order.deliveryOption", "deliveryOption must be delivery or pickup")
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = models.PaymentCOD
	} else if o.PaymentMethod != models.PaymentCOD {
		errs.Add("order.paymentMethod", "only cash on delivery is accepted")
	}
	if err := errs.Err(); err != nil {
		return models.Order{}, err
	}
	if o.TotalAmount == 0 {
		o.TotalAmount = models.SumItems(o.Items).InexactFloat64()
	}
	return o, nil
}

// POST /api/functions/send-whatsapp
// Re-sends the WhatsApp notifications of an order. ownerPhone defaults to
// the configured shop number.
func (h *Handler) SendWhatsApp(c *gin.Context) {
	var in struct {
		Order      orderPayload `json:"order"`
		OwnerPhone string       `json:"ownerPhone"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	o, err := in.Order.toOrder()
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	ctx := c.Request.Context()
	shop := h.d.Orders.ShopSettings(ctx)
	if in.OwnerPhone == "" {
		in.OwnerPhone = shop.WhatsAppNumber
	}
	c.JSON(http.StatusOK, h.d.WhatsApp.Notify(ctx, o, in.OwnerPhone, shop.ShopName))
}

// POST /api/functions/send-order-email
func (h *Handler) SendOrderEmail(c *gin.Context) {
	var in struct {
		Order orderPayload `json:"order"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	o, err := in.Order.toOrder()
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	ctx := c.Request.Context()
	res, err := h.d.Email.Notify(ctx, o, h.d.Orders.ShopSettings(ctx))
	if err != nil {
		log.Error().Err(err).Str("order_id", o.OrderID).Msg("❌ Order email failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
