package notify

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"jp_storefront/internal/models"

	"github.com/rs/zerolog/log"
)

var ErrShopEmailMissing = errors.New("shop email not configured in settings")

const noCustomerEmail = "No customer email provided"

type EmailErrors struct {
	Owner    *string `json:"owner"`
	Customer *string `json:"customer"`
}

type EmailResult struct {
	Success          bool        `json:"success"`
	OwnerNotified    bool        `json:"ownerNotified"`
	CustomerNotified bool        `json:"customerNotified"`
	Errors           EmailErrors `json:"errors"`
}

// EmailRelay sends the HTML order emails. The owner copy goes to the shop
// email from settings; the customer copy only when the order carries one.
type EmailRelay struct {
	mailer Mailer
	now    func() time.Time
}

func NewEmailRelay(m Mailer) *EmailRelay {
	return &EmailRelay{mailer: m, now: time.Now}
}

func newEmailData(o models.Order, shop models.ShopSettings, at time.Time) emailData {
	lines := make([]emailLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, emailLine{
			Name:     it.Name,
			Weight:   it.Weight,
			Quantity: it.Quantity,
			Total:    FormatAmount(it.LineTotal()),
		})
	}
	return emailData{
		ShopName:     shop.ShopName,
		ShopPhone:    shop.ShopPhone,
		ShopEmail:    shop.ShopEmail,
		ShopAddress:  shop.ShopAddress,
		OrderID:      o.OrderID,
		Timestamp:    FormatTimestamp(at),
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Lines:        lines,
		Total:        orderTotal(o),
		Delivery:     o.DeliveryOption.Label(),
		Payment:      o.PaymentMethod.Label(),
		Status:       string(o.OrderStatus),
	}
}

func errString(err error) *string {
	s := err.Error()
	return &s
}

// Notify sends both order emails. Only a missing shop email is an error;
// per-recipient failures are reported in the result.
func (r *EmailRelay) Notify(ctx context.Context, o models.Order, shop models.ShopSettings) (EmailResult, error) {
	if shop.ShopEmail == "" {
		return EmailResult{}, ErrShopEmailMissing
	}

	data := newEmailData(o, shop, r.now())
	res := EmailResult{Success: true}

	if err := r.send(ctx, ownerEmailTmpl, data, shop.ShopName, shop.ShopEmail,
		fmt.Sprintf("New Order Received – %s", shop.ShopName)); err != nil {
		log.Error().Err(err).Str("order_id", o.OrderID).Msg("❌ Owner email failed")
		res.Errors.Owner = errString(err)
	} else {
		res.OwnerNotified = true
	}

	if o.Email == "" {
		msg := noCustomerEmail
		res.Errors.Customer = &msg
	} else if err := r.send(ctx, customerEmailTmpl, data, shop.ShopName, o.Email,
		fmt.Sprintf("Order Confirmed – %s", shop.ShopName)); err != nil {
		log.Error().Err(err).Str("order_id", o.OrderID).Msg("❌ Customer email failed")
		res.Errors.Customer = errString(err)
	} else {
		res.CustomerNotified = true
	}

	log.Info().Str("order_id", o.OrderID).
		Bool("owner", res.OwnerNotified).
		Bool("customer", res.CustomerNotified).
		Msg("📧 Order emails done")
	return res, nil
}

func statusCopy(s models.OrderStatus, delivery models.DeliveryOption) (subject, line string) {
	switch s {
	case models.StatusConfirmed:
		if delivery == models.DeliveryHome {
			return "👍 Your order is being prepared", "Your order has been confirmed and is being prepared for delivery."
		}
		return "👍 Your order is being prepared", "Your order has been confirmed and will be ready for pickup shortly."
	case models.StatusDelivered:
		return "🎉 Your order has been delivered", "Your order has been delivered. Enjoy your fresh produce!"
	case models.StatusCancelled:
		return "❌ Order cancelled", "Your order has been cancelled. Contact us if this is unexpected."
	default:
		return "📋 Order update", "There is an update on your order."
	}
}

// NotifyStatus mails the customer about a status change. Orders without
// a customer email are skipped.
func (r *EmailRelay) NotifyStatus(ctx context.Context, o models.Order, shop models.ShopSettings) error {
	if o.Email == "" {
		return nil
	}
	subject, line := statusCopy(o.OrderStatus, o.DeliveryOption)
	data := newEmailData(o, shop, r.now())
	data.StatusLine = line

	err := r.send(ctx, statusEmailTmpl, data, shop.ShopName, o.Email, fmt.Sprintf("%s – %s", subject, shop.ShopName))
	if err != nil {
		log.Error().Err(err).Str("order_id", o.OrderID).Str("status", string(o.OrderStatus)).Msg("❌ Status email failed")
		return err
	}
	log.Info().Str("order_id", o.OrderID).Str("status", string(o.OrderStatus)).Str("to", o.Email).Msg("📧 Status email sent")
	return nil
}

// SendHTML sends a ready HTML body, e.g. account mails.
func (r *EmailRelay) SendHTML(ctx context.Context, fromName, to, subject, html string) error {
	return r.mailer.Send(ctx, Email{FromName: fromName, To: to, Subject: subject, HTML: html})
}

func (r *EmailRelay) send(ctx context.Context, t *template.Template, data emailData, fromName, to, subject string) error {
	html, err := render(t, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return r.mailer.Send(ctx, Email{FromName: fromName, To: to, Subject: subject, HTML: html})
}
