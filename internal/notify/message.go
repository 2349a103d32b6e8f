package notify

import (
	"fmt"
	"strings"
	"time"

	"jp_storefront/internal/models"

	"github.com/shopspring/decimal"
)

// India has no DST, a fixed zone avoids depending on the host tz database.
var kolkata = time.FixedZone("IST", 5*60*60+30*60)

// ShopTime converts t to the shop's time zone.
func ShopTime(t time.Time) time.Time {
	return t.In(kolkata)
}

// CleanPhone strips spaces, '+' and '-' from a phone number.
func CleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '+', '-':
			return -1
		}
		return r
	}, phone)
}

// FormatAmount renders a rupee amount: whole amounts without decimals,
// others with at most two.
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return "₹" + d.StringFixed(0)
	}
	return "₹" + d.Round(2).String()
}

// ItemLine renders one order line, e.g. "Tomato (1kg) x2 = ₹80".
func ItemLine(item models.OrderItem) string {
	return fmt.Sprintf("%s (%s) x%d = %s", item.Name, item.Weight, item.Quantity, FormatAmount(item.LineTotal()))
}

// FormatItems renders one bulleted ItemLine per item.
func FormatItems(items []models.OrderItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "• "+ItemLine(it))
	}
	return strings.Join(lines, "\n")
}

// FormatTimestamp renders t in shop time, e.g. "19 Oct 2026, 3:04 pm".
func FormatTimestamp(t time.Time) string {
	return t.In(kolkata).Format("2 Jan 2006, 3:04 pm")
}

func orderTotal(o models.Order) string {
	return FormatAmount(decimal.NewFromFloat(o.TotalAmount))
}

// OwnerMessage is the WhatsApp text sent to the shop owner.
func OwnerMessage(o models.Order, at time.Time) string {
	var b strings.Builder
	b.WriteString("🛒 *NEW ORDER RECEIVED!*\n")
	b.WriteString("━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(&b, "*Order ID:* #%s\n", o.OrderID)
	fmt.Fprintf(&b, "*Time:* %s\n\n", FormatTimestamp(at))
	b.WriteString("👤 *Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "Address: %s\n\n", o.Address)
	b.WriteString("📦 *Items Ordered:*\n")
	b.WriteString(FormatItems(o.Items))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "💰 *Total Amount:* %s\n", orderTotal(o))
	fmt.Fprintf(&b, "🚚 *Delivery:* %s\n", o.DeliveryOption.Label())
	fmt.Fprintf(&b, "💳 *Payment:* %s\n\n", o.PaymentMethod.Label())
	b.WriteString("Please prepare this order! 🥬🍎")
	return b.String()
}

// CustomerMessage is the WhatsApp confirmation sent to the customer.
func CustomerMessage(o models.Order, shopName string) string {
	closing := "Your order will be ready for pickup shortly!"
	if o.DeliveryOption == models.DeliveryHome {
		closing = "We will deliver to your doorstep soon!"
	}

	var b strings.Builder
	b.WriteString("✅ *ORDER CONFIRMED!*\n\n")
	fmt.Fprintf(&b, "Hello %s! 👋\n\n", o.CustomerName)
	fmt.Fprintf(&b, "Your order at *%s* is confirmed! 🥬🍎\n\n", shopName)
	fmt.Fprintf(&b, "*Order ID:* #%s\n", o.OrderID)
	fmt.Fprintf(&b, "*Total:* %s\n", orderTotal(o))
	fmt.Fprintf(&b, "*Delivery:* %s\n\n", o.DeliveryOption.Label())
	b.WriteString(closing)
	b.WriteString("\n\nThank you for choosing us! 🌿")
	return b.String()
}
