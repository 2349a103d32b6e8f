// Package cart holds the shopper's cart: a pure value type and its
// per-session Redis store.
package cart

import (
	"jp_storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Cart is an ordered list of lines keyed by (ProductID, Weight). Totals
// are recomputed on every call, never cached.
type Cart struct {
	Lines []models.CartItem `json:"items"`
}

func (c *Cart) index(productID, weight string) int {
	for i, it := range c.Lines {
		if it.ProductID == productID && it.Weight == weight {
			return i
		}
	}
	return -1
}

// AddItem appends item with qty, or bumps the quantity of the existing line
// with the same key. Non-positive quantities are ignored.
func (c *Cart) AddItem(item models.CartItem, qty int) {
	if qty <= 0 {
		return
	}
	if i := c.index(item.ProductID, item.Weight); i >= 0 {
		c.Lines[i].Quantity += qty
		return
	}
	item.Quantity = qty
	c.Lines = append(c.Lines, item)
}

// RemoveItem drops the line; absent keys are a no-op.
func (c *Cart) RemoveItem(productID, weight string) {
	if i := c.index(productID, weight); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// SetQuantity replaces a line's quantity. qty <= 0 behaves as RemoveItem,
// so it succeeds whether or not the line exists. Otherwise it reports
// whether the line exists.
func (c *Cart) SetQuantity(productID, weight string, qty int) bool {
	if qty <= 0 {
		c.RemoveItem(productID, weight)
		return true
	}
	i := c.index(productID, weight)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity = qty
	return true
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) TotalItemCount() int {
	n := 0
	for _, it := range c.Lines {
		n += it.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Lines {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Items returns a copy of the lines.
func (c *Cart) Items() []models.CartItem {
	return append([]models.CartItem(nil), c.Lines...)
}

// Snapshot freezes the lines into order items.
func (c *Cart) Snapshot() []models.OrderItem {
	out := make([]models.OrderItem, 0, len(c.Lines))
	for _, it := range c.Lines {
		out = append(out, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			NameTA:    it.NameTA,
			Weight:    it.Weight,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return out
}

// View is the JSON shape returned by the cart endpoints.
type View struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

func (c *Cart) View() View {
	items := c.Items()
	if items == nil {
		items = []models.CartItem{}
	}
	return View{
		Items:      items,
		TotalItems: c.TotalItemCount(),
		TotalPrice: c.TotalPrice().InexactFloat64(),
	}
}
