package models

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

type DeliveryOption string

const (
	DeliveryHome   DeliveryOption = "delivery"
	DeliveryPickup DeliveryOption = "pickup"
)

func (d DeliveryOption) Valid() bool {
	return d == DeliveryHome || d == DeliveryPickup
}

// Label is the human wording used in notifications.
func (d DeliveryOption) Label() string {
	if d == DeliveryHome {
		return "Home Delivery"
	}
	return "Store Pickup"
}

type PaymentMethod string

// PaymentCOD is the only payment method the shop accepts.
const PaymentCOD PaymentMethod = "cod"

func (p PaymentMethod) Label() string {
	return "Cash on Delivery"
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// NextStatuses lists the legal targets from s. Terminal statuses return nil.
func (s OrderStatus) NextStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderTransitions[s]...)
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// OrderItem is a frozen copy of a cart line taken at submission time.
type OrderItem struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	NameTA    string  `json:"nameTA,omitempty"`
	Weight    string  `json:"weight"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// LineTotal is price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems adds up the line totals.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type Order struct {
	ID             gocql.UUID     `json:"id"`
	OrderID        string         `json:"order_id"`
	UserID         *string        `json:"user_id,omitempty"`
	CustomerName   string         `json:"customer_name"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	Email          string         `json:"email,omitempty"`
	Items          []OrderItem    `json:"items"`
	TotalAmount    float64        `json:"total_amount"`
	DeliveryOption DeliveryOption `json:"delivery_option"`
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	OrderStatus    OrderStatus    `json:"order_status"`
	PaymentStatus  PaymentStatus  `json:"payment_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TotalMatchesItems checks the stored total against the item snapshot.
func (o Order) TotalMatchesItems() bool {
	return SumItems(o.Items).Equal(decimal.NewFromFloat(o.TotalAmount))
}

type OrderFilter struct {
	Status *OrderStatus
	UserID *string
}

func (f OrderFilter) Match(o Order) bool {
	if f.Status != nil && o.OrderStatus != *f.Status {
		return false
	}
	if f.UserID != nil && (o.UserID == nil || *o.UserID != *f.UserID) {
		return false
	}
	return true
}
