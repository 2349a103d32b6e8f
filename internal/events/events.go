// Package events publishes order lifecycle events to whoever listens:
// Kafka for downstream services, the admin live feed in process.
package events

import (
	"context"
	"errors"
	"time"

	"jp_storefront/internal/models"
)

const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Type    string             `json:"type"`
	OrderID string             `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
	Total   float64            `json:"total"`
	At      time.Time          `json:"at"`
	Order   *models.Order      `json:"order,omitempty"`
}

func NewOrderEvent(typ string, o models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:    typ,
		OrderID: o.OrderID,
		Status:  o.OrderStatus,
		Total:   o.TotalAmount,
		At:      at,
		Order:   &o,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e OrderEvent) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e OrderEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
