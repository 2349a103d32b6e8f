package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/gocql/gocql"
)

const orderColumns = `order_id, id, user_id, customer_name, phone, address, email, items, total_amount,
	delivery_option, payment_method, order_status, payment_status, created_at, updated_at`

// orderRow carries the item snapshot as its stored JSON text.
type orderRow struct {
	models.Order
	items string
}

func (r *orderRow) dest() []interface{} {
	return []interface{}{
		&r.OrderID, &r.ID, &r.UserID, &r.CustomerName, &r.Phone, &r.Address, &r.Email, &r.items,
		&r.TotalAmount, &r.DeliveryOption, &r.PaymentMethod, &r.OrderStatus, &r.PaymentStatus,
		&r.CreatedAt, &r.UpdatedAt,
	}
}

func (r *orderRow) decode() (models.Order, error) {
	o := r.Order
	o.Items = nil
	if r.items != "" {
		if err := json.Unmarshal([]byte(r.items), &o.Items); err != nil {
			return o, fmt.Errorf("decode items of %s: %w", o.OrderID, err)
		}
	}
	return o, nil
}

func (s *Scylla) InsertOrder(ctx context.Context, o *models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return apperr.Persistence("encode order items", err)
	}
	if o.ID == (gocql.UUID{}) {
		o.ID = gocql.TimeUUID()
	}
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	applied, err := s.cas(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`,
		o.OrderID, o.ID, o.UserID, o.CustomerName, o.Phone, o.Address, o.Email, string(items),
		o.TotalAmount, string(o.DeliveryOption), string(o.PaymentMethod), string(o.OrderStatus),
		string(o.PaymentStatus), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return apperr.Persistence("insert order", err)
	}
	if !applied {
		return fmt.Errorf("order %s: %w", o.OrderID, apperr.ErrConflict)
	}
	return nil
}

func (s *Scylla) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var row orderRow
	err := s.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID).Scan(row.dest()...)
	if err != nil {
		return nil, scanErr("get order", err)
	}
	o, err := row.decode()
	if err != nil {
		return nil, apperr.Persistence("get order", err)
	}
	return &o, nil
}

func (s *Scylla) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	iter := s.query(ctx, `SELECT `+orderColumns+` FROM orders`).Iter()

	var all []models.Order
	var row orderRow
	for iter.Scan(row.dest()...) {
		o, err := row.decode()
		if err != nil {
			_ = iter.Close()
			return nil, apperr.Persistence("list orders", err)
		}
		all = append(all, o)
		row = orderRow{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return selectOrders(all, filter), nil
}

// UpdateOrderStatus guards the write with IF order_status = <current> so a
// concurrent admin cannot push the order through two transitions at once.
func (s *Scylla) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	current := o.OrderStatus
	if !current.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s → %s", apperr.ErrIllegalTransition, current, status)
	}
	applyTransition(o, status)
	o.UpdatedAt = time.Now()

	applied, err := s.cas(ctx, `UPDATE orders SET order_status = ?, payment_status = ?, updated_at = ?
		WHERE order_id = ? IF order_status = ?`,
		string(o.OrderStatus), string(o.PaymentStatus), o.UpdatedAt, orderID, string(current))
	if err != nil {
		return nil, apperr.Persistence("update order status", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: %s changed concurrently", apperr.ErrIllegalTransition, orderID)
	}
	return o, nil
}
