// Package repository is the data-access contract of the shop. Every
// implementation returns apperr sentinels for the outcomes callers branch
// on and wraps everything else in *apperr.PersistenceError.
package repository

import (
	"context"
	"sort"

	"jp_storefront/internal/models"

	"github.com/gocql/gocql"
)

type CatalogRepository interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id gocql.UUID, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id gocql.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id gocql.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, id gocql.UUID, patch models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id gocql.UUID) error
}

type OrderRepository interface {
	// InsertOrder fails with apperr.ErrConflict when the order id is taken.
	InsertOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	// ListOrders returns newest first.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus fails with apperr.ErrIllegalTransition when the
	// current status does not allow the move.
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	UpsertSettings(ctx context.Context, values map[string]string) error
}

type UserRepository interface {
	// CreateUser fails with apperr.ErrConflict on a duplicate email.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id gocql.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, id gocql.UUID, hash string) error
}

// Store is every repository the server needs.
type Store interface {
	CatalogRepository
	OrderRepository
	SettingsRepository
	UserRepository
}

// selectProducts applies filter, ordering and limit to an unordered slice.
func selectProducts(all []models.Product, filter models.ProductFilter) []models.Product {
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	if filter.SortByName {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func selectOrders(all []models.Order, filter models.OrderFilter) []models.Order {
	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if filter.Match(o) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func sortCategories(cats []models.Category) {
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
}

// applyTransition moves o to status, marking delivered orders as paid.
func applyTransition(o *models.Order, status models.OrderStatus) {
	o.OrderStatus = status
	if status == models.StatusDelivered {
		o.PaymentStatus = models.PaymentPaid
	}
}
