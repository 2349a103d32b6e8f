package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/gocql/gocql"
)

// Memory is a process-local Store for tests and STORE_BACKEND=memory.
type Memory struct {
	mu         sync.RWMutex
	products   map[gocql.UUID]models.Product
	categories map[gocql.UUID]models.Category
	orders     map[string]models.Order
	settings   map[string]string
	users      map[gocql.UUID]models.User
	emails     map[string]gocql.UUID

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		products:   make(map[gocql.UUID]models.Product),
		categories: make(map[gocql.UUID]models.Category),
		orders:     make(map[string]models.Order),
		settings:   make(map[string]string),
		users:      make(map[gocql.UUID]models.User),
		emails:     make(map[string]gocql.UUID),
		now:        time.Now,
	}
}

var _ Store = (*Memory)(nil)

func copyProduct(p models.Product) models.Product {
	p.Weights = append([]string(nil), p.Weights...)
	if p.OfferPrice != nil {
		v := *p.OfferPrice
		p.OfferPrice = &v
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		p.CategoryID = &id
	}
	return p
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	if o.UserID != nil {
		id := *o.UserID
		o.UserID = &id
	}
	return o
}

// --- catalog ---

func (m *Memory) ListProducts(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		all = append(all, copyProduct(p))
	}
	return selectProducts(all, filter), nil
}

func (m *Memory) GetProduct(_ context.Context, id gocql.UUID) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := copyProduct(p)
	return &cp, nil
}

func (m *Memory) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == (gocql.UUID{}) {
		p.ID = gocql.TimeUUID()
	}
	if _, exists := m.products[p.ID]; exists {
		return apperr.ErrConflict
	}
	now := m.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.products[p.ID] = copyProduct(*p)
	return nil
}

func (m *Memory) UpdateProduct(_ context.Context, id gocql.UUID, patch models.ProductPatch) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = m.now()
	m.products[id] = copyProduct(p)
	cp := copyProduct(p)
	return &cp, nil
}

func (m *Memory) DeleteProduct(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sortCategories(out)
	return out, nil
}

func (m *Memory) GetCategory(_ context.Context, id gocql.UUID) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &c, nil
}

func (m *Memory) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == (gocql.UUID{}) {
		c.ID = gocql.TimeUUID()
	}
	if _, exists := m.categories[c.ID]; exists {
		return apperr.ErrConflict
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now()
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) UpdateCategory(_ context.Context, id gocql.UUID, patch models.CategoryPatch) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	patch.Apply(&c)
	m.categories[id] = c
	return &c, nil
}

func (m *Memory) DeleteCategory(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// --- orders ---

func (m *Memory) InsertOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[o.OrderID]; exists {
		return fmt.Errorf("order %s: %w", o.OrderID, apperr.ErrConflict)
	}
	if o.ID == (gocql.UUID{}) {
		o.ID = gocql.TimeUUID()
	}
	now := m.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	m.orders[o.OrderID] = copyOrder(*o)
	return nil
}

func (m *Memory) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := copyOrder(o)
	return &cp, nil
}

func (m *Memory) ListOrders(_ context.Context, filter models.OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		all = append(all, copyOrder(o))
	}
	return selectOrders(all, filter), nil
}

func (m *Memory) UpdateOrderStatus(_ context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if !o.OrderStatus.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s → %s", apperr.ErrIllegalTransition, o.OrderStatus, status)
	}
	applyTransition(&o, status)
	o.UpdatedAt = m.now()
	m.orders[orderID] = o
	cp := copyOrder(o)
	return &cp, nil
}

// --- settings ---

func (m *Memory) GetSettings(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) UpsertSettings(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.settings[k] = v
	}
	return nil
}

// --- users ---

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, taken := m.emails[email]; taken {
		return apperr.ErrConflict
	}
	if u.ID == (gocql.UUID{}) {
		u.ID = gocql.TimeUUID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	u.Email = email
	m.users[u.ID] = *u
	m.emails[email] = u.ID
	return nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[strings.ToLower(email)]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u := m.users[id]
	return &u, nil
}

func (m *Memory) GetUserByID(_ context.Context, id gocql.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) UpdatePassword(_ context.Context, id gocql.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}
