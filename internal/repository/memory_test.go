package repository

import (
	"context"
	"testing"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func seedOrder(t *testing.T, m *Memory, orderID string, at time.Time) *models.Order {
	t.Helper()
	o := &models.Order{
		OrderID:        orderID,
		CustomerName:   "Priya",
		Phone:          "9876543210",
		Address:        "12 Anna Salai",
		Items:          []models.OrderItem{{Name: "Tomato", Weight: "1kg", Quantity: 2, Price: 40}},
		TotalAmount:    80,
		DeliveryOption: models.DeliveryHome,
		PaymentMethod:  models.PaymentCOD,
		OrderStatus:    models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      at,
	}
	require.NoError(t, m.InsertOrder(context.Background(), o))
	return o
}

func TestInsertOrderRejectsDuplicateID(t *testing.T) {
	m := NewMemory()
	seedOrder(t, m, "JP12345678", time.Now())

	err := m.InsertOrder(context.Background(), &models.Order{OrderID: "JP12345678"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	orders, err := m.ListOrders(context.Background(), models.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "Priya", orders[0].CustomerName)
}

func TestOrderItemsAreSnapshots(t *testing.T) {
	m := NewMemory()
	o := seedOrder(t, m, "JP00000001", time.Now())

	o.Items[0].Price = 999

	got, err := m.GetOrder(context.Background(), "JP00000001")
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.Items[0].Price)
	assert.True(t, got.TotalMatchesItems())
}

func TestUpdateOrderStatusStateMachine(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedOrder(t, m, "JP1", time.Now())
	seedOrder(t, m, "JP2", time.Now())

	o, err := m.UpdateOrderStatus(ctx, "JP1", models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, o.OrderStatus)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)

	o, err = m.UpdateOrderStatus(ctx, "JP1", models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, o.OrderStatus)
	assert.Equal(t, models.PaymentPaid, o.PaymentStatus)

	_, err = m.UpdateOrderStatus(ctx, "JP1", models.StatusPending)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)

	_, err = m.UpdateOrderStatus(ctx, "JP2", models.StatusCancelled)
	require.NoError(t, err)
	_, err = m.UpdateOrderStatus(ctx, "JP2", models.StatusPending)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)

	stored, err := m.GetOrder(ctx, "JP2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.OrderStatus)

	_, err = m.UpdateOrderStatus(ctx, "JP404", models.StatusConfirmed)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListOrdersNewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedOrder(t, m, "JPA", base)
	seedOrder(t, m, "JPB", base.Add(time.Hour))
	seedOrder(t, m, "JPC", base.Add(2*time.Hour))
	_, err := m.UpdateOrderStatus(ctx, "JPB", models.StatusConfirmed)
	require.NoError(t, err)

	all, err := m.ListOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"JPC", "JPB", "JPA"}, []string{all[0].OrderID, all[1].OrderID, all[2].OrderID})

	pending := models.StatusPending
	filtered, err := m.ListOrders(ctx, models.OrderFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "JPC", filtered[0].OrderID)
}

func TestProductFiltersAndPatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	veg := &models.Category{Name: "Vegetables"}
	require.NoError(t, m.CreateCategory(ctx, veg))

	base := time.Now().Add(-time.Hour)
	products := []*models.Product{
		{Name: "Tomato", Price: 40, InStock: true, IsBestSeller: true, CategoryID: &veg.ID, CreatedAt: base},
		{Name: "Apple", Price: 180, InStock: true, IsOffer: true, CreatedAt: base.Add(time.Minute)},
		{Name: "Mango", Price: 120, InStock: false, IsBestSeller: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, p := range products {
		require.NoError(t, m.CreateProduct(ctx, p))
	}

	inStock, err := m.ListProducts(ctx, models.ProductFilter{InStock: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, inStock, 2)
	assert.Equal(t, "Apple", inStock[0].Name, "newest first")

	best, err := m.ListProducts(ctx, models.ProductFilter{InStock: boolPtr(true), BestSeller: boolPtr(true), Limit: 4})
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, "Tomato", best[0].Name)

	byCategory, err := m.ListProducts(ctx, models.ProductFilter{CategoryID: &veg.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	byName, err := m.ListProducts(ctx, models.ProductFilter{SortByName: true})
	require.NoError(t, err)
	assert.Equal(t, "Apple", byName[0].Name)
	assert.Equal(t, "Tomato", byName[2].Name)

	updated, err := m.UpdateProduct(ctx, products[2].ID, models.ProductPatch{InStock: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.InStock)
	assert.Equal(t, "Mango", updated.Name)
	assert.Equal(t, 120.0, updated.Price)

	_, err = m.UpdateProduct(ctx, gocql.TimeUUID(), models.ProductPatch{InStock: boolPtr(true)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, m.DeleteProduct(ctx, products[0].ID))
	assert.ErrorIs(t, m.DeleteProduct(ctx, products[0].ID), apperr.ErrNotFound)
}

func TestCategoriesSortedByName(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, name := range []string{"Vegetables", "Fruits", "Leafy Greens"} {
		require.NoError(t, m.CreateCategory(ctx, &models.Category{Name: name}))
	}
	cats, err := m.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Fruits", cats[0].Name)
	assert.Equal(t, "Vegetables", cats[2].Name)
}

func TestUsersUniqueByEmail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u := &models.User{Email: "Owner@JP.com", Role: models.RoleAdmin, PasswordHash: "h1"}
	require.NoError(t, m.CreateUser(ctx, u))
	assert.ErrorIs(t, m.CreateUser(ctx, &models.User{Email: "owner@jp.com"}), apperr.ErrConflict)

	got, err := m.GetUserByEmail(ctx, "OWNER@jp.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, m.UpdatePassword(ctx, u.ID, "h2"))
	got, err = m.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)
}

func TestSettingsUpsertMerges(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.UpsertSettings(ctx, map[string]string{models.SettingShopName: "JP Fresh"}))
	require.NoError(t, m.UpsertSettings(ctx, map[string]string{models.SettingShopCity: "Madurai"}))

	got, err := m.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{models.SettingShopName: "JP Fresh", models.SettingShopCity: "Madurai"}, got)

	merged := models.SettingsFromMap(got)
	assert.Equal(t, "JP Fresh", merged.ShopName)
	assert.Equal(t, "order@jpvegetables.com", merged.ShopEmail)
}
