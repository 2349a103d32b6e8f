package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/cart"
	"jp_storefront/internal/events"
	"jp_storefront/internal/models"
	"jp_storefront/internal/notify"
	"jp_storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarts struct {
	mu      sync.Mutex
	carts   map[string]*cart.Cart
	loads   int
	deletes int
}

func newFakeCarts() *fakeCarts { return &fakeCarts{carts: map[string]*cart.Cart{}} }

func (f *fakeCarts) Load(_ context.Context, sid string) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if c, ok := f.carts[sid]; ok {
		cp := &cart.Cart{Lines: c.Items()}
		return cp, nil
	}
	return &cart.Cart{}, nil
}

func (f *fakeCarts) Delete(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.carts, sid)
	return nil
}

func (f *fakeCarts) put(sid string, items ...models.CartItem) {
	c := &cart.Cart{}
	for _, it := range items {
		c.AddItem(it, it.Quantity)
	}
	f.carts[sid] = c
}

// failingOrders refuses every insert.
type failingOrders struct {
	repository.OrderRepository
	inserts int
}

func (f *failingOrders) InsertOrder(context.Context, *models.Order) error {
	f.inserts++
	return apperr.Persistence("insert order", errors.New("no hosts available"))
}

// collidingOrders reports a conflict for the first n inserts.
type collidingOrders struct {
	*repository.Memory
	conflicts int
	ids       []string
}

func (c *collidingOrders) InsertOrder(ctx context.Context, o *models.Order) error {
	c.ids = append(c.ids, o.OrderID)
	if c.conflicts > 0 {
		c.conflicts--
		return apperr.ErrConflict
	}
	return c.Memory.InsertOrder(ctx, o)
}

type fakeEmail struct {
	mu       sync.Mutex
	orders   []models.Order
	statuses []models.OrderStatus
	err      error
}

func (f *fakeEmail) Notify(_ context.Context, o models.Order, _ models.ShopSettings) (notify.EmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
	if f.err != nil {
		return notify.EmailResult{}, f.err
	}
	return notify.EmailResult{Success: true, OwnerNotified: true}, nil
}

func (f *fakeEmail) NotifyStatus(_ context.Context, o models.Order, _ models.ShopSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, o.OrderStatus)
	return nil
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.OrderEvent
	err error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
	return r.err
}

type failingProvider struct{ name string }

func (p failingProvider) Name() string { return p.name }
func (p failingProvider) Deliver(context.Context, notify.Recipient, string) error {
	return &apperr.DeliveryError{Provider: p.name, Err: errors.New("connection refused")}
}

type fixture struct {
	store     *repository.Memory
	carts     *fakeCarts
	email     *fakeEmail
	publisher *recordingPublisher
	svc       *Service
}

func newFixture(t *testing.T, providers ...notify.Provider) *fixture {
	t.Helper()
	f := &fixture{
		store:     repository.NewMemory(),
		carts:     newFakeCarts(),
		email:     &fakeEmail{},
		publisher: &recordingPublisher{},
	}
	relay := notify.NewRelay(time.Second, providers...)
	f.svc = NewService(f.store, f.store, f.carts, relay, f.email, f.publisher, 2*time.Second)
	f.svc.now = func() time.Time { return time.UnixMilli(1760870400123) }
	return f
}

var tomato = models.CartItem{ProductID: "p-tomato", Name: "Tomato", Weight: "1kg", Price: 40, Quantity: 2}

func TestPlaceRejectsShortPhoneBeforeAnyStoreCall(t *testing.T) {
	f := newFixture(t)
	f.carts.put("sid", tomato)

	form := validForm()
	form.Phone = "98765432"
	_, err := f.svc.Place(context.Background(), "sid", nil, form)

	verrs := fieldErrors(t, err)
	assert.True(t, verrs.Has("phone"))
	assert.Zero(t, f.carts.loads)
	orders, _ := f.store.ListOrders(context.Background(), models.OrderFilter{})
	assert.Empty(t, orders)
}

func TestPlaceEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Place(context.Background(), "sid", nil, validForm())
	verrs := fieldErrors(t, err)
	assert.True(t, verrs.Has("items"))
}

func TestPlaceStoresOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	f.carts.put("sid", tomato)
	userID := "user-1"

	conf, err := f.svc.Place(context.Background(), "sid", &userID, validForm())
	require.NoError(t, err)

	o := conf.Order
	assert.Equal(t, "JP70400123", o.OrderID)
	assert.Equal(t, 80.0, o.TotalAmount)
	assert.True(t, o.TotalMatchesItems())
	assert.Equal(t, models.StatusPending, o.OrderStatus)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	assert.Equal(t, models.PaymentCOD, o.PaymentMethod)
	require.NotNil(t, o.UserID)
	assert.Equal(t, "user-1", *o.UserID)

	stored, err := f.store.GetOrder(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, []models.OrderItem{{ProductID: "p-tomato", Name: "Tomato", Weight: "1kg", Quantity: 2, Price: 40}}, stored.Items)

	assert.Equal(t, 1, f.carts.deletes)
	require.Len(t, f.publisher.got, 1)
	assert.Equal(t, events.OrderPlaced, f.publisher.got[0].Type)
	require.NotNil(t, conf.Email)
	assert.True(t, conf.Email.OwnerNotified)
}

func TestPlaceSucceedsWhenEveryProviderFails(t *testing.T) {
	f := newFixture(t, failingProvider{"callmebot"}, failingProvider{"whatsapp_business"})
	f.carts.put("sid", tomato)

	conf, err := f.svc.Place(context.Background(), "sid", nil, validForm())
	require.NoError(t, err)
	assert.True(t, conf.WhatsApp.Success)
	assert.Equal(t, notify.Methods{Owner: notify.MethodLogged, Customer: notify.MethodLogged}, conf.WhatsApp.Methods)
}

func TestPlaceNotificationFailuresAreNotFatal(t *testing.T) {
	f := newFixture(t)
	f.email.err = notify.ErrShopEmailMissing
	f.publisher.err = errors.New("kafka down")
	f.carts.put("sid", tomato)

	conf, err := f.svc.Place(context.Background(), "sid", nil, validForm())
	require.NoError(t, err)
	assert.Nil(t, conf.Email)

	_, err = f.store.GetOrder(context.Background(), conf.Order.OrderID)
	assert.NoError(t, err)
}

func TestPlacePersistenceFailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	orders := &failingOrders{}
	f.svc.orders = orders
	f.carts.put("sid", tomato)

	_, err := f.svc.Place(context.Background(), "sid", nil, validForm())
	var pe *apperr.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, orders.inserts)

	assert.Zero(t, f.carts.deletes)
	c, _ := f.carts.Load(context.Background(), "sid")
	assert.Equal(t, 2, c.TotalItemCount())
	assert.Empty(t, f.email.orders)
	assert.Empty(t, f.publisher.got)
}

func TestPlaceRetriesOnIDCollision(t *testing.T) {
	f := newFixture(t)
	colliding := &collidingOrders{Memory: f.store, conflicts: 1}
	f.svc.orders = colliding
	f.carts.put("sid", tomato)

	conf, err := f.svc.Place(context.Background(), "sid", nil, validForm())
	require.NoError(t, err)
	assert.Equal(t, []string{"JP70400123", "JP70400124"}, colliding.ids)
	assert.Equal(t, "JP70400124", conf.Order.OrderID)
}

func TestPlaceSurfacesPersistentCollision(t *testing.T) {
	f := newFixture(t)
	f.svc.orders = &collidingOrders{Memory: f.store, conflicts: maxIDAttempts}
	f.carts.put("sid", tomato)

	_, err := f.svc.Place(context.Background(), "sid", nil, validForm())
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Zero(t, f.carts.deletes)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.carts.put("sid", tomato)
	conf, err := f.svc.Place(context.Background(), "sid", nil, validForm())
	require.NoError(t, err)
	id := conf.Order.OrderID

	o, err := f.svc.UpdateStatus(context.Background(), id, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, o.OrderStatus)

	o, err = f.svc.UpdateStatus(context.Background(), id, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, o.PaymentStatus)

	_, err = f.svc.UpdateStatus(context.Background(), id, models.StatusPending)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)

	_, err = f.svc.UpdateStatus(context.Background(), id, "shipped")
	fieldErrors(t, err)

	assert.Equal(t, []models.OrderStatus{models.StatusConfirmed, models.StatusDelivered}, f.email.statuses)
	require.Len(t, f.publisher.got, 3)
	assert.Equal(t, events.OrderStatusChanged, f.publisher.got[2].Type)
}

func TestShopSettingsMergesDefaults(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.UpsertSettings(context.Background(), map[string]string{models.SettingWhatsAppNumber: "911234567890"}))

	shop := f.svc.ShopSettings(context.Background())
	assert.Equal(t, "911234567890", shop.WhatsAppNumber)
	assert.Equal(t, "JP.Vegetables & Fruits", shop.ShopName)
}
