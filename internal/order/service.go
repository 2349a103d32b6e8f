package order

import (
	"context"
	"errors"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/cart"
	"jp_storefront/internal/events"
	"jp_storefront/internal/models"
	"jp_storefront/internal/notify"
	"jp_storefront/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxIDAttempts bounds how many ids are tried when two checkouts land on
// the same millisecond.
const maxIDAttempts = 3

type CartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

type WhatsAppNotifier interface {
	Notify(ctx context.Context, o models.Order, ownerPhone, shopName string) notify.RelayResult
}

type EmailNotifier interface {
	Notify(ctx context.Context, o models.Order, shop models.ShopSettings) (notify.EmailResult, error)
	NotifyStatus(ctx context.Context, o models.Order, shop models.ShopSettings) error
}

// Confirmation is what the customer sees after a successful checkout.
type Confirmation struct {
	Order    models.Order        `json:"order"`
	WhatsApp notify.RelayResult  `json:"whatsapp"`
	Email    *notify.EmailResult `json:"email,omitempty"`
}

type Service struct {
	orders        repository.OrderRepository
	settings      repository.SettingsRepository
	carts         CartStore
	whatsapp      WhatsAppNotifier
	email         EmailNotifier
	publisher     events.Publisher
	notifyTimeout time.Duration
	now           func() time.Time
}

func NewService(
	orders repository.OrderRepository,
	settings repository.SettingsRepository,
	carts CartStore,
	whatsapp WhatsAppNotifier,
	email EmailNotifier,
	publisher events.Publisher,
	notifyTimeout time.Duration,
) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		orders:        orders,
		settings:      settings,
		carts:         carts,
		whatsapp:      whatsapp,
		email:         email,
		publisher:     publisher,
		notifyTimeout: notifyTimeout,
		now:           time.Now,
	}
}

// ShopSettings reads the stored settings over the defaults. A store error
// falls back to the defaults so notifications still go out.
func (s *Service) ShopSettings(ctx context.Context) models.ShopSettings {
	values, err := s.settings.GetSettings(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Settings unavailable, using defaults")
		return models.DefaultShopSettings()
	}
	return models.SettingsFromMap(values)
}

// Place validates the form, stores the order built from the session cart,
// empties the cart and notifies owner and customer. Only validation and
// persistence failures are returned; a failed insert leaves the cart as is.
func (s *Service) Place(ctx context.Context, sessionID string, userID *string, form CheckoutForm) (*Confirmation, error) {
	form.Normalize()
	if err := Validate(form); err != nil {
		return nil, err
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, apperr.Invalid("items", "cart is empty")
	}

	items := c.Snapshot()
	o := models.Order{
		UserID:         userID,
		CustomerName:   form.Name,
		Phone:          form.Phone,
		Address:        form.Address,
		Email:          form.Email,
		Items:          items,
		TotalAmount:    models.SumItems(items).InexactFloat64(),
		DeliveryOption: form.DeliveryOption,
		PaymentMethod:  models.PaymentCOD,
		OrderStatus:    models.StatusPending,
		PaymentStatus:  models.PaymentPending,
	}

	if err := s.insert(ctx, &o); err != nil {
		log.Error().Err(err).Str("order_id", o.OrderID).Msg("❌ Order insert failed")
		return nil, err
	}
	log.Info().Str("order_id", o.OrderID).Float64("total", o.TotalAmount).Msg("✅ Order placed")

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("order_id", o.OrderID).Msg("⚠️ Cart not cleared after order")
	}

	conf := &Confirmation{Order: o}
	s.notify(ctx, conf)

	if err := s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderPlaced, o, s.now())); err != nil {
		log.Warn().Err(err).Str("order_id", o.OrderID).Msg("⚠️ Order event not published")
	}
	return conf, nil
}

func (s *Service) insert(ctx context.Context, o *models.Order) error {
	now := s.now()
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		o.OrderID = GenerateOrderID(now.Add(time.Duration(attempt) * time.Millisecond))
		err = s.orders.InsertOrder(ctx, o)
		if !errors.Is(err, apperr.ErrConflict) {
			return err
		}
		log.Warn().Str("order_id", o.OrderID).Msg("⚠️ Order id collision, retrying")
	}
	return err
}

// notify runs the WhatsApp and email relays side by side under one
// deadline. Their outcomes never fail the checkout.
func (s *Service) notify(ctx context.Context, conf *Confirmation) {
	if s.notifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()
	}
	shop := s.ShopSettings(ctx)

	var g errgroup.Group
	g.Go(func() error {
		conf.WhatsApp = s.whatsapp.Notify(ctx, conf.Order, shop.WhatsAppNumber, shop.ShopName)
		return nil
	})
	g.Go(func() error {
		res, err := s.email.Notify(ctx, conf.Order, shop)
		if err != nil {
			log.Warn().Err(err).Str("order_id", conf.Order.OrderID).Msg("⚠️ Order emails skipped")
			return nil
		}
		conf.Email = &res
		return nil
	})
	_ = g.Wait()
}

// UpdateStatus moves an order along its lifecycle, then mails the customer
// and publishes the change. The repository enforces legal transitions.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Invalid("status", "unknown order status "+string(status))
	}
	o, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	log.Info().Str("order_id", orderID).Str("status", string(status)).Msg("✅ Order status updated")

	mailCtx := ctx
	if s.notifyTimeout > 0 {
		var cancel context.CancelFunc
		mailCtx, cancel = context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()
	}
	if err := s.email.NotifyStatus(mailCtx, *o, s.ShopSettings(ctx)); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("⚠️ Status email not sent")
	}
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderStatusChanged, *o, s.now())); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("⚠️ Status event not published")
	}
	return o, nil
}
