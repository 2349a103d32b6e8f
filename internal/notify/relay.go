// Package notify tells the shop owner and the customer about a placed
// order, over WhatsApp and email.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/config"
	"jp_storefront/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	providerTimeout = 10 * time.Second
	// maxResponseDrain caps how much of a provider response is read before
	// the connection is released.
	maxResponseDrain = 64 << 10
)

// drain discards at most maxResponseDrain bytes of a response body.
func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxResponseDrain))
}

// Methods names the provider that handled each recipient, or "logged".
type Methods struct {
	Owner    string `json:"owner"`
	Customer string `json:"customer"`
}

type RelayResult struct {
	Success          bool    `json:"success"`
	OwnerNotified    bool    `json:"ownerNotified"`
	CustomerNotified bool    `json:"customerNotified"`
	Methods          Methods `json:"methods"`
}

// Relay walks an ordered provider chain for each recipient. When every
// provider fails the message is logged, which still counts as handled.
type Relay struct {
	providers []Provider
	timeout   time.Duration
	now       func() time.Time
}

func NewRelay(timeout time.Duration, providers ...Provider) *Relay {
	return &Relay{providers: providers, timeout: timeout, now: time.Now}
}

// ProvidersFromConfig builds the chain in fallback order, skipping
// providers without credentials.
func ProvidersFromConfig(cfg *config.Config) []Provider {
	client := &http.Client{Timeout: providerTimeout}
	var chain []Provider
	if cfg.CallMeBotAPIKey != "" {
		chain = append(chain, NewCallMeBot(cfg.CallMeBotAPIKey, client))
	}
	if cfg.WhatsAppBusinessToken != "" && cfg.WhatsAppPhoneID != "" {
		chain = append(chain, NewWhatsAppBusiness(cfg.WhatsAppBusinessToken, cfg.WhatsAppPhoneID, client))
	}
	return chain
}

// deliver tries each provider in order and returns the name of the first
// that accepts, or MethodLogged.
func (r *Relay) deliver(ctx context.Context, to Recipient, body string) string {
	for _, p := range r.providers {
		attempt := models.NotificationAttempt{Role: to.Role, Destination: to.Phone, Body: body, Provider: p.Name()}
		err := safeDeliver(ctx, p, to, body)
		attempt.Success = err == nil
		if err != nil {
			attempt.Err = err.Error()
		}
		logAttempt(attempt)
		if err == nil {
			return p.Name()
		}
	}

	log.Info().
		Str("recipient", string(to.Role)).
		Str("phone", to.Phone).
		Str("body", body).
		Msg("📲 WhatsApp notification logged")
	return MethodLogged
}

// safeDeliver turns a provider panic into a failed attempt so the chain
// moves on to the next provider.
func safeDeliver(ctx context.Context, p Provider, to Recipient, body string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &apperr.DeliveryError{Provider: p.Name(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	return p.Deliver(ctx, to, body)
}

func logAttempt(a models.NotificationAttempt) {
	if a.Success {
		log.Info().Str("provider", a.Provider).Str("recipient", string(a.Role)).Str("phone", a.Destination).
			Msg("✅ WhatsApp delivered")
		return
	}
	log.Warn().Str("provider", a.Provider).Str("recipient", string(a.Role)).Str("phone", a.Destination).
		Str("error", a.Err).Msg("⚠️ WhatsApp provider failed")
}

// Notify sends the owner and customer messages for o concurrently. The
// two deliveries are independent: one failing never affects the other.
func (r *Relay) Notify(ctx context.Context, o models.Order, ownerPhone, shopName string) RelayResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log.Info().Str("order_id", o.OrderID).Str("customer", o.CustomerName).Msg("📲 Sending order notifications")

	owner := Recipient{Role: models.RecipientOwner, Phone: CleanPhone(ownerPhone)}
	customer := Recipient{Role: models.RecipientCustomer, Phone: CleanPhone(o.Phone)}
	ownerBody := OwnerMessage(o, r.now())
	customerBody := CustomerMessage(o, shopName)

	var res RelayResult
	var g errgroup.Group
	g.Go(func() error {
		res.Methods.Owner = r.deliver(ctx, owner, ownerBody)
		return nil
	})
	g.Go(func() error {
		res.Methods.Customer = r.deliver(ctx, customer, customerBody)
		return nil
	})
	_ = g.Wait()

	// The logged fallback is terminal and reported as handled.
	res.OwnerNotified = res.Methods.Owner != ""
	res.CustomerNotified = res.Methods.Customer != ""
	res.Success = true

	log.Info().Str("order_id", o.OrderID).
		Str("owner_method", res.Methods.Owner).
		Str("customer_method", res.Methods.Customer).
		Msg("📲 Order notifications done")
	return res
}
