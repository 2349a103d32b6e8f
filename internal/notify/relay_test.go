package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/config"
	"jp_storefront/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider fails for the roles listed in failFor.
type fakeProvider struct {
	name    string
	failFor map[models.RecipientRole]bool
	delay   time.Duration

	mu    sync.Mutex
	calls []Recipient
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Deliver(ctx context.Context, to Recipient, _ string) error {
	f.mu.Lock()
	f.calls = append(f.calls, to)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return &apperr.DeliveryError{Provider: f.name, Err: ctx.Err()}
		}
	}
	if f.failFor[to.Role] {
		return &apperr.DeliveryError{Provider: f.name, StatusCode: http.StatusBadGateway}
	}
	return nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var failAll = map[models.RecipientRole]bool{models.RecipientOwner: true, models.RecipientCustomer: true}

func TestRelayFirstProviderSucceeds(t *testing.T) {
	first := &fakeProvider{name: "first"}
	second := &fakeProvider{name: "second"}
	r := NewRelay(time.Second, first, second)

	res := r.Notify(context.Background(), sampleOrder(), "+91 98765 43210", "JP")
	assert.True(t, res.Success)
	assert.Equal(t, Methods{Owner: "first", Customer: "first"}, res.Methods)
	assert.Equal(t, 0, second.callCount())
}

func TestRelayFallsBackToNextProvider(t *testing.T) {
	first := &fakeProvider{name: "first", failFor: failAll}
	second := &fakeProvider{name: "second"}
	r := NewRelay(time.Second, first, second)

	res := r.Notify(context.Background(), sampleOrder(), "919876543210", "JP")
	assert.True(t, res.Success)
	assert.True(t, res.OwnerNotified)
	assert.True(t, res.CustomerNotified)
	assert.Equal(t, "second", res.Methods.Owner)
	assert.Equal(t, "second", res.Methods.Customer)
}

func TestRelayAllProvidersFailIsLogged(t *testing.T) {
	first := &fakeProvider{name: "first", failFor: failAll}
	second := &fakeProvider{name: "second", failFor: failAll}
	r := NewRelay(time.Second, first, second)

	res := r.Notify(context.Background(), sampleOrder(), "919876543210", "JP")
	assert.True(t, res.Success)
	assert.True(t, res.OwnerNotified)
	assert.Equal(t, Methods{Owner: MethodLogged, Customer: MethodLogged}, res.Methods)
}

func TestRelayWithoutProvidersLogs(t *testing.T) {
	res := NewRelay(time.Second).Notify(context.Background(), sampleOrder(), "919876543210", "JP")
	assert.True(t, res.Success)
	assert.Equal(t, Methods{Owner: MethodLogged, Customer: MethodLogged}, res.Methods)
}

func TestRelayRecipientsAreIndependent(t *testing.T) {
	first := &fakeProvider{name: "first", failFor: map[models.RecipientRole]bool{models.RecipientCustomer: true}}
	r := NewRelay(time.Second, first)

	res := r.Notify(context.Background(), sampleOrder(), "919876543210", "JP")
	assert.Equal(t, "first", res.Methods.Owner)
	assert.Equal(t, MethodLogged, res.Methods.Customer)
}

func TestRelayCleansPhones(t *testing.T) {
	p := &fakeProvider{name: "p"}
	NewRelay(time.Second, p).Notify(context.Background(), sampleOrder(), "+91 98765-43210", "JP")

	phones := map[models.RecipientRole]string{}
	for _, c := range p.calls {
		phones[c.Role] = c.Phone
	}
	assert.Equal(t, "919876543210", phones[models.RecipientOwner])
	assert.Equal(t, "9876543210", phones[models.RecipientCustomer])
}

type panickingProvider struct{}

func (panickingProvider) Name() string { return "broken" }

func (panickingProvider) Deliver(context.Context, Recipient, string) error {
	panic("nil map write")
}

func TestRelayProviderPanicFallsThrough(t *testing.T) {
	next := &fakeProvider{name: "next"}
	r := NewRelay(time.Second, panickingProvider{}, next)

	res := r.Notify(context.Background(), sampleOrder(), "919876543210", "JP")
	assert.True(t, res.Success)
	assert.Equal(t, Methods{Owner: "next", Customer: "next"}, res.Methods)
}

func TestLoggedFallbackKeepsBody(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	body := OwnerMessage(sampleOrder(), time.Now())
	method := NewRelay(time.Second).deliver(context.Background(),
		Recipient{Role: models.RecipientOwner, Phone: "919876543210"}, body)
	require.Equal(t, MethodLogged, method)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, body, entry["body"])
	assert.Equal(t, "📲 WhatsApp notification logged", entry["message"])
	assert.Equal(t, "owner", entry["recipient"])
}

// endless never reaches EOF and counts what was read from it.
type endless struct{ n int }

func (e *endless) Read(p []byte) (int, error) {
	e.n += len(p)
	return len(p), nil
}

func TestDrainIsBounded(t *testing.T) {
	r := &endless{}
	drain(r)
	assert.Equal(t, maxResponseDrain, r.n)
}

func TestRelayTimeoutFallsBackToLogged(t *testing.T) {
	slow := &fakeProvider{name: "slow", delay: time.Second}
	r := NewRelay(50*time.Millisecond, slow)

	start := time.Now()
	res := r.Notify(context.Background(), sampleOrder(), "919876543210", "JP")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, Methods{Owner: MethodLogged, Customer: MethodLogged}, res.Methods)
}

func TestCallMeBotDeliver(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"phone":  r.URL.Query().Get("phone"),
			"text":   r.URL.Query().Get("text"),
			"apikey": r.URL.Query().Get("apikey"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewCallMeBot("key-123", srv.Client()).WithBaseURL(srv.URL)
	err := p.Deliver(context.Background(), Recipient{Role: models.RecipientOwner, Phone: "919876543210"}, "Tomato (1kg) x2 = ₹80")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phone": "919876543210", "text": "Tomato (1kg) x2 = ₹80", "apikey": "key-123"}, got)
}

func TestCallMeBotNon2xxIsDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewCallMeBot("k", srv.Client()).WithBaseURL(srv.URL).
		Deliver(context.Background(), Recipient{Phone: "1"}, "hi")
	var de *apperr.DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, ProviderCallMeBot, de.Provider)
	assert.Equal(t, http.StatusServiceUnavailable, de.StatusCode)
}

func TestWhatsAppBusinessDeliver(t *testing.T) {
	var (
		path, auth string
		body       textMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewWhatsAppBusiness("tok", "phone-1", srv.Client()).WithBaseURL(srv.URL)
	require.NoError(t, p.Deliver(context.Background(), Recipient{Phone: "919876543210"}, "hello"))

	assert.Equal(t, "/phone-1/messages", path)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "whatsapp", body.MessagingProduct)
	assert.Equal(t, "919876543210", body.To)
	assert.Equal(t, "text", body.Type)
	assert.Equal(t, "hello", body.Text.Body)
}

func TestRelayOverHTTPProviders(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	r := NewRelay(2*time.Second,
		NewCallMeBot("k", failing.Client()).WithBaseURL(failing.URL),
		NewWhatsAppBusiness("t", "id", ok.Client()).WithBaseURL(ok.URL),
	)
	res := r.Notify(context.Background(), sampleOrder(), "919876543210", "JP")
	assert.Equal(t, Methods{Owner: ProviderWhatsAppBusiness, Customer: ProviderWhatsAppBusiness}, res.Methods)
}

func TestProvidersFromConfig(t *testing.T) {
	assert.Empty(t, ProvidersFromConfig(&config.Config{}))

	chain := ProvidersFromConfig(&config.Config{
		CallMeBotAPIKey:       "k",
		WhatsAppBusinessToken: "t",
		WhatsAppPhoneID:       "id",
	})
	require.Len(t, chain, 2)
	assert.Equal(t, ProviderCallMeBot, chain[0].Name())
	assert.Equal(t, ProviderWhatsAppBusiness, chain[1].Name())

	chain = ProvidersFromConfig(&config.Config{WhatsAppBusinessToken: "t"})
	assert.Empty(t, chain)
}
