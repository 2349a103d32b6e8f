package notify

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"jp_storefront/internal/apperr"

	"golang.org/x/time/rate"
)

const (
	ProviderCallMeBot = "callmebot"

	callMeBotURL = "https://api.callmebot.com/whatsapp.php"
)

// CallMeBot delivers through the free CallMeBot gateway. The gateway
// rejects bursts, so requests are throttled.
type CallMeBot struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewCallMeBot(apiKey string, client *http.Client) *CallMeBot {
	return &CallMeBot{
		apiKey:  apiKey,
		baseURL: callMeBotURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 2),
	}
}

// WithBaseURL points the provider at another endpoint (tests, proxies).
func (p *CallMeBot) WithBaseURL(u string) *CallMeBot {
	p.baseURL = u
	return p
}

func (p *CallMeBot) Name() string { return ProviderCallMeBot }

func (p *CallMeBot) Deliver(ctx context.Context, to Recipient, body string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return &apperr.DeliveryError{Provider: ProviderCallMeBot, Err: err}
	}

	q := url.Values{}
	q.Set("phone", to.Phone)
	q.Set("text", body)
	q.Set("apikey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return &apperr.DeliveryError{Provider: ProviderCallMeBot, Err: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &apperr.DeliveryError{Provider: ProviderCallMeBot, Err: err}
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperr.DeliveryError{Provider: ProviderCallMeBot, StatusCode: resp.StatusCode}
	}
	return nil
}
