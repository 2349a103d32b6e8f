package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"jp_storefront/internal/apperr"
)

const (
	ProviderWhatsAppBusiness = "whatsapp_business"

	graphAPIURL = "https://graph.facebook.com/v18.0"
)

// WhatsAppBusiness delivers through the WhatsApp Business Cloud API.
type WhatsAppBusiness struct {
	token   string
	phoneID string
	baseURL string
	client  *http.Client
}

func NewWhatsAppBusiness(token, phoneID string, client *http.Client) *WhatsAppBusiness {
	return &WhatsAppBusiness{token: token, phoneID: phoneID, baseURL: graphAPIURL, client: client}
}

func (p *WhatsAppBusiness) WithBaseURL(u string) *WhatsAppBusiness {
	p.baseURL = u
	return p
}

func (p *WhatsAppBusiness) Name() string { return ProviderWhatsAppBusiness }

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

func (p *WhatsAppBusiness) Deliver(ctx context.Context, to Recipient, body string) error {
	msg := textMessage{MessagingProduct: "whatsapp", To: to.Phone, Type: "text"}
	msg.Text.Body = body
	payload, err := json.Marshal(msg)
	if err != nil {
		return &apperr.DeliveryError{Provider: ProviderWhatsAppBusiness, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/"+p.phoneID+"/messages", bytes.NewReader(payload))
	if err != nil {
		return &apperr.DeliveryError{Provider: ProviderWhatsAppBusiness, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &apperr.DeliveryError{Provider: ProviderWhatsAppBusiness, Err: err}
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperr.DeliveryError{Provider: ProviderWhatsAppBusiness, StatusCode: resp.StatusCode}
	}
	return nil
}
