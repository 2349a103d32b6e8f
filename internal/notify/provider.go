package notify

import (
	"context"

	"jp_storefront/internal/models"
)

// Recipient is who a message goes to. Phone is already cleaned.
type Recipient struct {
	Role  models.RecipientRole
	Phone string
}

// Provider is one WhatsApp transport. Deliver returns nil only when the
// message was accepted; any other outcome is an *apperr.DeliveryError.
type Provider interface {
	Name() string
	Deliver(ctx context.Context, to Recipient, body string) error
}

const MethodLogged = "logged"
