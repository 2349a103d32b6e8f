package models

type RecipientRole string

const (
	RecipientOwner    RecipientRole = "owner"
	RecipientCustomer RecipientRole = "customer"
)

// NotificationAttempt records one provider try for one recipient. It is
// logged and never stored.
type NotificationAttempt struct {
	Role        RecipientRole `json:"role"`
	Destination string        `json:"destination"`
	Body        string        `json:"-"`
	Provider    string        `json:"provider"`
	Success     bool          `json:"success"`
	Err         string        `json:"error,omitempty"`
}
