// Package order turns a session cart and a checkout form into a stored
// order and fans out the notifications.
package order

import (
	"strconv"
	"strings"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/go-playground/validator/v10"
)

// CheckoutForm is what the customer submits at checkout.
type CheckoutForm struct {
	Name           string                `json:"name"`
	Phone          string                `json:"phone"`
	Address        string                `json:"address"`
	Email          string                `json:"email"`
	DeliveryOption models.DeliveryOption `json:"delivery_option"`
	PaymentMethod  models.PaymentMethod  `json:"payment_method"`
}

var validate = validator.New()

// Normalize trims every text field.
func (f *CheckoutForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.Email = strings.TrimSpace(f.Email)
	f.DeliveryOption = models.DeliveryOption(strings.TrimSpace(string(f.DeliveryOption)))
	f.PaymentMethod = models.PaymentMethod(strings.TrimSpace(string(f.PaymentMethod)))
}

// ValidPhone reports whether phone is exactly ten ASCII digits.
func ValidPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}

// Validate checks every field and reports all failures together.
func Validate(f CheckoutForm) error {
	var errs apperr.ValidationErrors
	if f.Name == "" {
		errs.Add("name", "name is required")
	}
	if !ValidPhone(f.Phone) {
		errs.Add("phone", "phone must be exactly 10 digits")
	}
	if f.Address == "" {
		errs.Add("address", "address is required")
	}
	if !f.DeliveryOption.Valid() {
		errs.Add("delivery_option", "delivery option must be delivery or pickup")
	}
	if f.PaymentMethod != "" && f.PaymentMethod != models.PaymentCOD {
		errs.Add("payment_method", "only cash on delivery is accepted")
	}
	if f.Email != "" && validate.Var(f.Email, "email") != nil {
		errs.Add("email", "email is not valid")
	}
	return errs.Err()
}

// GenerateOrderID is "JP" followed by the last 8 digits of the Unix
// millisecond timestamp.
func GenerateOrderID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "JP" + ms
}
