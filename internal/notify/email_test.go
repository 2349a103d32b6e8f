package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jp_storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu     sync.Mutex
	sent   []Email
	failTo map[string]error
}

func (m *recordingMailer) Send(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTo[e.To]; err != nil {
		return err
	}
	m.sent = append(m.sent, e)
	return nil
}

func TestEmailRelaySendsOwnerAndCustomer(t *testing.T) {
	mailer := &recordingMailer{}
	relay := NewEmailRelay(mailer)
	shop := models.DefaultShopSettings()

	res, err := relay.Notify(context.Background(), sampleOrder(), shop)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.OwnerNotified)
	assert.True(t, res.CustomerNotified)
	assert.Nil(t, res.Errors.Owner)
	assert.Nil(t, res.Errors.Customer)

	require.Len(t, mailer.sent, 2)
	owner, customer := mailer.sent[0], mailer.sent[1]
	assert.Equal(t, shop.ShopEmail, owner.To)
	assert.Equal(t, "New Order Received – JP.Vegetables & Fruits", owner.Subject)
	assert.Contains(t, owner.HTML, "#JP12345678")
	assert.Contains(t, owner.HTML, "Home Delivery")
	assert.Contains(t, owner.HTML, "₹80")

	assert.Equal(t, "priya@example.com", customer.To)
	assert.Equal(t, "Order Confirmed – JP.Vegetables & Fruits", customer.Subject)
	assert.Contains(t, customer.HTML, "Hello <strong>Priya</strong>")
	assert.Contains(t, customer.HTML, "JP.Vegetables &amp; Fruits")
	assert.Equal(t, shop.ShopName, customer.FromName)
}

func TestEmailRelaySkipsCustomerWithoutEmail(t *testing.T) {
	mailer := &recordingMailer{}
	o := sampleOrder()
	o.Email = ""

	res, err := NewEmailRelay(mailer).Notify(context.Background(), o, models.DefaultShopSettings())
	require.NoError(t, err)
	assert.True(t, res.OwnerNotified)
	assert.False(t, res.CustomerNotified)
	require.NotNil(t, res.Errors.Customer)
	assert.Equal(t, "No customer email provided", *res.Errors.Customer)
	assert.Len(t, mailer.sent, 1)
}

func TestEmailRelayRequiresShopEmail(t *testing.T) {
	mailer := &recordingMailer{}
	shop := models.DefaultShopSettings()
	shop.ShopEmail = ""

	_, err := NewEmailRelay(mailer).Notify(context.Background(), sampleOrder(), shop)
	assert.ErrorIs(t, err, ErrShopEmailMissing)
	assert.Empty(t, mailer.sent)
}

func TestEmailRelayReportsPerRecipientFailure(t *testing.T) {
	shop := models.DefaultShopSettings()
	mailer := &recordingMailer{failTo: map[string]error{shop.ShopEmail: errors.New("554 relay denied")}}

	res, err := NewEmailRelay(mailer).Notify(context.Background(), sampleOrder(), shop)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.OwnerNotified)
	require.NotNil(t, res.Errors.Owner)
	assert.Equal(t, "554 relay denied", *res.Errors.Owner)
	assert.True(t, res.CustomerNotified)
}

func TestEmailEscapesCustomerInput(t *testing.T) {
	mailer := &recordingMailer{}
	o := sampleOrder()
	o.CustomerName = `<script>alert("x")</script>`

	_, err := NewEmailRelay(mailer).Notify(context.Background(), o, models.DefaultShopSettings())
	require.NoError(t, err)
	for _, e := range mailer.sent {
		assert.NotContains(t, e.HTML, "<script>")
	}
}

func TestNotifyStatus(t *testing.T) {
	mailer := &recordingMailer{}
	relay := NewEmailRelay(mailer)
	o := sampleOrder()
	o.OrderStatus = models.StatusDelivered

	require.NoError(t, relay.NotifyStatus(context.Background(), o, models.DefaultShopSettings()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "🎉 Your order has been delivered – JP.Vegetables & Fruits", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "delivered")

	o.Email = ""
	require.NoError(t, relay.NotifyStatus(context.Background(), o, models.DefaultShopSettings()))
	assert.Len(t, mailer.sent, 1)
}
