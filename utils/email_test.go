package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []struct {
		to, subject, body string
	}
	err error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent = append(f.sent, struct{ to, subject, body string }{to, subject, body})
	return f.err
}

func sampleNotification() OrderNotification {
	return OrderNotification{
		ToEmail:   "shop@example.com",
		FromName:  "Jane Doe",
		FromEmail: "jane@example.com",
		Address:   "1 Main St, Springfield, IL, 62704",
		OrderDetails: []OrderEmailItem{
			{ProductName: "Day Cream", Quantity: 2, Price: 100},
			{ProductName: "Serum", Quantity: 1, Price: 150},
		},
		Total:       375,
		Subtotal:    350,
		ShippingFee: 25,
	}
}

func TestOrderItemsTable(t *testing.T) {
	table := OrderItemsTable(sampleNotification())

	assert.Contains(t, table, "Day Cream")
	assert.Contains(t, table, "Serum")
	// line total is price * quantity
	assert.Contains(t, table, "$200.00")
	assert.Contains(t, table, "$150.00")
	assert.Contains(t, table, "$375.00")
}

func TestSendOrderEmailsSendsBoth(t *testing.T) {
	mailer := &fakeMailer{}
	es := &EmailService{mailer: mailer}

	require.NoError(t, es.SendOrderEmails(sampleNotification()))
	require.Len(t, mailer.sent, 2)

	operator := mailer.sent[0]
	assert.Equal(t, "shop@example.com", operator.to)
	assert.Equal(t, "New Order Notification", operator.subject)
	assert.Contains(t, operator.body, "Jane Doe")
	assert.Contains(t, operator.body, "1 Main St")
	assert.Contains(t, operator.body, "No additional notes")

	customer := mailer.sent[1]
	assert.Equal(t, "jane@example.com", customer.to)
	assert.Equal(t, "Your Order Confirmation", customer.subject)
	assert.Contains(t, customer.body, "Thank You for Your Order")
}

func TestSendOrderEmailsIncludesNotes(t *testing.T) {
	mailer := &fakeMailer{}
	es := &EmailService{mailer: mailer}

	n := sampleNotification()
	n.Notes = "Leave at the door"
	require.NoError(t, es.SendOrderEmails(n))
	assert.Contains(t, mailer.sent[0].body, "Leave at the door")
}

func TestSendOrderEmailsPropagatesFailure(t *testing.T) {
	mailer := &fakeMailer{err: assert.AnError}
	es := &EmailService{mailer: mailer}

	assert.Error(t, es.SendOrderEmails(sampleNotification()))
}
