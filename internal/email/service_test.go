package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/property-api/pkg/logger"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSMTPService_SendInvoice(t *testing.T) {
	sender := &fakeSender{}
	svc := NewSMTPService(sender, "billing@example.com", logger.Nop())

	err := svc.SendInvoice(context.Background(), InvoiceMessage{
		To:            "tenant@example.com",
		TenantName:    "Ada",
		OrgName:       "Acme Rentals",
		InvoiceNumber: "INV-1",
		AmountDue:     150050,
		DueDate:       "2024-05-01",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"tenant@example.com"}, sender.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Invoice INV-1 from Acme Rentals"}, sender.sent[0].GetHeader("Subject"))
}

func TestSMTPService_SendError(t *testing.T) {
	svc := NewSMTPService(&fakeSender{err: errors.New("dial tcp: refused")}, "x@example.com", logger.Nop())
	err := svc.SendPortalInvite(context.Background(), "t@example.com", "T", "Acme")
	assert.ErrorContains(t, err, "failed to send email")
}

func TestNewService_WithoutHostLogs(t *testing.T) {
	svc := NewService(Config{}, logger.Nop())
	assert.NoError(t, svc.SendApplicationInvite(context.Background(), "p@example.com", "", "Acme", "http://x"))
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, "$1500.50", FormatCents(150050))
	assert.Equal(t, "-$0.05", FormatCents(-5))

	subject, body := invoiceMail(InvoiceMessage{InvoiceNumber: "INV-9", OrgName: "Acme", AmountDue: 100}, true)
	assert.Equal(t, "Reminder: Invoice INV-9 from Acme", subject)
	assert.Contains(t, body, "$1.00")
}
