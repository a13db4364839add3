package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/property-api/pkg/logger"
)

// Service sends the transactional mails of the platform.
type Service interface {
	SendInvoice(ctx context.Context, msg InvoiceMessage) error
	SendInvoiceReminder(ctx context.Context, msg InvoiceMessage) error
	SendPortalInvite(ctx context.Context, to, name, orgName string) error
	SendApplicationInvite(ctx context.Context, to, name, orgName, link string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// InvoiceMessage carries what a tenant needs to see about an invoice.
type InvoiceMessage struct {
	To            string
	TenantName    string
	OrgName       string
	InvoiceNumber string
	AmountDue     int64
	DueDate       string
	Link          string
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
}

// Sender is the transport; *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	sender Sender
	from   string
	log    *logger.Logger
}

// NewService returns an SMTP-backed service, or a logging one when no SMTP
// host is configured.
func NewService(cfg Config, log *logger.Logger) Service {
	if cfg.Host == "" {
		return &logService{log: log}
	}
	return NewSMTPService(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, log)
}

func NewSMTPService(sender Sender, from string, log *logger.Logger) Service {
	return &smtpService{sender: sender, from: from, log: log}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.log.Debug("email sent", "to", to, "subject", subject)
	return nil
}

func (s *smtpService) SendInvoice(_ context.Context, msg InvoiceMessage) error {
	subject, body := invoiceMail(msg, false)
	return s.send(msg.To, subject, body)
}

func (s *smtpService) SendInvoiceReminder(_ context.Context, msg InvoiceMessage) error {
	subject, body := invoiceMail(msg, true)
	return s.send(msg.To, subject, body)
}

func (s *smtpService) SendPortalInvite(_ context.Context, to, name, orgName string) error {
	subject, body := portalInviteMail(name, orgName)
	return s.send(to, subject, body)
}

func (s *smtpService) SendApplicationInvite(_ context.Context, to, name, orgName, link string) error {
	subject, body := applicationInviteMail(name, orgName, link)
	return s.send(to, subject, body)
}

func (s *smtpService) SendCustom(_ context.Context, to string, subject string, content string) error {
	return s.send(to, subject, content)
}

// logService writes mails to the log instead of sending them.
type logService struct {
	log *logger.Logger
}

func (s *logService) record(to, subject string) error {
	s.log.Info("email not sent, smtp disabled", "to", to, "subject", subject)
	return nil
}

func (s *logService) SendInvoice(_ context.Context, msg InvoiceMessage) error {
	subject, _ := invoiceMail(msg, false)
	return s.record(msg.To, subject)
}

func (s *logService) SendInvoiceReminder(_ context.Context, msg InvoiceMessage) error {
	subject, _ := invoiceMail(msg, true)
	return s.record(msg.To, subject)
}

func (s *logService) SendPortalInvite(_ context.Context, to, name, orgName string) error {
	subject, _ := portalInviteMail(name, orgName)
	return s.record(to, subject)
}

func (s *logService) SendApplicationInvite(_ context.Context, to, name, orgName, link string) error {
	subject, _ := applicationInviteMail(name, orgName, link)
	return s.record(to, subject)
}

func (s *logService) SendCustom(_ context.Context, to string, subject string, _ string) error {
	return s.record(to, subject)
}
