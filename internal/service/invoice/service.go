package invoice

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/jwalitptl/property-api/internal/email"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/internal/service/event"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/metrics"
)

type InvoiceServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateInvoiceRequest) (*model.Invoice, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.InvoiceView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.InvoiceFilter) ([]*model.InvoiceView, error)
	Stats(ctx context.Context, orgID uuid.UUID) (*model.InvoiceStats, error)
	Send(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error)
	MarkViewed(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error)
	MarkAsPaid(ctx context.Context, orgID, id uuid.UUID, req *model.MarkPaidRequest) (*model.Invoice, *model.Payment, error)
	ApplyLateFee(ctx context.Context, orgID, id uuid.UUID, amount int64) (*model.Invoice, error)
	Cancel(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error)
	SendReminder(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error)
	MarkOverdue(ctx context.Context, orgID uuid.UUID) (int, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type Config struct {
	// DueDays is the gap between issue and due date when none is given.
	DueDays        int
	DefaultLateFee int64
	AppURL         string
}

type Service struct {
	store   *repository.Store
	events  *event.Emitter
	mailer  email.Service
	metrics *metrics.Metrics
	cfg     Config
	clock   service.Clock
	log     *logger.Logger
}

func NewService(store *repository.Store, events *event.Emitter, mailer email.Service, m *metrics.Metrics, cfg Config, log *logger.Logger) *Service {
	if cfg.DueDays <= 0 {
		cfg.DueDays = 30
	}
	return &Service{
		store:   store,
		events:  events,
		mailer:  mailer,
		metrics: m,
		cfg:     cfg,
		clock:   service.SystemClock,
		log:     log,
	}
}

type invoicePayload struct {
	InvoiceID     uuid.UUID           `json:"invoice_id"`
	InvoiceNumber string              `json:"invoice_number"`
	TenantID      uuid.UUID           `json:"tenant_id"`
	Status        model.InvoiceStatus `json:"status"`
	Total         int64               `json:"total"`
	AmountDue     int64               `json:"amount_due"`
	PaymentID     *uuid.UUID          `json:"payment_id,omitempty"`
}

func payloadOf(inv *model.Invoice) invoicePayload {
	return invoicePayload{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		TenantID:      inv.TenantID,
		Status:        inv.Status,
		Total:         inv.Total,
		AmountDue:     inv.AmountDue,
	}
}

// NewInvoiceNumber returns INV- followed by a time-ordered ULID.
func NewInvoiceNumber(now time.Time) string {
	return "INV-" + ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	tenantID, err := service.ParseID(req.TenantID, "tenant_id")
	if err != nil {
		return nil, err
	}
	leaseID, err := service.ParseOptionalID(req.LeaseID, "lease_id")
	if err != nil {
		return nil, err
	}

	now := s.clock()
	issue := now
	if req.IssueDate != nil {
		issue = req.IssueDate.UTC()
	}
	due := issue.AddDate(0, 0, s.cfg.DueDays)
	if req.DueDate != nil {
		due = req.DueDate.UTC()
	}
	if due.Before(issue) {
		return nil, apperrors.BadRequest("due_date must not be before issue_date", nil)
	}

	items := make(model.LineItems, len(req.LineItems))
	for i, item := range req.LineItems {
		if item.Type == "" {
			item.Type = model.LineItemOther
		}
		items[i] = item
	}

	inv := &model.Invoice{
		OrgScope:      model.OrgScope{OrganizationID: orgID},
		InvoiceNumber: NewInvoiceNumber(now),
		TenantID:      tenantID,
		LeaseID:       leaseID,
		LineItems:     items,
		Status:        model.InvoiceStatusDraft,
		IssueDate:     issue,
		DueDate:       due,
		Notes:         req.Notes,
	}
	inv.Recompute()

	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		tenant, err := s.store.Tenants.Get(ctx, orgID, tenantID)
		if err != nil {
			return service.Wrap(err, "Tenant", "get")
		}
		inv.PropertyID, inv.UnitID = tenant.PropertyID, tenant.UnitID
		if leaseID != nil {
			lease, err := s.store.Leases.Get(ctx, orgID, *leaseID)
			if err != nil {
				return service.Wrap(err, "Lease", "get")
			}
			if lease.TenantID != tenantID {
				return apperrors.BadRequest("lease does not belong to this tenant", nil)
			}
			inv.PropertyID, inv.UnitID = service.Ref(lease.PropertyID), service.Ref(lease.UnitID)
		}

		if req.SendImmediately {
			inv.Status = model.InvoiceStatusSent
			inv.SentAt = &now
		}
		inv.Stamp(now)
		if err := s.store.Invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		if !req.SendImmediately {
			return nil
		}
		if err := s.adjustBalance(ctx, orgID, tenantID, inv.AmountDue, now); err != nil {
			return err
		}
		return s.events.Emit(ctx, orgID, model.EventInvoiceSent, inv.ID, payloadOf(inv))
	})
	if err != nil {
		return nil, err
	}

	s.observe(inv.Status)
	if inv.Status == model.InvoiceStatusSent {
		s.notify(ctx, inv, false)
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.InvoiceView, error) {
	inv, err := s.store.Invoices.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Invoice", "get")
	}
	view := &model.InvoiceView{Invoice: inv}
	if tenant, err := s.store.Tenants.Get(ctx, orgID, inv.TenantID); err == nil {
		view.Tenant = tenant
	}
	return view, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.InvoiceFilter) ([]*model.InvoiceView, error) {
	invoices, err := s.store.Invoices.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	views := make([]*model.InvoiceView, 0, len(invoices))
	if len(invoices) == 0 {
		return views, nil
	}
	tenants, err := s.store.Tenants.GetMany(ctx, orgID,
		service.CollectIDs(invoices, func(i *model.Invoice) *uuid.UUID { return &i.TenantID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get tenants: %w", err)
	}
	byID := service.Index(tenants)
	for _, inv := range invoices {
		views = append(views, &model.InvoiceView{Invoice: inv, Tenant: byID[inv.TenantID]})
	}
	return views, nil
}

func (s *Service) Stats(ctx context.Context, orgID uuid.UUID) (*model.InvoiceStats, error) {
	invoices, err := s.store.Invoices.List(ctx, orgID, model.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	monthStart, monthEnd := model.MonthBounds(s.clock())
	stats := &model.InvoiceStats{}
	for _, inv := range invoices {
		switch {
		case inv.Status == model.InvoiceStatusDraft:
			stats.DraftCount++
		case inv.Status.Open():
			stats.OpenCount++
			stats.Outstanding += inv.AmountDue
			if inv.Status == model.InvoiceStatusOverdue {
				stats.OverdueCount++
				stats.OverdueAmount += inv.AmountDue
			}
		case inv.Status == model.InvoiceStatusPaid:
			if inv.PaidAt != nil && !inv.PaidAt.Before(monthStart) && inv.PaidAt.Before(monthEnd) {
				stats.PaidThisMonth += inv.Total
			}
		}
	}
	return stats, nil
}

// mutate locks the invoice, checks the move to `to` against the lifecycle,
// runs apply and saves, all in one transaction. The lock makes concurrent
// transitions see each other's result.
func (s *Service) mutate(ctx context.Context, orgID, id uuid.UUID, to model.InvoiceStatus,
	apply func(ctx context.Context, inv *model.Invoice, from model.InvoiceStatus, now time.Time) error,
) (*model.Invoice, error) {
	var inv *model.Invoice
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.store.Invoices.GetForUpdate(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Invoice", "get")
		}
		from := inv.Status
		if err := model.InvoiceLifecycle.Transition(from, to); err != nil {
			return err
		}
		now := s.clock()
		inv.Status = to
		if apply != nil {
			if err := apply(ctx, inv, from, now); err != nil {
				return err
			}
		}
		inv.Stamp(now)
		if err := s.store.Invoices.Update(ctx, inv); err != nil {
			return service.Wrap(err, "Invoice", "update")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.observe(to)
	s.log.Debug("invoice transition", "invoice_id", id.String(), "status", string(to))
	return inv, nil
}

// Send issues a draft: the tenant now owes the total.
func (s *Service) Send(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.mutate(ctx, orgID, id, model.InvoiceStatusSent,
		func(ctx context.Context, inv *model.Invoice, _ model.InvoiceStatus, now time.Time) error {
			inv.SentAt = &now
			if err := s.adjustBalance(ctx, orgID, inv.TenantID, inv.AmountDue, now); err != nil {
				return err
			}
			return s.events.Emit(ctx, orgID, model.EventInvoiceSent, inv.ID, payloadOf(inv))
		})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, inv, false)
	return inv, nil
}

func (s *Service) MarkViewed(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	return s.mutate(ctx, orgID, id, model.InvoiceStatusViewed, nil)
}

// MarkAsPaid settles the outstanding amount with one completed payment. A
// paid invoice cannot be paid again, so the payment is never duplicated.
func (s *Service) MarkAsPaid(ctx context.Context, orgID, id uuid.UUID, req *model.MarkPaidRequest) (*model.Invoice, *model.Payment, error) {
	method := req.Method
	if method == "" {
		method = model.PaymentMethodOther
	}

	var payment *model.Payment
	inv, err := s.mutate(ctx, orgID, id, model.InvoiceStatusPaid,
		func(ctx context.Context, inv *model.Invoice, _ model.InvoiceStatus, now time.Time) error {
			paidAt := now
			if req.PaidAt != nil {
				paidAt = req.PaidAt.UTC()
			}
			amount := inv.AmountDue
			inv.AmountPaid = inv.Total
			inv.AmountDue = 0
			inv.PaidAt = &paidAt

			due := inv.DueDate
			payment = &model.Payment{
				OrgScope:  model.OrgScope{OrganizationID: orgID},
				TenantID:  inv.TenantID,
				LeaseID:   inv.LeaseID,
				InvoiceID: service.Ref(inv.ID),
				Amount:    amount,
				Method:    method,
				Status:    model.PaymentStatusCompleted,
				PaidAt:    paidAt,
				DueDate:   &due,
				IsLate:    model.LateAgainst(paidAt, &due),
			}
			payment.Stamp(now)
			if err := s.store.Payments.Create(ctx, payment); err != nil {
				return fmt.Errorf("failed to record payment: %w", err)
			}
			if err := s.adjustBalance(ctx, orgID, inv.TenantID, -amount, now); err != nil {
				return err
			}
			p := payloadOf(inv)
			p.PaymentID = service.Ref(payment.ID)
			return s.events.Emit(ctx, orgID, model.EventInvoicePaid, inv.ID, p)
		})
	if err != nil {
		return nil, nil, err
	}
	s.metrics.PaymentsRecorded.WithLabelValues(string(payment.Method)).Inc()
	s.metrics.PaymentAmount.Add(float64(payment.Amount))
	return inv, payment, nil
}

// ApplyLateFee appends a late fee line and moves the invoice to overdue. A
// zero amount uses the configured default.
func (s *Service) ApplyLateFee(ctx context.Context, orgID, id uuid.UUID, amount int64) (*model.Invoice, error) {
	if amount == 0 {
		amount = s.cfg.DefaultLateFee
	}
	if amount <= 0 {
		return nil, apperrors.BadRequest("late fee amount must be positive", nil)
	}
	return s.mutate(ctx, orgID, id, model.InvoiceStatusOverdue,
		func(ctx context.Context, inv *model.Invoice, from model.InvoiceStatus, now time.Time) error {
			inv.AddLateFee(amount)
			if err := s.adjustBalance(ctx, orgID, inv.TenantID, amount, now); err != nil {
				return err
			}
			if from == model.InvoiceStatusOverdue {
				return nil
			}
			return s.events.Emit(ctx, orgID, model.EventInvoiceOverdue, inv.ID, payloadOf(inv))
		})
}

// Cancel voids the invoice. Whatever was issued and still unpaid comes off
// the tenant's balance.
func (s *Service) Cancel(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	return s.mutate(ctx, orgID, id, model.InvoiceStatusCancelled,
		func(ctx context.Context, inv *model.Invoice, from model.InvoiceStatus, now time.Time) error {
			if from.Open() && inv.AmountDue > 0 {
				if err := s.adjustBalance(ctx, orgID, inv.TenantID, -inv.AmountDue, now); err != nil {
					return err
				}
			}
			return s.events.Emit(ctx, orgID, model.EventInvoiceCancelled, inv.ID, payloadOf(inv))
		})
}

func (s *Service) SendReminder(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	var inv *model.Invoice
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.store.Invoices.GetForUpdate(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Invoice", "get")
		}
		if !inv.Status.Open() {
			return apperrors.Conflict(fmt.Sprintf("cannot send a reminder for a %s invoice", inv.Status))
		}
		now := s.clock()
		inv.ReminderCount++
		inv.LastReminderAt = &now
		inv.Stamp(now)
		return service.Wrap(s.store.Invoices.Update(ctx, inv), "Invoice", "update")
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, inv, true)
	return inv, nil
}

// MarkOverdue moves every issued invoice past its due date to overdue and
// returns how many moved.
func (s *Service) MarkOverdue(ctx context.Context, orgID uuid.UUID) (int, error) {
	now := s.clock()
	pastDue, err := s.store.Invoices.ListPastDue(ctx, orgID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list past due invoices: %w", err)
	}

	moved := 0
	for _, inv := range pastDue {
		if inv.Status == model.InvoiceStatusOverdue || !inv.Status.Open() {
			continue
		}
		_, err := s.mutate(ctx, orgID, inv.ID, model.InvoiceStatusOverdue,
			func(ctx context.Context, inv *model.Invoice, _ model.InvoiceStatus, _ time.Time) error {
				return s.events.Emit(ctx, orgID, model.EventInvoiceOverdue, inv.ID, payloadOf(inv))
			})
		if err != nil {
			s.log.Error(err, "failed to mark invoice overdue", "invoice_id", inv.ID.String())
			continue
		}
		moved++
	}
	return moved, nil
}

// ApplyPayment records amount against an open invoice inside the caller's
// transaction and returns the updated invoice.
func (s *Service) ApplyPayment(ctx context.Context, orgID, id uuid.UUID, amount int64, paidAt time.Time) (*model.Invoice, error) {
	inv, err := s.store.Invoices.GetForUpdate(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Invoice", "get")
	}
	if !inv.Status.Open() {
		return nil, apperrors.InvalidTransition("invoice", string(inv.Status), string(model.InvoiceStatusPartial))
	}
	if amount > inv.AmountDue {
		return nil, apperrors.BadRequest(fmt.Sprintf("payment exceeds amount due of %d", inv.AmountDue), nil)
	}

	to := inv.Apply(amount)
	if err := model.InvoiceLifecycle.Transition(inv.Status, to); err != nil {
		return nil, err
	}
	inv.Status = to
	if to == model.InvoiceStatusPaid {
		inv.PaidAt = &paidAt
	}
	inv.Stamp(s.clock())
	if err := s.store.Invoices.Update(ctx, inv); err != nil {
		return nil, service.Wrap(err, "Invoice", "update")
	}
	s.observe(to)
	return inv, nil
}

// Delete only removes drafts; issued invoices are cancelled instead.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	inv, err := s.store.Invoices.Get(ctx, orgID, id)
	if err != nil {
		return service.Wrap(err, "Invoice", "get")
	}
	if inv.Status != model.InvoiceStatusDraft {
		return apperrors.Conflict("only draft invoices can be deleted")
	}
	return service.Wrap(s.store.Invoices.Delete(ctx, orgID, id), "Invoice", "delete")
}

func (s *Service) adjustBalance(ctx context.Context, orgID, tenantID uuid.UUID, delta int64, now time.Time) error {
	return service.Wrap(s.store.Tenants.AdjustBalance(ctx, orgID, tenantID, delta, now), "Tenant", "update")
}

func (s *Service) observe(status model.InvoiceStatus) {
	s.metrics.InvoiceTransitions.WithLabelValues(string(status)).Inc()
}

// notify emails the tenant. Failures are logged; the invoice is already
// committed.
func (s *Service) notify(ctx context.Context, inv *model.Invoice, reminder bool) {
	tenant, err := s.store.Tenants.Get(ctx, inv.OrganizationID, inv.TenantID)
	if err != nil {
		s.log.Error(err, "failed to load tenant for invoice email", "invoice_id", inv.ID.String())
		return
	}
	msg := email.InvoiceMessage{
		To:            tenant.Email,
		TenantName:    tenant.FullName(),
		InvoiceNumber: inv.InvoiceNumber,
		AmountDue:     inv.AmountDue,
		DueDate:       inv.DueDate.Format("2006-01-02"),
	}
	if s.cfg.AppURL != "" {
		msg.Link = fmt.Sprintf("%s/invoices/%s", s.cfg.AppURL, inv.ID)
	}
	if org, err := s.store.Organizations.Get(ctx, inv.OrganizationID); err == nil {
		msg.OrgName = org.Name
	}

	send := s.mailer.SendInvoice
	if reminder {
		send = s.mailer.SendInvoiceReminder
	}
	if err := send(ctx, msg); err != nil {
		s.log.Error(err, "failed to send invoice email", "invoice_id", inv.ID.String())
	}
}
