package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/internal/service/event"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/metrics"
)

type PaymentServicer interface {
	Record(ctx context.Context, orgID uuid.UUID, req *model.RecordPaymentRequest) (*model.Payment, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.PaymentView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.PaymentFilter) ([]*model.PaymentView, error)
	Refund(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error)
	Stats(ctx context.Context, orgID uuid.UUID) (*model.PaymentStats, error)
}

// InvoiceApplier settles part or all of an invoice inside the caller's
// transaction.
type InvoiceApplier interface {
	ApplyPayment(ctx context.Context, orgID, id uuid.UUID, amount int64, paidAt time.Time) (*model.Invoice, error)
}

type Service struct {
	store    *repository.Store
	invoices InvoiceApplier
	events   *event.Emitter
	metrics  *metrics.Metrics
	clock    service.Clock
	log      *logger.Logger
}

func NewService(store *repository.Store, invoices InvoiceApplier, events *event.Emitter, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		invoices: invoices,
		events:   events,
		metrics:  m,
		clock:    service.SystemClock,
		log:      log,
	}
}

type paymentPayload struct {
	PaymentID uuid.UUID           `json:"payment_id"`
	TenantID  uuid.UUID           `json:"tenant_id"`
	InvoiceID *uuid.UUID          `json:"invoice_id,omitempty"`
	Amount    int64               `json:"amount"`
	Method    model.PaymentMethod `json:"method"`
	IsLate    bool                `json:"is_late"`
}

// Record stores a completed payment and lowers the tenant balance. When an
// invoice is named the amount is applied to it in the same transaction.
func (s *Service) Record(ctx context.Context, orgID uuid.UUID, req *model.RecordPaymentRequest) (*model.Payment, error) {
	tenantID, err := service.ParseID(req.TenantID, "tenant_id")
	if err != nil {
		return nil, err
	}
	leaseID, err := service.ParseOptionalID(req.LeaseID, "lease_id")
	if err != nil {
		return nil, err
	}
	invoiceID, err := service.ParseOptionalID(req.InvoiceID, "invoice_id")
	if err != nil {
		return nil, err
	}

	now := s.clock()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	p := &model.Payment{
		OrgScope:  model.OrgScope{OrganizationID: orgID},
		TenantID:  tenantID,
		LeaseID:   leaseID,
		InvoiceID: invoiceID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    model.PaymentStatusCompleted,
		PaidAt:    paidAt,
		DueDate:   req.DueDate,
		Reference: req.Reference,
	}

	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Tenants.Get(ctx, orgID, tenantID); err != nil {
			return service.Wrap(err, "Tenant", "get")
		}
		if invoiceID != nil {
			inv, err := s.invoices.ApplyPayment(ctx, orgID, *invoiceID, req.Amount, paidAt)
			if err != nil {
				return err
			}
			if p.DueDate == nil {
				due := inv.DueDate
				p.DueDate = &due
			}
			if p.LeaseID == nil {
				p.LeaseID = inv.LeaseID
			}
		}
		p.IsLate = model.LateAgainst(paidAt, p.DueDate)
		p.Stamp(now)
		if err := s.store.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if err := s.store.Tenants.AdjustBalance(ctx, orgID, tenantID, -p.Amount, now); err != nil {
			return service.Wrap(err, "Tenant", "update")
		}
		return s.events.Emit(ctx, orgID, model.EventPaymentRecorded, p.ID, payloadOf(p))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentsRecorded.WithLabelValues(string(p.Method)).Inc()
	s.metrics.PaymentAmount.Add(float64(p.Amount))
	return p, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.PaymentView, error) {
	p, err := s.store.Payments.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Payment", "get")
	}
	view := &model.PaymentView{Payment: p}
	if tenant, err := s.store.Tenants.Get(ctx, orgID, p.TenantID); err == nil {
		view.Tenant = tenant
	}
	return view, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.PaymentFilter) ([]*model.PaymentView, error) {
	payments, err := s.store.Payments.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	views := make([]*model.PaymentView, 0, len(payments))
	if len(payments) == 0 {
		return views, nil
	}
	tenants, err := s.store.Tenants.GetMany(ctx, orgID,
		service.CollectIDs(payments, func(p *model.Payment) *uuid.UUID { return &p.TenantID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get tenants: %w", err)
	}
	byID := service.Index(tenants)
	for _, p := range payments {
		views = append(views, &model.PaymentView{Payment: p, Tenant: byID[p.TenantID]})
	}
	return views, nil
}

// Refund reverses a completed payment. The amount goes back on the tenant's
// balance; the invoice it settled is left as is.
func (s *Service) Refund(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error) {
	var p *model.Payment
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.store.Payments.GetForUpdate(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Payment", "get")
		}
		if err := model.PaymentLifecycle.Transition(p.Status, model.PaymentStatusRefunded); err != nil {
			return err
		}
		now := s.clock()
		p.Status = model.PaymentStatusRefunded
		p.RefundedAt = &now
		p.Stamp(now)
		if err := s.store.Payments.Update(ctx, p); err != nil {
			return service.Wrap(err, "Payment", "update")
		}

		if err := s.store.Tenants.AdjustBalance(ctx, orgID, p.TenantID, p.Amount, now); err != nil {
			return service.Wrap(err, "Tenant", "update")
		}
		return s.events.Emit(ctx, orgID, model.EventPaymentRefunded, p.ID, payloadOf(p))
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("payment refunded", "payment_id", id.String(), "amount", p.Amount)
	return p, nil
}

func (s *Service) Stats(ctx context.Context, orgID uuid.UUID) (*model.PaymentStats, error) {
	payments, err := s.store.Payments.List(ctx, orgID, model.PaymentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	start, end := model.MonthBounds(s.clock())
	stats := &model.PaymentStats{}
	for _, p := range payments {
		switch p.Status {
		case model.PaymentStatusCompleted:
			if !p.PaidAt.Before(start) && p.PaidAt.Before(end) {
				stats.CollectedThisMonth += p.Amount
				stats.PaymentsThisMonth++
			}
			if p.IsLate {
				stats.LateCount++
			}
		case model.PaymentStatusRefunded:
			stats.RefundedAmount += p.Amount
		}
	}
	return stats, nil
}

func payloadOf(p *model.Payment) paymentPayload {
	return paymentPayload{
		PaymentID: p.ID,
		TenantID:  p.TenantID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		IsLate:    p.IsLate,
	}
}
