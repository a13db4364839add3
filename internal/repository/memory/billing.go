package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type invoiceRepository struct {
	orgTable[model.Invoice, *model.Invoice]
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	if _, taken := r.first(func(i *model.Invoice) bool { return i.InvoiceNumber == invoice.InvoiceNumber }); taken {
		return repository.ErrDuplicate
	}
	r.put(ctx, invoice)
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	return r.getIn(orgID, id)
}

// GetForUpdate is Get: transactions already run one at a time.
func (r *invoiceRepository) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	return r.getIn(orgID, id)
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return r.updateIn(ctx, invoice)
}

func (r *invoiceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *invoiceRepository) List(ctx context.Context, orgID uuid.UUID, filter model.InvoiceFilter) ([]*model.Invoice, error) {
	rows := r.inOrg(orgID, func(i *model.Invoice) bool {
		if filter.Status != "" && i.Status != filter.Status {
			return false
		}
		if filter.TenantID != nil && i.TenantID != *filter.TenantID {
			return false
		}
		return filter.LeaseID == nil || (i.LeaseID != nil && *i.LeaseID == *filter.LeaseID)
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].IssueDate.After(rows[j].IssueDate) })
	return rows, nil
}

func (r *invoiceRepository) ListPastDue(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]*model.Invoice, error) {
	rows := r.inOrg(orgID, func(i *model.Invoice) bool {
		switch i.Status {
		case model.InvoiceStatusSent, model.InvoiceStatusViewed, model.InvoiceStatusPartial:
			return i.DueDate.Before(asOf)
		}
		return false
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) })
	return rows, nil
}

type paymentRepository struct {
	orgTable[model.Payment, *model.Payment]
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	r.put(ctx, payment)
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error) {
	return r.getIn(orgID, id)
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error) {
	return r.getIn(orgID, id)
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return r.updateIn(ctx, payment)
}

func (r *paymentRepository) List(ctx context.Context, orgID uuid.UUID, filter model.PaymentFilter) ([]*model.Payment, error) {
	rows := r.inOrg(orgID, func(p *model.Payment) bool {
		if filter.TenantID != nil && p.TenantID != *filter.TenantID {
			return false
		}
		if filter.LeaseID != nil && (p.LeaseID == nil || *p.LeaseID != *filter.LeaseID) {
			return false
		}
		if filter.Status != "" && p.Status != filter.Status {
			return false
		}
		return filter.DateRange.Contains(p.PaidAt)
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].PaidAt.After(rows[j].PaidAt) })
	return rows, nil
}

type expenseRepository struct {
	orgTable[model.Expense, *model.Expense]
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	r.put(ctx, expense)
	return nil
}

func (r *expenseRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Expense, error) {
	return r.getIn(orgID, id)
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return r.updateIn(ctx, expense)
}

func (r *expenseRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *expenseRepository) List(ctx context.Context, orgID uuid.UUID, filter model.ExpenseFilter) ([]*model.Expense, error) {
	rows := r.inOrg(orgID, func(e *model.Expense) bool {
		if filter.PropertyID != nil && (e.PropertyID == nil || *e.PropertyID != *filter.PropertyID) {
			return false
		}
		if filter.VendorID != nil && (e.VendorID == nil || *e.VendorID != *filter.VendorID) {
			return false
		}
		if filter.Category != "" && e.Category != filter.Category {
			return false
		}
		if filter.Status != "" && e.Status != filter.Status {
			return false
		}
		return filter.DateRange.Contains(e.Date)
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	return rows, nil
}
