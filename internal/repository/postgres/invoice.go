package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type invoiceRepository struct {
	table[model.Invoice]
}

func NewInvoiceRepository(base BaseRepository) repository.InvoiceRepository {
	return &invoiceRepository{newTable[model.Invoice](base, "invoices", true,
		"id", "organization_id", "invoice_number", "tenant_id", "lease_id", "property_id",
		"unit_id", "line_items", "subtotal", "total", "amount_paid", "amount_due", "status",
		"issue_date", "due_date", "sent_at", "paid_at", "reminder_count", "last_reminder_at",
		"notes", "created_at", "updated_at")}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.insert(ctx, invoice)
}

func (r *invoiceRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	return r.get(ctx, orgID, id)
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error) {
	return r.getForUpdate(ctx, orgID, id)
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return r.update(ctx, invoice)
}

func (r *invoiceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *invoiceRepository) List(ctx context.Context, orgID uuid.UUID, filter model.InvoiceFilter) ([]*model.Invoice, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.TenantID != nil {
		w.add("tenant_id = $%d", *filter.TenantID)
	}
	if filter.LeaseID != nil {
		w.add("lease_id = $%d", *filter.LeaseID)
	}
	return r.list(ctx, w, "issue_date DESC, created_at DESC")
}

func (r *invoiceRepository) ListPastDue(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]*model.Invoice, error) {
	w := orgWhere(orgID).
		add("due_date < $%d", asOf).
		add("status = ANY($%d)", statusArray(model.InvoiceStatusSent, model.InvoiceStatusViewed, model.InvoiceStatusPartial))
	return r.list(ctx, w, "due_date ASC")
}
