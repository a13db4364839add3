package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type paymentRepository struct {
	table[model.Payment]
}

func NewPaymentRepository(base BaseRepository) repository.PaymentRepository {
	return &paymentRepository{newTable[model.Payment](base, "payments", true,
		"id", "organization_id", "tenant_id", "lease_id", "invoice_id", "amount", "method",
		"status", "paid_at", "due_date", "is_late", "reference", "refunded_at",
		"created_at", "updated_at")}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.insert(ctx, payment)
}

func (r *paymentRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error) {
	return r.get(ctx, orgID, id)
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error) {
	return r.getForUpdate(ctx, orgID, id)
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return r.update(ctx, payment)
}

func (r *paymentRepository) List(ctx context.Context, orgID uuid.UUID, filter model.PaymentFilter) ([]*model.Payment, error) {
	w := orgWhere(orgID)
	if filter.TenantID != nil {
		w.add("tenant_id = $%d", *filter.TenantID)
	}
	if filter.LeaseID != nil {
		w.add("lease_id = $%d", *filter.LeaseID)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.From != nil {
		w.add("paid_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("paid_at <= $%d", *filter.To)
	}
	return r.list(ctx, w, "paid_at DESC")
}
