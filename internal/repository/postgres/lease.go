package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type leaseRepository struct {
	table[model.Lease]
}

func NewLeaseRepository(base BaseRepository) repository.LeaseRepository {
	return &leaseRepository{newTable[model.Lease](base, "leases", true,
		"id", "organization_id", "tenant_id", "unit_id", "property_id", "start_date", "end_date",
		"rent_amount", "security_deposit", "due_day", "status", "terminated_at",
		"termination_reason", "created_at", "updated_at")}
}

func (r *leaseRepository) Create(ctx context.Context, lease *model.Lease) error {
	return r.insert(ctx, lease)
}

func (r *leaseRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Lease, error) {
	return r.get(ctx, orgID, id)
}

func (r *leaseRepository) Update(ctx context.Context, lease *model.Lease) error {
	return r.update(ctx, lease)
}

func (r *leaseRepository) List(ctx context.Context, orgID uuid.UUID, filter model.LeaseFilter) ([]*model.Lease, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.TenantID != nil {
		w.add("tenant_id = $%d", *filter.TenantID)
	}
	if filter.PropertyID != nil {
		w.add("property_id = $%d", *filter.PropertyID)
	}
	return r.list(ctx, w, "start_date DESC")
}
