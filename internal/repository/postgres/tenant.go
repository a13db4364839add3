package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type tenantRepository struct {
	table[model.Tenant]
}

func NewTenantRepository(base BaseRepository) repository.TenantRepository {
	t := newTable[model.Tenant](base, "tenants", true,
		"id", "organization_id", "first_name", "last_name", "email", "phone", "property_id",
		"unit_id", "lease_id", "user_id", "current_balance", "status", "portal_status",
		"emergency_contact", "notes", "created_at", "updated_at")
	t.fixed = map[string]bool{"current_balance": true}
	return &tenantRepository{t}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return r.insert(ctx, tenant)
}

func (r *tenantRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error) {
	return r.get(ctx, orgID, id)
}

func (r *tenantRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Tenant, error) {
	return r.getMany(ctx, orgID, ids)
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	return r.update(ctx, tenant)
}

// AdjustBalance adds delta in place so concurrent payments and invoices
// never overwrite each other's balance changes.
func (r *tenantRepository) AdjustBalance(ctx context.Context, orgID, id uuid.UUID, delta int64, at time.Time) error {
	res, err := r.ext(ctx).ExecContext(ctx,
		"UPDATE tenants SET current_balance = current_balance + $1, updated_at = $2 WHERE id = $3 AND organization_id = $4",
		delta, at, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to adjust tenant balance: %w", err)
	}
	return expectRow(res)
}

func (r *tenantRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

// List filters by the indexed columns only; free-text search is applied by
// the caller over the fetched rows.
func (r *tenantRepository) List(ctx context.Context, orgID uuid.UUID, filter model.TenantFilter) ([]*model.Tenant, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.PropertyID != nil {
		w.add("property_id = $%d", *filter.PropertyID)
	}
	return r.list(ctx, w, "last_name ASC, first_name ASC")
}
