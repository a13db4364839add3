package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type maintenanceRepository struct {
	table[model.MaintenanceRequest]
}

func NewMaintenanceRepository(base BaseRepository) repository.MaintenanceRepository {
	return &maintenanceRepository{newTable[model.MaintenanceRequest](base, "maintenance_requests", true,
		"id", "organization_id", "property_id", "unit_id", "tenant_id", "vendor_id", "title",
		"description", "category", "priority", "status", "estimated_cost", "actual_cost",
		"scheduled_at", "completed_at", "image_ids", "created_at", "updated_at")}
}

func (r *maintenanceRepository) Create(ctx context.Context, req *model.MaintenanceRequest) error {
	return r.insert(ctx, req)
}

func (r *maintenanceRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.MaintenanceRequest, error) {
	return r.get(ctx, orgID, id)
}

func (r *maintenanceRepository) Update(ctx context.Context, req *model.MaintenanceRequest) error {
	return r.update(ctx, req)
}

func (r *maintenanceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *maintenanceRepository) List(ctx context.Context, orgID uuid.UUID, filter model.MaintenanceFilter) ([]*model.MaintenanceRequest, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		w.add("priority = $%d", filter.Priority)
	}
	if filter.PropertyID != nil {
		w.add("property_id = $%d", *filter.PropertyID)
	}
	return r.list(ctx, w, "created_at DESC")
}

func (r *maintenanceRepository) ListByVendor(ctx context.Context, orgID, vendorID uuid.UUID) ([]*model.MaintenanceRequest, error) {
	return r.list(ctx, orgWhere(orgID).add("vendor_id = $%d", vendorID), "created_at DESC")
}
