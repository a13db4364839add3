package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type vendorRepository struct {
	table[model.Vendor]
}

func NewVendorRepository(base BaseRepository) repository.VendorRepository {
	return &vendorRepository{newTable[model.Vendor](base, "vendors", true,
		"id", "organization_id", "name", "company_name", "email", "phone", "categories",
		"hourly_rate", "rating", "notes", "status", "created_at", "updated_at")}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	return r.insert(ctx, vendor)
}

func (r *vendorRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Vendor, error) {
	return r.get(ctx, orgID, id)
}

func (r *vendorRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Vendor, error) {
	return r.getMany(ctx, orgID, ids)
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) error {
	return r.update(ctx, vendor)
}

func (r *vendorRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *vendorRepository) List(ctx context.Context, orgID uuid.UUID, filter model.VendorFilter) ([]*model.Vendor, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		w.add("$%d = ANY(categories)", filter.Category)
	}
	if filter.Search != "" {
		w.add("(name ILIKE $%[1]d OR company_name ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	return r.list(ctx, w, "name ASC")
}
