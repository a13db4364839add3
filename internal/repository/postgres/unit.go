package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type unitRepository struct {
	table[model.Unit]
}

func NewUnitRepository(base BaseRepository) repository.UnitRepository {
	return &unitRepository{newTable[model.Unit](base, "units", true,
		"id", "organization_id", "property_id", "unit_number", "bedrooms", "bathrooms",
		"square_feet", "rent_amount", "status", "description", "created_at", "updated_at")}
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return r.insert(ctx, unit)
}

func (r *unitRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Unit, error) {
	return r.get(ctx, orgID, id)
}

func (r *unitRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Unit, error) {
	return r.getMany(ctx, orgID, ids)
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) error {
	return r.update(ctx, unit)
}

func (r *unitRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *unitRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) error {
	query := `DELETE FROM units WHERE organization_id = $1 AND property_id = $2`
	if _, err := r.ext(ctx).ExecContext(ctx, query, orgID, propertyID); err != nil {
		return fmt.Errorf("failed to delete units: %w", err)
	}
	return nil
}

func (r *unitRepository) List(ctx context.Context, orgID uuid.UUID, filter model.UnitFilter) ([]*model.Unit, error) {
	w := orgWhere(orgID)
	if filter.PropertyID != nil {
		w.add("property_id = $%d", *filter.PropertyID)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	return r.list(ctx, w, "unit_number ASC")
}

func (r *unitRepository) ListByProperties(ctx context.Context, orgID uuid.UUID, propertyIDs []uuid.UUID) ([]*model.Unit, error) {
	if len(propertyIDs) == 0 {
		return []*model.Unit{}, nil
	}
	w := orgWhere(orgID).add("property_id = ANY($%d::uuid[])", pq.Array(uuidStrings(propertyIDs)))
	return r.list(ctx, w, "unit_number ASC")
}
