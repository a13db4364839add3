package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type propertyRepository struct {
	table[model.Property]
}

func NewPropertyRepository(base BaseRepository) repository.PropertyRepository {
	return &propertyRepository{newTable[model.Property](base, "properties", true,
		"id", "organization_id", "name", "type", "street", "city", "state", "postal_code",
		"country", "description", "image_ids", "status", "created_at", "updated_at")}
}

func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.insert(ctx, property)
}

func (r *propertyRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Property, error) {
	return r.get(ctx, orgID, id)
}

func (r *propertyRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Property, error) {
	return r.getMany(ctx, orgID, ids)
}

func (r *propertyRepository) Update(ctx context.Context, property *model.Property) error {
	return r.update(ctx, property)
}

func (r *propertyRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *propertyRepository) List(ctx context.Context, orgID uuid.UUID, filter model.PropertyFilter) ([]*model.Property, error) {
	w := orgWhere(orgID)
	if filter.Type != "" {
		w.add("type = $%d", filter.Type)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Search != "" {
		w.add("(name ILIKE $%[1]d OR street ILIKE $%[1]d OR city ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	return r.list(ctx, w, "created_at DESC")
}
