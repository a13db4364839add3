package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type organizationRepository struct {
	table[model.Organization]
}

func NewOrganizationRepository(base BaseRepository) repository.OrganizationRepository {
	return &organizationRepository{newTable[model.Organization](base, "organizations", false,
		"id", "name", "slug", "created_at", "updated_at")}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	return r.insert(ctx, org)
}

func (r *organizationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	return r.get(ctx, uuid.Nil, id)
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	return r.one(ctx, newWhere().add("slug = $%d", slug))
}

func (r *organizationRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Organization, error) {
	return r.getMany(ctx, uuid.Nil, ids)
}

func (r *organizationRepository) Update(ctx context.Context, org *model.Organization) error {
	return r.update(ctx, org)
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	return r.list(ctx, newWhere(), "name ASC")
}
