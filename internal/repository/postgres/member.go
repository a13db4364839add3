package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type memberRepository struct {
	table[model.OrganizationMember]
}

func NewMemberRepository(base BaseRepository) repository.MemberRepository {
	return &memberRepository{newTable[model.OrganizationMember](base, "organization_members", true,
		"id", "organization_id", "user_id", "role", "created_at", "updated_at")}
}

func (r *memberRepository) Create(ctx context.Context, member *model.OrganizationMember) error {
	return r.insert(ctx, member)
}

func (r *memberRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.OrganizationMember, error) {
	return r.get(ctx, orgID, id)
}

func (r *memberRepository) GetByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.OrganizationMember, error) {
	return r.one(ctx, orgWhere(orgID).add("user_id = $%d", userID))
}

func (r *memberRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.OrganizationMember, error) {
	return r.list(ctx, orgWhere(orgID), "created_at ASC")
}

func (r *memberRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.OrganizationMember, error) {
	return r.list(ctx, newWhere().add("user_id = $%d", userID), "created_at ASC")
}

func (r *memberRepository) Update(ctx context.Context, member *model.OrganizationMember) error {
	return r.update(ctx, member)
}

func (r *memberRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}
