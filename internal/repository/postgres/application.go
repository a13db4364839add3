package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type inviteRepository struct {
	table[model.ApplicationInvite]
}

func NewInviteRepository(base BaseRepository) repository.InviteRepository {
	return &inviteRepository{newTable[model.ApplicationInvite](base, "application_invites", true,
		"id", "organization_id", "email", "name", "listing_id", "unit_id", "token_hash",
		"status", "expires_at", "invited_by", "created_at", "updated_at")}
}

func (r *inviteRepository) Create(ctx context.Context, invite *model.ApplicationInvite) error {
	return r.insert(ctx, invite)
}

func (r *inviteRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.ApplicationInvite, error) {
	return r.get(ctx, orgID, id)
}

func (r *inviteRepository) Lookup(ctx context.Context, id uuid.UUID) (*model.ApplicationInvite, error) {
	return r.one(ctx, newWhere().add("id = $%d", id))
}

func (r *inviteRepository) Update(ctx context.Context, invite *model.ApplicationInvite) error {
	return r.update(ctx, invite)
}

func (r *inviteRepository) List(ctx context.Context, orgID uuid.UUID, filter model.InviteFilter) ([]*model.ApplicationInvite, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	return r.list(ctx, w, "created_at DESC")
}

type applicationRepository struct {
	table[model.Application]
}

func NewApplicationRepository(base BaseRepository) repository.ApplicationRepository {
	return &applicationRepository{newTable[model.Application](base, "applications", true,
		"id", "organization_id", "invite_id", "listing_id", "unit_id", "tenant_id", "first_name",
		"last_name", "email", "phone", "current_address", "employer", "monthly_income",
		"desired_move_in", "occupants", "has_pets", "message", "status", "review_notes",
		"reviewed_by", "reviewed_at", "created_at", "updated_at")}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.insert(ctx, app)
}

func (r *applicationRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Application, error) {
	return r.get(ctx, orgID, id)
}

func (r *applicationRepository) Update(ctx context.Context, app *model.Application) error {
	return r.update(ctx, app)
}

func (r *applicationRepository) List(ctx context.Context, orgID uuid.UUID, filter model.ApplicationFilter) ([]*model.Application, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.ListingID != nil {
		w.add("listing_id = $%d", *filter.ListingID)
	}
	return r.list(ctx, w, "created_at DESC")
}
