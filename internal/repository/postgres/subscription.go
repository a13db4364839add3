package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type subscriptionRepository struct {
	table[model.Subscription]
}

func NewSubscriptionRepository(base BaseRepository) repository.SubscriptionRepository {
	return &subscriptionRepository{newTable[model.Subscription](base, "subscriptions", true,
		"id", "organization_id", "plan", "billing_cycle", "status", "trial_ends_at",
		"current_period_start", "current_period_end", "cancelled_at", "created_at", "updated_at")}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return r.insert(ctx, sub)
}

func (r *subscriptionRepository) GetByOrganization(ctx context.Context, orgID uuid.UUID) (*model.Subscription, error) {
	return r.one(ctx, orgWhere(orgID))
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.Subscription) error {
	return r.update(ctx, sub)
}
