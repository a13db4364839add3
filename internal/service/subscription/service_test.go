package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

func addProperties(t *testing.T, store *repository.Store, orgID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		p := &model.Property{OrgScope: model.OrgScope{OrganizationID: orgID}, Name: "Block", Status: model.PropertyStatusActive}
		p.Stamp(time.Now())
		require.NoError(t, store.Properties.Create(context.Background(), p))
	}
}

func TestStartTrial(t *testing.T) {
	svc := NewService(memory.NewStore(), logger.Nop())
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return now }
	ctx := context.Background()
	orgID := uuid.New()

	sub, err := svc.StartTrial(ctx, orgID, 14)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusTrialing, sub.Status)
	assert.Equal(t, model.PlanStarter, sub.Plan)
	assert.Equal(t, now.AddDate(0, 0, 14), *sub.TrialEndsAt)

	_, err = svc.StartTrial(ctx, orgID, 14)
	assert.True(t, errors.Is(err, apperrors.ConflictErr))
}

func TestCheckLimit(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, logger.Nop())
	ctx := context.Background()
	orgID := uuid.New()

	// No subscription yet: starter limits apply.
	addProperties(t, store, orgID, 5)
	err := svc.CheckLimit(ctx, orgID, model.ResourceProperties, 1)
	assert.True(t, errors.Is(err, apperrors.LimitExceededErr))
	assert.NoError(t, svc.CheckLimit(ctx, orgID, model.ResourceUnits, 25))
	assert.Error(t, svc.CheckLimit(ctx, orgID, model.ResourceUnits, 26))

	_, err = svc.StartTrial(ctx, orgID, 14)
	require.NoError(t, err)
	_, err = svc.ChangePlan(ctx, orgID, &model.ChangePlanRequest{Plan: model.PlanProfessional})
	require.NoError(t, err)
	assert.NoError(t, svc.CheckLimit(ctx, orgID, model.ResourceProperties, 1000))
}

func TestChangePlan(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, logger.Nop())
	ctx := context.Background()
	orgID := uuid.New()

	_, err := svc.StartTrial(ctx, orgID, 14)
	require.NoError(t, err)

	view, err := svc.ChangePlan(ctx, orgID, &model.ChangePlanRequest{Plan: model.PlanGrowth, BillingCycle: model.BillingYearly})
	require.NoError(t, err)
	assert.Equal(t, model.PlanGrowth, view.Plan)
	assert.Equal(t, model.BillingYearly, view.BillingCycle)
	assert.Equal(t, "Growth", view.Details.Name)

	addProperties(t, store, orgID, 6)
	_, err = svc.ChangePlan(ctx, orgID, &model.ChangePlanRequest{Plan: model.PlanStarter})
	assert.True(t, errors.Is(err, apperrors.ConflictErr))

	view, err = svc.Get(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanGrowth, view.Plan)
	assert.Equal(t, 6, view.Usage.Properties)

	_, err = svc.ChangePlan(ctx, orgID, &model.ChangePlanRequest{Plan: "platinum"})
	assert.True(t, errors.Is(err, apperrors.BadRequestErr))
}

func TestLifecycle(t *testing.T) {
	svc := NewService(memory.NewStore(), logger.Nop())
	ctx := context.Background()
	orgID := uuid.New()

	_, err := svc.StartTrial(ctx, orgID, 14)
	require.NoError(t, err)

	view, err := svc.Activate(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusActive, view.Status)
	require.NotNil(t, view.CurrentPeriodEnd)
	assert.Equal(t, view.CurrentPeriodStart.AddDate(0, 1, 0), *view.CurrentPeriodEnd)

	_, err = svc.Activate(ctx, orgID)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))

	ok, err := svc.HasFeature(ctx, orgID, model.FeatureTenantPortal)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.HasFeature(ctx, orgID, model.FeatureAPIAccess)
	require.NoError(t, err)
	assert.False(t, ok)

	view, err = svc.Cancel(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusCancelled, view.Status)
	assert.NotNil(t, view.CancelledAt)

	ok, err = svc.HasFeature(ctx, orgID, model.FeatureTenantPortal)
	require.NoError(t, err)
	assert.False(t, ok, "cancelled subscriptions have no features")

	view, err = svc.Reactivate(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusActive, view.Status)
	assert.Nil(t, view.CancelledAt)
}

func TestGet_NoSubscription(t *testing.T) {
	svc := NewService(memory.NewStore(), logger.Nop())
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.NotFoundErr))
}
