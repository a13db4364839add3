package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/property-api/internal/email"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	"github.com/jwalitptl/property-api/internal/service/event"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/security"
)

var now = time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *repository.Store, uuid.UUID) {
	t.Helper()
	store := memory.NewStore()
	org := &model.Organization{Name: "Harbor Homes", Slug: "harbor-homes"}
	org.Stamp(now)
	require.NoError(t, store.Organizations.Create(context.Background(), org))

	svc := NewService(store, security.NewBcryptHasher(bcrypt.MinCost), email.NewService(email.Config{}, logger.Nop()),
		event.NewEmitter(store.Outbox), Config{AppURL: "https://app.example.com/"}, logger.Nop())
	svc.clock = func() time.Time { return now }
	return svc, store, org.ID
}

func submitRequest() *model.SubmitApplicationRequest {
	return &model.SubmitApplicationRequest{FirstName: "Ada", LastName: "Moss", Email: "Ada@Example.com"}
}

func TestInviteSubmitApprove(t *testing.T) {
	svc, store, orgID := setup(t)
	ctx := context.Background()
	reviewer := uuid.New()

	issued, err := svc.CreateInvite(ctx, orgID, reviewer, &model.CreateInviteRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/apply/"+issued.Token, issued.Link)
	assert.NotContains(t, issued.TokenHash, issued.Token)

	summary, err := svc.ResolveInvite(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Homes", summary.OrganizationName)

	app, err := svc.Submit(ctx, issued.Token, submitRequest())
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusSubmitted, app.Status)
	assert.Equal(t, "ada@example.com", app.Email)
	assert.Equal(t, 1, app.Occupants)

	_, err = svc.Submit(ctx, issued.Token, submitRequest())
	assert.True(t, errors.Is(err, apperrors.NotFoundErr), "an accepted invite cannot be reused")

	approved, tenant, err := svc.Approve(ctx, orgID, app.ID, reviewer, &model.ReviewApplicationRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApproved, approved.Status)
	assert.Equal(t, tenant.ID, *approved.TenantID)
	assert.Equal(t, model.TenantStatusApplicant, tenant.Status)

	stored, err := store.Tenants.Get(ctx, orgID, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Moss", stored.FullName())

	_, err = svc.Withdraw(ctx, orgID, app.ID)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))
}

func TestResolveInvite_Rejections(t *testing.T) {
	svc, store, orgID := setup(t)
	ctx := context.Background()

	issued, err := svc.CreateInvite(ctx, orgID, uuid.New(), &model.CreateInviteRequest{Email: "x@example.com", TTLHours: 1})
	require.NoError(t, err)

	for _, token := range []string{"garbage", issued.ID.String() + ".wrong-secret", uuid.NewString() + ".abc"} {
		_, err := svc.ResolveInvite(ctx, token)
		assert.True(t, errors.Is(err, apperrors.NotFoundErr), token)
	}

	svc.clock = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = svc.ResolveInvite(ctx, issued.Token)
	assert.True(t, errors.Is(err, apperrors.NotFoundErr))

	invite, err := store.Invites.Get(ctx, orgID, issued.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InviteStatusExpired, invite.Status)
}

func TestRevokeInvite(t *testing.T) {
	svc, _, orgID := setup(t)
	ctx := context.Background()

	issued, err := svc.CreateInvite(ctx, orgID, uuid.New(), &model.CreateInviteRequest{Email: "y@example.com"})
	require.NoError(t, err)

	revoked, err := svc.RevokeInvite(ctx, orgID, issued.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InviteStatusRevoked, revoked.Status)

	_, err = svc.Submit(ctx, issued.Token, submitRequest())
	assert.True(t, errors.Is(err, apperrors.NotFoundErr))
}

func TestRejectAndWithdraw(t *testing.T) {
	svc, _, orgID := setup(t)
	ctx := context.Background()

	submit := func() *model.Application {
		issued, err := svc.CreateInvite(ctx, orgID, uuid.New(), &model.CreateInviteRequest{Email: "z@example.com"})
		require.NoError(t, err)
		app, err := svc.Submit(ctx, issued.Token, submitRequest())
		require.NoError(t, err)
		return app
	}

	first := submit()
	reviewing, err := svc.StartReview(ctx, orgID, first.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusUnderReview, reviewing.Status)

	notes := "income too low"
	rejected, err := svc.Reject(ctx, orgID, first.ID, uuid.New(), &model.ReviewApplicationRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, *rejected.ReviewNotes)
	require.NotNil(t, rejected.ReviewedAt)

	second := submit()
	withdrawn, err := svc.Withdraw(ctx, orgID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusWithdrawn, withdrawn.Status)

	apps, err := svc.List(ctx, orgID, model.ApplicationFilter{Status: model.ApplicationStatusWithdrawn})
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}
