package organization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/internal/service/subscription"
	"github.com/jwalitptl/property-api/pkg/logger"
)

func newUser(t *testing.T, store *repository.Store, subject string, role permission.Role) *model.User {
	t.Helper()
	u := &model.User{Subject: subject, Email: subject + "@example.com", Role: role}
	u.Stamp(service.SystemClock())
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func newService(store *repository.Store) *Service {
	return NewService(store, subscription.NewService(store, logger.Nop()), 14, logger.Nop())
}

func TestCreate(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := context.Background()
	owner := newUser(t, store, "ann", permission.RoleOwner)

	org, err := svc.Create(ctx, "Acme Rentals!", owner)
	require.NoError(t, err)
	assert.Equal(t, "acme-rentals", org.Slug)

	member, err := store.Members.GetByUser(ctx, org.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, permission.RoleOwner, member.Role)

	sub, err := store.Subscriptions.GetByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanStarter, sub.Plan)
	assert.Equal(t, model.SubscriptionStatusTrialing, sub.Status)
	require.NotNil(t, sub.TrialEndsAt)
	assert.Equal(t, sub.CreatedAt.AddDate(0, 0, 14), *sub.TrialEndsAt)
}

func TestCreate_SlugCollision(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := context.Background()
	owner := newUser(t, store, "ann", permission.RoleOwner)

	first, err := svc.Create(ctx, "Acme", owner)
	require.NoError(t, err)
	second, err := svc.Create(ctx, "ACME", owner)
	require.NoError(t, err)
	third, err := svc.Create(ctx, "acme", owner)
	require.NoError(t, err)

	assert.Equal(t, "acme", first.Slug)
	assert.Equal(t, "acme-2", second.Slug)
	assert.Equal(t, "acme-3", third.Slug)
}

func TestCreate_EmptySlug(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	_, err := svc.Create(context.Background(), "!!!", newUser(t, store, "ann", permission.RoleOwner))
	assert.EqualError(t, err, "organization name must contain letters or digits")

	orgs, err := store.Organizations.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestUpdate_KeepsSlug(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := context.Background()

	org, err := svc.Create(ctx, "Acme", newUser(t, store, "ann", permission.RoleOwner))
	require.NoError(t, err)

	name := "Acme Holdings"
	org, err = svc.Update(ctx, org.ID, &model.UpdateOrganizationRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", org.Name)
	assert.Equal(t, "acme", org.Slug)

	found, err := svc.GetBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, org.ID, found.ID)

	_, err = svc.GetBySlug(ctx, "nope")
	assert.EqualError(t, err, "Organization not found")
}

func TestListForUser(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := context.Background()
	ann := newUser(t, store, "ann", permission.RoleOwner)
	bob := newUser(t, store, "bob", permission.RoleOwner)
	root := newUser(t, store, "root", permission.RoleSuperAdmin)

	_, err := svc.Create(ctx, "Ann Homes", ann)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Bob Lofts", bob)
	require.NoError(t, err)

	orgs, err := svc.ListForUser(ctx, ann)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "Ann Homes", orgs[0].Name)

	orgs, err = svc.ListForUser(ctx, root)
	require.NoError(t, err)
	assert.Len(t, orgs, 2)

	orgs, err = svc.ListForUser(ctx, newUser(t, store, "cat", permission.RoleOwner))
	require.NoError(t, err)
	assert.Empty(t, orgs)
}
