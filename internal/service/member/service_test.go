package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	"github.com/jwalitptl/property-api/internal/service/subscription"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

func newUser(t *testing.T, store *repository.Store, name string) *model.User {
	t.Helper()
	u := &model.User{Subject: "auth0|" + name, Email: name + "@example.com", Name: name, Role: permission.RoleOwner}
	u.Stamp(time.Now())
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

// setup returns an org on a starter trial whose owner is ann.
func setup(t *testing.T) (*repository.Store, *Service, uuid.UUID, *model.MemberView) {
	t.Helper()
	store := memory.NewStore()
	subs := subscription.NewService(store, logger.Nop())
	svc := NewService(store, subs, logger.Nop())
	orgID := uuid.New()
	_, err := subs.StartTrial(context.Background(), orgID, 14)
	require.NoError(t, err)

	newUser(t, store, "ann")
	owner, err := svc.Add(context.Background(), orgID, "ann@example.com", permission.RoleOwner)
	require.NoError(t, err)
	return store, svc, orgID, owner
}

func TestAdd(t *testing.T) {
	store, svc, orgID, _ := setup(t)
	ctx := context.Background()
	newUser(t, store, "bob")
	newUser(t, store, "cat")

	bob, err := svc.Add(ctx, orgID, "BOB@example.com", permission.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.User.Name)
	assert.Equal(t, permission.RoleStaff, bob.Role)

	_, err = svc.Add(ctx, orgID, "bob@example.com", permission.RoleStaff)
	assert.True(t, errors.Is(err, apperrors.ConflictErr))

	// Starter allows two members.
	_, err = svc.Add(ctx, orgID, "cat@example.com", permission.RoleStaff)
	assert.True(t, errors.Is(err, apperrors.LimitExceededErr))

	_, err = svc.Add(ctx, orgID, "nobody@example.com", permission.RoleStaff)
	assert.True(t, errors.Is(err, apperrors.NotFoundErr))

	_, err = svc.Add(ctx, orgID, "cat@example.com", permission.RoleSuperAdmin)
	assert.True(t, errors.Is(err, apperrors.BadRequestErr))

	members, err := svc.List(ctx, orgID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestLastOwner(t *testing.T) {
	store, svc, orgID, ann := setup(t)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, orgID, ann.ID, permission.RoleStaff)
	assert.True(t, errors.Is(err, apperrors.ConflictErr))
	err = svc.Remove(ctx, orgID, ann.ID)
	assert.True(t, errors.Is(err, apperrors.ConflictErr))

	newUser(t, store, "bob")
	bob, err := svc.Add(ctx, orgID, "bob@example.com", permission.RolePropertyManager)
	require.NoError(t, err)
	_, err = svc.UpdateRole(ctx, orgID, bob.ID, permission.RoleOwner)
	require.NoError(t, err)

	updated, err := svc.UpdateRole(ctx, orgID, ann.ID, permission.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, permission.RoleStaff, updated.Role)

	require.NoError(t, svc.Remove(ctx, orgID, ann.ID))
	members, err := svc.List(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "bob", members[0].User.Name)

	err = svc.Remove(ctx, uuid.New(), bob.ID)
	assert.EqualError(t, err, "Member not found")
}
