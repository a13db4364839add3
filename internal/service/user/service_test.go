package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type forgetful struct{ forgotten []string }

func (f *forgetful) Forget(subject string) { f.forgotten = append(f.forgotten, subject) }

func TestSyncFromIdentity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := &forgetful{}
	svc := NewService(store.Users, cache, logger.Nop())

	created, err := svc.SyncFromIdentity(ctx, model.IdentityClaims{Subject: "auth0|42", Email: "Ada@Example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, permission.RoleOwner, created.Role)
	assert.Equal(t, "ada@example.com", created.Email)

	again, err := svc.SyncFromIdentity(ctx, model.IdentityClaims{Subject: "auth0|42", Name: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Ada Lovelace", again.Name)
	assert.Equal(t, []string{"auth0|42"}, cache.forgotten)

	_, err = svc.SyncFromIdentity(ctx, model.IdentityClaims{})
	assert.ErrorIs(t, err, apperrors.NotAuthenticatedErr)
}

func TestMeAndProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Users, &forgetful{}, logger.Nop())

	_, err := svc.Me(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.UserNotFoundErr)

	_, err = svc.SyncFromIdentity(ctx, model.IdentityClaims{Subject: "s1", Email: "s1@example.com", Name: "S"})
	require.NoError(t, err)

	phone := "+15550100"
	updated, err := svc.UpdateProfile(ctx, "s1", &model.UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	promoted, err := svc.SetRole(ctx, updated.ID, permission.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, permission.RoleSuperAdmin, promoted.Role)

	_, err = svc.SetRole(ctx, updated.ID, permission.Role("janitor"))
	assert.ErrorIs(t, err, apperrors.BadRequestErr)
}
