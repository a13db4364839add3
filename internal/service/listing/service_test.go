package listing

import (
	"context"
	"errors"
	"strconv"
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

var now = time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *repository.Store, uuid.UUID, *model.Unit) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	orgID := uuid.New()

	property := &model.Property{OrgScope: model.OrgScope{OrganizationID: orgID}, Name: "Mill", City: "Austin"}
	property.Stamp(now)
	require.NoError(t, store.Properties.Create(ctx, property))
	unit := &model.Unit{
		OrgScope:   model.OrgScope{OrganizationID: orgID},
		PropertyID: property.ID,
		UnitNumber: "A",
		Bedrooms:   2,
		Bathrooms:  1.5,
		RentAmount: 210000,
		Status:     model.UnitStatusVacant,
	}
	unit.Stamp(now)
	require.NoError(t, store.Units.Create(ctx, unit))

	svc := NewService(store, logger.Nop())
	svc.clock = func() time.Time { return now }
	return svc, store, orgID, unit
}

func TestCreateAndGetBySlug(t *testing.T) {
	svc, _, orgID, unit := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, orgID, &model.CreateListingRequest{UnitID: unit.ID.String(), Title: "Loft A"})
	require.NoError(t, err)
	assert.Equal(t, "loft-a-"+strconv.FormatInt(now.UnixMilli(), 36), created.Slug)
	assert.Equal(t, int64(210000), created.RentAmount)
	assert.Equal(t, "Austin", created.City)

	got, err := svc.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, model.ListingStatusDraft, got.Status)
	assert.Equal(t, unit.ID, got.Unit.ID)

	missing, err := svc.GetBySlug(ctx, "no-such-listing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLifecycle(t *testing.T) {
	svc, _, orgID, unit := setup(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, orgID, &model.CreateListingRequest{UnitID: unit.ID.String(), Title: "Garden flat"})
	require.NoError(t, err)

	_, err = svc.Pause(ctx, orgID, l.ID)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))

	published, err := svc.Publish(ctx, orgID, l.ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)

	_, err = svc.Pause(ctx, orgID, l.ID)
	require.NoError(t, err)
	rented, err := svc.MarkRented(ctx, orgID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusRented, rented.Status)
}

func TestListPublic(t *testing.T) {
	svc, _, orgID, unit := setup(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, orgID, &model.CreateListingRequest{UnitID: unit.ID.String(), Title: "Draft"})
	require.NoError(t, err)
	live, err := svc.Create(ctx, orgID, &model.CreateListingRequest{UnitID: unit.ID.String(), Title: "Live"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, orgID, live.ID)
	require.NoError(t, err)

	results, err := svc.ListPublic(ctx, model.MarketplaceFilter{City: "austin"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, live.ID, results[0].ID)
	assert.NotEqual(t, draft.ID, results[0].ID)

	maxRent := int64(100000)
	results, err = svc.ListPublic(ctx, model.MarketplaceFilter{MaxRent: &maxRent})
	require.NoError(t, err)
	assert.Empty(t, results)
}
