package lease

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
	"github.com/jwalitptl/property-api/internal/service/event"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

var now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store  *repository.Store
	svc    *Service
	orgID  uuid.UUID
	unit   *model.Unit
	tenant *model.Tenant
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	orgID := uuid.New()

	property := &model.Property{OrgScope: model.OrgScope{OrganizationID: orgID}, Name: "Birch", Status: model.PropertyStatusActive}
	property.Stamp(now)
	require.NoError(t, store.Properties.Create(ctx, property))

	unit := &model.Unit{
		OrgScope:   model.OrgScope{OrganizationID: orgID},
		PropertyID: property.ID,
		UnitNumber: "3C",
		RentAmount: 180000,
		Status:     model.UnitStatusVacant,
	}
	unit.Stamp(now)
	require.NoError(t, store.Units.Create(ctx, unit))

	tenant := &model.Tenant{
		OrgScope:     model.OrgScope{OrganizationID: orgID},
		FirstName:    "Lee",
		Email:        "lee@example.com",
		Status:       model.TenantStatusApplicant,
		PortalStatus: model.PortalStatusNone,
	}
	tenant.Stamp(now)
	require.NoError(t, store.Tenants.Create(ctx, tenant))

	svc := NewService(store, event.NewEmitter(store.Outbox), logger.Nop())
	svc.clock = func() time.Time { return now }
	return &fixture{store: store, svc: svc, orgID: orgID, unit: unit, tenant: tenant}
}

func (f *fixture) request(start time.Time) *model.CreateLeaseRequest {
	return &model.CreateLeaseRequest{
		TenantID:   f.tenant.ID.String(),
		UnitID:     f.unit.ID.String(),
		StartDate:  start,
		RentAmount: 180000,
	}
}

func TestCreate_OccupiesUnit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lease, err := f.svc.Create(ctx, f.orgID, f.request(now.AddDate(0, 0, -1)))
	require.NoError(t, err)
	assert.Equal(t, model.LeaseStatusActive, lease.Status)
	assert.Equal(t, 1, lease.DueDay)

	unit, err := f.store.Units.Get(ctx, f.orgID, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UnitStatusOccupied, unit.Status)

	tenant, err := f.store.Tenants.Get(ctx, f.orgID, f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TenantStatusCurrent, tenant.Status)
	assert.Equal(t, lease.ID, *tenant.LeaseID)
	assert.Equal(t, f.unit.PropertyID, *tenant.PropertyID)

	_, err = f.svc.Create(ctx, f.orgID, f.request(now))
	assert.True(t, errors.Is(err, apperrors.ConflictErr))
}

func TestCreate_FutureStartIsPending(t *testing.T) {
	f := setup(t)
	lease, err := f.svc.Create(context.Background(), f.orgID, f.request(now.AddDate(0, 1, 0)))
	require.NoError(t, err)
	assert.Equal(t, model.LeaseStatusPending, lease.Status)

	active, err := f.svc.Activate(context.Background(), f.orgID, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeaseStatusActive, active.Status)
}

func TestCreate_BadDates(t *testing.T) {
	f := setup(t)
	req := f.request(now)
	end := now.AddDate(0, 0, -1)
	req.EndDate = &end

	_, err := f.svc.Create(context.Background(), f.orgID, req)
	assert.True(t, errors.Is(err, apperrors.BadRequestErr))
}

func TestTerminate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lease, err := f.svc.Create(ctx, f.orgID, f.request(now))
	require.NoError(t, err)

	ended, err := f.svc.Terminate(ctx, f.orgID, lease.ID, "moved out early")
	require.NoError(t, err)
	assert.Equal(t, model.LeaseStatusTerminated, ended.Status)
	require.NotNil(t, ended.TerminationReason)
	assert.Equal(t, "moved out early", *ended.TerminationReason)

	unit, err := f.store.Units.Get(ctx, f.orgID, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UnitStatusVacant, unit.Status)

	tenant, err := f.store.Tenants.Get(ctx, f.orgID, f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TenantStatusPast, tenant.Status)

	_, err = f.svc.Terminate(ctx, f.orgID, lease.ID, "")
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))

	events, err := f.store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestList_Enriched(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.orgID, f.request(now))
	require.NoError(t, err)

	views, err := f.svc.List(ctx, f.orgID, model.LeaseFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.tenant.ID, views[0].Tenant.ID)
	assert.Equal(t, f.unit.ID, views[0].Unit.ID)
	assert.Equal(t, f.unit.PropertyID, views[0].Property.ID)
}
