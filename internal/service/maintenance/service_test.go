package maintenance

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

var now = time.Date(2026, 4, 20, 13, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *repository.Store, uuid.UUID, *model.Property, *model.Vendor) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	orgID := uuid.New()

	property := &model.Property{OrgScope: model.OrgScope{OrganizationID: orgID}, Name: "Cedar"}
	property.Stamp(now)
	require.NoError(t, store.Properties.Create(ctx, property))

	vendor := &model.Vendor{OrgScope: model.OrgScope{OrganizationID: orgID}, Name: "Fixit", Status: model.VendorStatusActive}
	vendor.Stamp(now)
	require.NoError(t, store.Vendors.Create(ctx, vendor))

	svc := NewService(store, event.NewEmitter(store.Outbox), logger.Nop())
	svc.clock = func() time.Time { return now }
	return svc, store, orgID, property, vendor
}

func TestAssignAndComplete(t *testing.T) {
	svc, store, orgID, property, vendor := setup(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, orgID, &model.CreateMaintenanceRequest{PropertyID: property.ID.String(), Title: "Leaky tap"})
	require.NoError(t, err)
	assert.Equal(t, model.MaintenanceStatusOpen, m.Status)
	assert.Equal(t, model.PriorityMedium, m.Priority)

	assigned, err := svc.AssignVendor(ctx, orgID, m.ID, &model.AssignVendorRequest{VendorID: vendor.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, model.MaintenanceStatusInProgress, assigned.Status)

	done, expense, err := svc.Complete(ctx, orgID, m.ID, &model.CompleteMaintenanceRequest{ActualCost: 12500})
	require.NoError(t, err)
	assert.Equal(t, model.MaintenanceStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	require.NotNil(t, expense)
	assert.Equal(t, model.ExpenseCategoryMaintenance, expense.Category)
	assert.Equal(t, int64(12500), expense.Amount)
	assert.Equal(t, m.ID, *expense.MaintenanceID)
	assert.Equal(t, vendor.ID, *expense.VendorID)

	expenses, err := store.Expenses.List(ctx, orgID, model.ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	view, err := svc.Get(ctx, orgID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fixit", view.Vendor.Name)
	assert.Equal(t, "Cedar", view.Property.Name)
}

func TestComplete_WithoutCostAndFromOpen(t *testing.T) {
	svc, store, orgID, property, _ := setup(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, orgID, &model.CreateMaintenanceRequest{PropertyID: property.ID.String(), Title: "Squeaky door"})
	require.NoError(t, err)

	_, _, err = svc.Complete(ctx, orgID, m.ID, &model.CompleteMaintenanceRequest{})
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))

	_, err = svc.ChangeStatus(ctx, orgID, m.ID, model.MaintenanceStatusInProgress)
	require.NoError(t, err)
	done, err := svc.ChangeStatus(ctx, orgID, m.ID, model.MaintenanceStatusCompleted)
	require.NoError(t, err)
	assert.Nil(t, done.ActualCost)

	expenses, err := store.Expenses.List(ctx, orgID, model.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestAssignVendor_Inactive(t *testing.T) {
	svc, store, orgID, property, vendor := setup(t)
	ctx := context.Background()

	vendor.Status = model.VendorStatusInactive
	require.NoError(t, store.Vendors.Update(ctx, vendor))

	m, err := svc.Create(ctx, orgID, &model.CreateMaintenanceRequest{PropertyID: property.ID.String(), Title: "Mold"})
	require.NoError(t, err)
	_, err = svc.AssignVendor(ctx, orgID, m.ID, &model.AssignVendorRequest{VendorID: vendor.ID.String()})
	assert.True(t, errors.Is(err, apperrors.ConflictErr))
}
