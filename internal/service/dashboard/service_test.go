package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository/memory"
)

func TestStats(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return now }
	ctx := context.Background()
	orgID := uuid.New()
	scope := model.OrgScope{OrganizationID: orgID}

	property := &model.Property{OrgScope: scope, Name: "Elm Court", Status: model.PropertyStatusActive}
	property.Stamp(now)
	require.NoError(t, store.Properties.Create(ctx, property))
	for i, status := range []model.UnitStatus{model.UnitStatusOccupied, model.UnitStatusOccupied, model.UnitStatusVacant, model.UnitStatusVacant} {
		u := &model.Unit{OrgScope: scope, PropertyID: property.ID, UnitNumber: string(rune('A' + i)), Status: status}
		u.Stamp(now)
		require.NoError(t, store.Units.Create(ctx, u))
	}

	for i, inv := range []struct {
		status model.InvoiceStatus
		due    int64
	}{
		{model.InvoiceStatusSent, 100000},
		{model.InvoiceStatusOverdue, 50000},
		{model.InvoiceStatusPaid, 0},
	} {
		row := &model.Invoice{OrgScope: scope, InvoiceNumber: "INV-" + string(rune('1'+i)), TenantID: uuid.New(), Status: inv.status, AmountDue: inv.due}
		row.Stamp(now)
		require.NoError(t, store.Invoices.Create(ctx, row))
	}

	for _, p := range []struct {
		status model.PaymentStatus
		paidAt time.Time
	}{
		{model.PaymentStatusCompleted, now.AddDate(0, 0, -3)},
		{model.PaymentStatusCompleted, now.AddDate(0, -1, 0)},
		{model.PaymentStatusRefunded, now},
	} {
		row := &model.Payment{OrgScope: scope, TenantID: uuid.New(), Amount: 120000, Status: p.status, PaidAt: p.paidAt}
		row.Stamp(now)
		require.NoError(t, store.Payments.Create(ctx, row))
	}

	expense := &model.Expense{OrgScope: scope, Category: model.ExpenseCategoryRepairs, Amount: 20000, Date: now, Status: model.ExpenseStatusPaid}
	expense.Stamp(now)
	require.NoError(t, store.Expenses.Create(ctx, expense))

	stats, err := svc.Stats(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProperties)
	assert.Equal(t, 4, stats.TotalUnits)
	assert.Equal(t, 2, stats.OccupiedUnits)
	assert.InDelta(t, 0.5, stats.OccupancyRate, 0.0001)
	assert.Equal(t, int64(150000), stats.Outstanding)
	assert.Equal(t, 1, stats.OverdueInvoices)
	assert.Equal(t, int64(120000), stats.MonthlyRevenue)
	assert.Equal(t, int64(20000), stats.MonthlyExpenses)
	assert.Equal(t, int64(100000), stats.NetIncome)

	empty, err := svc.Stats(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty.TotalUnits)
	assert.Zero(t, empty.OccupancyRate)
}
