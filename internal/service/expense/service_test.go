package expense

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	"github.com/jwalitptl/property-api/pkg/logger"
)

func day(d int) *time.Time {
	t := time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seed(t *testing.T) (*Service, uuid.UUID, *model.Property) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	orgID := uuid.New()

	property := &model.Property{OrgScope: model.OrgScope{OrganizationID: orgID}, Name: "Willow"}
	property.Stamp(*day(1))
	require.NoError(t, store.Properties.Create(ctx, property))

	svc := NewService(store, logger.Nop())
	pid := property.ID.String()
	for _, req := range []*model.CreateExpenseRequest{
		{PropertyID: &pid, Category: model.ExpenseCategoryRepairs, Description: "Roof", Amount: 40000, Date: day(3)},
		{PropertyID: &pid, Category: model.ExpenseCategoryUtilities, Description: "Water", Amount: 5500, Date: day(10)},
		{Category: model.ExpenseCategoryInsurance, Description: "Policy", Amount: 12000, Date: day(25)},
	} {
		_, err := svc.Create(ctx, orgID, req)
		require.NoError(t, err)
	}
	return svc, orgID, property
}

func TestSummary(t *testing.T) {
	svc, orgID, property := seed(t)

	summary, err := svc.Summary(context.Background(), orgID, model.DateRange{From: day(1), To: day(15)})
	require.NoError(t, err)
	assert.Equal(t, int64(45500), summary.Total)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, int64(40000), summary.ByCategory[model.ExpenseCategoryRepairs])
	assert.Equal(t, int64(45500), summary.ByProperty[property.ID])
}

func TestList_DefaultsAndEnrichment(t *testing.T) {
	svc, orgID, _ := seed(t)

	views, err := svc.List(context.Background(), orgID, model.ExpenseFilter{Category: model.ExpenseCategoryRepairs})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, model.ExpenseStatusPending, views[0].Status)
	assert.Equal(t, "Willow", views[0].Property.Name)
}

func TestExport(t *testing.T) {
	svc, orgID, _ := seed(t)

	data, err := svc.Export(context.Background(), orgID, model.DateRange{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "2026-07-25", rows[1][0])
	assert.Equal(t, "Total", rows[4][5])

	total, err := f.GetCellValue(exportSheet, "G5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "575", total)
}
