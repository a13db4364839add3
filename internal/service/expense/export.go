package expense

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/property-api/internal/model"
)

const exportSheet = "Expenses"

var exportHeader = []string{"Date", "Category", "Description", "Property", "Vendor", "Status", "Amount"}

// Export renders the expenses dated inside period as an XLSX workbook.
// Amounts are written in dollars with a currency format.
func (s *Service) Export(ctx context.Context, orgID uuid.UUID, period model.DateRange) ([]byte, error) {
	views, err := s.List(ctx, orgID, model.ExpenseFilter{DateRange: period})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Error(err, "failed to close expense workbook")
		}
	}()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFormat := "$#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "G1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	var total int64
	for i, v := range views {
		row := []interface{}{
			v.Date.Format("2006-01-02"),
			string(v.Category),
			v.Description,
			propertyName(v),
			vendorName(v),
			string(v.Status),
			float64(v.Amount) / 100,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		total += v.Amount
	}

	totalRow := len(views) + 2
	if err := f.SetCellValue(exportSheet, fmt.Sprintf("F%d", totalRow), "Total"); err != nil {
		return nil, fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellValue(exportSheet, fmt.Sprintf("G%d", totalRow), float64(total)/100); err != nil {
		return nil, fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "G2", fmt.Sprintf("G%d", totalRow), moneyStyle); err != nil {
		return nil, fmt.Errorf("failed to style amounts: %w", err)
	}
	for col, width := range map[string]float64{"A": 12, "B": 14, "C": 40, "D": 24, "E": 24, "F": 10, "G": 14} {
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func propertyName(v *model.ExpenseView) string {
	if v.Property == nil {
		return ""
	}
	return v.Property.Name
}

func vendorName(v *model.ExpenseView) string {
	if v.Vendor == nil {
		return ""
	}
	return v.Vendor.Name
}
