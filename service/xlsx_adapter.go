package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/propdata/building-financial-profile/dto"
	"github.com/propdata/building-financial-profile/utils/gridscan"
)

// valueColumn is the column the summary sheet keeps line-item figures in,
// relative to the start of the matching row.
const valueColumn = 1

type SpreadsheetAdapter interface {
	Extract(workbookData []byte) (dto.ExtractionResult, error)
}

type spreadsheetAdapter struct {
	sheetName string
}

func NewSpreadsheetAdapter(sheetName string) SpreadsheetAdapter {
	return &spreadsheetAdapter{sheetName: sheetName}
}

// Extract reads the named summary sheet into a grid and locates the
// financial line items. A workbook without that sheet yields an all-absent
// result, not an error; only an unreadable workbook errors.
func (a *spreadsheetAdapter) Extract(workbookData []byte) (dto.ExtractionResult, error) {
	result := dto.EmptyExtraction()

	f, err := excelize.OpenReader(bytes.NewReader(workbookData))
	if err != nil {
		return result, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(a.sheetName)
	if err != nil {
		// Sheet not present: the extraction silently yields no values.
		result.Notes = append(result.Notes, fmt.Sprintf("sheet %q not found", a.sheetName))
		return result, nil
	}

	grid := gridscan.Grid(rows)

	result.Payroll = findRowValue(grid, "staff costs", valueColumn)
	result.Rental = findRowValue(grid, "rental income", valueColumn)
	result.Turnover = findRowValue(grid, "gross revenue", valueColumn)
	result.HeadlineRent = gridscan.FindAdjacentNumber(grid, "headline rent")
	result.RentableArea = gridscan.FindAdjacentNumber(grid, "rentable area")

	return result, nil
}

// findRowValue locates the first row where any cell contains the label and
// reads the figure from a fixed column of that row.
func findRowValue(grid gridscan.Grid, label string, col int) gridscan.LabeledValue {
	label = strings.ToLower(label)

	for rowIdx, row := range grid {
		matched := false
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), label) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if col < 0 || col >= len(row) {
			return gridscan.Absent()
		}
		value, ok := gridscan.ParseNumber(row[col])
		if !ok {
			return gridscan.Absent()
		}
		return gridscan.LabeledValue{Found: true, Value: value, SourceRow: rowIdx}
	}

	return gridscan.Absent()
}
