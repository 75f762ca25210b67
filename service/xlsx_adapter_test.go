package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheet string, cells map[string]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		assert.NoError(t, err)
	}
	for axis, value := range cells {
		assert.NoError(t, f.SetCellValue(sheet, axis, value))
	}

	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	return buf.Bytes()
}

func TestSpreadsheetExtract(t *testing.T) {
	data := buildWorkbook(t, "Financial Summary", map[string]interface{}{
		"A1": "Line Item",
		"B1": "Amount",
		"A2": "Staff Costs (Annual)",
		"B2": 90000,
		"A3": "Gross Revenue",
		"B3": 1800000,
		"A5": "Headline Rent (psf)",
		"B5": 45,
		"A6": "Rentable Area sqft",
		"B6": 20000,
	})

	adapter := NewSpreadsheetAdapter("Financial Summary")
	result, err := adapter.Extract(data)

	assert.NoError(t, err)
	assert.True(t, result.Payroll.Found)
	assert.Equal(t, 90000.0, result.Payroll.Value)
	assert.True(t, result.Turnover.Found)
	assert.Equal(t, 1800000.0, result.Turnover.Value)
	assert.True(t, result.HeadlineRent.Found)
	assert.Equal(t, 45.0, result.HeadlineRent.Value)
	assert.True(t, result.RentableArea.Found)
	assert.Equal(t, 20000.0, result.RentableArea.Value)
	assert.False(t, result.GrossAreaOverride.Found)
}

func TestSpreadsheetExtractMissingSheet(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", map[string]interface{}{
		"A1": "Staff Costs",
		"B1": 90000,
	})

	adapter := NewSpreadsheetAdapter("Financial Summary")
	result, err := adapter.Extract(data)

	// A missing sheet is not an error: extraction silently yields nothing.
	assert.NoError(t, err)
	assert.False(t, result.Payroll.Found)
	assert.False(t, result.Turnover.Found)
	assert.NotEmpty(t, result.Notes)
}

func TestSpreadsheetExtractPartialFields(t *testing.T) {
	data := buildWorkbook(t, "Financial Summary", map[string]interface{}{
		"A1": "Staff Costs",
		"B1": 75000,
	})

	adapter := NewSpreadsheetAdapter("Financial Summary")
	result, err := adapter.Extract(data)

	assert.NoError(t, err)
	assert.True(t, result.Payroll.Found)
	assert.Equal(t, 75000.0, result.Payroll.Value)
	assert.False(t, result.Turnover.Found)
	assert.False(t, result.HeadlineRent.Found)
}

func TestSpreadsheetExtractCorruptWorkbook(t *testing.T) {
	adapter := NewSpreadsheetAdapter("Financial Summary")
	_, err := adapter.Extract([]byte("not a workbook"))

	assert.Error(t, err)
}

func TestSpreadsheetExtractLabelWithoutValueColumn(t *testing.T) {
	data := buildWorkbook(t, "Financial Summary", map[string]interface{}{
		"A1": "Staff Costs",
	})

	adapter := NewSpreadsheetAdapter("Financial Summary")
	result, err := adapter.Extract(data)

	assert.NoError(t, err)
	assert.False(t, result.Payroll.Found)
}
