package service

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/propdata/building-financial-profile/dto"
	"github.com/propdata/building-financial-profile/utils/gridscan"
)

// thousandsScale is the reporting convention of PDF financial summaries:
// payroll and turnover line items are expressed in thousands.
const thousandsScale = 1000.0

// cellGapThreshold is the horizontal gap (in PDF points) beyond which two
// text runs on the same line are treated as separate cells.
const cellGapThreshold = 12.0

type PDFAdapter interface {
	Extract(pdfData []byte) (dto.ExtractionResult, error)
}

type pdfAdapter struct{}

func NewPDFAdapter() PDFAdapter {
	return &pdfAdapter{}
}

var grossAreaPattern = regexp.MustCompile(`(?i)gross\s+area\s+sqft\s*:?\s*([0-9][0-9,]*\.?[0-9]*)`)

// Extract flattens every page of the document into table grids, locates the
// financial line items, and scans full page text for the gross-area scalar.
// An unreadable document returns an error; the caller treats that as
// "extraction unavailable" and continues with absent values.
func (a *pdfAdapter) Extract(pdfData []byte) (dto.ExtractionResult, error) {
	result := dto.EmptyExtraction()

	conf := model.NewDefaultConfiguration()
	if err := api.Validate(bytes.NewReader(pdfData), conf); err != nil {
		return result, fmt.Errorf("pdf validation failed: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return result, fmt.Errorf("failed to open pdf: %w", err)
	}

	grids, pageLines := readPages(reader)
	if len(grids) == 0 {
		return result, fmt.Errorf("no page content detected")
	}

	result.Payroll = scale(findAcrossGrids(grids, payrollLocator), thousandsScale)
	result.Rental = scale(findAcrossGrids(grids, rentalLocator), thousandsScale)
	result.Turnover = scale(findAcrossGrids(grids, turnoverLocator), thousandsScale)
	result.HeadlineRent = findAcrossGrids(grids, headlineRentLocator)
	result.RentableArea = findAcrossGrids(grids, rentableAreaLocator)
	result.GrossAreaOverride = scanGrossArea(pageLines)

	return result, nil
}

// readPages groups each page's positioned text runs into rows and cells.
// Runs on one line separated by less than cellGapThreshold merge into one
// cell; wider gaps open a new cell. Each page yields one Grid, in page order.
func readPages(reader *pdf.Reader) ([]gridscan.Grid, []string) {
	var grids []gridscan.Grid
	var pageLines []string

	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var grid gridscan.Grid
		for _, row := range rows {
			cells := groupRowCells(row.Content)
			if len(cells) == 0 {
				continue
			}
			grid = append(grid, cells)
			pageLines = append(pageLines, strings.Join(cells, " "))
		}

		if len(grid) > 0 {
			grids = append(grids, grid)
		}
	}

	return grids, pageLines
}

func groupRowCells(content pdf.TextHorizontal) []string {
	var cells []string
	var current strings.Builder
	var lastEnd float64

	for _, text := range content {
		run := strings.TrimSpace(text.S)
		if run == "" {
			continue
		}

		if current.Len() > 0 && text.X-lastEnd > cellGapThreshold {
			cells = append(cells, current.String())
			current.Reset()
		} else if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(run)
		lastEnd = text.X + text.W
	}

	if current.Len() > 0 {
		cells = append(cells, current.String())
	}

	return cells
}

type gridLocator func(gridscan.Grid) gridscan.LabeledValue

func payrollLocator(g gridscan.Grid) gridscan.LabeledValue {
	return gridscan.FindNumberAfterPhrase(g, "staff costs", 0)
}

func rentalLocator(g gridscan.Grid) gridscan.LabeledValue {
	return gridscan.FindNumberAfterPhrase(g, "rental income", 0)
}

func turnoverLocator(g gridscan.Grid) gridscan.LabeledValue {
	if v := gridscan.FindNumberAfterPhrase(g, "gross revenue", 0); v.Found {
		return v
	}
	// Some summaries title the line and put the figure on the row below.
	return gridscan.FindNumberBelowPhrase(g, "annual turnover", 1)
}

func headlineRentLocator(g gridscan.Grid) gridscan.LabeledValue {
	return gridscan.FindNumberAfterPhrase(g, "headline rent", 0)
}

func rentableAreaLocator(g gridscan.Grid) gridscan.LabeledValue {
	return gridscan.FindNumberAfterPhrase(g, "rentable area", 0)
}

// findAcrossGrids searches every page grid in order; the first grid that
// yields a value wins.
func findAcrossGrids(grids []gridscan.Grid, locate gridLocator) gridscan.LabeledValue {
	for _, grid := range grids {
		if v := locate(grid); v.Found {
			return v
		}
	}
	return gridscan.Absent()
}

func scanGrossArea(lines []string) gridscan.LabeledValue {
	for i, line := range lines {
		matches := grossAreaPattern.FindStringSubmatch(line)
		if len(matches) < 2 {
			continue
		}
		raw := strings.ReplaceAll(matches[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return gridscan.LabeledValue{Found: true, Value: value, SourceRow: i}
	}
	return gridscan.Absent()
}

func scale(v gridscan.LabeledValue, factor float64) gridscan.LabeledValue {
	if !v.Found {
		return v
	}
	v.Value *= factor
	return v
}
