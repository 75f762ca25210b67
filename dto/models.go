package dto

import "github.com/propdata/building-financial-profile/utils/gridscan"

type Currency string

const (
	CurrencyCAD Currency = "CAD"
	CurrencyUSD Currency = "USD"
)

type MultiTenanted string

const (
	MultiTenantedUnknown MultiTenanted = "Unknown"
	MultiTenantedYes     MultiTenanted = "Yes"
	MultiTenantedNo      MultiTenanted = "No"
)

// ExtractionResult holds the figures the pipeline attempts to recover from an
// uploaded financial summary. Every field degrades independently to absent.
type ExtractionResult struct {
	Payroll      gridscan.LabeledValue `json:"payroll"`
	Rental       gridscan.LabeledValue `json:"rental"`
	Turnover     gridscan.LabeledValue `json:"turnover"`
	HeadlineRent gridscan.LabeledValue `json:"headline_rent"`
	RentableArea gridscan.LabeledValue `json:"rentable_area"`

	// GrossAreaOverride is the optional labelled scalar scanned from full
	// page text (PDF sources only).
	GrossAreaOverride gridscan.LabeledValue `json:"gross_area_override"`

	// Notes records why parts of the extraction were skipped or degraded.
	Notes []string `json:"notes,omitempty"`
}

// EmptyExtraction is the all-absent result used when no document was
// uploaded or the document could not be opened.
func EmptyExtraction() ExtractionResult {
	return ExtractionResult{
		Payroll:           gridscan.Absent(),
		Rental:            gridscan.Absent(),
		Turnover:          gridscan.Absent(),
		HeadlineRent:      gridscan.Absent(),
		RentableArea:      gridscan.Absent(),
		GrossAreaOverride: gridscan.Absent(),
	}
}

// EnrichmentResult carries the best-effort external lookup outcome.
type EnrichmentResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Located   bool    `json:"located"`

	Floors      int  `json:"floors"`
	FloorsFound bool `json:"floors_found"`
}

// FieldSource records where a resolved figure came from.
type FieldSource string

const (
	SourceDocument   FieldSource = "document"
	SourceManual     FieldSource = "manual"
	SourceHeuristic  FieldSource = "heuristic"
	SourceEnrichment FieldSource = "enrichment"
)

// ResolvedProfile is the final field set consumed by the report renderer.
// Constructed fresh per request, never persisted, immutable once built.
type ResolvedProfile struct {
	Address       string        `json:"address"`
	Currency      Currency      `json:"currency"`
	BuildingAge   int           `json:"building_age"`
	NumFloors     int           `json:"num_floors"`
	MultiTenanted MultiTenanted `json:"multi_tenanted"`

	FTE     float64 `json:"fte"`
	Payroll float64 `json:"payroll"`

	RentalEstimate    float64 `json:"rental_estimate"`
	HasRentalEstimate bool    `json:"has_rental_estimate"`
	AnnualTurnover    float64 `json:"annual_turnover"`
	HasAnnualTurnover bool    `json:"has_annual_turnover"`
	GrossProfit       float64 `json:"gross_profit"`
	HasGrossProfit    bool    `json:"has_gross_profit"`

	// Provenance per derived field, surfaced in the response payload.
	PayrollSource FieldSource `json:"payroll_source"`
	RentalSource  FieldSource `json:"rental_source,omitempty"`
	FloorsSource  FieldSource `json:"floors_source"`
}
