package service

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/propdata/building-financial-profile/dto"
)

// defaultOCR is the occupancy cost ratio used to infer turnover from rental
// when no turnover figure was extracted.
const defaultOCR = 0.20

// floorAreaPerLevel drives the floor-count fallback: one floor per 10k sqft.
const floorAreaPerLevel = 10000.0

// multiTenantThreshold is the footage above which a building is assumed
// multi-tenanted when no manual override was given.
const multiTenantThreshold = 10000.0

// StaffingBand maps a square-footage band to an occupancy estimate. Bands
// are evaluated in ascending order with sqft < UpperBound; the else band
// covers footage at or above the last bound.
type StaffingBand struct {
	UpperBound float64 `yaml:"upper_bound"`
	FTE        float64 `yaml:"fte"`
	Payroll    float64 `yaml:"payroll"`
}

type staffingTable struct {
	Bands []StaffingBand `yaml:"bands"`
	Else  StaffingBand   `yaml:"else"`
}

func defaultStaffingTable() staffingTable {
	return staffingTable{
		Bands: []StaffingBand{
			{UpperBound: 10000, FTE: 0.5, Payroll: 50000},
			{UpperBound: 15000, FTE: 1.0, Payroll: 65000},
			{UpperBound: 20000, FTE: 1.5, Payroll: 110000},
		},
		Else: StaffingBand{FTE: 2.0, Payroll: 110000},
	}
}

// Resolver merges extracted, looked-up and locally estimated values into one
// consistent profile. Resolution is a pure function of its inputs plus the
// injected age sampler; repeated calls with the same inputs and sampler
// output yield identical profiles.
type Resolver struct {
	table staffingTable

	// AgeSampler supplies the building age when no manual override was
	// given. Defaults to a uniform draw in [20, 50].
	AgeSampler func() int
}

// NewResolver builds a resolver using the staffing band table at bandPath,
// or the compiled-in defaults when bandPath is empty or unreadable.
func NewResolver(bandPath string) *Resolver {
	table := defaultStaffingTable()

	if bandPath != "" {
		loaded, err := loadStaffingTable(bandPath)
		if err != nil {
			log.Printf("Staffing band table %s not usable, using defaults: %v", bandPath, err)
		} else {
			table = loaded
		}
	}

	return &Resolver{
		table: table,
		AgeSampler: func() int {
			return 20 + rand.Intn(31)
		},
	}
}

func loadStaffingTable(path string) (staffingTable, error) {
	var table staffingTable

	raw, err := os.ReadFile(path)
	if err != nil {
		return table, fmt.Errorf("failed to read band table: %w", err)
	}
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return table, fmt.Errorf("failed to parse band table: %w", err)
	}
	if len(table.Bands) == 0 {
		return table, fmt.Errorf("band table has no bands")
	}
	return table, nil
}

// Resolve applies the per-field precedence chain. Field branches are
// independent: an absent extraction or enrichment value never blocks the
// resolution of sibling fields.
func (r *Resolver) Resolve(req *dto.ReportRequest, extraction dto.ExtractionResult, enrichment dto.EnrichmentResult) dto.ResolvedProfile {
	profile := dto.ResolvedProfile{
		Address:  req.Address,
		Currency: req.Currency,
	}

	// A document-reported gross floor area overrides the user-supplied
	// footage for every footage-driven heuristic tier.
	sqft := req.SquareFootage
	if extraction.GrossAreaOverride.Found {
		sqft = extraction.GrossAreaOverride.Value
	}

	r.resolveStaffing(sqft, extraction, &profile)
	r.resolveFinancials(sqft, req.MarketRent, extraction, &profile)
	r.resolveBuildingFacts(sqft, req, enrichment, &profile)

	return profile
}

func (r *Resolver) resolveStaffing(sqft float64, extraction dto.ExtractionResult, profile *dto.ResolvedProfile) {
	if extraction.Payroll.Found {
		profile.Payroll = extraction.Payroll.Value
		profile.FTE = fteFromPayroll(extraction.Payroll.Value)
		profile.PayrollSource = dto.SourceDocument
		return
	}

	band := r.bandFor(sqft)
	profile.FTE = band.FTE
	profile.Payroll = band.Payroll
	profile.PayrollSource = dto.SourceHeuristic
}

func (r *Resolver) bandFor(sqft float64) StaffingBand {
	for _, band := range r.table.Bands {
		if sqft < band.UpperBound {
			return band
		}
	}
	return r.table.Else
}

// fteFromPayroll estimates headcount from a document-sourced payroll figure.
// The thresholds mirror the square-footage bands' payroll levels; the exact
// banding is unconfirmed business logic (see DESIGN.md).
func fteFromPayroll(payroll float64) float64 {
	switch {
	case payroll < 60000:
		return 0.5
	case payroll < 100000:
		return 1.0
	case payroll < 150000:
		return 1.5
	default:
		return 2.0
	}
}

func (r *Resolver) resolveFinancials(sqft, marketRent float64, extraction dto.ExtractionResult, profile *dto.ResolvedProfile) {
	switch {
	case extraction.Rental.Found:
		profile.RentalEstimate = extraction.Rental.Value
		profile.HasRentalEstimate = true
		profile.RentalSource = dto.SourceDocument
	case extraction.HeadlineRent.Found && extraction.RentableArea.Found:
		profile.RentalEstimate = extraction.HeadlineRent.Value * extraction.RentableArea.Value
		profile.HasRentalEstimate = true
		profile.RentalSource = dto.SourceDocument
	case sqft > 0 && marketRent > 0:
		profile.RentalEstimate = sqft * marketRent
		profile.HasRentalEstimate = true
		profile.RentalSource = dto.SourceManual
	}

	switch {
	case extraction.Turnover.Found:
		profile.AnnualTurnover = extraction.Turnover.Value
		profile.HasAnnualTurnover = true
	case profile.HasRentalEstimate && profile.RentalEstimate > 0:
		profile.AnnualTurnover = profile.RentalEstimate / defaultOCR
		profile.HasAnnualTurnover = true
	}

	// Profit is revenue minus cost: turnover minus rental, never the reverse.
	if profile.HasAnnualTurnover && profile.HasRentalEstimate {
		profile.GrossProfit = profile.AnnualTurnover - profile.RentalEstimate
		profile.HasGrossProfit = true
	}
}

func (r *Resolver) resolveBuildingFacts(sqft float64, req *dto.ReportRequest, enrichment dto.EnrichmentResult, profile *dto.ResolvedProfile) {
	if req.BuildingAge != 0 {
		profile.BuildingAge = req.BuildingAge
	} else {
		profile.BuildingAge = r.AgeSampler()
	}

	switch {
	case req.NumFloors != 0:
		profile.NumFloors = req.NumFloors
		profile.FloorsSource = dto.SourceManual
	case enrichment.FloorsFound:
		profile.NumFloors = enrichment.Floors
		profile.FloorsSource = dto.SourceEnrichment
	default:
		floors := int(math.Floor(sqft / floorAreaPerLevel))
		if floors < 1 {
			floors = 1
		}
		profile.NumFloors = floors
		profile.FloorsSource = dto.SourceHeuristic
	}

	if req.MultiTenanted != dto.MultiTenantedUnknown && req.MultiTenanted != "" {
		profile.MultiTenanted = req.MultiTenanted
	} else if sqft > multiTenantThreshold {
		profile.MultiTenanted = dto.MultiTenantedYes
	} else {
		profile.MultiTenanted = dto.MultiTenantedNo
	}
}
