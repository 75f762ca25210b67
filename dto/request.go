package dto

import (
	"errors"
	"mime/multipart"
)

// Custom errors
var (
	ErrFieldsIncomplete = errors.New("fields incomplete: address, square footage and market rent are required")
	ErrTemplateLoad     = errors.New("report template could not be loaded")
)

// ReportRequest represents the incoming report-generation request.
// Document is optional; the pipeline runs on manual inputs and heuristics
// when no financial summary was uploaded.
type ReportRequest struct {
	Address       string                `form:"address" binding:"required"`
	Currency      Currency              `form:"currency"`
	SquareFootage float64               `form:"square_footage"`
	MarketRent    float64               `form:"market_rent"`
	MultiTenanted MultiTenanted         `form:"multi_tenanted"`
	BuildingAge   int                   `form:"building_age"` // 0 = unset
	NumFloors     int                   `form:"num_floors"`   // 0 = unset
	Document      *multipart.FileHeader `form:"document"`
}

// Validate performs the report-trigger validation. Nothing is computed when
// it fails.
func (r *ReportRequest) Validate() error {
	if r.Address == "" || r.SquareFootage <= 0 || r.MarketRent <= 0 {
		return ErrFieldsIncomplete
	}
	if r.Currency == "" {
		r.Currency = CurrencyCAD
	}
	if r.Currency != CurrencyCAD && r.Currency != CurrencyUSD {
		return errors.New("currency must be CAD or USD")
	}
	if r.MultiTenanted == "" {
		r.MultiTenanted = MultiTenantedUnknown
	}
	if r.BuildingAge < 0 || r.NumFloors < 0 {
		return errors.New("building age and floor count must not be negative")
	}
	return nil
}
