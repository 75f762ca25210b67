package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/propdata/building-financial-profile/client"
	"github.com/propdata/building-financial-profile/dto"
)

func newTestService(t *testing.T, enrichmentURL string) *ReportService {
	t.Helper()

	renderer, err := NewReportRenderer("")
	assert.NoError(t, err)

	resolver := NewResolver("")
	resolver.AgeSampler = func() int { return 30 }

	enrichment := client.NewEnrichmentClient(enrichmentURL, enrichmentURL, 50, 2*time.Second)

	return NewReportService(
		NewPDFAdapter(),
		NewSpreadsheetAdapter("Financial Summary"),
		enrichment,
		resolver,
		renderer,
	)
}

func TestGenerateReportWithoutDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Geocoding yields nothing; floors fall through to the heuristic.
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	req := &dto.ReportRequest{
		Address:       "100 King St W, Toronto",
		Currency:      dto.CurrencyCAD,
		SquareFootage: 5000,
		MarketRent:    40,
		MultiTenanted: dto.MultiTenantedUnknown,
	}

	response, err := svc.GenerateReport(context.Background(), req)

	assert.NoError(t, err)
	assert.NotEmpty(t, response.RequestID)
	assert.Equal(t, 200000.0, response.Profile.RentalEstimate)
	assert.Equal(t, 1000000.0, response.Profile.AnnualTurnover)
	assert.Equal(t, 800000.0, response.Profile.GrossProfit)
	assert.Equal(t, 1, response.Profile.NumFloors)
	assert.Contains(t, response.Report, "CAD 200,000.00")
	assert.False(t, response.Enrichment.Located)
	assert.NotEmpty(t, response.ProcessedAt)
}

func TestGenerateReportUsesEnrichedFloors(t *testing.T) {
	var geocodeHit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			geocodeHit = true
			w.Write([]byte(`[{"lat":"43.6487","lon":"-79.3817"}]`))
			return
		}
		w.Write([]byte(`{"elements":[{"tags":{"building:levels":"9"}}]}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	req := &dto.ReportRequest{
		Address:       "100 King St W, Toronto",
		Currency:      dto.CurrencyUSD,
		SquareFootage: 25000,
		MarketRent:    55,
	}

	response, err := svc.GenerateReport(context.Background(), req)

	assert.NoError(t, err)
	assert.True(t, geocodeHit)
	assert.Equal(t, 9, response.Profile.NumFloors)
	assert.Equal(t, dto.SourceEnrichment, response.Profile.FloorsSource)
}

func TestExtractDocumentNilFile(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:0")

	result := svc.extractDocument("test", nil)

	assert.False(t, result.Payroll.Found)
	assert.Empty(t, result.Notes)
}
