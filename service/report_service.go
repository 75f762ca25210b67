package service

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/propdata/building-financial-profile/client"
	"github.com/propdata/building-financial-profile/dto"
)

type ReportService struct {
	pdfAdapter         PDFAdapter
	spreadsheetAdapter SpreadsheetAdapter
	enrichmentClient   *client.EnrichmentClient
	resolver           *Resolver
	renderer           ReportRenderer
}

func NewReportService(
	pdfAdapter PDFAdapter,
	spreadsheetAdapter SpreadsheetAdapter,
	enrichmentClient *client.EnrichmentClient,
	resolver *Resolver,
	renderer ReportRenderer,
) *ReportService {
	return &ReportService{
		pdfAdapter:         pdfAdapter,
		spreadsheetAdapter: spreadsheetAdapter,
		enrichmentClient:   enrichmentClient,
		resolver:           resolver,
		renderer:           renderer,
	}
}

// reportContext holds the state of one report-generation request. It is
// constructed fresh per call and discarded after rendering.
type reportContext struct {
	requestID  string
	request    *dto.ReportRequest
	extraction dto.ExtractionResult
	enrichment dto.EnrichmentResult
}

// GenerateReport runs the full pipeline: document extraction and external
// enrichment (independent of each other, run concurrently), then value
// resolution and rendering. Only a renderer failure aborts the request;
// extraction and enrichment degrade to absent values.
func (s *ReportService) GenerateReport(ctx context.Context, req *dto.ReportRequest) (*dto.ReportResponse, error) {
	rc := &reportContext{
		requestID: uuid.NewString(),
		request:   req,
	}

	log.Printf("[%s] Generating report for %q (%.0f sqft)", rc.requestID, req.Address, req.SquareFootage)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		rc.extraction = s.extractDocument(rc.requestID, req.Document)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		rc.enrichment = s.enrichmentClient.LookupBuilding(ctx, req.Address)
	}()

	wg.Wait()

	profile := s.resolver.Resolve(rc.request, rc.extraction, rc.enrichment)

	report, err := s.renderer.Render(profile)
	if err != nil {
		return nil, err
	}

	return &dto.ReportResponse{
		RequestID:   rc.requestID,
		Profile:     profile,
		Report:      report,
		Extraction:  rc.extraction,
		Enrichment:  rc.enrichment,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// extractDocument picks the adapter by filename extension and runs it. Any
// failure to open or parse the source yields an all-absent extraction; the
// pipeline continues on heuristics.
func (s *ReportService) extractDocument(requestID string, fileHeader *multipart.FileHeader) dto.ExtractionResult {
	if fileHeader == nil {
		return dto.EmptyExtraction()
	}

	f, err := fileHeader.Open()
	if err != nil {
		log.Printf("[%s] Failed to open uploaded file %s: %v", requestID, fileHeader.Filename, err)
		return unavailable("document could not be opened")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		log.Printf("[%s] Failed to read uploaded file %s: %v", requestID, fileHeader.Filename, err)
		return unavailable("document could not be read")
	}

	name := strings.ToLower(fileHeader.Filename)
	var result dto.ExtractionResult
	switch {
	case strings.HasSuffix(name, ".pdf"):
		result, err = s.pdfAdapter.Extract(data)
	case strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm"):
		result, err = s.spreadsheetAdapter.Extract(data)
	default:
		log.Printf("[%s] Unsupported document type: %s", requestID, fileHeader.Filename)
		return unavailable("unsupported document type")
	}

	if err != nil {
		log.Printf("[%s] Extraction unavailable for %s: %v", requestID, fileHeader.Filename, err)
		return unavailable(err.Error())
	}

	return result
}

func unavailable(note string) dto.ExtractionResult {
	result := dto.EmptyExtraction()
	result.Notes = append(result.Notes, "extraction unavailable: "+note)
	return result
}
