package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ReportResponse is the final response structure
type ReportResponse struct {
	RequestID   string           `json:"request_id"`
	Profile     ResolvedProfile  `json:"profile"`
	Report      string           `json:"report"`
	Extraction  ExtractionResult `json:"extraction"`
	Enrichment  EnrichmentResult `json:"enrichment"`
	ProcessedAt string           `json:"processed_at"`
}
