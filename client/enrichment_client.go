package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/propdata/building-financial-profile/dto"
)

// EnrichmentClient wraps the two external lookups used to enrich a building
// profile: free-text geocoding and a spatial-feature query for the building
// floor count. Both calls are best-effort; any transport error, timeout or
// malformed response degrades to an absent result.
type EnrichmentClient struct {
	geocodeURL      string
	featureQueryURL string
	radiusMeters    int
	httpClient      *http.Client
}

// NewEnrichmentClient creates a client against the configured geocoding and
// feature-query endpoints.
func NewEnrichmentClient(geocodeURL, featureQueryURL string, radiusMeters int, timeout time.Duration) *EnrichmentClient {
	return &EnrichmentClient{
		geocodeURL:      geocodeURL,
		featureQueryURL: featureQueryURL,
		radiusMeters:    radiusMeters,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

// LookupBuilding geocodes the address and, when coordinates were found,
// queries the feature service for a tagged floor count near them. It never
// returns an error: enrichment must not interrupt report generation.
func (e *EnrichmentClient) LookupBuilding(ctx context.Context, address string) dto.EnrichmentResult {
	result := dto.EnrichmentResult{}

	lat, lon, err := e.Geocode(ctx, address)
	if err != nil {
		log.Printf("Geocoding unavailable for %q: %v", address, err)
		return result
	}
	result.Latitude = lat
	result.Longitude = lon
	result.Located = true

	floors, err := e.QueryBuildingLevels(ctx, lat, lon)
	if err != nil {
		log.Printf("Feature lookup unavailable at (%.5f, %.5f): %v", lat, lon, err)
		return result
	}
	result.Floors = floors
	result.FloorsFound = true

	return result
}

// Geocode resolves a free-text address to coordinates. The request carries a
// result limit of 1; the first element of the JSON array response is consumed.
func (e *EnrichmentClient) Geocode(ctx context.Context, address string) (float64, float64, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "building-financial-profile/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, 0, fmt.Errorf("geocode service returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocode result for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	return lat, lon, nil
}

var levelsDigits = regexp.MustCompile(`\d+`)

// QueryBuildingLevels asks the spatial-feature service for building features
// within the configured radius of a coordinate and reads a levels attribute
// from the first element that carries one. The first integer substring of the
// attribute text is parsed.
func (e *EnrichmentClient) QueryBuildingLevels(ctx context.Context, lat, lon float64) (int, error) {
	query := fmt.Sprintf(
		`[out:json];way(around:%d,%f,%f)["building"];out tags 10;`,
		e.radiusMeters, lat, lon,
	)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.featureQueryURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("failed to build feature query: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("feature query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("feature service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Elements []struct {
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode feature response: %w", err)
	}

	for _, element := range result.Elements {
		for tag, value := range element.Tags {
			if !strings.Contains(tag, "levels") {
				continue
			}
			if digits := levelsDigits.FindString(value); digits != "" {
				levels, err := strconv.Atoi(digits)
				if err == nil && levels > 0 {
					return levels, nil
				}
			}
		}
	}

	return 0, fmt.Errorf("no building feature with a levels attribute nearby")
}
