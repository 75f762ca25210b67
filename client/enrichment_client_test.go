package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "100 King St W, Toronto", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"43.6487","lon":"-79.3817"}]`))
	}))
	defer srv.Close()

	c := NewEnrichmentClient(srv.URL, srv.URL, 50, 5*time.Second)
	lat, lon, err := c.Geocode(context.Background(), "100 King St W, Toronto")

	assert.NoError(t, err)
	assert.Equal(t, 43.6487, lat)
	assert.Equal(t, -79.3817, lon)
}

func TestGeocodeEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewEnrichmentClient(srv.URL, srv.URL, 50, 5*time.Second)
	_, _, err := c.Geocode(context.Background(), "nowhere")

	assert.Error(t, err)
}

func TestQueryBuildingLevels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"elements":[{"tags":{"building":"office","building:levels":"12"}}]}`))
	}))
	defer srv.Close()

	c := NewEnrichmentClient(srv.URL, srv.URL, 50, 5*time.Second)
	levels, err := c.QueryBuildingLevels(context.Background(), 43.6487, -79.3817)

	assert.NoError(t, err)
	assert.Equal(t, 12, levels)
}

func TestQueryBuildingLevelsNonNumericTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[{"tags":{"building:levels":"approx 8 above ground"}}]}`))
	}))
	defer srv.Close()

	c := NewEnrichmentClient(srv.URL, srv.URL, 50, 5*time.Second)
	levels, err := c.QueryBuildingLevels(context.Background(), 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, 8, levels)
}

func TestLookupBuildingDegradesOnGeocodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewEnrichmentClient(srv.URL, srv.URL, 50, 5*time.Second)
	result := c.LookupBuilding(context.Background(), "100 King St W")

	assert.False(t, result.Located)
	assert.False(t, result.FloorsFound)
}

func TestLookupBuildingDegradesOnEmptyFeatures(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"43.0","lon":"-79.0"}]`))
	}))
	defer geo.Close()
	features := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer features.Close()

	c := NewEnrichmentClient(geo.URL, features.URL, 50, 5*time.Second)
	result := c.LookupBuilding(context.Background(), "100 King St W")

	assert.True(t, result.Located)
	assert.False(t, result.FloorsFound)
}
