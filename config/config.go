package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort       string
	MaxFileSize      int64
	SheetName        string
	TemplatePath     string
	StaffingBandPath string
	GeocodeURL       string
	FeatureQueryURL  string
	LookupTimeout    time.Duration
	FeatureRadiusM   int
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sheetName := os.Getenv("SUMMARY_SHEET_NAME")
	if sheetName == "" {
		sheetName = "Financial Summary"
	}

	geocodeURL := os.Getenv("GEOCODE_URL")
	if geocodeURL == "" {
		geocodeURL = "https://nominatim.openstreetmap.org/search"
	}

	featureURL := os.Getenv("FEATURE_QUERY_URL")
	if featureURL == "" {
		featureURL = "https://overpass-api.de/api/interpreter"
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("LOOKUP_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	radius := 50
	if raw := os.Getenv("FEATURE_RADIUS_METERS"); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m > 0 {
			radius = m
		}
	}

	return &Config{
		ServerPort:       serverPort,
		MaxFileSize:      10 * 1024 * 1024, // 10 MB
		SheetName:        sheetName,
		TemplatePath:     os.Getenv("REPORT_TEMPLATE_PATH"),
		StaffingBandPath: os.Getenv("STAFFING_BANDS_PATH"),
		GeocodeURL:       geocodeURL,
		FeatureQueryURL:  featureURL,
		LookupTimeout:    timeout,
		FeatureRadiusM:   radius,
	}
}
