package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/propdata/building-financial-profile/client"
	"github.com/propdata/building-financial-profile/config"
	"github.com/propdata/building-financial-profile/handler"
	"github.com/propdata/building-financial-profile/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize document adapters
	pdfAdapter := service.NewPDFAdapter()
	spreadsheetAdapter := service.NewSpreadsheetAdapter(cfg.SheetName)

	// Initialize enrichment client
	enrichmentClient := client.NewEnrichmentClient(
		cfg.GeocodeURL,
		cfg.FeatureQueryURL,
		cfg.FeatureRadiusM,
		cfg.LookupTimeout,
	)

	// Initialize resolver and renderer
	resolver := service.NewResolver(cfg.StaffingBandPath)
	renderer, err := service.NewReportRenderer(cfg.TemplatePath)
	if err != nil {
		log.Fatalf("Failed to load report template: %v", err)
	}

	// Initialize service layer
	reportService := service.NewReportService(pdfAdapter, spreadsheetAdapter, enrichmentClient, resolver, renderer)

	// Initialize handler layer
	reportHandler := handler.NewReportHandler(reportService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Building Financial Profile",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		report := api.Group("/report")
		{
			report.POST("/generate", reportHandler.GenerateReport)
		}
	}

	// Start server
	log.Printf("Starting Building Financial Profile Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
