package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/propdata/building-financial-profile/dto"
	"github.com/propdata/building-financial-profile/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GenerateReport handles the POST /report/generate endpoint
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	log.Println("Received report generation request")

	request, err := h.parseRequest(c)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return
	}

	// Validate before any extraction or rendering happens.
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, "FIELDS_INCOMPLETE", err.Error(), err)
		return
	}

	response, err := h.reportService.GenerateReport(c.Request.Context(), request)
	if err != nil {
		code := "REPORT_FAILED"
		if errors.Is(err, dto.ErrTemplateLoad) {
			code = "TEMPLATE_UNAVAILABLE"
		}
		h.sendError(c, http.StatusInternalServerError, code, "Failed to generate report", err)
		return
	}

	log.Printf("Report %s generated successfully", response.RequestID)
	c.JSON(http.StatusOK, response)
}

// parseRequest reads the multipart form fields. The document upload is
// optional; numeric fields default to zero when absent.
func (h *ReportHandler) parseRequest(c *gin.Context) (*dto.ReportRequest, error) {
	request := &dto.ReportRequest{
		Address:       c.PostForm("address"),
		Currency:      dto.Currency(c.PostForm("currency")),
		MultiTenanted: dto.MultiTenanted(c.PostForm("multi_tenanted")),
	}

	var err error
	if raw := c.PostForm("square_footage"); raw != "" {
		if request.SquareFootage, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, errors.New("square_footage must be a number")
		}
	}
	if raw := c.PostForm("market_rent"); raw != "" {
		if request.MarketRent, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, errors.New("market_rent must be a number")
		}
	}
	if raw := c.PostForm("building_age"); raw != "" {
		if request.BuildingAge, err = strconv.Atoi(raw); err != nil {
			return nil, errors.New("building_age must be an integer")
		}
	}
	if raw := c.PostForm("num_floors"); raw != "" {
		if request.NumFloors, err = strconv.Atoi(raw); err != nil {
			return nil, errors.New("num_floors must be an integer")
		}
	}

	if fileHeader, err := c.FormFile("document"); err == nil {
		request.Document = fileHeader
	}

	return request, nil
}

// sendError sends a structured error response
func (h *ReportHandler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	if err != nil {
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}
