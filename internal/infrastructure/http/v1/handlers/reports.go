package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/reports"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles equity reporting and the monthly archive.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers report endpoints.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/equity", h.Equity)
	rg.POST("/reports/monthly", h.GenerateMonthly)
	rg.GET("/reports/monthly", h.ListMonthly)
	rg.GET("/reports/monthly/:year/:month", h.GetMonthly)
}

// Equity returns the distribution equity report.
func (h *ReportsHandler) Equity(c *gin.Context) {
	var query dto.EquityReportQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.Equity(c.Request.Context(), query.WindowDays)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GenerateMonthly builds and archives the caller's report for a month.
func (h *ReportsHandler) GenerateMonthly(c *gin.Context) {
	var req dto.MonthlyReportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	report, err := h.service.GenerateMonthly(c.Request.Context(), h.InstitutionID(c), req.Year, req.Month)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(201, report)
}

// ListMonthly lists the caller's archived reports.
func (h *ReportsHandler) ListMonthly(c *gin.Context) {
	entries, err := h.service.ListArchive(c.Request.Context(), h.InstitutionID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, Count: len(entries)})
}

// GetMonthly returns one archived report, decompressed.
func (h *ReportsHandler) GetMonthly(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		h.Error(c, apperror.NewValidation("invalid month"))
		return
	}

	report, err := h.service.GetMonthly(c.Request.Context(), h.InstitutionID(c), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
