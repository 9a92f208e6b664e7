package handler

import (
	"time"

	"github.com/cashdesk/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles the reporting endpoints
type ReportHandler struct {
	BaseHandler
	closing      *report.ClosingService
	consolidated *report.ConsolidatedService
	forecast     *report.ForecastService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	closing *report.ClosingService,
	consolidated *report.ConsolidatedService,
	forecast *report.ForecastService,
) *ReportHandler {
	return &ReportHandler{
		closing:      closing,
		consolidated: consolidated,
		forecast:     forecast,
	}
}

// GetClosingReport returns the monthly closing matrix
func (h *ReportHandler) GetClosingReport(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	startMonth := c.Query("start_month")
	endMonth := c.Query("end_month")
	if startMonth == "" || endMonth == "" {
		h.BadRequest(c, "start_month and end_month are required (YYYY-MM)")
		return
	}

	resp, err := h.closing.GetClosingReport(c.Request.Context(), projectID, startMonth, endMonth)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetConsolidatedReport returns the consolidated result report
func (h *ReportHandler) GetConsolidatedReport(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	view := c.DefaultQuery("view", report.ViewCash)
	startMonth := c.Query("start_month")
	endMonth := c.Query("end_month")
	if startMonth == "" || endMonth == "" {
		h.BadRequest(c, "start_month and end_month are required (YYYY-MM)")
		return
	}

	resp, err := h.consolidated.GetConsolidatedReport(c.Request.Context(), projectID, view, startMonth, endMonth)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetForecast returns the day-bucketed cash projection
func (h *ReportHandler) GetForecast(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		h.BadRequest(c, "start must be formatted as YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		h.BadRequest(c, "end must be formatted as YYYY-MM-DD")
		return
	}

	resp, err := h.forecast.GetForecast(c.Request.Context(), projectID, start, end)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/closing", h.GetClosingReport)
		reports.GET("/consolidated", h.GetConsolidatedReport)
		reports.GET("/forecast", h.GetForecast)
	}
}
