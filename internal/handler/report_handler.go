package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akggautamasar/shopmatee-api/internal/service"
	"github.com/akggautamasar/shopmatee-api/pkg/response"
)

// ReportHandler wires reporting routes.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SubstitutionStats godoc
// @Summary Per-substitute workload totals over a date range
// @Tags Reports
// @Produce json
// @Param date_from query string false "Start date (YYYY-MM-DD), unbounded when omitted"
// @Param date_to query string false "End date (YYYY-MM-DD), unbounded when omitted"
// @Success 200 {object} response.Envelope
// @Router /reports/substitutions [get]
func (h *ReportHandler) SubstitutionStats(c *gin.Context) {
	from := c.Query("date_from")
	to := c.Query("date_to")
	stats, err := h.reports.Stats(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
