package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akggautamasar/shopmatee-api/internal/service"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
	"github.com/akggautamasar/shopmatee-api/pkg/response"
)

// PeriodHandler wires period configuration routes.
type PeriodHandler struct {
	periods *service.PeriodService
}

// NewPeriodHandler constructs a new PeriodHandler.
func NewPeriodHandler(periods *service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periods: periods}
}

// List godoc
// @Summary List configured periods
// @Tags Periods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	periods, err := h.periods.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Replace godoc
// @Summary Replace the period configuration
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body service.ReplacePeriodsRequest true "Periods payload"
// @Success 200 {object} response.Envelope
// @Router /periods [put]
func (h *PeriodHandler) Replace(c *gin.Context) {
	var req service.ReplacePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid periods payload"))
		return
	}
	periods, err := h.periods.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}
