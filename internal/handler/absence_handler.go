package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akggautamasar/shopmatee-api/internal/service"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
	"github.com/akggautamasar/shopmatee-api/pkg/response"
)

// AbsenceHandler wires absence routes.
type AbsenceHandler struct {
	absences *service.AbsenceService
}

// NewAbsenceHandler constructs a new AbsenceHandler.
func NewAbsenceHandler(absences *service.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{absences: absences}
}

// Mark godoc
// @Summary Mark a teacher absent on a date
// @Tags Absences
// @Accept json
// @Produce json
// @Param payload body service.MarkAbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /absences [post]
func (h *AbsenceHandler) Mark(c *gin.Context) {
	var req service.MarkAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}
	absence, err := h.absences.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, absence)
}

// Unmark godoc
// @Summary Remove an absence record
// @Tags Absences
// @Param id path string true "Absence ID"
// @Success 204
// @Router /absences/{id} [delete]
func (h *AbsenceHandler) Unmark(c *gin.Context) {
	if err := h.absences.Unmark(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListForDate godoc
// @Summary List absences for a date with periods needing cover
// @Tags Absences
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /absences [get]
func (h *AbsenceHandler) ListForDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	details, err := h.absences.ListForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}
