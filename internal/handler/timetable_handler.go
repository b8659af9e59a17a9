package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akggautamasar/shopmatee-api/internal/service"
	"github.com/akggautamasar/shopmatee-api/pkg/response"
)

// TimetableHandler wires schedule synchronization routes.
type TimetableHandler struct {
	timetable *service.TimetableService
}

// NewTimetableHandler constructs a new TimetableHandler.
func NewTimetableHandler(timetable *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable}
}

// Sync godoc
// @Summary Rebuild derived teacher schedules from class timetables
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/sync [post]
func (h *TimetableHandler) Sync(c *gin.Context) {
	count, err := h.timetable.Sync(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"teachers_synced": count}, nil)
}

// Status godoc
// @Summary Report when schedules were last synchronized
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/status [get]
func (h *TimetableHandler) Status(c *gin.Context) {
	ts, err := h.timetable.LastSyncedAt(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"last_synced_at": ts}, nil)
}
