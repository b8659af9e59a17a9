package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	"github.com/akggautamasar/shopmatee-api/internal/service"
)

type reportRangeRepoMock struct {
	records []models.SubstitutionRecord
}

func (m *reportRangeRepoMock) ListRange(ctx context.Context, from, to string) ([]models.SubstitutionRecord, error) {
	return m.records, nil
}

type reportPeriodRepoMock struct{}

func (m *reportPeriodRepoMock) List(ctx context.Context) (models.PeriodConfig, error) {
	return models.PeriodConfig{{Code: "P1", Position: 0, TimeSlot: "09:00-09:45"}}, nil
}

func (m *reportPeriodRepoMock) Replace(ctx context.Context, periods models.PeriodConfig) error {
	return nil
}

func newReportHandler(records []models.SubstitutionRecord) *ReportHandler {
	reports := service.NewReportService(&reportRangeRepoMock{records: records}, &reportPeriodRepoMock{}, zap.NewNop())
	return NewReportHandler(reports)
}

func TestReportHandlerSubstitutionStatsUnfiltered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler([]models.SubstitutionRecord{
		{Date: "2026-03-02", Period: "P1", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
	})

	c, w := newGinContext(http.MethodGet, "/reports/substitutions", nil)

	handler.SubstitutionStats(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReportHandlerSubstitutionStatsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(nil)

	c, w := newGinContext(http.MethodGet, "/reports/substitutions?date_from=bogus", nil)

	handler.SubstitutionStats(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
