package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type mockSubstitutionRangeRepo struct {
	records []models.SubstitutionRecord
}

func (m *mockSubstitutionRangeRepo) ListRange(ctx context.Context, from, to string) ([]models.SubstitutionRecord, error) {
	return m.records, nil
}

func TestSlotMinutes(t *testing.T) {
	assert.Equal(t, 45, SlotMinutes("09:00-09:45"))
	assert.Equal(t, 60, SlotMinutes("10:00-11:00"))
	assert.Equal(t, 45, SlotMinutes(""))
	assert.Equal(t, 45, SlotMinutes("morning"))
	assert.Equal(t, 45, SlotMinutes("25:00-26:00"))
	assert.Equal(t, 45, SlotMinutes("10:00-09:00"))
}

func TestAggregateSubstitutionStats(t *testing.T) {
	periods := testPeriods()
	records := []models.SubstitutionRecord{
		{Date: "2026-03-02", Period: "P1", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
		{Date: "2026-03-02", Period: "P2", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
		{Date: "2026-03-03", Period: "P3", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
		{Date: "2026-03-02", Period: "P1", SubstituteTeacherID: "t2", SubstituteTeacherName: "Teacher Two"},
	}

	stats := AggregateSubstitutionStats(records, periods)
	require.Len(t, stats, 2)

	assert.Equal(t, "t1", stats[0].TeacherID)
	assert.Equal(t, 3, stats[0].Periods)
	assert.Equal(t, 2, stats[0].Days)
	// P1 and P2 are 45 minutes each, P3 has no slot and falls back to 45.
	assert.InDelta(t, 2.25, stats[0].Hours, 0.001)

	assert.Equal(t, "t2", stats[1].TeacherID)
	assert.Equal(t, 1, stats[1].Periods)
	assert.Equal(t, 1, stats[1].Days)
}

func TestAggregateSubstitutionStatsRoundsHours(t *testing.T) {
	periods := models.PeriodConfig{
		{Code: "P1", Position: 0, TimeSlot: "09:00-09:50"},
	}
	records := []models.SubstitutionRecord{
		{Date: "2026-03-02", Period: "P1", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
	}

	stats := AggregateSubstitutionStats(records, periods)
	require.Len(t, stats, 1)
	// 50 minutes is 0.8333... hours, reported as 0.83.
	assert.InDelta(t, 0.83, stats[0].Hours, 1e-9)
}

func TestAggregateSubstitutionStatsOrdersByNameOnTie(t *testing.T) {
	records := []models.SubstitutionRecord{
		{Date: "2026-03-02", Period: "P1", SubstituteTeacherID: "t2", SubstituteTeacherName: "Beta"},
		{Date: "2026-03-02", Period: "P2", SubstituteTeacherID: "t1", SubstituteTeacherName: "Alpha"},
	}

	stats := AggregateSubstitutionStats(records, testPeriods())
	require.Len(t, stats, 2)
	assert.Equal(t, "Alpha", stats[0].TeacherName)
	assert.Equal(t, "Beta", stats[1].TeacherName)
}

func TestReportServiceStatsValidatesRange(t *testing.T) {
	service := NewReportService(&mockSubstitutionRangeRepo{}, &mockPeriodRepo{periods: testPeriods()}, zap.NewNop())

	_, err := service.Stats(context.Background(), "2026-03-10", "2026-03-01")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = service.Stats(context.Background(), "not-a-date", "2026-03-01")
	require.Error(t, err)
}

func TestReportServiceStatsUnfilteredRange(t *testing.T) {
	repo := &mockSubstitutionRangeRepo{records: []models.SubstitutionRecord{
		{Date: "2026-03-02", Period: "P1", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
		{Date: "2026-04-07", Period: "P2", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
	}}
	service := NewReportService(repo, &mockPeriodRepo{periods: testPeriods()}, zap.NewNop())

	stats, err := service.Stats(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Periods)
	assert.Equal(t, 2, stats[0].Days)

	stats, err = service.Stats(context.Background(), "2026-03-01", "")
	require.NoError(t, err)
	require.Len(t, stats, 1)
}

func TestReportServiceStats(t *testing.T) {
	repo := &mockSubstitutionRangeRepo{records: []models.SubstitutionRecord{
		{Date: "2026-03-02", Period: "P1", SubstituteTeacherID: "t1", SubstituteTeacherName: "Teacher One"},
	}}
	service := NewReportService(repo, &mockPeriodRepo{periods: testPeriods()}, zap.NewNop())

	stats, err := service.Stats(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Periods)
	assert.InDelta(t, 0.75, stats[0].Hours, 0.001)
}
