package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	"github.com/akggautamasar/shopmatee-api/internal/repository"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

const inactiveTeacherID = "66666666-6666-4666-8666-666666666666"

type mockAbsenceRepo struct {
	items     map[string]models.Absence
	createErr error
}

func (m *mockAbsenceRepo) ListByDate(ctx context.Context, date string) ([]models.Absence, error) {
	absences := []models.Absence{}
	for _, a := range m.items {
		if a.Date == date {
			absences = append(absences, a)
		}
	}
	return absences, nil
}

func (m *mockAbsenceRepo) Exists(ctx context.Context, date, teacherID string) (bool, error) {
	for _, a := range m.items {
		if a.Date == date && a.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAbsenceRepo) Create(ctx context.Context, absence *models.Absence) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = make(map[string]models.Absence)
	}
	absence.ID = "generated"
	absence.CreatedAt = time.Now()
	m.items[absence.ID] = *absence
	return nil
}

func (m *mockAbsenceRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func newAbsenceFixture() (*AbsenceService, *mockAbsenceRepo, *mockScheduleLookup) {
	repo := &mockAbsenceRepo{}
	grid := models.NewFreeGrid(models.Weekdays, []string{"P1", "P2", "P3"})
	grid["Monday"]["P2"] = models.ScheduleCell{Assignment: "Class 2", ClassID: "c2", Subject: "Science"}
	grid["Monday"]["P1"] = models.ScheduleCell{Assignment: "Class 1", ClassID: "c1", Subject: "Math"}
	schedules := &mockScheduleLookup{schedules: map[string]*models.TeacherSchedule{
		absentTeacherID: {TeacherID: absentTeacherID, Grid: grid, SyncedAt: time.Now()},
	}}
	teachers := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			absentTeacherID:   {ID: absentTeacherID, FullName: "Absent Teacher", Active: true},
			unsyncedTeacherID: {ID: unsyncedTeacherID, FullName: "Unsynced Teacher", Active: true},
			inactiveTeacherID: {ID: inactiveTeacherID, FullName: "Retired Teacher", Active: false},
		},
	}
	periods := &mockPeriodRepo{periods: testPeriods()}
	service := NewAbsenceService(repo, teachers, schedules, periods, validator.New(), zap.NewNop())
	return service, repo, schedules
}

func TestAbsenceServiceMark(t *testing.T) {
	service, _, _ := newAbsenceFixture()

	absence, err := service.Mark(context.Background(), MarkAbsenceRequest{Date: testDate, TeacherID: absentTeacherID})
	require.NoError(t, err)
	assert.NotEmpty(t, absence.ID)
	assert.Equal(t, testDate, absence.Date)
}

func TestAbsenceServiceMarkDuplicate(t *testing.T) {
	service, repo, _ := newAbsenceFixture()
	repo.createErr = repository.ErrDuplicate

	_, err := service.Mark(context.Background(), MarkAbsenceRequest{Date: testDate, TeacherID: absentTeacherID})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAbsenceServiceMarkInactiveTeacher(t *testing.T) {
	service, _, _ := newAbsenceFixture()

	_, err := service.Mark(context.Background(), MarkAbsenceRequest{Date: testDate, TeacherID: inactiveTeacherID})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAbsenceServiceMarkWeekendRejected(t *testing.T) {
	service, _, _ := newAbsenceFixture()

	// 2026-03-01 is a Sunday.
	_, err := service.Mark(context.Background(), MarkAbsenceRequest{Date: "2026-03-01", TeacherID: absentTeacherID})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAbsenceServiceListForDateOrdersPeriods(t *testing.T) {
	service, repo, _ := newAbsenceFixture()
	repo.items = map[string]models.Absence{
		"a1": {ID: "a1", Date: testDate, TeacherID: absentTeacherID},
	}

	details, err := service.ListForDate(context.Background(), testDate)
	require.NoError(t, err)
	require.Len(t, details, 1)

	periods := details[0].Periods
	require.Len(t, periods, 2)
	assert.Equal(t, "P1", periods[0].Period)
	assert.Equal(t, "Class 1", periods[0].ClassName)
	assert.Equal(t, "Math", periods[0].Subject)
	assert.Equal(t, "P2", periods[1].Period)
	assert.Equal(t, "Absent Teacher", details[0].TeacherName)
}

func TestAbsenceServiceListForDateUnsyncedTeacher(t *testing.T) {
	service, repo, _ := newAbsenceFixture()
	repo.items = map[string]models.Absence{
		"a1": {ID: "a1", Date: testDate, TeacherID: unsyncedTeacherID},
	}

	details, err := service.ListForDate(context.Background(), testDate)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Empty(t, details[0].Periods)
}

func TestAbsenceServiceUnmarkNotFound(t *testing.T) {
	service, _, _ := newAbsenceFixture()

	err := service.Unmark(context.Background(), "missing")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}