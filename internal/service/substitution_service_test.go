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

const (
	absentTeacherID     = "11111111-1111-4111-8111-111111111111"
	substituteTeacherID = "22222222-2222-4222-8222-222222222222"
	bookedTeacherID     = "33333333-3333-4333-8333-333333333333"
	busyTeacherID       = "44444444-4444-4444-8444-444444444444"
	unsyncedTeacherID   = "55555555-5555-4555-8555-555555555555"
)

// 2026-03-02 is a Monday.
const testDate = "2026-03-02"

type mockSubstitutionRepo struct {
	created   []*models.SubstitutionRecord
	createErr error
	booked    []string
	byDate    map[string][]models.SubstitutionRecord
}

func (m *mockSubstitutionRepo) Create(ctx context.Context, record *models.SubstitutionRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	record.ID = "generated"
	record.CreatedAt = time.Now()
	m.created = append(m.created, record)
	return nil
}

func (m *mockSubstitutionRepo) List(ctx context.Context, filter models.SubstitutionFilter) ([]models.SubstitutionRecord, int, error) {
	return nil, 0, nil
}

func (m *mockSubstitutionRepo) ListByDate(ctx context.Context, date string) ([]models.SubstitutionRecord, error) {
	return m.byDate[date], nil
}

func (m *mockSubstitutionRepo) BookedSubstituteIDs(ctx context.Context, date, period string) ([]string, error) {
	ids := append([]string(nil), m.booked...)
	for _, r := range m.created {
		if r.Date == date && r.Period == period {
			ids = append(ids, r.SubstituteTeacherID)
		}
	}
	return ids, nil
}

func (m *mockSubstitutionRepo) FindByID(ctx context.Context, id string) (*models.SubstitutionRecord, error) {
	for i := range m.created {
		if m.created[i].ID == id {
			return m.created[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
}

type mockAbsenceLookup struct {
	absent map[string]bool
}

func (m *mockAbsenceLookup) ListByDate(ctx context.Context, date string) ([]models.Absence, error) {
	absences := []models.Absence{}
	for id := range m.absent {
		absences = append(absences, models.Absence{ID: "a-" + id, Date: date, TeacherID: id})
	}
	return absences, nil
}

func (m *mockAbsenceLookup) Exists(ctx context.Context, date, teacherID string) (bool, error) {
	return m.absent[teacherID], nil
}

type mockScheduleLookup struct {
	schedules map[string]*models.TeacherSchedule
}

func (m *mockScheduleLookup) GetTeacherSchedule(ctx context.Context, teacherID string) (*models.TeacherSchedule, error) {
	if s, ok := m.schedules[teacherID]; ok {
		return s, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher schedule not found, run synchronization first")
}

type mockPeriodRepo struct {
	periods models.PeriodConfig
}

func (m *mockPeriodRepo) List(ctx context.Context) (models.PeriodConfig, error) {
	return m.periods, nil
}

func (m *mockPeriodRepo) Replace(ctx context.Context, periods models.PeriodConfig) error {
	m.periods = periods
	return nil
}

func scheduleWithClass(teacherID, day, period string) *models.TeacherSchedule {
	grid := models.NewFreeGrid(models.Weekdays, []string{"P1", "P2", "P3"})
	grid[day][period] = models.ScheduleCell{Assignment: "Class 1", ClassID: "c1", Subject: "Math"}
	return &models.TeacherSchedule{TeacherID: teacherID, Grid: grid, SyncedAt: time.Now()}
}

func freeSchedule(teacherID string) *models.TeacherSchedule {
	return &models.TeacherSchedule{
		TeacherID: teacherID,
		Grid:      models.NewFreeGrid(models.Weekdays, []string{"P1", "P2", "P3"}),
		SyncedAt:  time.Now(),
	}
}

func newSubstitutionFixture() (*SubstitutionService, *mockSubstitutionRepo, *mockAbsenceLookup, *mockScheduleLookup, *mockTeacherRepo) {
	repo := &mockSubstitutionRepo{}
	absences := &mockAbsenceLookup{absent: map[string]bool{absentTeacherID: true}}
	schedules := &mockScheduleLookup{schedules: map[string]*models.TeacherSchedule{
		absentTeacherID:     scheduleWithClass(absentTeacherID, "Monday", "P1"),
		substituteTeacherID: freeSchedule(substituteTeacherID),
		bookedTeacherID:     freeSchedule(bookedTeacherID),
		busyTeacherID:       scheduleWithClass(busyTeacherID, "Monday", "P1"),
	}}
	teachers := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			absentTeacherID:     {ID: absentTeacherID, FullName: "Absent Teacher", Active: true},
			substituteTeacherID: {ID: substituteTeacherID, FullName: "Substitute Teacher", Active: true},
			bookedTeacherID:     {ID: bookedTeacherID, FullName: "Booked Teacher", Active: true},
			busyTeacherID:       {ID: busyTeacherID, FullName: "Busy Teacher", Active: true},
			unsyncedTeacherID:   {ID: unsyncedTeacherID, FullName: "Unsynced Teacher", Active: true},
		},
		active: []models.Teacher{
			{ID: absentTeacherID, FullName: "Absent Teacher", Active: true},
			{ID: substituteTeacherID, FullName: "Substitute Teacher", Active: true},
			{ID: bookedTeacherID, FullName: "Booked Teacher", Active: true},
			{ID: busyTeacherID, FullName: "Busy Teacher", Active: true},
			{ID: unsyncedTeacherID, FullName: "Unsynced Teacher", Active: true},
		},
	}
	periods := &mockPeriodRepo{periods: testPeriods()}
	service := NewSubstitutionService(repo, absences, teachers, schedules, periods, validator.New(), zap.NewNop())
	return service, repo, absences, schedules, teachers
}

func TestSubstitutionServiceAvailableTeachers(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()
	repo.booked = []string{bookedTeacherID}

	available, err := service.AvailableTeachers(context.Background(), testDate, "P1")
	require.NoError(t, err)

	ids := make([]string, 0, len(available))
	for _, teacher := range available {
		ids = append(ids, teacher.ID)
	}
	assert.NotContains(t, ids, absentTeacherID)
	assert.NotContains(t, ids, bookedTeacherID)
	assert.NotContains(t, ids, busyTeacherID)
	assert.Contains(t, ids, substituteTeacherID)
	assert.Contains(t, ids, unsyncedTeacherID)
}

func TestSubstitutionServiceAvailableTeachersUnknownPeriod(t *testing.T) {
	service, _, _, _, _ := newSubstitutionFixture()

	_, err := service.AvailableTeachers(context.Background(), testDate, "P9")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSubstitutionServiceCommitSnapshotsClass(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()

	record, err := service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     absentTeacherID,
		Period:              "P1",
		SubstituteTeacherID: substituteTeacherID,
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	assert.Equal(t, "c1", record.ClassID)
	assert.Equal(t, "Class 1", record.ClassName)
	assert.Equal(t, "Math", record.Subject)
	assert.Equal(t, "Substitute Teacher", record.SubstituteTeacherName)
	assert.Equal(t, "Absent Teacher", record.AbsentTeacherName)
}

func TestSubstitutionServiceCommitDuplicateConflict(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()
	repo.createErr = repository.ErrDuplicate

	_, err := service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     absentTeacherID,
		Period:              "P1",
		SubstituteTeacherID: substituteTeacherID,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSubstitutionServiceCommitSelfSubstitution(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()

	_, err := service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     absentTeacherID,
		Period:              "P1",
		SubstituteTeacherID: absentTeacherID,
	})
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestSubstitutionServiceCommitRequiresMarkedAbsence(t *testing.T) {
	service, repo, absences, _, _ := newSubstitutionFixture()
	absences.absent = map[string]bool{}

	_, err := service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     absentTeacherID,
		Period:              "P1",
		SubstituteTeacherID: substituteTeacherID,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestSubstitutionServiceCommitBusySubstitute(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()

	_, err := service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     absentTeacherID,
		Period:              "P1",
		SubstituteTeacherID: busyTeacherID,
	})
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestSubstitutionServiceCommitPlan(t *testing.T) {
	service, repo, _, schedules, _ := newSubstitutionFixture()
	schedules.schedules[absentTeacherID].Grid["Monday"]["P2"] = models.ScheduleCell{
		Assignment: "Class 1", ClassID: "c1", Subject: "English",
	}

	records, err := service.CommitPlan(context.Background(), CommitPlanRequest{
		Date: testDate,
		Assignments: []PlanAssignment{
			{AbsentTeacherID: absentTeacherID, Period: "P1", SubstituteTeacherID: substituteTeacherID},
			{AbsentTeacherID: absentTeacherID, Period: "P2", SubstituteTeacherID: ""},
			{AbsentTeacherID: absentTeacherID, Period: "P2", SubstituteTeacherID: unsyncedTeacherID},
		},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Len(t, repo.created, 2)
	assert.Equal(t, "Math", records[0].Subject)
	assert.Equal(t, "English", records[1].Subject)
}

func TestSubstitutionServiceCommitPlanEmpty(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()

	_, err := service.CommitPlan(context.Background(), CommitPlanRequest{
		Date: testDate,
		Assignments: []PlanAssignment{
			{AbsentTeacherID: absentTeacherID, Period: "P1", SubstituteTeacherID: ""},
		},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "no substitutions to save")
	assert.Empty(t, repo.created)
}

func TestSubstitutionServiceCommitPlanStopsOnFailure(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()

	records, err := service.CommitPlan(context.Background(), CommitPlanRequest{
		Date: testDate,
		Assignments: []PlanAssignment{
			{AbsentTeacherID: absentTeacherID, Period: "P1", SubstituteTeacherID: substituteTeacherID},
			{AbsentTeacherID: absentTeacherID, Period: "P2", SubstituteTeacherID: unsyncedTeacherID},
		},
	})
	require.Error(t, err)
	assert.Len(t, records, 1)
	assert.Len(t, repo.created, 1)
}

func TestSubstitutionServiceCommittedSubstituteNoLongerAvailable(t *testing.T) {
	service, repo, absences, _, _ := newSubstitutionFixture()
	absences.absent[busyTeacherID] = true

	available, err := service.AvailableTeachers(context.Background(), testDate, "P1")
	require.NoError(t, err)
	ids := make([]string, 0, len(available))
	for _, teacher := range available {
		ids = append(ids, teacher.ID)
	}
	require.Contains(t, ids, substituteTeacherID)

	_, err = service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     busyTeacherID,
		Period:              "P1",
		SubstituteTeacherID: substituteTeacherID,
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	available, err = service.AvailableTeachers(context.Background(), testDate, "P1")
	require.NoError(t, err)
	ids = ids[:0]
	for _, teacher := range available {
		ids = append(ids, teacher.ID)
	}
	assert.NotContains(t, ids, substituteTeacherID)

	// The same substitute cannot be double booked in the period.
	_, err = service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     absentTeacherID,
		Period:              "P1",
		SubstituteTeacherID: substituteTeacherID,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "already covers another class")
	assert.Len(t, repo.created, 1)
}

func TestSubstitutionServiceCommitFreePeriodRejected(t *testing.T) {
	service, repo, _, _, _ := newSubstitutionFixture()

	_, err := service.Commit(context.Background(), CommitSubstitutionRequest{
		Date:                testDate,
		AbsentTeacherID:     absentTeacherID,
		Period:              "P2",
		SubstituteTeacherID: substituteTeacherID,
	})
	require.Error(t, err)
	assert.Empty(t, repo.created)
}
