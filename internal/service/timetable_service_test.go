package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

func testPeriods() models.PeriodConfig {
	return models.PeriodConfig{
		{Code: "P1", Position: 0, TimeSlot: "09:00-09:45"},
		{Code: "P2", Position: 1, TimeSlot: "09:45-10:30"},
		{Code: "P3", Position: 2},
	}
}

func TestBuildTeacherGridsCoversEveryCell(t *testing.T) {
	teachers := []models.Teacher{{ID: "t1", FullName: "Teacher One"}}
	schedules := BuildTeacherGrids(teachers, nil, nil, testPeriods(), time.Now())

	require.Len(t, schedules, 1)
	grid := schedules[0].Grid
	for _, day := range models.Weekdays {
		for _, code := range []string{"P1", "P2", "P3"} {
			assert.Equal(t, models.FreePeriod, grid.Cell(day, code).Assignment)
		}
	}
}

func TestBuildTeacherGridsInvertsClassEntries(t *testing.T) {
	teachers := []models.Teacher{
		{ID: "t1", FullName: "Teacher One"},
		{ID: "t2", FullName: "Teacher Two"},
	}
	classes := []models.Class{
		{ID: "c1", Name: "Class 1"},
		{ID: "c2", Name: "Class 2"},
	}
	entries := []models.ClassScheduleEntry{
		{ClassID: "c1", DayOfWeek: "Monday", Period: "P1", Subject: "Math", TeacherID: "t1"},
		{ClassID: "c2", DayOfWeek: "Monday", Period: "P2", Subject: "Science", TeacherID: "t1"},
		{ClassID: "c1", DayOfWeek: "Tuesday", Period: "P1", Subject: "English", TeacherID: "t2"},
	}

	schedules := BuildTeacherGrids(teachers, classes, entries, testPeriods(), time.Now())
	require.Len(t, schedules, 2)

	byID := map[string]models.ScheduleGrid{}
	for _, s := range schedules {
		byID[s.TeacherID] = s.Grid
	}

	cell := byID["t1"].Cell("Monday", "P1")
	assert.Equal(t, "Class 1", cell.Assignment)
	assert.Equal(t, "c1", cell.ClassID)
	assert.Equal(t, "Math", cell.Subject)

	assert.Equal(t, "Class 2", byID["t1"].Cell("Monday", "P2").Assignment)
	assert.True(t, byID["t1"].IsFree("Monday", "P3"))
	assert.Equal(t, "Class 1", byID["t2"].Cell("Tuesday", "P1").Assignment)
	assert.True(t, byID["t2"].IsFree("Monday", "P1"))
}

func TestBuildTeacherGridsFirstEntryWinsOnClash(t *testing.T) {
	teachers := []models.Teacher{{ID: "t1", FullName: "Teacher One"}}
	classes := []models.Class{
		{ID: "c1", Name: "Class 1"},
		{ID: "c2", Name: "Class 2"},
	}
	entries := []models.ClassScheduleEntry{
		{ClassID: "c1", DayOfWeek: "Monday", Period: "P1", Subject: "Math", TeacherID: "t1"},
		{ClassID: "c2", DayOfWeek: "Monday", Period: "P1", Subject: "Science", TeacherID: "t1"},
	}

	schedules := BuildTeacherGrids(teachers, classes, entries, testPeriods(), time.Now())
	require.Len(t, schedules, 1)
	assert.Equal(t, "Class 1", schedules[0].Grid.Cell("Monday", "P1").Assignment)
}

func TestBuildTeacherGridsIgnoresUnknownTeachers(t *testing.T) {
	teachers := []models.Teacher{{ID: "t1", FullName: "Teacher One"}}
	entries := []models.ClassScheduleEntry{
		{ClassID: "c1", DayOfWeek: "Monday", Period: "P1", Subject: "Math", TeacherID: "ghost"},
	}

	schedules := BuildTeacherGrids(teachers, nil, entries, testPeriods(), time.Now())
	require.Len(t, schedules, 1)
	assert.True(t, schedules[0].Grid.IsFree("Monday", "P1"))
}

type mockTimetableRepo struct {
	stored   []models.TeacherSchedule
	syncedAt time.Time
}

func (m *mockTimetableRepo) Get(ctx context.Context, teacherID string) (*models.TeacherSchedule, error) {
	for i := range m.stored {
		if m.stored[i].TeacherID == teacherID {
			return &m.stored[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) ReplaceAll(ctx context.Context, schedules []models.TeacherSchedule) error {
	m.stored = schedules
	if len(schedules) > 0 {
		m.syncedAt = schedules[0].SyncedAt
	}
	return nil
}

func (m *mockTimetableRepo) LastSyncedAt(ctx context.Context) (time.Time, error) {
	return m.syncedAt, nil
}

type mockClassEntriesRepo struct {
	classes []models.Class
	entries []models.ClassScheduleEntry
}

func (m *mockClassEntriesRepo) ListAll(ctx context.Context) ([]models.Class, error) {
	return m.classes, nil
}

func (m *mockClassEntriesRepo) ListAllEntries(ctx context.Context) ([]models.ClassScheduleEntry, error) {
	return m.entries, nil
}

func newTimetableFixture() (*TimetableService, *mockTimetableRepo) {
	repo := &mockTimetableRepo{}
	classes := &mockClassEntriesRepo{
		classes: []models.Class{{ID: "c1", Name: "Class 1"}},
		entries: []models.ClassScheduleEntry{
			{ClassID: "c1", DayOfWeek: "Monday", Period: "P1", Subject: "Math", TeacherID: "t1"},
		},
	}
	teachers := &mockTeacherRepo{
		active: []models.Teacher{
			{ID: "t1", FullName: "Teacher One", Active: true},
			{ID: "t2", FullName: "Teacher Two", Active: true},
		},
	}
	periods := &mockPeriodRepo{periods: testPeriods()}
	return NewTimetableService(repo, classes, teachers, periods, nil, 0, zap.NewNop()), repo
}

func TestTimetableServiceSyncIdempotent(t *testing.T) {
	service, repo := newTimetableFixture()

	count, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	first := append([]models.TeacherSchedule(nil), repo.stored...)

	count, err = service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.stored, len(first))
	for i := range first {
		assert.Equal(t, first[i].TeacherID, repo.stored[i].TeacherID)
		assert.Equal(t, first[i].Grid, repo.stored[i].Grid)
	}
	assert.Equal(t, "Class 1", repo.stored[0].Grid.Cell("Monday", "P1").Assignment)
	assert.True(t, repo.stored[1].Grid.IsFree("Monday", "P1"))
}

func TestTimetableServiceGetScheduleNotSynced(t *testing.T) {
	service, _ := newTimetableFixture()

	_, err := service.GetTeacherSchedule(context.Background(), "t1")
	require.Error(t, err)
}
