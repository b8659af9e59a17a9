package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type timetableRepository interface {
	Get(ctx context.Context, teacherID string) (*models.TeacherSchedule, error)
	ReplaceAll(ctx context.Context, schedules []models.TeacherSchedule) error
	LastSyncedAt(ctx context.Context) (time.Time, error)
}

type timetableClassRepository interface {
	ListAll(ctx context.Context) ([]models.Class, error)
	ListAllEntries(ctx context.Context) ([]models.ClassScheduleEntry, error)
}

const teacherScheduleCachePrefix = "timetable:teacher:"

// BuildTeacherGrids inverts class timetables into per-teacher grids. Every
// active teacher gets a full grid over the given days and periods; cells with
// no class entry carry the FREE sentinel. When two classes claim the same
// teacher in the same (day, period) the first class in input order wins.
func BuildTeacherGrids(teachers []models.Teacher, classes []models.Class, entries []models.ClassScheduleEntry, periods models.PeriodConfig, syncedAt time.Time) []models.TeacherSchedule {
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	codes := periods.Codes()
	grids := make(map[string]models.ScheduleGrid, len(teachers))
	order := make([]string, 0, len(teachers))
	for _, t := range teachers {
		grids[t.ID] = models.NewFreeGrid(models.Weekdays, codes)
		order = append(order, t.ID)
	}

	for _, e := range entries {
		grid, ok := grids[e.TeacherID]
		if !ok {
			continue
		}
		row, ok := grid[e.DayOfWeek]
		if !ok {
			continue
		}
		cell, ok := row[e.Period]
		if !ok || cell.Assignment != models.FreePeriod {
			continue
		}
		row[e.Period] = models.ScheduleCell{
			Assignment: classNames[e.ClassID],
			ClassID:    e.ClassID,
			Subject:    e.Subject,
		}
	}

	schedules := make([]models.TeacherSchedule, 0, len(order))
	for _, id := range order {
		schedules = append(schedules, models.TeacherSchedule{TeacherID: id, Grid: grids[id], SyncedAt: syncedAt})
	}
	return schedules
}

// TimetableService maintains the derived per-teacher schedules.
type TimetableService struct {
	repo     timetableRepository
	classes  timetableClassRepository
	teachers teacherRepository
	periods  periodRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, classes timetableClassRepository, teachers teacherRepository, periods periodRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, classes: classes, teachers: teachers, periods: periods, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Sync rebuilds every teacher grid from the class timetables and swaps the
// stored set atomically. Manual edits to derived grids do not exist; the
// class timetable is the single source of truth.
func (s *TimetableService) Sync(ctx context.Context) (int, error) {
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	entries, err := s.classes.ListAllEntries(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	periods, err := s.periods.List(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}

	schedules := BuildTeacherGrids(teachers, classes, entries, periods, time.Now().UTC())
	if err := s.repo.ReplaceAll(ctx, schedules); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store teacher schedules")
	}

	if err := s.cache.Invalidate(ctx, teacherScheduleCachePrefix+"*"); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
	}

	s.logger.Info("teacher schedules synchronized",
		zap.Int("teachers", len(schedules)),
		zap.Int("entries", len(entries)))
	return len(schedules), nil
}

// GetTeacherSchedule returns one teacher's derived grid, cache-first.
func (s *TimetableService) GetTeacherSchedule(ctx context.Context, teacherID string) (*models.TeacherSchedule, error) {
	key := teacherScheduleCachePrefix + teacherID
	var cached models.TeacherSchedule
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	schedule, err := s.repo.Get(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher schedule not found, run synchronization first")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher schedule")
	}

	if err := s.cache.Set(ctx, key, schedule, s.cacheTTL); err != nil {
		s.logger.Warn("schedule cache write failed", zap.Error(err))
	}
	return schedule, nil
}

// LastSyncedAt reports when the derived schedules were last rebuilt.
func (s *TimetableService) LastSyncedAt(ctx context.Context) (time.Time, error) {
	ts, err := s.repo.LastSyncedAt(ctx)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read sync timestamp")
	}
	return ts, nil
}
