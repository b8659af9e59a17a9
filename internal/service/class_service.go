package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	ListAll(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
	ListEntries(ctx context.Context, classID string) ([]models.ClassScheduleEntry, error)
	UpsertEntry(ctx context.Context, entry *models.ClassScheduleEntry) error
	DeleteEntry(ctx context.Context, classID, dayOfWeek, period string) error
}

type scheduleTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type schedulePeriodLookup interface {
	List(ctx context.Context) (models.PeriodConfig, error)
}

// CreateClassRequest represents payload for creating classes.
type CreateClassRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Position int    `json:"position" validate:"gte=0"`
}

// UpdateClassRequest represents payload for updating classes.
type UpdateClassRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Position int    `json:"position" validate:"gte=0"`
}

// SetScheduleEntryRequest writes one timetable cell for a class.
type SetScheduleEntryRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	Period    string `json:"period" validate:"required"`
	Subject   string `json:"subject" validate:"required,max=200"`
	TeacherID string `json:"teacher_id" validate:"required,uuid4"`
}

// ClassService orchestrates classes and their authoritative timetables.
type ClassService struct {
	repo      classRepository
	teachers  scheduleTeacherLookup
	periods   schedulePeriodLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, teachers scheduleTeacherLookup, periods schedulePeriodLookup, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, teachers: teachers, periods: periods, validator: validate, logger: logger}
}

// List returns classes plus pagination data.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return classes, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{Name: strings.TrimSpace(req.Name), Position: req.Position}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	class.Name = strings.TrimSpace(req.Name)
	class.Position = req.Position
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class together with its timetable entries.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

// Schedule returns the timetable entries for one class.
func (s *ClassService) Schedule(ctx context.Context, classID string) ([]models.ClassScheduleEntry, error) {
	if _, err := s.repo.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	entries, err := s.repo.ListEntries(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return entries, nil
}

// SetScheduleEntry writes one (day, period) cell of a class timetable. The
// day must be a school day and the period must exist in the configuration.
func (s *ClassService) SetScheduleEntry(ctx context.Context, classID string, req SetScheduleEntryRequest) (*models.ClassScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule entry payload")
	}
	if !validWeekday(req.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day of week")
	}

	periods, err := s.periods.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}
	if periods.PositionOf(req.Period) >= len(periods) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period code")
	}

	if _, err := s.repo.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if !teacher.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher is inactive")
	}

	entry := &models.ClassScheduleEntry{
		ClassID:   classID,
		DayOfWeek: req.DayOfWeek,
		Period:    req.Period,
		Subject:   strings.TrimSpace(req.Subject),
		TeacherID: req.TeacherID,
	}
	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write schedule entry")
	}
	return entry, nil
}

// ClearScheduleEntry removes one (day, period) cell of a class timetable.
func (s *ClassService) ClearScheduleEntry(ctx context.Context, classID, dayOfWeek, period string) error {
	if err := s.repo.DeleteEntry(ctx, classID, dayOfWeek, period); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedule entry")
	}
	return nil
}

func validWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
