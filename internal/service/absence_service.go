package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	"github.com/akggautamasar/shopmatee-api/internal/repository"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type absenceRepository interface {
	ListByDate(ctx context.Context, date string) ([]models.Absence, error)
	Exists(ctx context.Context, date, teacherID string) (bool, error)
	Create(ctx context.Context, absence *models.Absence) error
	Delete(ctx context.Context, id string) (bool, error)
}

type scheduleLookup interface {
	GetTeacherSchedule(ctx context.Context, teacherID string) (*models.TeacherSchedule, error)
}

// MarkAbsenceRequest marks a teacher absent on a date.
type MarkAbsenceRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	TeacherID string `json:"teacher_id" validate:"required,uuid4"`
}

// AbsenceService records absences and derives the periods needing cover.
type AbsenceService struct {
	repo      absenceRepository
	teachers  teacherRepository
	schedules scheduleLookup
	periods   periodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs an AbsenceService.
func NewAbsenceService(repo absenceRepository, teachers teacherRepository, schedules scheduleLookup, periods periodRepository, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{repo: repo, teachers: teachers, schedules: schedules, periods: periods, validator: validate, logger: logger}
}

// Mark records an absence. A teacher can be marked absent at most once per
// date; marking the same pair again returns a conflict.
func (s *AbsenceService) Mark(ctx context.Context, req MarkAbsenceRequest) (*models.Absence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	if _, err := weekdayOf(req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if !teacher.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher is inactive")
	}

	absence := &models.Absence{Date: req.Date, TeacherID: req.TeacherID}
	if err := s.repo.Create(ctx, absence); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "teacher already marked absent on this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record absence")
	}
	return absence, nil
}

// Unmark removes an absence record.
func (s *AbsenceService) Unmark(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete absence")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "absence not found")
	}
	return nil
}

// ListForDate returns each absence on a date together with the periods the
// absent teacher was scheduled to teach, in period order.
func (s *AbsenceService) ListForDate(ctx context.Context, date string) ([]models.AbsenceDetail, error) {
	day, err := weekdayOf(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	absences, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list absences")
	}

	periods, err := s.periods.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}

	details := make([]models.AbsenceDetail, 0, len(absences))
	for _, a := range absences {
		detail := models.AbsenceDetail{Absence: a, Periods: []models.AbsentPeriod{}}
		if teacher, err := s.teachers.FindByID(ctx, a.TeacherID); err == nil {
			detail.TeacherName = teacher.FullName
		}

		schedule, err := s.schedules.GetTeacherSchedule(ctx, a.TeacherID)
		if err != nil {
			var appErr *appErrors.Error
			if errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
				details = append(details, detail)
				continue
			}
			return nil, err
		}

		for _, code := range periods.Codes() {
			cell := schedule.Grid.Cell(day, code)
			if cell.Assignment == models.FreePeriod {
				continue
			}
			detail.Periods = append(detail.Periods, models.AbsentPeriod{
				Period:    code,
				ClassID:   cell.ClassID,
				ClassName: cell.Assignment,
				Subject:   cell.Subject,
			})
		}
		sort.SliceStable(detail.Periods, func(i, j int) bool {
			return periods.PositionOf(detail.Periods[i].Period) < periods.PositionOf(detail.Periods[j].Period)
		})
		details = append(details, detail)
	}
	return details, nil
}

// weekdayOf maps a date string to its weekday name, rejecting non-school days.
func weekdayOf(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", errors.New("date must use YYYY-MM-DD")
	}
	day := t.Weekday().String()
	for _, d := range models.Weekdays {
		if d == day {
			return day, nil
		}
	}
	return "", errors.New("date falls outside the school week")
}
