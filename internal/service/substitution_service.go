package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	"github.com/akggautamasar/shopmatee-api/internal/repository"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type substitutionRepository interface {
	Create(ctx context.Context, record *models.SubstitutionRecord) error
	List(ctx context.Context, filter models.SubstitutionFilter) ([]models.SubstitutionRecord, int, error)
	ListByDate(ctx context.Context, date string) ([]models.SubstitutionRecord, error)
	BookedSubstituteIDs(ctx context.Context, date, period string) ([]string, error)
	FindByID(ctx context.Context, id string) (*models.SubstitutionRecord, error)
}

type absenceLookup interface {
	ListByDate(ctx context.Context, date string) ([]models.Absence, error)
	Exists(ctx context.Context, date, teacherID string) (bool, error)
}

// CommitSubstitutionRequest assigns a substitute to cover one period.
type CommitSubstitutionRequest struct {
	Date                string  `json:"date" validate:"required,datetime=2006-01-02"`
	AbsentTeacherID     string  `json:"absent_teacher_id" validate:"required,uuid4"`
	Period              string  `json:"period" validate:"required"`
	SubstituteTeacherID string  `json:"substitute_teacher_id" validate:"required,uuid4"`
	Remarks             *string `json:"remarks" validate:"omitempty,max=500"`
}

// SubstitutionService finds available substitutes and commits cover
// assignments into the immutable ledger.
type SubstitutionService struct {
	repo      substitutionRepository
	absences  absenceLookup
	teachers  teacherRepository
	schedules scheduleLookup
	periods   periodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubstitutionService constructs a SubstitutionService.
func NewSubstitutionService(repo substitutionRepository, absences absenceLookup, teachers teacherRepository, schedules scheduleLookup, periods periodRepository, validate *validator.Validate, logger *zap.Logger) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{repo: repo, absences: absences, teachers: teachers, schedules: schedules, periods: periods, validator: validate, logger: logger}
}

// AvailableTeachers returns the active teachers who can cover (date, period):
// not marked absent that date, free in that period per their derived grid,
// and not already booked as a substitute in the same period.
func (s *SubstitutionService) AvailableTeachers(ctx context.Context, date, period string) ([]models.Teacher, error) {
	day, err := weekdayOf(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if err := s.ensureKnownPeriod(ctx, period); err != nil {
		return nil, err
	}

	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	absences, err := s.absences.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences")
	}
	absent := make(map[string]bool, len(absences))
	for _, a := range absences {
		absent[a.TeacherID] = true
	}

	bookedIDs, err := s.repo.BookedSubstituteIDs(ctx, date, period)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing assignments")
	}
	booked := make(map[string]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	available := make([]models.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if absent[t.ID] || booked[t.ID] {
			continue
		}
		schedule, err := s.schedules.GetTeacherSchedule(ctx, t.ID)
		if err != nil {
			var appErr *appErrors.Error
			if errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
				// No derived grid yet means no known commitments.
				available = append(available, t)
				continue
			}
			return nil, err
		}
		if schedule.Grid.IsFree(day, period) {
			available = append(available, t)
		}
	}
	return available, nil
}

// Commit writes one cover assignment. The class and subject are snapshotted
// from the absent teacher's grid at commit time. Committing a second cover
// for the same (date, absent teacher, period) is rejected as a conflict.
func (s *SubstitutionService) Commit(ctx context.Context, req CommitSubstitutionRequest) (*models.SubstitutionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitution payload")
	}
	day, err := weekdayOf(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if err := s.ensureKnownPeriod(ctx, req.Period); err != nil {
		return nil, err
	}
	if req.AbsentTeacherID == req.SubstituteTeacherID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a teacher cannot substitute for themselves")
	}

	marked, err := s.absences.Exists(ctx, req.Date, req.AbsentTeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check absence")
	}
	if !marked {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher is not marked absent on this date")
	}

	absentSchedule, err := s.schedules.GetTeacherSchedule(ctx, req.AbsentTeacherID)
	if err != nil {
		return nil, err
	}
	cell := absentSchedule.Grid.Cell(day, req.Period)
	if cell.Assignment == models.FreePeriod {
		return nil, appErrors.Clone(appErrors.ErrValidation, "absent teacher has no class in this period")
	}

	substitute, err := s.teachers.FindByID(ctx, req.SubstituteTeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "substitute teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitute")
	}
	if !substitute.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "substitute teacher is inactive")
	}

	if err := s.ensureSubstituteFree(ctx, req.Date, day, req.Period, substitute.ID); err != nil {
		return nil, err
	}

	record := &models.SubstitutionRecord{
		Date:                req.Date,
		AbsentTeacherID:     req.AbsentTeacherID,
		Period:              req.Period,
		ClassID:             cell.ClassID,
		ClassName:           cell.Assignment,
		Subject:             cell.Subject,
		SubstituteTeacherID: req.SubstituteTeacherID,
		Remarks:             req.Remarks,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "cover already assigned for this period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record substitution")
	}

	record.SubstituteTeacherName = substitute.FullName
	if absentTeacher, err := s.teachers.FindByID(ctx, req.AbsentTeacherID); err == nil {
		record.AbsentTeacherName = absentTeacher.FullName
	}

	s.logger.Info("substitution committed",
		zap.String("date", record.Date),
		zap.String("period", record.Period),
		zap.String("absent_teacher_id", record.AbsentTeacherID),
		zap.String("substitute_teacher_id", record.SubstituteTeacherID))
	return record, nil
}

// PlanAssignment is one row of a day plan. Rows without a chosen substitute
// are skipped, so a partially filled form commits only the chosen covers.
type PlanAssignment struct {
	AbsentTeacherID     string  `json:"absent_teacher_id"`
	Period              string  `json:"period"`
	SubstituteTeacherID string  `json:"substitute_teacher_id"`
	Remarks             *string `json:"remarks"`
}

// CommitPlanRequest commits several cover assignments for one date.
type CommitPlanRequest struct {
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Assignments []PlanAssignment `json:"assignments"`
}

// CommitPlan commits every filled row of a day plan in order. Rows with no
// substitute chosen are ignored; a plan with nothing filled in is rejected.
// Processing stops at the first failing row and the earlier commits stand,
// since the ledger is append-only.
func (s *SubstitutionService) CommitPlan(ctx context.Context, req CommitPlanRequest) ([]models.SubstitutionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}

	chosen := make([]PlanAssignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		if a.SubstituteTeacherID == "" {
			continue
		}
		chosen = append(chosen, a)
	}
	if len(chosen) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no substitutions to save")
	}

	committed := make([]models.SubstitutionRecord, 0, len(chosen))
	for _, a := range chosen {
		record, err := s.Commit(ctx, CommitSubstitutionRequest{
			Date:                req.Date,
			AbsentTeacherID:     a.AbsentTeacherID,
			Period:              a.Period,
			SubstituteTeacherID: a.SubstituteTeacherID,
			Remarks:             a.Remarks,
		})
		if err != nil {
			return committed, err
		}
		committed = append(committed, *record)
	}
	return committed, nil
}

// List returns ledger records plus pagination data.
func (s *SubstitutionService) List(ctx context.Context, filter models.SubstitutionFilter) ([]models.SubstitutionRecord, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list substitutions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a ledger record by id.
func (s *SubstitutionService) Get(ctx context.Context, id string) (*models.SubstitutionRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitution")
	}
	return record, nil
}

// DaySheet returns every assignment for one date in period order.
func (s *SubstitutionService) DaySheet(ctx context.Context, date string) ([]models.SubstitutionRecord, error) {
	if _, err := weekdayOf(date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	records, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list day assignments")
	}
	return records, nil
}

func (s *SubstitutionService) ensureKnownPeriod(ctx context.Context, period string) error {
	periods, err := s.periods.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}
	if periods.PositionOf(period) >= len(periods) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown period code")
	}
	return nil
}

func (s *SubstitutionService) ensureSubstituteFree(ctx context.Context, date, day, period, substituteID string) error {
	absent, err := s.absences.Exists(ctx, date, substituteID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check substitute absence")
	}
	if absent {
		return appErrors.Clone(appErrors.ErrValidation, "substitute is marked absent on this date")
	}

	schedule, err := s.schedules.GetTeacherSchedule(ctx, substituteID)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
			schedule = nil
		} else {
			return err
		}
	}
	if schedule != nil && !schedule.Grid.IsFree(day, period) {
		return appErrors.Clone(appErrors.ErrValidation, "substitute already teaches in this period")
	}

	bookedIDs, err := s.repo.BookedSubstituteIDs(ctx, date, period)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing assignments")
	}
	for _, id := range bookedIDs {
		if id == substituteID {
			return appErrors.Clone(appErrors.ErrValidation, "substitute already covers another class in this period")
		}
	}
	return nil
}
