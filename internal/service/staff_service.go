package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type staffRepository interface {
	List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, int, error)
	FindByID(ctx context.Context, id string) (*models.Staff, error)
	Create(ctx context.Context, member *models.Staff) error
	Update(ctx context.Context, member *models.Staff) error
	Deactivate(ctx context.Context, id string) error
	UpsertAttendance(ctx context.Context, att *models.StaffAttendance) error
	ListAttendance(ctx context.Context, staffID, from, to string) ([]models.StaffAttendance, error)
	ListAttendanceByDate(ctx context.Context, date string) ([]models.StaffAttendance, error)
}

// CreateStaffRequest represents payload for creating staff members.
type CreateStaffRequest struct {
	FullName      string  `json:"full_name" validate:"required,max=200"`
	Role          string  `json:"role" validate:"required,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	MonthlySalary float64 `json:"monthly_salary" validate:"gte=0"`
	JoinedOn      *string `json:"joined_on" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStaffRequest represents payload for updating staff members.
type UpdateStaffRequest struct {
	FullName      string  `json:"full_name" validate:"required,max=200"`
	Role          string  `json:"role" validate:"required,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	MonthlySalary float64 `json:"monthly_salary" validate:"gte=0"`
	JoinedOn      *string `json:"joined_on" validate:"omitempty,datetime=2006-01-02"`
	Active        *bool   `json:"active"`
}

// MarkStaffAttendanceRequest writes one day's attendance mark.
type MarkStaffAttendanceRequest struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
}

// PayableDays converts status counts into payable day equivalents: a present
// day pays 1, an overtime day pays 2, a half day pays 0.5.
func PayableDays(present, overtime, halfDays int) float64 {
	return float64(present) + float64(overtime)*2 + float64(halfDays)*0.5
}

// StaffService manages shop staff, their attendance and salary summaries.
type StaffService struct {
	repo      staffRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(repo staffRepository, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, validator: validate, logger: logger}
}

// List returns staff plus pagination data.
func (s *StaffService) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, *models.Pagination, error) {
	staff, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return staff, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a staff member by id.
func (s *StaffService) Get(ctx context.Context, id string) (*models.Staff, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return member, nil
}

// Create registers a new staff member.
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	member := &models.Staff{
		FullName:      strings.TrimSpace(req.FullName),
		Role:          strings.TrimSpace(req.Role),
		Phone:         normalizeOptional(req.Phone),
		MonthlySalary: req.MonthlySalary,
		JoinedOn:      req.JoinedOn,
		Active:        true,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff member")
	}
	return member, nil
}

// Update modifies an existing staff member.
func (s *StaffService) Update(ctx context.Context, id string, req UpdateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	member.FullName = strings.TrimSpace(req.FullName)
	member.Role = strings.TrimSpace(req.Role)
	member.Phone = normalizeOptional(req.Phone)
	member.MonthlySalary = req.MonthlySalary
	member.JoinedOn = req.JoinedOn
	if req.Active != nil {
		member.Active = *req.Active
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff member")
	}
	return member, nil
}

// Deactivate marks a staff member inactive.
func (s *StaffService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate staff member")
	}
	return nil
}

// MarkAttendance writes one day's attendance for a staff member. Re-marking
// the same day overwrites the previous status.
func (s *StaffService) MarkAttendance(ctx context.Context, staffID string, req MarkStaffAttendanceRequest) (*models.StaffAttendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	status := models.AttendanceStatus(req.Status)
	if !models.ValidAttendanceStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}
	member, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if !member.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "staff member is inactive")
	}

	att := &models.StaffAttendance{
		StaffID: staffID,
		Date:    req.Date,
		Status:  status,
		Note:    normalizeOptional(req.Note),
	}
	if err := s.repo.UpsertAttendance(ctx, att); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	return att, nil
}

// AttendanceByDate returns every staff member's mark for one date.
func (s *StaffService) AttendanceByDate(ctx context.Context, date string) ([]models.StaffAttendance, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}
	marks, err := s.repo.ListAttendanceByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return marks, nil
}

// MonthlySummary aggregates one staff member's month ("2006-01") into status
// counts and the salary payable given the month's day count.
func (s *StaffService) MonthlySummary(ctx context.Context, staffID, month string) (*models.StaffMonthlySummary, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must use YYYY-MM")
	}
	member, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}

	end := start.AddDate(0, 1, -1)
	from := start.Format("2006-01-02")
	to := end.Format("2006-01-02")
	marks, err := s.repo.ListAttendance(ctx, staffID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	summary := &models.StaffMonthlySummary{
		StaffID:   member.ID,
		StaffName: member.FullName,
		Month:     month,
	}
	for _, m := range marks {
		switch m.Status {
		case models.AttendancePresent:
			summary.PresentDays++
		case models.AttendanceAbsent:
			summary.AbsentDays++
		case models.AttendanceHalfDay:
			summary.HalfDays++
		case models.AttendanceOvertime:
			summary.OvertimeDays++
		}
	}
	summary.PayableDays = PayableDays(summary.PresentDays, summary.OvertimeDays, summary.HalfDays)

	daysInMonth := end.Day()
	summary.SalaryPayable = member.MonthlySalary / float64(daysInMonth) * summary.PayableDays
	return summary, nil
}

// MonthlySummaries builds the salary sheet for every active staff member.
func (s *StaffService) MonthlySummaries(ctx context.Context, month string) ([]models.StaffMonthlySummary, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must use YYYY-MM")
	}
	active := true
	staff, _, err := s.repo.List(ctx, models.StaffFilter{Active: &active, PageSize: 200})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}

	summaries := make([]models.StaffMonthlySummary, 0, len(staff))
	for _, member := range staff {
		summary, err := s.MonthlySummary(ctx, member.ID, month)
		if err != nil {
			return nil, fmt.Errorf("summary for %s: %w", member.ID, err)
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}
