package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type periodRepository interface {
	List(ctx context.Context) (models.PeriodConfig, error)
	Replace(ctx context.Context, periods models.PeriodConfig) error
}

// timeSlotPattern accepts the "HH:MM-HH:MM" labels used for duration math.
var timeSlotPattern = regexp.MustCompile(`^\d{2}:\d{2}-\d{2}:\d{2}$`)

// PeriodInput is one period in a replace request, listed in display order.
type PeriodInput struct {
	Code     string `json:"code" validate:"required,max=50"`
	TimeSlot string `json:"time_slot" validate:"omitempty,max=20"`
}

// ReplacePeriodsRequest swaps the whole period configuration.
type ReplacePeriodsRequest struct {
	Periods []PeriodInput `json:"periods" validate:"required,min=1,dive"`
}

// PeriodService manages the shared period configuration.
type PeriodService struct {
	repo      periodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(repo periodRepository, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, validator: validate, logger: logger}
}

// List returns the configured periods in order.
func (s *PeriodService) List(ctx context.Context) (models.PeriodConfig, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// Replace swaps the period configuration as one change. Codes must be unique
// and time slots, when provided, must follow the HH:MM-HH:MM layout.
func (s *PeriodService) Replace(ctx context.Context, req ReplacePeriodsRequest) (models.PeriodConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid periods payload")
	}

	seen := make(map[string]bool, len(req.Periods))
	config := make(models.PeriodConfig, 0, len(req.Periods))
	for i, p := range req.Periods {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "period code cannot be blank")
		}
		if seen[code] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate period code: "+code)
		}
		seen[code] = true

		slot := strings.TrimSpace(p.TimeSlot)
		if slot != "" && !timeSlotPattern.MatchString(slot) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "time slot must use HH:MM-HH:MM: "+slot)
		}
		config = append(config, models.Period{Code: code, Position: i, TimeSlot: slot})
	}

	if err := s.repo.Replace(ctx, config); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace periods")
	}
	s.logger.Info("period configuration replaced", zap.Int("count", len(config)))
	return config, nil
}
