package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
)

type substitutionRangeRepository interface {
	ListRange(ctx context.Context, from, to string) ([]models.SubstitutionRecord, error)
}

// defaultPeriodMinutes is assumed when a period has no parseable time slot.
const defaultPeriodMinutes = 45

// SlotMinutes returns the duration of an "HH:MM-HH:MM" time slot in minutes,
// falling back to 45 for blank or malformed labels.
func SlotMinutes(slot string) int {
	if len(slot) != 11 || slot[5] != '-' {
		return defaultPeriodMinutes
	}
	start, err := time.Parse("15:04", slot[:5])
	if err != nil {
		return defaultPeriodMinutes
	}
	end, err := time.Parse("15:04", slot[6:])
	if err != nil {
		return defaultPeriodMinutes
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes <= 0 {
		return defaultPeriodMinutes
	}
	return minutes
}

// AggregateSubstitutionStats folds ledger records into per-substitute totals.
// Hours come from each record's period time slot, rounded to two decimals;
// distinct dates make up the day count. Output is ordered by period count
// descending, then name.
func AggregateSubstitutionStats(records []models.SubstitutionRecord, periods models.PeriodConfig) []models.TeacherSubstitutionStats {
	type acc struct {
		stats models.TeacherSubstitutionStats
		days  map[string]bool
	}
	byTeacher := make(map[string]*acc)

	for _, r := range records {
		a, ok := byTeacher[r.SubstituteTeacherID]
		if !ok {
			a = &acc{
				stats: models.TeacherSubstitutionStats{
					TeacherID:   r.SubstituteTeacherID,
					TeacherName: r.SubstituteTeacherName,
				},
				days: make(map[string]bool),
			}
			byTeacher[r.SubstituteTeacherID] = a
		}
		a.stats.Periods++
		a.stats.Hours += float64(SlotMinutes(periods.SlotFor(r.Period))) / 60
		a.days[r.Date] = true
	}

	out := make([]models.TeacherSubstitutionStats, 0, len(byTeacher))
	for _, a := range byTeacher {
		a.stats.Days = len(a.days)
		a.stats.Hours = math.Round(a.stats.Hours*100) / 100
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Periods != out[j].Periods {
			return out[i].Periods > out[j].Periods
		}
		return out[i].TeacherName < out[j].TeacherName
	})
	return out
}

// ReportService aggregates the substitution ledger for reporting.
type ReportService struct {
	substitutions substitutionRangeRepository
	periods       periodRepository
	logger        *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(substitutions substitutionRangeRepository, periods periodRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{substitutions: substitutions, periods: periods, logger: logger}
}

// Stats returns per-substitute workload totals for dates in [from, to].
// Either bound may be empty, leaving that side of the range open.
func (s *ReportService) Stats(ctx context.Context, from, to string) ([]models.TeacherSubstitutionStats, error) {
	if from != "" {
		if _, err := time.Parse("2006-01-02", from); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "from date must use YYYY-MM-DD")
		}
	}
	if to != "" {
		if _, err := time.Parse("2006-01-02", to); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "to date must use YYYY-MM-DD")
		}
	}
	if from != "" && to != "" && from > to {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from date is after to date")
	}

	records, err := s.substitutions.ListRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitutions")
	}
	periods, err := s.periods.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}
	return AggregateSubstitutionStats(records, periods), nil
}

// Records returns the raw ledger rows for a range, oldest first. Used by the
// export pipeline.
func (s *ReportService) Records(ctx context.Context, from, to string) ([]models.SubstitutionRecord, error) {
	records, err := s.substitutions.ListRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitutions")
	}
	return records, nil
}
