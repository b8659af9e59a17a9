package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

// PeriodRepository stores the configured period list shared by all schedules.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository constructs a PeriodRepository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// List returns all periods in configured order.
func (r *PeriodRepository) List(ctx context.Context) (models.PeriodConfig, error) {
	const query = `SELECT code, position, time_slot, created_at, updated_at FROM periods ORDER BY position ASC`
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return models.PeriodConfig(periods), nil
}

// Replace swaps the whole period list atomically. Renames and reorders are
// applied as a single configuration change.
func (r *PeriodRepository) Replace(ctx context.Context, periods models.PeriodConfig) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace periods: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM periods`); err != nil {
		return fmt.Errorf("clear periods: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO periods (code, position, time_slot, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	for i, p := range periods {
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := tx.ExecContext(ctx, insert, p.Code, i, p.TimeSlot, createdAt, now); err != nil {
			return fmt.Errorf("insert period %s: %w", p.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace periods: %w", err)
	}
	return nil
}
