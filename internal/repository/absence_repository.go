package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

// ErrDuplicate reports a unique-constraint violation surfaced by Postgres.
var ErrDuplicate = fmt.Errorf("duplicate record")

// isUniqueViolation matches Postgres error class 23505.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// AbsenceRepository stores per-date teacher absence marks.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// ListByDate returns the absences recorded for a date.
func (r *AbsenceRepository) ListByDate(ctx context.Context, date string) ([]models.Absence, error) {
	const query = `SELECT id, date, teacher_id, created_at FROM absences WHERE date = $1 ORDER BY created_at ASC`
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query, date); err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	return absences, nil
}

// Exists reports whether the teacher is already marked absent on the date.
func (r *AbsenceRepository) Exists(ctx context.Context, date, teacherID string) (bool, error) {
	const query = `SELECT 1 FROM absences WHERE date = $1 AND teacher_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, date, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check absence: %w", err)
	}
	return true, nil
}

// Create marks a teacher absent on a date. A second mark for the same
// (date, teacher) pair returns ErrDuplicate.
func (r *AbsenceRepository) Create(ctx context.Context, absence *models.Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO absences (id, date, teacher_id, created_at) VALUES (:id, :date, :teacher_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, absence); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create absence: %w", err)
	}
	return nil
}

// Delete removes an absence mark by ID.
func (r *AbsenceRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM absences WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete absence: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete absence rows affected: %w", err)
	}
	return affected > 0, nil
}
