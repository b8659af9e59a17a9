package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

// TimetableRepository persists the derived per-teacher schedule grids. The
// grids are a materialized view of class_schedule_entries and are rebuilt by
// synchronization, never edited directly.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

type teacherScheduleRow struct {
	TeacherID string    `db:"teacher_id"`
	Grid      []byte    `db:"grid"`
	SyncedAt  time.Time `db:"synced_at"`
}

// Get returns the materialized grid for one teacher.
func (r *TimetableRepository) Get(ctx context.Context, teacherID string) (*models.TeacherSchedule, error) {
	const query = `SELECT teacher_id, grid, synced_at FROM teacher_schedules WHERE teacher_id = $1`
	var row teacherScheduleRow
	if err := r.db.GetContext(ctx, &row, query, teacherID); err != nil {
		return nil, err
	}
	var grid models.ScheduleGrid
	if err := json.Unmarshal(row.Grid, &grid); err != nil {
		return nil, fmt.Errorf("unmarshal schedule grid: %w", err)
	}
	return &models.TeacherSchedule{TeacherID: row.TeacherID, Grid: grid, SyncedAt: row.SyncedAt}, nil
}

// ReplaceAll swaps every materialized grid atomically so a half-finished sync
// never becomes visible.
func (r *TimetableRepository) ReplaceAll(ctx context.Context, schedules []models.TeacherSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedules: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM teacher_schedules`); err != nil {
		return fmt.Errorf("clear teacher schedules: %w", err)
	}

	const insert = `INSERT INTO teacher_schedules (teacher_id, grid, synced_at) VALUES ($1, $2, $3)`
	for _, s := range schedules {
		payload, err := json.Marshal(s.Grid)
		if err != nil {
			return fmt.Errorf("marshal grid for teacher %s: %w", s.TeacherID, err)
		}
		if _, err := tx.ExecContext(ctx, insert, s.TeacherID, payload, s.SyncedAt); err != nil {
			return fmt.Errorf("insert schedule for teacher %s: %w", s.TeacherID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace schedules: %w", err)
	}
	return nil
}

// LastSyncedAt returns the most recent synchronization timestamp, zero when
// no sync has run yet.
func (r *TimetableRepository) LastSyncedAt(ctx context.Context) (time.Time, error) {
	const query = `SELECT COALESCE(MAX(synced_at), 'epoch'::timestamptz) FROM teacher_schedules`
	var ts time.Time
	if err := r.db.GetContext(ctx, &ts, query); err != nil {
		return time.Time{}, fmt.Errorf("last synced at: %w", err)
	}
	return ts, nil
}
