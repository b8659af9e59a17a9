package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

// ClassRepository manages classes and their authoritative timetable entries.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filters along with total count.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	base := "FROM classes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, position, created_at, updated_at %s ORDER BY position ASC, name ASC LIMIT %d OFFSET %d", base, size, offset)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// ListAll returns every class in display order.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.Class, error) {
	const query = `SELECT id, name, position, created_at, updated_at FROM classes ORDER BY position ASC, name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list all classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, position, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, position, created_at, updated_at)
		VALUES (:id, :name, :position, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class record.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, position = :position, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class and, via cascade, its timetable entries.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM classes WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// ListEntries returns the timetable entries for one class.
func (r *ClassRepository) ListEntries(ctx context.Context, classID string) ([]models.ClassScheduleEntry, error) {
	const query = `SELECT id, class_id, day_of_week, period, subject, teacher_id, created_at, updated_at
		FROM class_schedule_entries WHERE class_id = $1 ORDER BY day_of_week, period`
	var entries []models.ClassScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, classID); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// ListAllEntries returns every timetable entry across classes. Used when
// rebuilding the derived teacher schedules.
func (r *ClassRepository) ListAllEntries(ctx context.Context) ([]models.ClassScheduleEntry, error) {
	const query = `SELECT id, class_id, day_of_week, period, subject, teacher_id, created_at, updated_at
		FROM class_schedule_entries ORDER BY class_id, day_of_week, period`
	var entries []models.ClassScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list all schedule entries: %w", err)
	}
	return entries, nil
}

// UpsertEntry writes one (class, day, period) cell, replacing any previous
// subject and teacher in that cell.
func (r *ClassRepository) UpsertEntry(ctx context.Context, entry *models.ClassScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO class_schedule_entries (id, class_id, day_of_week, period, subject, teacher_id, created_at, updated_at)
		VALUES (:id, :class_id, :day_of_week, :period, :subject, :teacher_id, :created_at, :updated_at)
		ON CONFLICT (class_id, day_of_week, period)
		DO UPDATE SET subject = EXCLUDED.subject, teacher_id = EXCLUDED.teacher_id, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("upsert schedule entry: %w", err)
	}
	return nil
}

// DeleteEntry clears one (class, day, period) cell.
func (r *ClassRepository) DeleteEntry(ctx context.Context, classID, dayOfWeek, period string) error {
	const query = `DELETE FROM class_schedule_entries WHERE class_id = $1 AND day_of_week = $2 AND period = $3`
	if _, err := r.db.ExecContext(ctx, query, classID, dayOfWeek, period); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

// ListEntriesForTeacherDay returns the entries a teacher is scheduled to
// teach on one weekday, across all classes.
func (r *ClassRepository) ListEntriesForTeacherDay(ctx context.Context, teacherID, dayOfWeek string) ([]models.ClassScheduleEntry, error) {
	const query = `SELECT id, class_id, day_of_week, period, subject, teacher_id, created_at, updated_at
		FROM class_schedule_entries WHERE teacher_id = $1 AND day_of_week = $2 ORDER BY period`
	var entries []models.ClassScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID, dayOfWeek); err != nil {
		return nil, fmt.Errorf("list teacher day entries: %w", err)
	}
	return entries, nil
}
