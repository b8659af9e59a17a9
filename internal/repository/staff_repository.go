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

// StaffRepository manages staff members and their daily attendance marks.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = "id, full_name, role, phone, monthly_salary, joined_on, active, created_at, updated_at"

// List returns staff matching filters along with total count.
func (r *StaffRepository) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, int, error) {
	base := "FROM staff WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(role) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY full_name ASC LIMIT %d OFFSET %d", staffColumns, base, size, offset)
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}
	return staff, total, nil
}

// FindByID fetches a staff member by ID.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE id = $1", staffColumns)
	var member models.Staff
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, err
	}
	return &member, nil
}

// Create inserts a new staff record.
func (r *StaffRepository) Create(ctx context.Context, member *models.Staff) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	const query = `INSERT INTO staff (id, full_name, role, phone, monthly_salary, joined_on, active, created_at, updated_at)
		VALUES (:id, :full_name, :role, :phone, :monthly_salary, :joined_on, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update modifies an existing staff record.
func (r *StaffRepository) Update(ctx context.Context, member *models.Staff) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET full_name = :full_name, role = :role, phone = :phone, monthly_salary = :monthly_salary, joined_on = :joined_on, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

// Deactivate sets a staff member's active flag to false.
func (r *StaffRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE staff SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate staff: %w", err)
	}
	return nil
}

// UpsertAttendance writes the attendance mark for (staff, date). Re-marking
// the same day overwrites the previous status.
func (r *StaffRepository) UpsertAttendance(ctx context.Context, att *models.StaffAttendance) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if att.CreatedAt.IsZero() {
		att.CreatedAt = now
	}
	att.UpdatedAt = now

	const query = `INSERT INTO staff_attendance (id, staff_id, date, status, note, created_at, updated_at)
		VALUES (:id, :staff_id, :date, :status, :note, :created_at, :updated_at)
		ON CONFLICT (staff_id, date)
		DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, att); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// ListAttendance returns a staff member's marks with date in [from, to].
func (r *StaffRepository) ListAttendance(ctx context.Context, staffID, from, to string) ([]models.StaffAttendance, error) {
	const query = `SELECT id, staff_id, date, status, note, created_at, updated_at
		FROM staff_attendance WHERE staff_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`
	var marks []models.StaffAttendance
	if err := r.db.SelectContext(ctx, &marks, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return marks, nil
}

// ListAttendanceByDate returns every staff member's mark for one date.
func (r *StaffRepository) ListAttendanceByDate(ctx context.Context, date string) ([]models.StaffAttendance, error) {
	const query = `SELECT id, staff_id, date, status, note, created_at, updated_at
		FROM staff_attendance WHERE date = $1 ORDER BY staff_id`
	var marks []models.StaffAttendance
	if err := r.db.SelectContext(ctx, &marks, query, date); err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	return marks, nil
}
