package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

// SubstitutionRepository persists the immutable cover-assignment ledger.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository constructs a SubstitutionRepository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

const substitutionColumns = `s.id, s.date, s.absent_teacher_id, COALESCE(at.full_name, '') AS absent_teacher_name,
	s.period, s.class_id, s.class_name, s.subject, s.substitute_teacher_id,
	COALESCE(st.full_name, '') AS substitute_teacher_name, s.remarks, s.created_at`

const substitutionJoins = ` FROM substitutions s
	LEFT JOIN teachers at ON at.id = s.absent_teacher_id
	LEFT JOIN teachers st ON st.id = s.substitute_teacher_id`

// Create inserts one ledger record. A second record for the same
// (date, absent teacher, period) returns ErrDuplicate.
func (r *SubstitutionRepository) Create(ctx context.Context, record *models.SubstitutionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO substitutions (id, date, absent_teacher_id, period, class_id, class_name, subject, substitute_teacher_id, remarks, created_at)
		VALUES (:id, :date, :absent_teacher_id, :period, :class_id, :class_name, :subject, :substitute_teacher_id, :remarks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create substitution: %w", err)
	}
	return nil
}

// List returns ledger records matching the filter with total count, newest
// date first then period order within a day.
func (r *SubstitutionRepository) List(ctx context.Context, filter models.SubstitutionFilter) ([]models.SubstitutionRecord, int, error) {
	base := substitutionJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("s.date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("s.date <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("(s.absent_teacher_id = $%d OR s.substitute_teacher_id = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.TeacherID)
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

	query := fmt.Sprintf("SELECT %s%s ORDER BY s.date DESC, s.period ASC LIMIT %d OFFSET %d", substitutionColumns, base, size, offset)
	var records []models.SubstitutionRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list substitutions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*)%s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count substitutions: %w", err)
	}
	return records, total, nil
}

// ListByDate returns every ledger record for one date.
func (r *SubstitutionRepository) ListByDate(ctx context.Context, date string) ([]models.SubstitutionRecord, error) {
	query := fmt.Sprintf("SELECT %s%s WHERE s.date = $1 ORDER BY s.period ASC", substitutionColumns, substitutionJoins)
	var records []models.SubstitutionRecord
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list substitutions by date: %w", err)
	}
	return records, nil
}

// BookedSubstituteIDs returns the teacher IDs already covering some class in
// the given (date, period).
func (r *SubstitutionRepository) BookedSubstituteIDs(ctx context.Context, date, period string) ([]string, error) {
	const query = `SELECT substitute_teacher_id FROM substitutions WHERE date = $1 AND period = $2`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, date, period); err != nil {
		return nil, fmt.Errorf("list booked substitutes: %w", err)
	}
	return ids, nil
}

// FindByID fetches a ledger record by ID.
func (r *SubstitutionRepository) FindByID(ctx context.Context, id string) (*models.SubstitutionRecord, error) {
	query := fmt.Sprintf("SELECT %s%s WHERE s.id = $1", substitutionColumns, substitutionJoins)
	var record models.SubstitutionRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find substitution: %w", err)
	}
	return &record, nil
}

// ListRange returns every ledger record with date in [from, to], oldest
// first. Empty bounds leave the corresponding side of the range open. Used
// by report aggregation and exports.
func (r *SubstitutionRepository) ListRange(ctx context.Context, from, to string) ([]models.SubstitutionRecord, error) {
	base := substitutionJoins + " WHERE 1=1"
	var args []interface{}
	if from != "" {
		base += fmt.Sprintf(" AND s.date >= $%d", len(args)+1)
		args = append(args, from)
	}
	if to != "" {
		base += fmt.Sprintf(" AND s.date <= $%d", len(args)+1)
		args = append(args, to)
	}
	query := fmt.Sprintf("SELECT %s%s ORDER BY s.date ASC, s.period ASC", substitutionColumns, base)
	var records []models.SubstitutionRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list substitutions range: %w", err)
	}
	return records, nil
}
