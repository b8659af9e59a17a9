package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

func TestSubstitutionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectExec("INSERT INTO substitutions").
		WithArgs(sqlmock.AnyArg(), "2026-03-02", "absent-1", "P1", "c1", "Class 1", "Math", "sub-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.SubstitutionRecord{
		Date:                "2026-03-02",
		AbsentTeacherID:     "absent-1",
		Period:              "P1",
		ClassID:             "c1",
		ClassName:           "Class 1",
		Subject:             "Math",
		SubstituteTeacherID: "sub-1",
	}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectExec("INSERT INTO substitutions").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.SubstitutionRecord{
		Date:                "2026-03-02",
		AbsentTeacherID:     "absent-1",
		Period:              "P1",
		ClassID:             "c1",
		ClassName:           "Class 1",
		Subject:             "Math",
		SubstituteTeacherID: "sub-1",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryBookedSubstituteIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT substitute_teacher_id FROM substitutions WHERE date = $1 AND period = $2")).
		WithArgs("2026-03-02", "P1").
		WillReturnRows(sqlmock.NewRows([]string{"substitute_teacher_id"}).AddRow("sub-1").AddRow("sub-2"))

	ids, err := repo.BookedSubstituteIDs(context.Background(), "2026-03-02", "P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub-1", "sub-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryListRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "date", "absent_teacher_id", "absent_teacher_name", "period", "class_id",
		"class_name", "subject", "substitute_teacher_id", "substitute_teacher_name", "remarks", "created_at",
	}).AddRow("s1", "2026-03-02", "a1", "Absent One", "P1", "c1", "Class 1", "Math", "t1", "Sub One", nil, time.Now())

	mock.ExpectQuery("SELECT s.id, s.date").
		WithArgs("2026-03-01", "2026-03-31").
		WillReturnRows(rows)

	records, err := repo.ListRange(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Sub One", records[0].SubstituteTeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryListRangeUnbounded(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "date", "absent_teacher_id", "absent_teacher_name", "period", "class_id",
		"class_name", "subject", "substitute_teacher_id", "substitute_teacher_name", "remarks", "created_at",
	}).AddRow("s1", "2026-03-02", "a1", "Absent One", "P1", "c1", "Class 1", "Math", "t1", "Sub One", nil, time.Now())

	mock.ExpectQuery("SELECT s.id, s.date").
		WillReturnRows(rows)

	records, err := repo.ListRange(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryListRangeOpenEnd(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "date", "absent_teacher_id", "absent_teacher_name", "period", "class_id",
		"class_name", "subject", "substitute_teacher_id", "substitute_teacher_name", "remarks", "created_at",
	})

	mock.ExpectQuery("SELECT s.id, s.date").
		WithArgs("2026-03-01").
		WillReturnRows(rows)

	records, err := repo.ListRange(context.Background(), "2026-03-01", "")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
