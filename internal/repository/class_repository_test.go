package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akggautamasar/shopmatee-api/internal/models"
)

func TestClassRepositoryUpsertEntry(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("INSERT INTO class_schedule_entries").
		WithArgs(sqlmock.AnyArg(), "c1", "Monday", "P1", "Math", "t1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.ClassScheduleEntry{
		ClassID:   "c1",
		DayOfWeek: "Monday",
		Period:    "P1",
		Subject:   "Math",
		TeacherID: "t1",
	}
	require.NoError(t, repo.UpsertEntry(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListAllEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "day_of_week", "period", "subject", "teacher_id", "created_at", "updated_at"}).
		AddRow("e1", "c1", "Monday", "P1", "Math", "t1", time.Now(), time.Now()).
		AddRow("e2", "c1", "Monday", "P2", "Science", "t2", time.Now(), time.Now())

	mock.ExpectQuery("SELECT id, class_id, day_of_week, period, subject, teacher_id").
		WillReturnRows(rows)

	entries, err := repo.ListAllEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryDeleteEntry(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_schedule_entries WHERE class_id = $1 AND day_of_week = $2 AND period = $3")).
		WithArgs("c1", "Monday", "P1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteEntry(context.Background(), "c1", "Monday", "P1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
