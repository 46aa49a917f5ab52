package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kids-academy-api/internal/models"
)

func newClassRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func classRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "instructor_email", "instructor_name", "title", "image_url", "price",
		"status", "feedback", "available_seats", "total_enroll", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(id, "teach@example.com", "Teach", "Chess", "", 25.0,
			models.ClassStatusApproved, nil, 10, 3, time.Now(), time.Now())
	}
	return rows
}

func TestClassRepositoryCreateForcesPending(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("INSERT INTO classes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	class := &models.ClassOffering{
		InstructorEmail: "teach@example.com",
		InstructorName:  "Teach",
		Title:           "Chess",
		AvailableSeats:  10,
		Status:          models.ClassStatusApproved,
		TotalEnroll:     99,
	}
	err := repo.Create(context.Background(), class)
	require.NoError(t, err)
	require.Equal(t, models.ClassStatusPending, class.Status)
	require.Zero(t, class.TotalEnroll)
	require.NotEmpty(t, class.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListApprovedOrdersByEnrollment(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE status = $1 ORDER BY total_enroll DESC")).
		WithArgs(models.ClassStatusApproved).
		WillReturnRows(classRows("class-1", "class-2"))

	classes, err := repo.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByIDUnknown(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositorySetStatusUnknownID(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET status = $2, updated_at = $3 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), "missing", models.ClassStatusApproved)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositorySetFeedback(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET feedback = $2, updated_at = $3 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetFeedback(context.Background(), "class-1", "needs a syllabus")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListByInstructor(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE instructor_email = $1 ORDER BY created_at DESC")).
		WithArgs("teach@example.com").
		WillReturnRows(classRows("class-1"))

	classes, err := repo.ListByInstructor(context.Background(), "teach@example.com")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
