package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

func mustDay(t *testing.T, raw string) query.DayRange {
	day, err := query.ParseDay(raw)
	require.NoError(t, err)
	return day
}

func TestAttendanceRepositoryListFiltersAndPages(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := mustDay(t, "2024-03-01")
	filter := query.AttendanceFilter{
		Window:    query.Window{From: day.Start, To: day.End},
		StudentID: "s1",
		Page:      query.Page{Page: 2, Limit: 5},
	}

	rows := sqlmock.NewRows([]string{"id", "student_id", "assembly_date", "attended", "created_at", "updated_at", "first_name", "last_name", "grade"}).
		AddRow("a1", "s1", day.Start, true, day.Start, day.Start, "Asha", "Patel", "10")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND a.assembly_date >= $1 AND a.assembly_date < $2 AND a.student_id = $3 ORDER BY a.assembly_date DESC")).
		WithArgs(day.Start, day.End, "s1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance a WHERE 1=1 AND a.assembly_date >= $1")).
		WithArgs(day.Start, day.End, "s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	records, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 6, total)
	assert.True(t, records[0].HasStudent())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListUnboundedHasNoLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(`ORDER BY a\.assembly_date DESC, first_name ASC, last_name ASC$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance a WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), query.AttendanceFilter{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkUpsertCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := mustDay(t, "2024-03-01").Start
	entries := []models.AttendanceUpsert{
		{StudentID: "s1", AssemblyDate: day, Attended: true},
		{StudentID: "s2", AssemblyDate: day, Attended: false},
		{StudentID: "s3", AssemblyDate: day, Attended: true},
	}

	upsert := regexp.QuoteMeta("ON CONFLICT (student_id, assembly_date) DO UPDATE")
	mock.ExpectBegin()
	mock.ExpectQuery(upsert).WithArgs(sqlmock.AnyArg(), "s1", day, true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))
	mock.ExpectQuery(upsert).WithArgs(sqlmock.AnyArg(), "s2", day, false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}))
	mock.ExpectQuery(upsert).WithArgs(sqlmock.AnyArg(), "s3", day, true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))
	mock.ExpectCommit()

	res, err := repo.BulkUpsert(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, models.BulkWriteResult{MatchedCount: 2, ModifiedCount: 1, UpsertedCount: 1}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkUpsertRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO attendance").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.BulkUpsert(context.Background(), []models.AttendanceUpsert{{StudentID: "s1", AssemblyDate: time.Now()}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.AttendanceRecord{StudentID: "s1", AssemblyDate: time.Now()})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestAttendanceRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE id = $1")).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAttendanceRepositoryDeleteScopes(t *testing.T) {
	day := mustDay(t, "2024-03-01")
	cases := []struct {
		name    string
		del     query.AttendanceDeletion
		pattern string
		args    []driver.Value
	}{
		{"by id", query.AttendanceDeletion{Scope: query.DeleteByID, ID: "a1"}, "DELETE FROM attendance WHERE id = $1", []driver.Value{"a1"}},
		{"student day", query.AttendanceDeletion{Scope: query.DeleteByStudentDay, StudentID: "s1", Day: day},
			"DELETE FROM attendance WHERE student_id = $1 AND assembly_date >= $2 AND assembly_date < $3", []driver.Value{"s1", day.Start, day.End}},
		{"day", query.AttendanceDeletion{Scope: query.DeleteByDay, Day: day},
			"DELETE FROM attendance WHERE assembly_date >= $1 AND assembly_date < $2", []driver.Value{day.Start, day.End}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, cleanup := newMock(t)
			defer cleanup()
			repo := NewAttendanceRepository(db)

			mock.ExpectExec(regexp.QuoteMeta(tc.pattern)).WithArgs(tc.args...).WillReturnResult(sqlmock.NewResult(0, 3))

			n, err := repo.Delete(context.Background(), tc.del)
			require.NoError(t, err)
			assert.Equal(t, int64(3), n)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(`^DELETE FROM attendance$`).WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := repo.Delete(context.Background(), query.AttendanceDeletion{Scope: query.DeleteAll})
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestAttendanceRepositoryListByWeekday(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(DOW FROM assembly_date AT TIME ZONE 'UTC') = $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "attended"}).AddRow("a1", "s1", true))

	rows, err := repo.ListByWeekday(context.Background(), time.Friday)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
