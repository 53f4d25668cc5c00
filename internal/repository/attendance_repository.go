package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

const attendanceColumns = "id, student_id, assembly_date, attended, created_at, updated_at"

// upsertAttendanceQuery inserts or flips the attended flag. The conditional DO UPDATE skips
// unchanged rows so RETURNING yields nothing for a no-op match.
const upsertAttendanceQuery = `INSERT INTO attendance (id, student_id, assembly_date, attended, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $5)
        ON CONFLICT (student_id, assembly_date) DO UPDATE SET attended = EXCLUDED.attended, updated_at = EXCLUDED.updated_at
        WHERE attendance.attended IS DISTINCT FROM EXCLUDED.attended
        RETURNING (xmax = 0) AS inserted`

// AttendanceRepository persists assembly attendance.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func attendanceConditions(f query.AttendanceFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if !f.Window.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.assembly_date >= $%d", len(args)+1))
		args = append(args, f.Window.From)
	}
	if !f.Window.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.assembly_date < $%d", len(args)+1))
		args = append(args, f.Window.To)
	}
	if f.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)+1))
		args = append(args, f.StudentID)
	}
	return strings.Join(conditions, " AND "), args
}

// List returns attendance joined with its student, newest assembly first.
func (r *AttendanceRepository) List(ctx context.Context, f query.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	where, args := attendanceConditions(f)

	q := fmt.Sprintf(`SELECT a.id, a.student_id, a.assembly_date, a.attended, a.created_at, a.updated_at,
        COALESCE(s.first_name, '') AS first_name, COALESCE(s.last_name, '') AS last_name, COALESCE(s.grade, '') AS grade
        FROM attendance a LEFT JOIN students s ON s.id = a.student_id
        WHERE %s ORDER BY a.assembly_date DESC, first_name ASC, last_name ASC`, where)
	if !f.Page.Unbounded() {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Page.Limit, f.Page.Offset())
	}

	var rows []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM attendance a WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// ListJoined returns every record whose student still exists, newest assembly first.
func (r *AttendanceRepository) ListJoined(ctx context.Context) ([]models.AttendanceDetail, error) {
	const q = `SELECT a.id, a.student_id, a.assembly_date, a.attended, a.created_at, a.updated_at,
        s.first_name, s.last_name, s.grade
        FROM attendance a JOIN students s ON s.id = a.student_id
        ORDER BY a.assembly_date DESC, s.first_name ASC, s.last_name ASC`
	var rows []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list joined attendance: %w", err)
	}
	return rows, nil
}

// ListByWeekday returns records whose assembly date falls on the given UTC weekday.
func (r *AttendanceRepository) ListByWeekday(ctx context.Context, weekday time.Weekday) ([]models.AttendanceRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM attendance WHERE EXTRACT(DOW FROM assembly_date AT TIME ZONE 'UTC') = $1", attendanceColumns)
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, q, int(weekday)); err != nil {
		return nil, fmt.Errorf("list attendance by weekday: %w", err)
	}
	return rows, nil
}

// FindByID fetches a single record.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	if err := r.db.GetContext(ctx, &rec, fmt.Sprintf("SELECT %s FROM attendance WHERE id = $1", attendanceColumns), id); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// Create inserts a record, failing with ErrDuplicate when the student already has one that day.
func (r *AttendanceRepository) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	const q = `INSERT INTO attendance (id, student_id, assembly_date, attended, created_at, updated_at)
        VALUES (:id, :student_id, :assembly_date, :attended, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, rec); err != nil {
		return fmt.Errorf("create attendance: %w", translate(err))
	}
	return nil
}

// Update rewrites a record in place.
func (r *AttendanceRepository) Update(ctx context.Context, rec *models.AttendanceRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	const q = `UPDATE attendance SET student_id = :student_id, assembly_date = :assembly_date, attended = :attended,
        updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, rec)
	if err != nil {
		return fmt.Errorf("update attendance: %w", translate(err))
	}
	return requireAffected(res)
}

// BulkUpsert applies every entry keyed by (student, day) inside one transaction.
func (r *AttendanceRepository) BulkUpsert(ctx context.Context, entries []models.AttendanceUpsert) (result models.BulkWriteResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin bulk attendance: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, entry := range entries {
		var inserted bool
		err = tx.QueryRowxContext(ctx, upsertAttendanceQuery,
			uuid.NewString(), entry.StudentID, entry.AssemblyDate, entry.Attended, now).Scan(&inserted)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			result.MatchedCount++
			err = nil
		case err != nil:
			return result, fmt.Errorf("upsert attendance for %s: %w", entry.StudentID, err)
		case inserted:
			result.UpsertedCount++
		default:
			result.MatchedCount++
			result.ModifiedCount++
		}
	}

	if err = tx.Commit(); err != nil {
		return result, fmt.Errorf("commit bulk attendance: %w", err)
	}
	return result, nil
}

// Delete removes the records selected by the deletion scope and reports how many went.
func (r *AttendanceRepository) Delete(ctx context.Context, del query.AttendanceDeletion) (int64, error) {
	var (
		q    string
		args []interface{}
	)
	switch del.Scope {
	case query.DeleteByID:
		q, args = "DELETE FROM attendance WHERE id = $1", []interface{}{del.ID}
	case query.DeleteByStudentDay:
		q = "DELETE FROM attendance WHERE student_id = $1 AND assembly_date >= $2 AND assembly_date < $3"
		args = []interface{}{del.StudentID, del.Day.Start, del.Day.End}
	case query.DeleteByDay:
		q = "DELETE FROM attendance WHERE assembly_date >= $1 AND assembly_date < $2"
		args = []interface{}{del.Day.Start, del.Day.End}
	case query.DeleteAll:
		q = "DELETE FROM attendance"
	default:
		return 0, fmt.Errorf("unknown attendance delete scope %d", del.Scope)
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("delete attendance: %w", err)
	}
	return res.RowsAffected()
}
