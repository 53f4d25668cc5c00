package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

const studentColumns = `id, first_name, last_name, mail_id, phone, address, date_of_birth, gender, education, grade,
        emergency_contact, notes, events, moved_out, moved_out_date, moved_out_job, moved_out_address, moved_out_notes,
        created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters ordered by name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.MovedOut != nil {
		conditions = append(conditions, fmt.Sprintf("moved_out = $%d", len(args)+1))
		args = append(args, *filter.MovedOut)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(mail_id) LIKE $%d OR phone LIKE $%d)", n, n, n, n))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")
	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY first_name ASC, last_name ASC", studentColumns, where)
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, (page-1)*filter.Limit)
	}

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListActive returns the assembly roster: every student who has not moved out.
func (r *StudentRepository) ListActive(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE moved_out = FALSE ORDER BY first_name ASC, last_name ASC", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list active students: %w", err)
	}
	return students, nil
}

// ListByBirthday returns students born on the given month and day.
func (r *StudentRepository) ListByBirthday(ctx context.Context, month time.Month, day int) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students
        WHERE date_of_birth IS NOT NULL
        AND EXTRACT(MONTH FROM date_of_birth AT TIME ZONE 'UTC') = $1
        AND EXTRACT(DAY FROM date_of_birth AT TIME ZONE 'UTC') = $2
        ORDER BY first_name ASC, last_name ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, int(month), day); err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, translate(err)
	}
	return &student, nil
}

// ExistingIDs returns the subset of ids that belong to stored students.
func (r *StudentRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	if err := r.db.SelectContext(ctx, &found, "SELECT id FROM students WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("check student ids: %w", err)
	}
	return found, nil
}

// Count returns the number of students on file.
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, first_name, last_name, mail_id, phone, address, date_of_birth, gender, education, grade,
        emergency_contact, notes, events, moved_out, moved_out_date, moved_out_job, moved_out_address, moved_out_notes, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :mail_id, :phone, :address, :date_of_birth, :gender, :education, :grade,
        :emergency_contact, :notes, :events, :moved_out, :moved_out_date, :moved_out_job, :moved_out_address, :moved_out_notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", translate(err))
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, mail_id = :mail_id, phone = :phone,
        address = :address, date_of_birth = :date_of_birth, gender = :gender, education = :education, grade = :grade,
        emergency_contact = :emergency_contact, notes = :notes, events = :events, moved_out = :moved_out,
        moved_out_date = :moved_out_date, moved_out_job = :moved_out_job, moved_out_address = :moved_out_address,
        moved_out_notes = :moved_out_notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a student together with its attendance and call logs in one transaction.
func (r *StudentRepository) Delete(ctx context.Context, id string) (result *models.StudentDeletion, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result = &models.StudentDeletion{}
	res, err := tx.ExecContext(ctx, "DELETE FROM attendance WHERE student_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("delete student attendance: %w", err)
	}
	if result.AttendanceDeleted, err = res.RowsAffected(); err != nil {
		return nil, err
	}

	res, err = tx.ExecContext(ctx, "DELETE FROM call_logs WHERE student_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("delete student call logs: %w", err)
	}
	if result.CallLogsDeleted, err = res.RowsAffected(); err != nil {
		return nil, err
	}

	res, err = tx.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("delete student: %w", err)
	}
	if err = requireAffected(res); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete student: %w", err)
	}
	return result, nil
}
