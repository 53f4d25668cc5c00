package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

// CallLogRepository persists follow-up call logs.
type CallLogRepository struct {
	db *sqlx.DB
}

// NewCallLogRepository constructs the repository.
func NewCallLogRepository(db *sqlx.DB) *CallLogRepository {
	return &CallLogRepository{db: db}
}

// List returns call logs with the called student's name, newest first.
func (r *CallLogRepository) List(ctx context.Context, f query.CallLogFilter) ([]models.CallLogDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if f.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("c.student_id = $%d", len(args)+1))
		args = append(args, f.StudentID)
	}
	if !f.Window.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("c.timestamp >= $%d", len(args)+1))
		args = append(args, f.Window.From)
	}
	if !f.Window.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("c.timestamp < $%d", len(args)+1))
		args = append(args, f.Window.To)
	}
	where := strings.Join(conditions, " AND ")

	q := fmt.Sprintf(`SELECT c.id, c.student_id, c.status, c.notes, c.needs_follow_up, c.follow_up_date, c.timestamp,
        COALESCE(s.first_name, '') AS first_name, COALESCE(s.last_name, '') AS last_name
        FROM call_logs c LEFT JOIN students s ON s.id = c.student_id
        WHERE %s ORDER BY c.timestamp DESC`, where)
	if !f.Page.Unbounded() {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Page.Limit, f.Page.Offset())
	}

	var logs []models.CallLogDetail
	if err := r.db.SelectContext(ctx, &logs, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list call logs: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM call_logs c WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count call logs: %w", err)
	}
	return logs, total, nil
}

// Create appends a call log.
func (r *CallLogRepository) Create(ctx context.Context, log *models.CallLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	const q = `INSERT INTO call_logs (id, student_id, status, notes, needs_follow_up, follow_up_date, timestamp)
        VALUES (:id, :student_id, :status, :notes, :needs_follow_up, :follow_up_date, :timestamp)`
	if _, err := r.db.NamedExecContext(ctx, q, log); err != nil {
		return fmt.Errorf("create call log: %w", err)
	}
	return nil
}

// Counters computes the dashboard call figures in a single pass.
func (r *CallLogRepository) Counters(ctx context.Context, w query.DashboardWindows) (*models.CallCounters, error) {
	const q = `SELECT COUNT(*) AS total_calls,
        COUNT(*) FILTER (WHERE status = $1) AS completed_calls,
        COUNT(*) FILTER (WHERE needs_follow_up OR status <> $1) AS pending_calls,
        COUNT(*) FILTER (WHERE timestamp >= $2) AS todays_calls,
        COUNT(*) FILTER (WHERE timestamp >= $3) AS weeks_calls,
        COUNT(*) FILTER (WHERE timestamp >= $4) AS months_calls
        FROM call_logs`
	var counters models.CallCounters
	if err := r.db.GetContext(ctx, &counters, q, models.CallStatusCompleted, w.Today, w.Week, w.Month); err != nil {
		return nil, fmt.Errorf("count call logs: %w", err)
	}
	return &counters, nil
}

// NotesBetween groups call logs in the window by their notes.
func (r *CallLogRepository) NotesBetween(ctx context.Context, w query.Window) ([]models.NoteCount, error) {
	const q = `SELECT notes, COUNT(*) AS count FROM call_logs
        WHERE timestamp >= $1 AND timestamp < $2 GROUP BY notes`
	var counts []models.NoteCount
	if err := r.db.SelectContext(ctx, &counts, q, w.From, w.To); err != nil {
		return nil, fmt.Errorf("group call notes: %w", err)
	}
	return counts, nil
}
