package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StudentEvent records participation in an organised event.
type StudentEvent struct {
	Type  string `json:"type"`
	Year  int    `json:"year,omitempty"`
	Role  string `json:"role,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// StudentEvents is persisted as a JSONB column.
type StudentEvents []StudentEvent

// Value implements driver.Valuer.
func (e StudentEvents) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner.
func (e *StudentEvents) Scan(src interface{}) error {
	return scanJSON(src, e)
}

// MovedOutInfo tracks students who left the area. Moved-out students stay on file but drop off the
// assembly roster.
type MovedOutInfo struct {
	MovedOut        bool       `db:"moved_out" json:"moved_out"`
	MovedOutDate    *time.Time `db:"moved_out_date" json:"moved_out_date,omitempty"`
	MovedOutJob     string     `db:"moved_out_job" json:"moved_out_job,omitempty"`
	MovedOutAddress string     `db:"moved_out_address" json:"moved_out_address,omitempty"`
	MovedOutNotes   string     `db:"moved_out_notes" json:"moved_out_notes,omitempty"`
}

// Student is a member on the sabha roster.
type Student struct {
	ID               string        `db:"id" json:"id"`
	FirstName        string        `db:"first_name" json:"first_name"`
	LastName         string        `db:"last_name" json:"last_name"`
	MailID           string        `db:"mail_id" json:"mail_id"`
	Phone            string        `db:"phone" json:"phone"`
	Address          string        `db:"address" json:"address"`
	DateOfBirth      *time.Time    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender           string        `db:"gender" json:"gender"`
	Education        string        `db:"education" json:"education"`
	Grade            string        `db:"grade" json:"grade"`
	EmergencyContact string        `db:"emergency_contact" json:"emergency_contact"`
	Notes            string        `db:"notes" json:"notes"`
	Events           StudentEvents `db:"events" json:"events"`
	MovedOutInfo
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Ref returns the compact projection embedded in other resources.
func (s Student) Ref() *StudentRef {
	return &StudentRef{ID: s.ID, FirstName: s.FirstName, LastName: s.LastName, Grade: s.Grade}
}

// StudentRef is the populated student shown alongside attendance and call logs.
type StudentRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Grade     string `json:"grade,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	MovedOut *bool
	Page     int
	Limit    int
}

// StudentDeletion reports what a cascading delete removed.
type StudentDeletion struct {
	AttendanceDeleted int64 `json:"attendanceDeleted"`
	CallLogsDeleted   int64 `json:"callLogsDeleted"`
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
