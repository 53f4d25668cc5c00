package models

import "time"

// AttendanceRecord marks whether a student attended the assembly on a given day. AssemblyDate is
// always UTC midnight of that day, and (StudentID, AssemblyDate) is unique.
type AttendanceRecord struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student"`
	AssemblyDate time.Time `db:"assembly_date" json:"assemblyDate"`
	Attended     bool      `db:"attended" json:"attended"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// AttendanceDetail joins the record with the student it belongs to. Student fields are empty when
// the student no longer exists.
type AttendanceDetail struct {
	AttendanceRecord
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Grade     string `db:"grade"`
}

// HasStudent reports whether the joined student was found.
func (d AttendanceDetail) HasStudent() bool {
	return d.FirstName != "" || d.LastName != ""
}

// AttendanceUpsert is one entry of a bulk save.
type AttendanceUpsert struct {
	StudentID    string
	AssemblyDate time.Time
	Attended     bool
}

// BulkWriteResult mirrors the counters reported by a bulk save.
type BulkWriteResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
}

// DailyStats summarises one assembly day against the roster.
type DailyStats struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Percentage int `json:"percentage"`
}

// HistoryStats summarises a single student's attendance history.
type HistoryStats struct {
	TotalDays            int     `json:"totalDays"`
	PresentDays          int     `json:"presentDays"`
	AbsentDays           int     `json:"absentDays"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

// DateSummary groups attendance records of one assembly day.
type DateSummary struct {
	Date         string               `json:"date"`
	TotalCount   int                  `json:"totalCount"`
	PresentCount int                  `json:"presentCount"`
	AbsentCount  int                  `json:"absentCount"`
	Students     []DateSummaryStudent `json:"students"`
}

// DateSummaryStudent is one row of a DateSummary.
type DateSummaryStudent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Grade    string `json:"grade"`
	Attended bool   `json:"attended"`
}
