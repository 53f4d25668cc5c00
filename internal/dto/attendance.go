package dto

import (
	"time"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

// AttendanceView is an attendance record as returned by the API. Student is null when the record
// outlived its student.
type AttendanceView struct {
	ID           string             `json:"id"`
	Student      *models.StudentRef `json:"student"`
	AssemblyDate string             `json:"assemblyDate"`
	Attended     bool               `json:"attended"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// NewAttendanceView renders a joined record.
func NewAttendanceView(d models.AttendanceDetail) AttendanceView {
	v := AttendanceView{
		ID:           d.ID,
		AssemblyDate: query.FormatDay(d.AssemblyDate),
		Attended:     d.Attended,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.HasStudent() {
		v.Student = &models.StudentRef{ID: d.StudentID, FirstName: d.FirstName, LastName: d.LastName, Grade: d.Grade}
	}
	return v
}

// NewAttendanceViews renders a listing.
func NewAttendanceViews(details []models.AttendanceDetail) []AttendanceView {
	out := make([]AttendanceView, 0, len(details))
	for _, d := range details {
		out = append(out, NewAttendanceView(d))
	}
	return out
}

// AttendanceListResponse is the GET /attendance payload.
type AttendanceListResponse struct {
	Attendances []AttendanceView `json:"attendances"`
	Total       int              `json:"total"`
	Page        int              `json:"page"`
}

// AttendanceResponse wraps a single record.
type AttendanceResponse struct {
	Attendance AttendanceView `json:"attendance"`
}

// BulkSaveResponse reports a bulk attendance save.
type BulkSaveResponse struct {
	Success bool                   `json:"success"`
	Result  models.BulkWriteResult `json:"result"`
}

// DeleteResponse reports how many records a deletion removed.
type DeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// DatesResponse lists per-day attendance summaries.
type DatesResponse struct {
	Dates []models.DateSummary `json:"dates"`
}

// PercentagesResponse maps student ids to Friday attendance percentages.
type PercentagesResponse struct {
	Percentages map[string]int `json:"percentages"`
}

// HistoryResponse is one student's attendance with summary stats.
type HistoryResponse struct {
	Records []AttendanceView    `json:"records"`
	Stats   models.HistoryStats `json:"stats"`
}
