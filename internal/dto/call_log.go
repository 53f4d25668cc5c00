package dto

import (
	"time"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

// CallLogView is a call log with its student populated.
type CallLogView struct {
	ID            string             `json:"id"`
	StudentID     string             `json:"student_id"`
	Student       *models.StudentRef `json:"student"`
	Status        models.CallStatus  `json:"status"`
	Notes         string             `json:"notes"`
	NeedsFollowUp bool               `json:"needs_follow_up"`
	FollowUpDate  *string            `json:"follow_up_date"`
	Timestamp     time.Time          `json:"timestamp"`
}

// NewCallLogView renders a joined call log.
func NewCallLogView(d models.CallLogDetail) CallLogView {
	v := CallLogView{
		ID:            d.ID,
		StudentID:     d.StudentID,
		Status:        d.Status,
		Notes:         d.Notes,
		NeedsFollowUp: d.NeedsFollowUp,
		Timestamp:     d.Timestamp,
	}
	if d.FirstName != "" || d.LastName != "" {
		v.Student = &models.StudentRef{ID: d.StudentID, FirstName: d.FirstName, LastName: d.LastName}
	}
	if d.FollowUpDate != nil {
		day := query.FormatDay(*d.FollowUpDate)
		v.FollowUpDate = &day
	}
	return v
}

// CallLogListResponse is the GET /call-logs payload.
type CallLogListResponse struct {
	CallLogs []CallLogView `json:"callLogs"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
}

// CallLogResponse wraps a created call log.
type CallLogResponse struct {
	CallLog CallLogView `json:"callLog"`
}
