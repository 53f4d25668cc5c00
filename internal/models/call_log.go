package models

import "time"

// CallStatus is the outcome of a follow-up call.
type CallStatus string

const (
	CallStatusCompleted        CallStatus = "Completed"
	CallStatusNoAnswer         CallStatus = "No Answer"
	CallStatusLeftMessage      CallStatus = "Left Message"
	CallStatusFollowUpRequired CallStatus = "Follow-up Required"
	CallStatusWrongNumber      CallStatus = "Wrong Number"
	CallStatusDialed           CallStatus = "Dialed"
)

// Valid returns true when the status is a supported value.
func (s CallStatus) Valid() bool {
	switch s {
	case CallStatusCompleted, CallStatusNoAnswer, CallStatusLeftMessage,
		CallStatusFollowUpRequired, CallStatusWrongNumber, CallStatusDialed:
		return true
	default:
		return false
	}
}

// CallLog is an append-only record of a call made to a student.
type CallLog struct {
	ID            string     `db:"id" json:"id"`
	StudentID     string     `db:"student_id" json:"student_id"`
	Status        CallStatus `db:"status" json:"status"`
	Notes         string     `db:"notes" json:"notes"`
	NeedsFollowUp bool       `db:"needs_follow_up" json:"needs_follow_up"`
	FollowUpDate  *time.Time `db:"follow_up_date" json:"follow_up_date,omitempty"`
	Timestamp     time.Time  `db:"timestamp" json:"timestamp"`
}

// CallLogDetail carries the called student's name for listings.
type CallLogDetail struct {
	CallLog
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

// CallCounters are the call-log figures shown on the dashboard.
type CallCounters struct {
	TotalCalls     int64 `db:"total_calls"`
	CompletedCalls int64 `db:"completed_calls"`
	PendingCalls   int64 `db:"pending_calls"`
	TodaysCalls    int64 `db:"todays_calls"`
	WeeksCalls     int64 `db:"weeks_calls"`
	MonthsCalls    int64 `db:"months_calls"`
}

// NoteCount is how many calls share the same notes value.
type NoteCount struct {
	Notes string `db:"notes" bson:"_id"`
	Count int64  `db:"count" bson:"count"`
}
