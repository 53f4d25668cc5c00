package query

import (
	"net/url"
	"strings"

	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

// AttendanceParams are the raw listing parameters.
type AttendanceParams struct {
	AssemblyDate string
	StartDate    string
	EndDate      string
	StudentID    string
	Page         string
	Limit        string
}

// AttendanceParamsFromValues reads listing parameters from a query string.
func AttendanceParamsFromValues(v url.Values) AttendanceParams {
	return AttendanceParams{
		AssemblyDate: v.Get("assemblyDate"),
		StartDate:    v.Get("startDate"),
		EndDate:      v.Get("endDate"),
		StudentID:    v.Get("studentId"),
		Page:         v.Get("page"),
		Limit:        v.Get("limit"),
	}
}

// AttendanceFilter is the normalised attendance listing filter. Results are ordered by
// assembly date, newest first.
type AttendanceFilter struct {
	Window    Window
	StudentID string
	Page      Page
}

// NewAttendanceFilter validates params. A single assemblyDate wins over startDate/endDate; a range
// covers the first day's start through the end of the last day.
func NewAttendanceFilter(p AttendanceParams) (AttendanceFilter, error) {
	var f AttendanceFilter

	page, err := ParsePage(p.Page, p.Limit)
	if err != nil {
		return f, err
	}
	f.Page = page
	f.StudentID = strings.TrimSpace(p.StudentID)

	switch {
	case strings.TrimSpace(p.AssemblyDate) != "":
		day, err := ParseDay(p.AssemblyDate)
		if err != nil {
			return f, err
		}
		f.Window = Window{From: day.Start, To: day.End}
	default:
		if strings.TrimSpace(p.StartDate) != "" {
			start, err := ParseDay(p.StartDate)
			if err != nil {
				return f, err
			}
			f.Window.From = start.Start
		}
		if strings.TrimSpace(p.EndDate) != "" {
			end, err := ParseDay(p.EndDate)
			if err != nil {
				return f, err
			}
			f.Window.To = end.End
		}
		if !f.Window.From.IsZero() && !f.Window.To.IsZero() && !f.Window.From.Before(f.Window.To) {
			return f, appErrors.Validation("startDate must not be after endDate")
		}
	}

	return f, nil
}

// ForDay lists every record of one day.
func ForDay(day DayRange) AttendanceFilter {
	return AttendanceFilter{Window: Window{From: day.Start, To: day.End}}
}

// ForStudent lists every record of one student.
func ForStudent(studentID string) AttendanceFilter {
	return AttendanceFilter{StudentID: studentID}
}

// DeleteScope names which records an attendance deletion targets.
type DeleteScope int

const (
	DeleteByID DeleteScope = iota + 1
	DeleteByStudentDay
	DeleteByDay
	DeleteAll
)

// AttendanceDeletion is a validated deletion request.
type AttendanceDeletion struct {
	Scope     DeleteScope
	ID        string
	StudentID string
	Day       DayRange
}

// NewAttendanceDeletion resolves the deletion scope from query parameters:
// id, then studentId+date, then date alone, then no parameters at all (delete everything).
// Any other combination is rejected.
func NewAttendanceDeletion(v url.Values) (AttendanceDeletion, error) {
	id := strings.TrimSpace(v.Get("id"))
	studentID := strings.TrimSpace(v.Get("studentId"))
	date := strings.TrimSpace(v.Get("date"))

	switch {
	case id != "":
		return AttendanceDeletion{Scope: DeleteByID, ID: id}, nil
	case studentID != "" && date != "":
		day, err := ParseDay(date)
		if err != nil {
			return AttendanceDeletion{}, err
		}
		return AttendanceDeletion{Scope: DeleteByStudentDay, StudentID: studentID, Day: day}, nil
	case date != "" && studentID == "":
		day, err := ParseDay(date)
		if err != nil {
			return AttendanceDeletion{}, err
		}
		return AttendanceDeletion{Scope: DeleteByDay, Day: day}, nil
	case len(v) == 0:
		return AttendanceDeletion{Scope: DeleteAll}, nil
	default:
		return AttendanceDeletion{}, appErrors.Validation("Missing parameters for deletion")
	}
}
