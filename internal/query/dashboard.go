package query

import "time"

// DashboardWindows are the period starts used by the dashboard counters, computed in the
// configured location and stored as absolute instants.
type DashboardWindows struct {
	Today  time.Time
	Week   time.Time
	Month  time.Time
	Friday Window
}

// NewDashboardWindows derives the windows from now. Weeks start on Sunday. Friday is the most
// recent Friday, which is today when today is a Friday.
func NewDashboardWindows(now time.Time, loc *time.Location) DashboardWindows {
	if loc == nil {
		loc = time.UTC
	}
	l := now.In(loc)
	today := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)

	week := today.AddDate(0, 0, -int(today.Weekday()))
	month := time.Date(l.Year(), l.Month(), 1, 0, 0, 0, 0, loc)

	back := (int(today.Weekday()) - int(time.Friday) + 7) % 7
	friday := today.AddDate(0, 0, -back)

	return DashboardWindows{
		Today:  today,
		Week:   week,
		Month:  month,
		Friday: Window{From: friday, To: friday.AddDate(0, 0, 1)},
	}
}
