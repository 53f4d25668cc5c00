// Package query turns request parameters into normalised store filters. Both record store backends
// consume these types, so date boundaries and paging rules live in exactly one place.
package query

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

// DateLayout is the wire format of assembly and birthday dates.
const DateLayout = "2006-01-02"

// DayRange is the half-open UTC interval [Start, End) covering one calendar day.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// ParseDay parses a YYYY-MM-DD string into its UTC day range. Full RFC 3339 timestamps are accepted
// and keep the calendar date as written, whatever their offset.
func ParseDay(raw string) (DayRange, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DayRange{}, appErrors.Validation("date is required")
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return DayOf(t), nil
	}
	if len(raw) > len(DateLayout) {
		if _, err := time.Parse(time.RFC3339, raw); err == nil {
			if t, err := time.Parse(DateLayout, raw[:len(DateLayout)]); err == nil {
				return DayOf(t), nil
			}
		}
	}
	return DayRange{}, appErrors.Validation("invalid date " + raw + ", expected YYYY-MM-DD")
}

// DayOf returns the UTC day containing t.
func DayOf(t time.Time) DayRange {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return DayRange{Start: start, End: start.Add(24 * time.Hour)}
}

// LocalDay returns the UTC day range whose calendar date matches t's date in loc. It is how "today"
// in the configured timezone maps onto stored assembly dates.
func LocalDay(t time.Time, loc *time.Location) DayRange {
	if loc == nil {
		loc = time.UTC
	}
	l := t.In(loc)
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
	return DayRange{Start: start, End: start.Add(24 * time.Hour)}
}

// Contains reports whether t falls inside the range.
func (d DayRange) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// Key renders the day as YYYY-MM-DD.
func (d DayRange) Key() string {
	return d.Start.Format(DateLayout)
}

// FormatDay renders a stored timestamp as its UTC calendar date.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Window is an optional time interval; zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether neither bound is set.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}
