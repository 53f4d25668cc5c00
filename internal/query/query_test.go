package query

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

func TestParseDayIsHalfOpenUTC(t *testing.T) {
	day, err := ParseDay("2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), day.Start)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), day.End)
	assert.True(t, day.Contains(time.Date(2024, 3, 1, 23, 59, 59, 999_000_000, time.UTC)))
	assert.False(t, day.Contains(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01", day.Key())
}

func TestParseDayKeepsWrittenDateOfTimestamps(t *testing.T) {
	for _, raw := range []string{
		"2024-03-01T20:00:00-05:00",
		"2024-03-01T22:30:00-05:00",
		"2024-03-01T01:00:00+09:00",
		"2024-03-01T12:00:00Z",
		"2024-03-01T12:00:00.250Z",
	} {
		day, err := ParseDay(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "2024-03-01", day.Key(), raw)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), day.Start, raw)
	}

	_, err := ParseDay("2024-03-01T25:00:00Z")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestParseDayRejectsGarbage(t *testing.T) {
	_, err := ParseDay("03/01/2024")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = ParseDay("  ")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestLocalDayUsesLocationCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 20:00 UTC on Thursday is already Friday morning at UTC+10.
	day := LocalDay(time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, "2024-03-01", day.Key())
	assert.Equal(t, time.UTC, day.Start.Location())
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage("", "")
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p, err = ParsePage("3", "25")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Offset())

	p, err = ParsePage("4", "0")
	require.NoError(t, err)
	assert.True(t, p.Unbounded())
	assert.Equal(t, 0, p.Offset())

	p, err = ParsePage("1", "100000")
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, p.Limit)

	_, err = ParsePage("0", "")
	assert.Error(t, err)
	_, err = ParsePage("", "-1")
	assert.Error(t, err)
}

func TestNewAttendanceFilterAssemblyDateWins(t *testing.T) {
	f, err := NewAttendanceFilter(AttendanceParams{
		AssemblyDate: "2024-03-01",
		StartDate:    "2024-01-01",
		EndDate:      "2024-12-31",
		StudentID:    " s1 ",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Window.From)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), f.Window.To)
	assert.Equal(t, "s1", f.StudentID)
	assert.Equal(t, DefaultLimit, f.Page.Limit)
}

func TestNewAttendanceFilterRangeCoversLastDay(t *testing.T) {
	f, err := NewAttendanceFilter(AttendanceParams{StartDate: "2024-03-01", EndDate: "2024-03-08", Limit: "0"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Window.From)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), f.Window.To)
	assert.True(t, f.Page.Unbounded())
}

func TestNewAttendanceFilterRejectsInvertedRange(t *testing.T) {
	_, err := NewAttendanceFilter(AttendanceParams{StartDate: "2024-03-08", EndDate: "2024-03-01"})
	assert.Error(t, err)
}

func TestNewAttendanceDeletion(t *testing.T) {
	cases := []struct {
		name  string
		query string
		scope DeleteScope
		fails bool
	}{
		{"by id", "id=abc", DeleteByID, false},
		{"id wins over others", "id=abc&date=2024-03-01", DeleteByID, false},
		{"student and date", "studentId=s1&date=2024-03-01", DeleteByStudentDay, false},
		{"date alone", "date=2024-03-01", DeleteByDay, false},
		{"everything", "", DeleteAll, false},
		{"student alone", "studentId=s1", 0, true},
		{"unknown param", "foo=bar", 0, true},
		{"blank id", "id=", 0, true},
		{"bad date", "date=yesterday", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			del, err := NewAttendanceDeletion(v)
			if tc.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.scope, del.Scope)
		})
	}
}

func TestNewAttendanceDeletionMessage(t *testing.T) {
	_, err := NewAttendanceDeletion(url.Values{"studentId": {"s1"}})
	appErr := appErrors.FromError(err)
	assert.Equal(t, "Missing parameters for deletion", appErr.Message)
}

func TestNewCallLogFilter(t *testing.T) {
	f, err := NewCallLogFilter(url.Values{"studentId": {"s1"}, "from": {"2024-03-01"}, "to": {"2024-03-01"}, "limit": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, "s1", f.StudentID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Window.From)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), f.Window.To)
	assert.Equal(t, 5, f.Page.Limit)
}

func TestDashboardWindowsMidWeek(t *testing.T) {
	// Wednesday 2024-03-13 15:04 UTC.
	w := NewDashboardWindows(time.Date(2024, 3, 13, 15, 4, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), w.Today)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), w.Week)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), w.Month)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), w.Friday.From)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), w.Friday.To)
}

func TestDashboardWindowsOnFridayAndSaturday(t *testing.T) {
	friday := NewDashboardWindows(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), friday.Friday.From)

	saturday := NewDashboardWindows(time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), saturday.Friday.From)

	sunday := NewDashboardWindows(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), sunday.Week)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), sunday.Friday.From)
}

func TestDashboardWindowsHonourLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 02:00 UTC Saturday is still Friday evening at UTC-5.
	w := NewDashboardWindows(time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC), loc)
	assert.True(t, w.Today.Equal(time.Date(2024, 3, 15, 5, 0, 0, 0, time.UTC)))
	assert.True(t, w.Friday.From.Equal(w.Today))
}
