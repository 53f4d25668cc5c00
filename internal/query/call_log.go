package query

import (
	"net/url"
	"strings"
)

// CallLogFilter is the normalised call-log listing filter. Results are ordered newest first.
type CallLogFilter struct {
	StudentID string
	Window    Window
	Page      Page
}

// NewCallLogFilter reads studentId, from, to, page and limit.
func NewCallLogFilter(v url.Values) (CallLogFilter, error) {
	var f CallLogFilter
	page, err := ParsePage(v.Get("page"), v.Get("limit"))
	if err != nil {
		return f, err
	}
	f.Page = page
	f.StudentID = strings.TrimSpace(v.Get("studentId"))

	if raw := strings.TrimSpace(v.Get("from")); raw != "" {
		day, err := ParseDay(raw)
		if err != nil {
			return f, err
		}
		f.Window.From = day.Start
	}
	if raw := strings.TrimSpace(v.Get("to")); raw != "" {
		day, err := ParseDay(raw)
		if err != nil {
			return f, err
		}
		f.Window.To = day.End
	}
	return f, nil
}
