package query

import (
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 500
)

// Page selects a slice of a listing. Limit 0 means no limit.
type Page struct {
	Page  int
	Limit int
}

// ParsePage reads page and limit strings, applying defaults for blanks.
func ParsePage(rawPage, rawLimit string) (Page, error) {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}
	if v := strings.TrimSpace(rawPage); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Page{}, appErrors.Validation("page must be a positive integer")
		}
		p.Page = n
	}
	if v := strings.TrimSpace(rawLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Page{}, appErrors.Validation("limit must be zero or a positive integer")
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		p.Limit = n
	}
	return p, nil
}

// Unbounded reports whether every matching row is requested.
func (p Page) Unbounded() bool {
	return p.Limit == 0
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	if p.Unbounded() || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
