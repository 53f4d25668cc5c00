package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

func TestReadyReportsFailedChecks(t *testing.T) {
	deps := newTestDeps()
	deps.checks = map[string]ReadinessCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	}

	rec := perform(t, deps.router(), http.MethodGet, "/ready", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	checks := body["checks"].(map[string]interface{})
	assert.Len(t, checks, 1)
	assert.Contains(t, checks["redis"], "connection refused")
}

func TestReadyWithHealthyChecks(t *testing.T) {
	deps := newTestDeps()
	deps.checks = map[string]ReadinessCheck{"postgres": func(context.Context) error { return nil }}

	rec := perform(t, deps.router(), http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestPrometheusEndpoint(t *testing.T) {
	deps := newTestDeps()
	r := deps.router()

	rec := perform(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBirthdaysToday(t *testing.T) {
	deps := newTestDeps()
	deps.birthdays.birthdays = []models.Birthday{{ID: "stu-1", Name: "Asha Patel", Grade: "5", DateOfBirth: utcDay(2012, 3, 1), Age: 12}}

	rec := perform(t, deps.router(), http.MethodGet, "/api/notifications/birthdays", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["birthdays"].([]interface{})
	require.Len(t, list, 1)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "2012-03-01", first["dateOfBirth"])
	assert.EqualValues(t, 12, first["age"])
}
