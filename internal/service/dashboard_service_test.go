package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

func TestFridayReasonsFrom(t *testing.T) {
	got := FridayReasonsFrom([]models.NoteCount{
		{Notes: "Coming", Count: 3},
		{Notes: "Job", Count: 2},
		{Notes: "Lecture", Count: 1},
		{Notes: "Sick", Count: 4},
		{Notes: "Travel", Count: 1},
		{Notes: "  ", Count: 9},
	})
	assert.Equal(t, models.FridayReasons{Coming: 3, Job: 2, Lecture: 1, Other: 5}, got)
}

func TestDashboardServiceStatsCachesPerDay(t *testing.T) {
	students := newFakeStudentStore(models.Student{ID: "a"}, models.Student{ID: "b"})
	calls := &fakeCallLogStore{
		counters: models.CallCounters{TotalCalls: 10, CompletedCalls: 6, PendingCalls: 4, TodaysCalls: 1, WeeksCalls: 3, MonthsCalls: 8},
		notes:    []models.NoteCount{{Notes: "Job", Count: 2}},
	}
	cacheRepo := newFakeCacheRepo()
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	svc := NewDashboardService(DashboardServiceParams{
		Students: students,
		Calls:    calls,
		Cache:    NewCacheService(cacheRepo, nil, 0, nil, true),
		Now:      func() time.Time { return now },
	})

	stats, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int64(2), stats.TotalStudents)
	assert.Equal(t, int64(6), stats.CompletedCalls)
	assert.Equal(t, int64(2), stats.FridayReasons.Job)
	assert.Contains(t, cacheRepo.values, "dash:stats:2024-03-06")

	again, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, stats, again)
	assert.Equal(t, 1, calls.calls)

	now = now.Add(24 * time.Hour)
	_, cached, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, calls.calls)
}

func TestDashboardServiceStatsWithoutCache(t *testing.T) {
	calls := &fakeCallLogStore{}
	svc := NewDashboardService(DashboardServiceParams{Students: newFakeStudentStore(), Calls: calls})

	stats, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, models.DashboardStats{}, *stats)
}

func TestDashboardServiceStatsError(t *testing.T) {
	calls := &fakeCallLogStore{err: errors.New("timeout")}
	svc := NewDashboardService(DashboardServiceParams{Students: newFakeStudentStore(), Calls: calls})

	_, _, err := svc.Stats(context.Background())
	assert.Equal(t, http.StatusInternalServerError, errorStatus(err))
}
