package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time, 1)
	f.waiters = append(f.waiters, waiter{deadline: f.now.Add(d), ch: ch})
	return ch
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	remaining := f.waiters[:0]
	for _, w := range f.waiters {
		if !w.deadline.After(f.now) {
			w.ch <- f.now
			continue
		}
		remaining = append(remaining, w)
	}
	f.waiters = remaining
}

func (f *fakeClock) Waiters() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiters)
}

func dailyAt(t *testing.T, hour int, loc *time.Location) Schedule {
	t.Helper()
	sched, err := Daily(hour, 0, loc)
	require.NoError(t, err)
	return sched
}

func TestDailyNext(t *testing.T) {
	sched := dailyAt(t, 9, nil)

	before := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), sched.Next(before))

	exactly := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), sched.Next(exactly))

	endOfMonth := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), sched.Next(endOfMonth))
}

func TestDailyNextHonoursLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	sched := dailyAt(t, 9, loc)

	// 13:00 UTC is 08:00 local, so the run is one hour away.
	next := sched.Next(time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC))
	assert.True(t, next.Equal(time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)))

	// 15:00 UTC is 10:00 local, past today's run.
	next = sched.Next(time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC))
	assert.True(t, next.Equal(time.Date(2024, 3, 2, 14, 0, 0, 0, time.UTC)))
}

func TestDailyRejectsOutOfRangeHour(t *testing.T) {
	_, err := Daily(24, 0, nil)
	assert.Error(t, err)

	_, err = Daily(9, 60, time.UTC)
	assert.Error(t, err)
}

func TestSchedulerRunsTaskAtScheduledTimes(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	runs := make(chan time.Time, 4)

	s := NewScheduler(clock, nil)
	s.Add(Task{
		Name:     "birthdays",
		Schedule: dailyAt(t, 9, nil),
		Run: func(_ context.Context, now time.Time) error {
			runs <- now
			return nil
		},
	})
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return clock.Waiters() == 1 }, time.Second, time.Millisecond)
	clock.Advance(30 * time.Minute)
	assert.Empty(t, runs)

	clock.Advance(30 * time.Minute)
	select {
	case at := <-runs:
		assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), at)
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	require.Eventually(t, func() bool { return clock.Waiters() == 1 }, time.Second, time.Millisecond)
	clock.Advance(24 * time.Hour)
	select {
	case at := <-runs:
		assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), at)
	case <-time.After(time.Second):
		t.Fatal("task did not run on the second day")
	}
}

func TestSchedulerRunOnStart(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	runs := make(chan struct{}, 1)

	s := NewScheduler(clock, nil)
	s.Add(Task{
		Name:       "warmup",
		Schedule:   dailyAt(t, 9, nil),
		RunOnStart: true,
		Run: func(context.Context, time.Time) error {
			runs <- struct{}{}
			return nil
		},
	})
	s.Start(context.Background())

	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("task did not run on start")
	}
	s.Stop()
}
