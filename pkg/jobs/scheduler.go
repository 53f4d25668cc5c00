package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Clock abstracts wall time so schedules can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the real-time Clock.
type SystemClock struct{}

// Now returns the current wall time.
func (SystemClock) Now() time.Time { return time.Now() }

// After waits for d on a runtime timer.
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Schedule yields the next run time strictly after the given instant. Every cron.Schedule
// satisfies it.
type Schedule interface {
	Next(after time.Time) time.Time
}

// Daily builds a cron schedule that fires once a day at hour:minute in loc (UTC when nil).
func Daily(hour, minute int, loc *time.Location) (Schedule, error) {
	spec, err := cron.ParseStandard(fmt.Sprintf("%d %d * * *", minute, hour))
	if err != nil {
		return nil, fmt.Errorf("daily schedule %02d:%02d: %w", hour, minute, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if s, ok := spec.(*cron.SpecSchedule); ok {
		s.Location = loc
	}
	return spec, nil
}

// Task is a named unit of periodic work.
type Task struct {
	Name       string
	Schedule   Schedule
	RunOnStart bool
	Run        func(ctx context.Context, now time.Time) error
}

// Scheduler runs tasks on their schedules until stopped. Each task has its own goroutine, so a slow
// task never delays another.
type Scheduler struct {
	clock  Clock
	logger *zap.Logger

	mu      sync.Mutex
	tasks   []Task
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewScheduler returns an idle scheduler. A nil clock means SystemClock.
func NewScheduler(clock Clock, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{clock: clock, logger: logger}
}

// Add registers a task. Tasks added after Start are ignored.
func (s *Scheduler) Add(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.logger.Warn("scheduler already started, task ignored", zap.String("task", task.Name))
		return
	}
	s.tasks = append(s.tasks, task)
}

// Start launches one loop per registered task. The loops end when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}
	s.started = true
}

// Stop cancels all task loops and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	if task.RunOnStart {
		s.run(ctx, task)
	}

	for {
		now := s.clock.Now()
		next := task.Schedule.Next(now)
		s.logger.Debug("task scheduled", zap.String("task", task.Name), zap.Time("next_run", next))

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(next.Sub(now)):
			s.run(ctx, task)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, task Task) {
	start := s.clock.Now()
	if err := task.Run(ctx, start); err != nil {
		s.logger.Error("scheduled task failed", zap.String("task", task.Name), zap.Error(err))
		return
	}
	s.logger.Info("scheduled task completed", zap.String("task", task.Name), zap.Duration("took", s.clock.Now().Sub(start)))
}
