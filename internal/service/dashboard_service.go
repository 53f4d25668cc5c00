package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

const (
	dashboardCachePrefix  = "dash:"
	dashboardCachePattern = dashboardCachePrefix + "*"
)

type studentCounter interface {
	Count(ctx context.Context) (int64, error)
}

type callStatsSource interface {
	Counters(ctx context.Context, windows query.DashboardWindows) (*models.CallCounters, error)
	NotesBetween(ctx context.Context, window query.Window) ([]models.NoteCount, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
	Location *time.Location
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students studentCounter
	Calls    callStatsSource
	Cache    *CacheService
	Logger   *zap.Logger
	Now      func() time.Time
	Config   DashboardServiceConfig
}

// DashboardService computes the home page counters.
type DashboardService struct {
	students studentCounter
	calls    callStatsSource
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		students: params.Students,
		calls:    params.Calls,
		cache:    params.Cache,
		logger:   logger,
		now:      now,
		cfg:      cfg,
	}
}

// FridayReasonsFrom folds grouped notes into the reason buckets. Blank notes are skipped and any
// unrecognised reason counts as Other.
func FridayReasonsFrom(counts []models.NoteCount) models.FridayReasons {
	var reasons models.FridayReasons
	for _, c := range counts {
		switch c.Notes {
		case "Coming":
			reasons.Coming += c.Count
		case "Job":
			reasons.Job += c.Count
		case "Lecture":
			reasons.Lecture += c.Count
		default:
			if strings.TrimSpace(c.Notes) != "" {
				reasons.Other += c.Count
			}
		}
	}
	return reasons
}

// Stats returns the dashboard counters and whether they came from cache. The cache key carries the
// local date so counters never outlive their day.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	now := s.now()
	key := dashboardCachePrefix + "stats:" + query.LocalDay(now, s.cfg.Location).Key()

	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	windows := query.NewDashboardWindows(now, s.cfg.Location)
	total, err := s.students.Count(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	counters, err := s.calls.Counters(ctx, windows)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count call logs")
	}
	notes, err := s.calls.NotesBetween(ctx, windows.Friday)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group friday calls")
	}

	stats := &models.DashboardStats{
		TotalStudents:  total,
		TotalCalls:     counters.TotalCalls,
		CompletedCalls: counters.CompletedCalls,
		PendingCalls:   counters.PendingCalls,
		TodaysCalls:    counters.TodaysCalls,
		WeeksCalls:     counters.WeeksCalls,
		MonthsCalls:    counters.MonthsCalls,
		FridayReasons:  FridayReasonsFrom(notes),
	}
	if err := s.cache.Set(ctx, key, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("dashboard cache write skipped", zap.Error(err))
	}
	return stats, false, nil
}
