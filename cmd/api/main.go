package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sabha-admin-api/api/swagger"
	"github.com/noah-isme/sabha-admin-api/internal/handler"
	"github.com/noah-isme/sabha-admin-api/internal/middleware"
	"github.com/noah-isme/sabha-admin-api/internal/repository"
	"github.com/noah-isme/sabha-admin-api/internal/service"
	"github.com/noah-isme/sabha-admin-api/pkg/cache"
	"github.com/noah-isme/sabha-admin-api/pkg/config"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
	"github.com/noah-isme/sabha-admin-api/pkg/jobs"
	"github.com/noah-isme/sabha-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sabha-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sabha-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

// @title Sabha Admin API
// @version 1.0.0
// @description Attendance, follow-up calls, grocery stock and birthdays for a weekly sabha.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	notificationQueue = "notifications"
	shutdownTimeout   = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	loc := cfg.Location()

	st, err := openStores(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer st.close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()
	cacheRepo := repository.NewCacheRepository(redisClient)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	students := service.NewStudentService(st.students, cacheSvc, validate, logr)
	attendance := service.NewAttendanceService(service.AttendanceServiceParams{
		Attendance: st.attendance,
		Students:   st.students,
		Metrics:    metrics,
		Validator:  validate,
		Logger:     logr,
		Location:   loc,
	})
	callLogs := service.NewCallLogService(st.callLogs, st.students, cacheSvc, validate, logr)
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Students: st.students,
		Calls:    st.callLogs,
		Cache:    cacheSvc,
		Logger:   logr,
		Config:   service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL, Location: loc},
	})
	grocery := service.NewGroceryService(st.grocery, validate, logr)
	sabha := service.NewSabhaService(st.sabha, validate, logr)
	birthdays := service.NewBirthdayService(st.students, time.Now, loc, logr)
	auth := service.NewAuthService(validate, logr, service.AuthConfig{
		AdminUsername:     cfg.Auth.AdminUsername,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		Secret:            cfg.JWT.Secret,
		Expiry:            cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	queue := jobs.NewQueue(notificationQueue, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: time.Minute,
		Logger:     logr,
		OnResult: func(job jobs.Job, err error) {
			metrics.RecordJob(notificationQueue, job.Type, err)
		},
	})
	queue.Start(ctx)
	defer queue.Stop()

	scheduler := jobs.NewScheduler(jobs.SystemClock{}, logr)
	if cfg.Notifications.BirthdayEnabled {
		notifier := service.NewBirthdayNotifier(service.BirthdayNotifierParams{
			Birthdays: birthdays,
			Channels:  birthdayChannels(cfg, logr, redisClient, cacheRepo),
			Queue:     queue,
			Metrics:   metrics,
			Logger:    logr,
			Location:  loc,
		})
		schedule, err := jobs.Daily(cfg.Notifications.BirthdayHour, 0, loc)
		if err != nil {
			return fmt.Errorf("birthday schedule: %w", err)
		}
		scheduler.Add(notifier.Task(schedule))
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	checks := map[string]handler.ReadinessCheck{cfg.StoreDriver: st.ping}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	routerCfg := handler.RouterConfig{Prefix: cfg.APIPrefix, Audit: middleware.Audit(logr)}
	if cfg.Auth.Enabled {
		routerCfg.Guard = middleware.JWT(auth)
	}
	handler.Register(r, handler.Handlers{
		Attendance: handler.NewAttendanceHandler(attendance),
		Students:   handler.NewStudentHandler(students),
		CallLogs:   handler.NewCallLogHandler(callLogs),
		Grocery:    handler.NewGroceryHandler(grocery, sabha),
		Dashboard:  handler.NewDashboardHandler(dashboard),
		Birthdays:  handler.NewBirthdayHandler(birthdays),
		Auth:       handler.NewAuthHandler(auth),
		Metrics:    handler.NewMetricsHandler(metrics, checks),
	}, routerCfg)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr), zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver), zap.Bool("auth", cfg.Auth.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func birthdayChannels(cfg *config.Config, logr *zap.Logger, redisClient *redis.Client, cacheRepo *repository.CacheRepository) []service.BirthdayChannel {
	channels := []service.BirthdayChannel{service.NewLogChannel(logr)}

	n := cfg.Notifications
	if redisClient != nil && n.RedisChannel != "" {
		channels = append(channels, service.NewRedisChannel(cacheRepo, n.RedisChannel))
	}
	if n.SendGridAPIKey != "" && n.FromEmail != "" && len(n.ToEmails) > 0 {
		channels = append(channels, service.NewSendGridChannel(n.SendGridAPIKey, n.FromName, n.FromEmail, n.ToEmails, nil))
	}
	return channels
}
