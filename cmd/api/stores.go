package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/handler"
	"github.com/noah-isme/sabha-admin-api/internal/repository"
	"github.com/noah-isme/sabha-admin-api/internal/repository/mongostore"
	"github.com/noah-isme/sabha-admin-api/internal/service"
	"github.com/noah-isme/sabha-admin-api/pkg/config"
	"github.com/noah-isme/sabha-admin-api/pkg/database"
)

// stores holds the record store implementations selected by STORE_DRIVER.
type stores struct {
	students   service.StudentStore
	attendance service.AttendanceStore
	callLogs   service.CallLogStore
	grocery    service.GroceryStore
	sabha      service.SabhaStore

	ping  handler.ReadinessCheck
	close func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg, logger)
	default:
		return openPostgres(ctx, cfg, logger)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	version, err := database.Migrate(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	logger.Info("schema migrated", zap.Int64("version", version))

	return &stores{
		students:   repository.NewStudentRepository(db),
		attendance: repository.NewAttendanceRepository(db),
		callLogs:   repository.NewCallLogRepository(db),
		grocery:    repository.NewGroceryRepository(db),
		sabha:      repository.NewSabhaGroceryRepository(db),
		ping:       db.PingContext,
		close:      func() { _ = db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	client, db, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}
	logger.Info("mongo store ready", zap.String("database", cfg.Mongo.Database))

	return &stores{
		students:   mongostore.NewStudentStore(db),
		attendance: mongostore.NewAttendanceStore(db),
		callLogs:   mongostore.NewCallLogStore(db),
		grocery:    mongostore.NewGroceryStore(db),
		sabha:      mongostore.NewSabhaStore(db),
		ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:      func() { _ = client.Disconnect(context.Background()) },
	}, nil
}
