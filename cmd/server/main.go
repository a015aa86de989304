// Package main is the entry point for the transfer scheduling API.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedpay/internal/config"
	"schedpay/internal/handlers"
	"schedpay/internal/logging"
	"schedpay/internal/repositories"
	"schedpay/internal/repositories/cache"
	"schedpay/internal/routes"
	"schedpay/internal/services/transfer"
)

const version = "1.0.0"

func main() {
	config.LoadEnv()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Production)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	checks := map[string]handlers.Check{}

	var repo repositories.TransferRepository
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("using in-memory storage, transfers are lost on restart")
		repo = repositories.NewMemoryTransferRepository()
	case "postgres":
		db, err := repositories.InitDB(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer closeDB(db, logger)
		checks["database"] = func(ctx context.Context) error { return repositories.Ping(ctx, db) }
		repo = repositories.NewTransferRepository(db)
	default:
		return errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
	}

	var cacheService *cache.CacheService
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheService = cache.NewCacheService(client, cfg.Redis.TTL)
		defer func() {
			if err := cacheService.Close(); err != nil {
				logger.Warn("failed to close redis connection", zap.Error(err))
			}
		}()

		// Entries from a previous run may predate schema changes.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if n, err := cacheService.InvalidateTransfers(ctx); err != nil {
			logger.Warn("failed to clear cached transfers", zap.Error(err))
		} else {
			logger.Info("cleared cached transfers", zap.Int("keys", n))
		}
		cancel()

		checks["redis"] = cacheService.HealthCheck
		repo = repositories.NewCachedTransferRepository(repo, cacheService, logger)
	}

	svc := transfer.NewService(repo, transfer.SystemClock(), cfg.FeeTimezone, logger)

	var stats handlers.PoolStatsFunc
	if cacheService != nil {
		stats = cacheService.GetStats
	}

	app := routes.NewApp(routes.Dependencies{
		Transfers:        svc,
		Health:           handlers.NewHealthHandler(version, checks, stats, logger),
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RateLimitMax:     cfg.RateLimitMax,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageDriver),
			zap.Bool("cache", cfg.Redis.Enabled),
			zap.String("fee_timezone", cfg.FeeTimezone.String()),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	return app.ShutdownWithTimeout(10 * time.Second)
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	if err := repositories.CloseDB(db); err != nil {
		logger.Warn("failed to close database connection", zap.Error(err))
	}
}
