// Command seed schedules a handful of demo transfers, one per fee rule.
// It does nothing when the store already holds transfers.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"schedpay/internal/calendar"
	"schedpay/internal/config"
	"schedpay/internal/logging"
	"schedpay/internal/repositories"
	"schedpay/internal/services/fee"
	"schedpay/internal/services/transfer"
)

type demo struct {
	amount   string
	leadDays int
}

var demos = []demo{
	{amount: "500.00", leadDays: 0},
	{amount: "1500.00", leadDays: 5},
	{amount: "3000.00", leadDays: 15},
	{amount: "3000.00", leadDays: 25},
	{amount: "3000.00", leadDays: 35},
	{amount: "3000.00", leadDays: 45},
}

func main() {
	config.LoadEnv()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Production)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repositories.InitDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := transfer.NewService(repositories.NewTransferRepository(db), transfer.SystemClock(), cfg.FeeTimezone, logger)
	if err := seed(ctx, svc, calendar.Today(time.Now(), cfg.FeeTimezone), logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
}

func seed(ctx context.Context, svc transfer.Service, today calendar.Date, logger *zap.Logger) error {
	_, total, err := svc.List(ctx, 1, 0)
	if err != nil {
		return err
	}
	if total > 0 {
		logger.Info("store already holds transfers, nothing to do", zap.Int64("total", total))
		return nil
	}

	for i, d := range demos {
		t, err := svc.Create(ctx, transfer.CreateInput{
			OriginAccount:      "DEMO-ORIGIN",
			DestinationAccount: "DEMO-DEST",
			Amount:             decimal.RequireFromString(d.amount),
			ScheduledDate:      today.AddDays(d.leadDays),
		})
		if errors.Is(err, fee.ErrNoApplicableRule) {
			return errors.New("demo schedule out of date with the fee rules")
		}
		if err != nil {
			return err
		}
		logger.Info("seeded transfer",
			zap.Int("n", i+1),
			zap.Stringer("transfer_id", t.ID),
			zap.String("fee", t.Fee.StringFixed(2)),
			zap.String("fee_rule", t.FeeRule),
		)
	}
	return nil
}
