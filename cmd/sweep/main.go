// Command sweep runs one offline progression pass over all idle accounts.
// It is intended for cron or manual operation; the server runs the same
// sweep in-process on a timer.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/adapter/postgres"
	buildingrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/building"
	gamelogrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/gamelog"
	saverepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/save"
	"github.com/greenrush/tycoon-backend/internal/app"
	"github.com/greenrush/tycoon-backend/internal/config"
	"github.com/greenrush/tycoon-backend/internal/service/accrual"
	"github.com/greenrush/tycoon-backend/pkg/keylock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := accrual.NewService(
		logger,
		saverepo.New(pool),
		buildingrepo.New(pool),
		gamelogrepo.New(pool),
		postgres.NewTxManager(pool),
		keylock.New[uuid.UUID](),
		cfg.Game,
	)

	stats, err := svc.SweepAll(ctx)
	if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("accounts", stats.Accounts),
		slog.Int64("credited", stats.Credited),
		slog.Int("failed", stats.Failed),
	)
}
