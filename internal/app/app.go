// Package app wires configuration, storage, services and transport into a
// running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/adapter/postgres"
	accountrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/account"
	buildingrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/building"
	gamelogrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/gamelog"
	saverepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/save"
	jwtauth "github.com/greenrush/tycoon-backend/internal/auth"
	"github.com/greenrush/tycoon-backend/internal/config"
	"github.com/greenrush/tycoon-backend/internal/service/accrual"
	"github.com/greenrush/tycoon-backend/internal/service/auth"
	"github.com/greenrush/tycoon-backend/internal/service/game"
	"github.com/greenrush/tycoon-backend/internal/service/placement"
	"github.com/greenrush/tycoon-backend/internal/transport/middleware"
	"github.com/greenrush/tycoon-backend/internal/transport/rest"
	"github.com/greenrush/tycoon-backend/pkg/keylock"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and handlers, starts the background sweeper
// and serves HTTP until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting server",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	accounts := accountrepo.New(pool)
	saves := saverepo.New(pool)
	buildings := buildingrepo.New(pool)
	events := gamelogrepo.New(pool)
	tx := postgres.NewTxManager(pool)
	locks := keylock.New[uuid.UUID]()
	jwt := jwtauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)

	accrualSvc := accrual.NewService(logger, saves, buildings, events, tx, locks, cfg.Game)
	authSvc := auth.NewService(logger, accounts, saves, events, tx, jwt, accrualSvc, *cfg)
	placementSvc := placement.NewService(logger, saves, buildings, events, tx, locks, cfg.Game)
	gameSvc := game.NewService(saves, buildings, events, cfg.Game)

	authHandler := rest.NewAuthHandler(authSvc, logger)
	gameHandler := rest.NewGameHandler(gameSvc, placementSvc, accrualSvc, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	requireAuth := middleware.Auth(authSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /gamestate", requireAuth(http.HandlerFunc(gameHandler.State)))
	mux.Handle("POST /build", requireAuth(http.HandlerFunc(gameHandler.Build)))
	mux.Handle("POST /collect", requireAuth(http.HandlerFunc(gameHandler.Collect)))
	mux.Handle("POST /save", requireAuth(http.HandlerFunc(gameHandler.Save)))
	mux.Handle("GET /events", requireAuth(http.HandlerFunc(gameHandler.Events)))
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	}
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.Rate, cfg.RateLimit.Window))
	}

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      middleware.Chain(mws...)(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go accrualSvc.RunSweeper(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
