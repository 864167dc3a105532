package accrual

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// sweepBatchSize caps how many stale accounts a single sweep pass loads.
const sweepBatchSize = 1000

// SweepStats summarizes one background sweep pass.
type SweepStats struct {
	Accounts int
	Credited int64
	Failed   int
}

// SweepAll applies offline progression to every account whose last activity
// is older than the minimum offline window. Failures on individual accounts
// are logged and counted but do not abort the pass.
func (s *Service) SweepAll(ctx context.Context) (SweepStats, error) {
	cutoff := s.now().UTC().Add(-time.Duration(s.cfg.OfflineMinHours * float64(time.Hour)))

	ids, err := s.saves.ListStaleAccounts(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return SweepStats{}, err
	}

	var (
		stats = SweepStats{Accounts: len(ids)}
		mu    sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SweepConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			credited, err := s.ApplyOfflineProgression(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				s.log.WarnContext(ctx, "sweep account failed",
					slog.String("account_id", id.String()),
					slog.String("error", err.Error()))
				return nil
			}
			stats.Credited += credited
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	return stats, nil
}

// RunSweeper runs the periodic background sweep until the context is
// cancelled. Intended to be started as a goroutine alongside the server.
func (s *Service) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.log.InfoContext(ctx, "sweeper started",
		slog.Duration("interval", s.cfg.SweepInterval))

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "sweeper stopped")
			return
		case <-ticker.C:
			stats, err := s.SweepAll(ctx)
			if err != nil {
				s.log.ErrorContext(ctx, "sweep pass failed",
					slog.String("error", err.Error()))
				continue
			}
			if stats.Accounts > 0 {
				s.log.InfoContext(ctx, "sweep pass done",
					slog.Int("accounts", stats.Accounts),
					slog.Int64("credited", stats.Credited),
					slog.Int("failed", stats.Failed))
			}
		}
	}
}
