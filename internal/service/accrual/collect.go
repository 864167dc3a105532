package accrual

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// CollectResult describes the outcome of an explicit income collection.
type CollectResult struct {
	Collected int64
	Cash      int64
	Buildings int
}

// Collect credits the caller with all income accumulated since each
// building's last collection. Every touched building's collection timestamp
// resets to the same instant, so back-to-back calls yield zero.
func (s *Service) Collect(ctx context.Context, accountID uuid.UUID) (*CollectResult, error) {
	s.locks.Lock(accountID)
	defer s.locks.Unlock(accountID)

	now := s.now().UTC()

	var result CollectResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		save, err := s.saves.GetByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("get save: %w", err)
		}

		buildings, err := s.buildings.ListBySave(ctx, save.ID)
		if err != nil {
			return fmt.Errorf("list buildings: %w", err)
		}

		var collected int64
		for _, b := range buildings {
			elapsed := now.Sub(b.LastCollection).Seconds()
			if elapsed <= 0 {
				continue
			}
			collected += int64(math.Floor(float64(b.IncomePerSecond) * elapsed))
		}

		result = CollectResult{
			Collected: collected,
			Cash:      save.Cash + collected,
			Buildings: len(buildings),
		}

		// A zero sum writes nothing; resetting timestamps on it would
		// discard sub-second accrual.
		if collected == 0 {
			return nil
		}

		if err := s.buildings.ResetCollections(ctx, save.ID, now); err != nil {
			return fmt.Errorf("reset collections: %w", err)
		}
		if err := s.saves.CreditCollection(ctx, save.ID, collected, now); err != nil {
			return fmt.Errorf("credit collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Collected > 0 {
		s.appendEvent(ctx, domain.NewGameEvent(accountID, domain.EventIncomeCollected, map[string]any{
			"amount":    result.Collected,
			"buildings": result.Buildings,
		}))
	}

	s.log.InfoContext(ctx, "income collected",
		slog.String("account_id", accountID.String()),
		slog.Int64("amount", result.Collected),
		slog.Int("buildings", result.Buildings))

	return &result, nil
}
