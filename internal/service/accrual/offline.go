package accrual

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// ApplyOfflineProgression credits income earned while the account was away.
// The payout is the save's total income rate over the absence, scaled by the
// offline efficiency factor. Absences below the configured minimum pay
// nothing and leave the save untouched. A payout advances the activity
// marker to now in the same transaction, so the same absence is never paid
// twice.
func (s *Service) ApplyOfflineProgression(ctx context.Context, accountID uuid.UUID) (int64, error) {
	s.locks.Lock(accountID)
	defer s.locks.Unlock(accountID)

	now := s.now().UTC()

	var (
		credited   int64
		wholeHours int64
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		save, err := s.saves.GetByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("get save: %w", err)
		}

		// Sub-threshold absences pay nothing and write nothing; the
		// unpaid window keeps accumulating toward the threshold.
		offlineHours := now.Sub(save.LastActive).Hours()
		if offlineHours < s.cfg.OfflineMinHours {
			credited = 0
			return nil
		}

		credited = int64(math.Floor(float64(save.TotalIncome) * offlineHours * 3600 * s.cfg.OfflineEfficiency))
		wholeHours = int64(math.Floor(offlineHours))

		if err := s.saves.CreditOffline(ctx, save.ID, credited, wholeHours, now); err != nil {
			return fmt.Errorf("credit offline: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if credited > 0 {
		s.appendEvent(ctx, domain.NewGameEvent(accountID, domain.EventOfflineProgression, map[string]any{
			"amount": credited,
			"hours":  wholeHours,
		}))

		s.log.InfoContext(ctx, "offline progression applied",
			slog.String("account_id", accountID.String()),
			slog.Int64("amount", credited),
			slog.Int64("hours", wholeHours))
	}

	return credited, nil
}
