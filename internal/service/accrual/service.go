// Package accrual implements the income accrual engine: explicit collects,
// offline progression, and the periodic background sweep.
package accrual

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/config"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// saveRepo defines the save repository interface needed by the accrual engine.
type saveRepo interface {
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error)
	CreditCollection(ctx context.Context, saveID uuid.UUID, amount int64, now time.Time) error
	CreditOffline(ctx context.Context, saveID uuid.UUID, amount, wholeHours int64, now time.Time) error
	ListStaleAccounts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

// buildingRepo defines the building repository interface needed by the accrual engine.
type buildingRepo interface {
	ListBySave(ctx context.Context, saveID uuid.UUID) ([]domain.Building, error)
	ResetCollections(ctx context.Context, saveID uuid.UUID, now time.Time) error
}

// eventLog defines the game log interface needed by the accrual engine.
type eventLog interface {
	Append(ctx context.Context, ev domain.GameEvent) error
}

// txManager defines the transaction manager interface needed by the accrual engine.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// accountLocker serializes mutations per account.
type accountLocker interface {
	Lock(key uuid.UUID)
	Unlock(key uuid.UUID)
}

// Service implements the accrual engine.
type Service struct {
	log       *slog.Logger
	saves     saveRepo
	buildings buildingRepo
	events    eventLog
	tx        txManager
	locks     accountLocker
	cfg       config.GameConfig

	now func() time.Time
}

// NewService creates a new accrual service instance.
func NewService(
	logger *slog.Logger,
	saves saveRepo,
	buildings buildingRepo,
	events eventLog,
	tx txManager,
	locks accountLocker,
	cfg config.GameConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "accrual"),
		saves:     saves,
		buildings: buildings,
		events:    events,
		tx:        tx,
		locks:     locks,
		cfg:       cfg,
		now:       time.Now,
	}
}

// appendEvent writes a log record, degrading to a warning on failure. A
// broken log channel must never block the mutation it describes.
func (s *Service) appendEvent(ctx context.Context, ev domain.GameEvent) {
	if err := s.events.Append(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "append game log failed",
			slog.String("event_type", string(ev.Type)),
			slog.String("error", err.Error()))
	}
}
