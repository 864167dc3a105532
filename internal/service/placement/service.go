// Package placement validates and commits building purchases.
package placement

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/config"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// saveRepo defines the save repository interface needed by the placement service.
type saveRepo interface {
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error)
	ApplyPlacement(ctx context.Context, saveID uuid.UUID, cost, income int64, now time.Time) error
}

// buildingRepo defines the building repository interface needed by the placement service.
type buildingRepo interface {
	Insert(ctx context.Context, b *domain.Building) error
	ExistsAt(ctx context.Context, saveID uuid.UUID, x, y int) (bool, error)
}

// eventLog defines the game log interface needed by the placement service.
type eventLog interface {
	Append(ctx context.Context, ev domain.GameEvent) error
}

// txManager defines the transaction manager interface needed by the placement service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// accountLocker serializes mutations per account.
type accountLocker interface {
	Lock(key uuid.UUID)
	Unlock(key uuid.UUID)
}

// Service implements building placement.
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

// NewService creates a new placement service instance.
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
		log:       logger.With("service", "placement"),
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
