// Package game serves read-side state snapshots, activity heartbeats and
// the account's event history.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/adapter/postgres/gamelog"
	"github.com/greenrush/tycoon-backend/internal/config"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// saveRepo defines the save repository interface needed by the game service.
type saveRepo interface {
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error)
	TouchLastActive(ctx context.Context, saveID uuid.UUID, now time.Time) error
}

// buildingRepo defines the building repository interface needed by the game service.
type buildingRepo interface {
	ListBySave(ctx context.Context, saveID uuid.UUID) ([]domain.Building, error)
}

// eventLog defines the game log interface needed by the game service.
type eventLog interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID, filter gamelog.Filter) ([]domain.GameEvent, error)
}

// Service implements game state reads and the save heartbeat.
type Service struct {
	saves     saveRepo
	buildings buildingRepo
	events    eventLog
	cfg       config.GameConfig

	now func() time.Time
}

// NewService creates a new game service instance.
func NewService(saves saveRepo, buildings buildingRepo, events eventLog, cfg config.GameConfig) *Service {
	return &Service{
		saves:     saves,
		buildings: buildings,
		events:    events,
		cfg:       cfg,
		now:       time.Now,
	}
}

// State is a full snapshot of one account's game.
type State struct {
	Save       *domain.GameSave
	Buildings  []domain.Building
	GridWidth  int
	GridHeight int
}

// State returns the account's save with its building list and the grid
// dimensions. Reading state does not count as activity.
func (s *Service) State(ctx context.Context, accountID uuid.UUID) (*State, error) {
	save, err := s.saves.GetByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The account passed auth, so its save must exist.
			return nil, fmt.Errorf("game.State account %s has no save: %w", accountID, domain.ErrIntegrity)
		}
		return nil, fmt.Errorf("game.State get save: %w", err)
	}

	buildings, err := s.buildings.ListBySave(ctx, save.ID)
	if err != nil {
		return nil, fmt.Errorf("game.State list buildings: %w", err)
	}

	return &State{
		Save:       save,
		Buildings:  buildings,
		GridWidth:  s.cfg.GridWidth,
		GridHeight: s.cfg.GridHeight,
	}, nil
}

// Touch records client activity by advancing the save's last_active marker.
// It writes no log record; heartbeats would drown the event history.
func (s *Service) Touch(ctx context.Context, accountID uuid.UUID) error {
	save, err := s.saves.GetByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("game.Touch account %s has no save: %w", accountID, domain.ErrIntegrity)
		}
		return fmt.Errorf("game.Touch get save: %w", err)
	}
	if err := s.saves.TouchLastActive(ctx, save.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("game.Touch: %w", err)
	}
	return nil
}

// Events returns a newest-first page of the account's game log.
func (s *Service) Events(ctx context.Context, accountID uuid.UUID, filter gamelog.Filter) ([]domain.GameEvent, error) {
	events, err := s.events.ListByAccount(ctx, accountID, filter)
	if err != nil {
		return nil, fmt.Errorf("game.Events: %w", err)
	}
	return events, nil
}
