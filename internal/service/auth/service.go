// Package auth implements account registration and session management.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/config"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// accountRepo defines the account repository interface needed by auth service.
type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// saveRepo defines the save repository interface needed by auth service.
type saveRepo interface {
	Create(ctx context.Context, s *domain.GameSave) error
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error)
}

// eventLog defines the game log interface needed by auth service.
type eventLog interface {
	Append(ctx context.Context, ev domain.GameEvent) error
}

// txManager defines the transaction manager interface needed by auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the session token interface needed by auth service.
type jwtManager interface {
	GenerateSessionToken(accountID uuid.UUID) (string, error)
	ValidateSessionToken(token string) (uuid.UUID, error)
}

// offlineAccruer back-fills offline income on login.
type offlineAccruer interface {
	ApplyOfflineProgression(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// Service implements auth operations.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	saves    saveRepo
	events   eventLog
	tx       txManager
	jwt      jwtManager
	accrual  offlineAccruer
	cfg      config.Config

	now func() time.Time
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	saves saveRepo,
	events eventLog,
	tx txManager,
	jwt jwtManager,
	accrual offlineAccruer,
	cfg config.Config,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		accounts: accounts,
		saves:    saves,
		events:   events,
		tx:       tx,
		jwt:      jwt,
		accrual:  accrual,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ValidateToken checks a session token and returns the bound account ID.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	accountID, err := s.jwt.ValidateSessionToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return accountID, nil
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
