package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// Login authenticates an account with username + password, back-fills any
// elapsed offline income, and returns a fresh session token plus the
// current save.
// Returns ErrUnauthorized if the username is unknown or the password wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Login get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	if err := s.accounts.UpdateLastLogin(ctx, account.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("auth.Login update last login: %w", err)
	}

	// Back-fill offline income before the client sees its save.
	offlineIncome, err := s.accrual.ApplyOfflineProgression(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Login offline progression: %w", err)
	}

	save, err := s.saves.GetByAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A registered account must always have a save.
			return nil, fmt.Errorf("auth.Login account %s has no save: %w", account.ID, domain.ErrIntegrity)
		}
		return nil, fmt.Errorf("auth.Login load save: %w", err)
	}

	token, err := s.jwt.GenerateSessionToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "account logged in",
		slog.String("account_id", account.ID.String()),
		slog.Int64("offline_income", offlineIncome))

	return &AuthResult{
		Token:         token,
		Account:       account,
		Save:          save,
		OfflineIncome: offlineIncome,
	}, nil
}
