package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// Register creates a new account with its initial game save.
// Returns ErrAlreadyExists if the username or email is already taken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Normalize input before validation.
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.Auth.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	// Create account + seeded save in one transaction. Username and email
	// uniqueness are enforced by DB constraints.
	var (
		createdAccount *domain.Account
		createdSave    *domain.GameSave
	)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := s.now().UTC()
		newAccount := &domain.Account{
			ID:           uuid.New(),
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hash),
			CreatedAt:    now,
		}

		account, err := s.accounts.Create(txCtx, newAccount)
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		save := domain.NewGameSave(account.ID, s.cfg.Game.StartingCash, s.cfg.Game.StartingCredits, now)
		if err := s.saves.Create(txCtx, &save); err != nil {
			return fmt.Errorf("create save: %w", err)
		}

		createdAccount = account
		createdSave = &save
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	s.appendEvent(ctx, domain.NewGameEvent(createdAccount.ID, domain.EventAccountRegistered, map[string]any{
		"username": createdAccount.Username,
	}))

	token, err := s.jwt.GenerateSessionToken(createdAccount.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Register issue token: %w", err)
	}

	s.log.InfoContext(ctx, "account registered",
		slog.String("account_id", createdAccount.ID.String()))

	return &AuthResult{
		Token:   token,
		Account: createdAccount,
		Save:    createdSave,
	}, nil
}
