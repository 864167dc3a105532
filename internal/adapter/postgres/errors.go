package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped — they pass through.
func MapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	// pgx.ErrNoRows → domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	// Network-level failures → domain.ErrStorageUnavailable so callers can
	// apply their own retry policy.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s %s: %v: %w", entity, id, err, domain.ErrStorageUnavailable)
	}
	if errors.Is(err, puddle.ErrClosedPool) {
		return fmt.Errorf("%s %s: %v: %w", entity, id, err, domain.ErrStorageUnavailable)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			// The (save_id, grid_x, grid_y) constraint is the occupancy
			// backstop when two placements race past the pre-check.
			if strings.Contains(pgErr.ConstraintName, "grid") {
				return fmt.Errorf("%s %s: %w", entity, id, domain.ErrCellOccupied)
			}
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			// The cash >= 0 check is the last line of defense against a
			// debit racing past the funds pre-check.
			if strings.Contains(pgErr.ConstraintName, "cash") {
				return fmt.Errorf("%s %s: %w", entity, id, domain.ErrInsufficientFunds)
			}
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
		// Class 08: connection exceptions.
		if strings.HasPrefix(pgErr.Code, "08") {
			return fmt.Errorf("%s %s: %v: %w", entity, id, err, domain.ErrStorageUnavailable)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
