// Package save implements the GameSave repository using PostgreSQL.
// The targeted UPDATE statements are the write half of every ledger
// mutation; they are meant to run inside a TxManager transaction together
// with the building insert or log append they belong to.
package save

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/greenrush/tycoon-backend/internal/adapter/postgres"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// Repo provides game save persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new save repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const saveColumns = `id, account_id, name, cash, credits, level, experience,
       buildings_count, total_income, automation_level, offline_hours,
       last_active, created_at, updated_at`

const createSaveSQL = `
INSERT INTO game_saves (id, account_id, name, cash, credits, level, experience,
                        buildings_count, total_income, automation_level,
                        offline_hours, last_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const getSaveByAccountSQL = `
SELECT ` + saveColumns + `
FROM game_saves WHERE account_id = $1 AND name = $2`

const applyPlacementSQL = `
UPDATE game_saves
SET cash            = cash - $2,
    buildings_count = buildings_count + 1,
    total_income    = total_income + $3,
    last_active     = $4,
    updated_at      = $4
WHERE id = $1`

const creditCollectionSQL = `
UPDATE game_saves
SET cash        = cash + $2,
    last_active = $3,
    updated_at  = $3
WHERE id = $1`

const creditOfflineSQL = `
UPDATE game_saves
SET cash          = cash + $2,
    offline_hours = offline_hours + $3,
    last_active   = $4,
    updated_at    = $4
WHERE id = $1`

const touchLastActiveSQL = `
UPDATE game_saves
SET last_active = $2, updated_at = $2
WHERE id = $1`

const listStaleAccountsSQL = `
SELECT account_id
FROM game_saves
WHERE name = $1 AND last_active < $2
ORDER BY last_active ASC
LIMIT $3`

// Create inserts a new game save.
func (r *Repo) Create(ctx context.Context, s *domain.GameSave) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createSaveSQL,
		s.ID, s.AccountID, s.Name, s.Cash, s.Credits, s.Level, s.Experience,
		s.BuildingsCount, s.TotalIncome, s.AutomationLevel, s.OfflineHours,
		s.LastActive, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return postgres.MapError(err, "game_save", s.ID)
	}

	return nil
}

// GetByAccount returns the account's main save.
func (r *Repo) GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getSaveByAccountSQL, accountID, domain.DefaultSaveName)
	s, err := scanSave(row)
	if err != nil {
		return nil, postgres.MapError(err, "game_save", accountID)
	}

	return s, nil
}

// ApplyPlacement debits the building cost and folds the new building into
// the denormalized counters in a single statement. The cash >= 0 check
// constraint backstops the caller's funds pre-check.
func (r *Repo) ApplyPlacement(ctx context.Context, saveID uuid.UUID, cost, income int64, now time.Time) error {
	return r.exec(ctx, saveID, applyPlacementSQL, saveID, cost, income, now)
}

// CreditCollection adds collected income to the save's cash.
func (r *Repo) CreditCollection(ctx context.Context, saveID uuid.UUID, amount int64, now time.Time) error {
	return r.exec(ctx, saveID, creditCollectionSQL, saveID, amount, now)
}

// CreditOffline adds offline income and advances the cumulative offline-hours
// counter. last_active moves to now in the same statement, so the paid
// window can never be paid again.
func (r *Repo) CreditOffline(ctx context.Context, saveID uuid.UUID, amount, wholeHours int64, now time.Time) error {
	return r.exec(ctx, saveID, creditOfflineSQL, saveID, amount, wholeHours, now)
}

// TouchLastActive advances last_active without any ledger change.
func (r *Repo) TouchLastActive(ctx context.Context, saveID uuid.UUID, now time.Time) error {
	return r.exec(ctx, saveID, touchLastActiveSQL, saveID, now)
}

// ListStaleAccounts returns account IDs whose main save has been inactive
// since before the cutoff, oldest first. The sweep pages through this.
func (r *Repo) ListStaleAccounts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listStaleAccountsSQL, domain.DefaultSaveName, cutoff, limit)
	if err != nil {
		return nil, postgres.MapError(err, "game_save", uuid.Nil)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, postgres.MapError(err, "game_save", uuid.Nil)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "game_save", uuid.Nil)
	}

	return ids, nil
}

func (r *Repo) exec(ctx context.Context, saveID uuid.UUID, sql string, args ...any) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "game_save", saveID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "game_save", saveID)
	}

	return nil
}

func scanSave(row pgx.Row) (*domain.GameSave, error) {
	var s domain.GameSave
	err := row.Scan(&s.ID, &s.AccountID, &s.Name, &s.Cash, &s.Credits, &s.Level,
		&s.Experience, &s.BuildingsCount, &s.TotalIncome, &s.AutomationLevel,
		&s.OfflineHours, &s.LastActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
