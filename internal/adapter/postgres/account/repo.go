// Package account implements the Account repository using PostgreSQL.
package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/greenrush/tycoon-backend/internal/adapter/postgres"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new account repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const accountColumns = `id, username, email, password_hash, created_at, last_login_at`

const createAccountSQL = `
INSERT INTO accounts (id, username, email, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + accountColumns

const getAccountByIDSQL = `
SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

const getAccountByUsernameSQL = `
SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

const updateLastLoginSQL = `
UPDATE accounts SET last_login_at = $2 WHERE id = $1`

// Create inserts a new account and returns the persisted domain.Account.
// Duplicate username or email surfaces as domain.ErrAlreadyExists via the
// unique constraints.
func (r *Repo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createAccountSQL, a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt)
	created, err := scanAccount(row)
	if err != nil {
		return nil, postgres.MapError(err, "account", a.ID)
	}

	return created, nil
}

// GetByID returns an account by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAccount(q.QueryRow(ctx, getAccountByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "account", id)
	}

	return a, nil
}

// GetByUsername returns an account by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAccount(q.QueryRow(ctx, getAccountByUsernameSQL, username))
	if err != nil {
		return nil, postgres.MapError(err, "account", uuid.Nil)
	}

	return a, nil
}

// UpdateLastLogin records a successful authentication timestamp.
func (r *Repo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateLastLoginSQL, id, at)
	if err != nil {
		return postgres.MapError(err, "account", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "account", id)
	}

	return nil
}

// rowScanner is the single-row subset of pgx.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
