// Package gamelog implements the append-only game event log using
// PostgreSQL. Records are written by every state-mutating operation and
// never updated or deleted.
package gamelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/greenrush/tycoon-backend/internal/adapter/postgres"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// Repo provides game log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new game log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const appendEventSQL = `
INSERT INTO game_logs (id, account_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`

// Append inserts a new event record.
func (r *Repo) Append(ctx context.Context, ev domain.GameEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("game_event marshal payload: %w", err)
	}

	_, err = q.Exec(ctx, appendEventSQL, ev.ID, ev.AccountID, string(ev.Type), payload, ev.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "game_event", ev.ID)
	}

	return nil
}

// Filter defines parameters for listing event records.
type Filter struct {
	// Types restricts to the given event types; empty means all.
	Types []domain.EventType

	// Since and Until bound created_at (inclusive lower, exclusive upper).
	Since *time.Time
	Until *time.Time

	// Limit caps the result set. Default 50, max 500.
	Limit int

	// Offset skips records for pagination.
	Offset int
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

func (f *Filter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ListByAccount returns event records for an account, newest first. The
// query is assembled dynamically from the filter.
func (r *Repo) ListByAccount(ctx context.Context, accountID uuid.UUID, filter Filter) ([]domain.GameEvent, error) {
	filter.normalize()

	builder := sq.Select("id", "account_id", "event_type", "payload", "created_at").
		From("game_logs").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(sq.Dollar)

	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		builder = builder.Where(sq.Eq{"event_type": types})
	}
	if filter.Since != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.Since})
	}
	if filter.Until != nil {
		builder = builder.Where(sq.Lt{"created_at": *filter.Until})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build game_logs query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "game_event", uuid.Nil)
	}
	defer rows.Close()

	events := []domain.GameEvent{}
	for rows.Next() {
		var (
			ev      domain.GameEvent
			typ     string
			payload []byte
		)
		if err := rows.Scan(&ev.ID, &ev.AccountID, &typ, &payload, &ev.CreatedAt); err != nil {
			return nil, postgres.MapError(err, "game_event", uuid.Nil)
		}
		ev.Type = domain.EventType(typ)
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &ev.Payload); err != nil {
				return nil, fmt.Errorf("game_event unmarshal payload: %w", err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "game_event", uuid.Nil)
	}

	return events, nil
}
