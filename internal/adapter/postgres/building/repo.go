// Package building implements the Building repository using PostgreSQL.
package building

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/greenrush/tycoon-backend/internal/adapter/postgres"
	"github.com/greenrush/tycoon-backend/internal/domain"
)

// Repo provides building persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new building repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const buildingColumns = `id, account_id, save_id, building_type, grid_x, grid_y,
       level, income_per_second, last_collection, created_at`

const insertBuildingSQL = `
INSERT INTO buildings (id, account_id, save_id, building_type, grid_x, grid_y,
                       level, income_per_second, last_collection, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const listBySaveSQL = `
SELECT ` + buildingColumns + `
FROM buildings
WHERE save_id = $1
ORDER BY created_at ASC`

const existsAtSQL = `
SELECT EXISTS (SELECT 1 FROM buildings WHERE save_id = $1 AND grid_x = $2 AND grid_y = $3)`

const resetCollectionsSQL = `
UPDATE buildings SET last_collection = $2 WHERE save_id = $1`

// Insert persists a newly placed building. A placement racing onto an
// occupied cell trips the (save_id, grid_x, grid_y) constraint and surfaces
// as domain.ErrCellOccupied.
func (r *Repo) Insert(ctx context.Context, b *domain.Building) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertBuildingSQL,
		b.ID, b.AccountID, b.SaveID, b.Type.String(), b.X, b.Y,
		b.Level, b.IncomePerSecond, b.LastCollection, b.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "building", b.ID)
	}

	return nil
}

// ListBySave returns all buildings of a save, oldest first.
func (r *Repo) ListBySave(ctx context.Context, saveID uuid.UUID) ([]domain.Building, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listBySaveSQL, saveID)
	if err != nil {
		return nil, postgres.MapError(err, "building", uuid.Nil)
	}
	defer rows.Close()

	buildings := []domain.Building{}
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, postgres.MapError(err, "building", uuid.Nil)
		}
		buildings = append(buildings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "building", uuid.Nil)
	}

	return buildings, nil
}

// ExistsAt reports whether the save already has a building at (x, y).
func (r *Repo) ExistsAt(ctx context.Context, saveID uuid.UUID, x, y int) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, existsAtSQL, saveID, x, y).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "building", uuid.Nil)
	}

	return exists, nil
}

// ResetCollections sets last_collection to now for every building of the
// save. Called by a successful collect so the same elapsed window is never
// counted twice.
func (r *Repo) ResetCollections(ctx context.Context, saveID uuid.UUID, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, resetCollectionsSQL, saveID, now); err != nil {
		return postgres.MapError(err, "building", saveID)
	}

	return nil
}

func scanBuilding(row pgx.Row) (domain.Building, error) {
	var (
		b   domain.Building
		typ string
	)
	err := row.Scan(&b.ID, &b.AccountID, &b.SaveID, &typ, &b.X, &b.Y,
		&b.Level, &b.IncomePerSecond, &b.LastCollection, &b.CreatedAt)
	if err != nil {
		return domain.Building{}, err
	}
	b.Type = domain.BuildingType(typ)
	return b, nil
}
