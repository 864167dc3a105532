package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAccount creates an account row. Returns the filled domain.Account.
func SeedAccount(t *testing.T, pool *pgxpool.Pool) domain.Account {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	account := domain.Account{
		ID:           uuid.New(),
		Username:     "player-" + suffix,
		Email:        "player-" + suffix + "@example.com",
		PasswordHash: "$2a$04$testhashtesthashtesthashtesthashtesthashtesthashtesth",
		CreatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Username, account.Email, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount insert: %v", err)
	}

	return account
}

// SeedSave creates an account plus its main save with the given cash.
// last_active is set to now.
func SeedSave(t *testing.T, pool *pgxpool.Pool, cash int64) (domain.Account, domain.GameSave) {
	t.Helper()
	ctx := context.Background()

	account := SeedAccount(t, pool)
	now := time.Now().UTC().Truncate(time.Microsecond)
	save := domain.NewGameSave(account.ID, cash, 100, now)

	_, err := pool.Exec(ctx,
		`INSERT INTO game_saves (id, account_id, name, cash, credits, level, experience,
		                         buildings_count, total_income, automation_level,
		                         offline_hours, last_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		save.ID, save.AccountID, save.Name, save.Cash, save.Credits, save.Level,
		save.Experience, save.BuildingsCount, save.TotalIncome, save.AutomationLevel,
		save.OfflineHours, save.LastActive, save.CreatedAt, save.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSave insert: %v", err)
	}

	return account, save
}

// SeedBuilding places a building on the save, bypassing the placement rules.
func SeedBuilding(t *testing.T, pool *pgxpool.Pool, save domain.GameSave, typ domain.BuildingType, x, y int, lastCollection time.Time) domain.Building {
	t.Helper()
	ctx := context.Background()

	spec, ok := domain.SpecFor(typ)
	if !ok {
		t.Fatalf("testhelper: SeedBuilding unknown type %q", typ)
	}

	b := domain.Building{
		ID:              uuid.New(),
		AccountID:       save.AccountID,
		SaveID:          save.ID,
		Type:            typ,
		X:               x,
		Y:               y,
		Level:           1,
		IncomePerSecond: spec.BaseIncome,
		LastCollection:  lastCollection.UTC().Truncate(time.Microsecond),
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO buildings (id, account_id, save_id, building_type, grid_x, grid_y,
		                        level, income_per_second, last_collection, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.AccountID, b.SaveID, b.Type.String(), b.X, b.Y,
		b.Level, b.IncomePerSecond, b.LastCollection, b.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBuilding insert: %v", err)
	}

	// Keep the denormalized counters honest.
	_, err = pool.Exec(ctx,
		`UPDATE game_saves SET buildings_count = buildings_count + 1, total_income = total_income + $2 WHERE id = $1`,
		save.ID, spec.BaseIncome,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBuilding update save: %v", err)
	}

	return b
}

// SetLastActive rewinds or advances the save's last_active for accrual tests.
func SetLastActive(t *testing.T, pool *pgxpool.Pool, saveID uuid.UUID, at time.Time) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`UPDATE game_saves SET last_active = $2 WHERE id = $1`, saveID, at)
	if err != nil {
		t.Fatalf("testhelper: SetLastActive: %v", err)
	}
}
