package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSaveName is the single save slot every account owns. The schema
// keys saves by (account_id, name) so named saves stay an additive change,
// but no API exposes them yet.
const DefaultSaveName = "main"

// GameSave is the persistent ledger for one account's game.
//
// Invariants: BuildingsCount equals the number of Building rows for this
// save, and TotalIncome equals the sum of their IncomePerSecond. Cash never
// goes below zero through a successful mutation.
type GameSave struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	Name            string
	Cash            int64
	Credits         int64
	Level           int
	Experience      int64
	BuildingsCount  int
	TotalIncome     int64 // denormalized sum of building rates, per second
	AutomationLevel int
	OfflineHours    int64 // cumulative whole hours paid out as offline time
	LastActive      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Building is a placed structure generating income on a save's grid.
type Building struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	SaveID          uuid.UUID
	Type            BuildingType
	X               int
	Y               int
	Level           int
	IncomePerSecond int64
	LastCollection  time.Time
	CreatedAt       time.Time
}

// NewGameSave returns the initial save state for a fresh account.
func NewGameSave(accountID uuid.UUID, startingCash, startingCredits int64, now time.Time) GameSave {
	return GameSave{
		ID:         uuid.New(),
		AccountID:  accountID,
		Name:       DefaultSaveName,
		Cash:       startingCash,
		Credits:    startingCredits,
		Level:      1,
		LastActive: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
