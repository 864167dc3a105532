package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType tags an append-only game log record.
type EventType string

const (
	EventAccountRegistered  EventType = "account_registered"
	EventBuildingPlaced     EventType = "building_placed"
	EventIncomeCollected    EventType = "income_collected"
	EventOfflineProgression EventType = "offline_progression"
)

// GameEvent is one append-only audit record. Never mutated or deleted.
type GameEvent struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      EventType
	Payload   map[string]any
	CreatedAt time.Time
}

// NewGameEvent builds a GameEvent with a fresh ID and timestamp.
func NewGameEvent(accountID uuid.UUID, typ EventType, payload map[string]any) GameEvent {
	return GameEvent{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      typ,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}
