package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered player account.
type Account struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
