package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be between %d and %d (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive (got %v)", c.Auth.SessionTTL)
	}

	if err := c.Game.validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	return nil
}

func (g *GameConfig) validate() error {
	if g.GridWidth <= 0 || g.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive (got %dx%d)", g.GridWidth, g.GridHeight)
	}
	if g.StartingCash < 0 {
		return fmt.Errorf("starting_cash must be >= 0 (got %d)", g.StartingCash)
	}
	if g.OfflineEfficiency <= 0 || g.OfflineEfficiency > 1 {
		return fmt.Errorf("offline_efficiency must be in (0, 1] (got %v)", g.OfflineEfficiency)
	}
	if g.OfflineMinHours < 0 {
		return fmt.Errorf("offline_min_hours must be >= 0 (got %v)", g.OfflineMinHours)
	}
	if g.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive (got %v)", g.SweepInterval)
	}
	if g.SweepConcurrency <= 0 {
		return fmt.Errorf("sweep_concurrency must be positive (got %d)", g.SweepConcurrency)
	}
	return nil
}
