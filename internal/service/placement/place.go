package placement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// PlaceInput holds parameters for a building purchase.
type PlaceInput struct {
	Type domain.BuildingType
	X    int
	Y    int
}

// Validate checks the building type and grid bounds.
func (i PlaceInput) Validate(gridWidth, gridHeight int) error {
	var errs []domain.FieldError

	if !i.Type.Valid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown building type"})
	}
	if i.X < 0 || i.X >= gridWidth {
		errs = append(errs, domain.FieldError{Field: "x", Message: fmt.Sprintf("must be 0-%d", gridWidth-1)})
	}
	if i.Y < 0 || i.Y >= gridHeight {
		errs = append(errs, domain.FieldError{Field: "y", Message: fmt.Sprintf("must be 0-%d", gridHeight-1)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// PlaceResult is returned by PlaceBuilding.
type PlaceResult struct {
	Building *domain.Building
	Spec     domain.BuildingSpec

	// Save state after the purchase.
	Cash        int64
	TotalIncome int64
	Buildings   int
}

// PlaceBuilding purchases and places a building on the account's grid. The
// funds and occupancy checks plus the building insert and save debit commit
// atomically; a failure at any step leaves the save untouched.
// Returns ErrInsufficientFunds or ErrCellOccupied on a rejected purchase.
func (s *Service) PlaceBuilding(ctx context.Context, accountID uuid.UUID, input PlaceInput) (*PlaceResult, error) {
	if err := input.Validate(s.cfg.GridWidth, s.cfg.GridHeight); err != nil {
		return nil, err
	}
	spec, _ := domain.SpecFor(input.Type)

	s.locks.Lock(accountID)
	defer s.locks.Unlock(accountID)

	now := s.now().UTC()

	var result PlaceResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		save, err := s.saves.GetByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("get save: %w", err)
		}

		if save.Cash < spec.BaseCost {
			return fmt.Errorf("cash %d < cost %d: %w", save.Cash, spec.BaseCost, domain.ErrInsufficientFunds)
		}

		occupied, err := s.buildings.ExistsAt(ctx, save.ID, input.X, input.Y)
		if err != nil {
			return fmt.Errorf("check cell: %w", err)
		}
		if occupied {
			return fmt.Errorf("cell (%d,%d): %w", input.X, input.Y, domain.ErrCellOccupied)
		}

		b := &domain.Building{
			ID:              uuid.New(),
			AccountID:       accountID,
			SaveID:          save.ID,
			Type:            input.Type,
			X:               input.X,
			Y:               input.Y,
			Level:           1,
			IncomePerSecond: spec.BaseIncome,
			LastCollection:  now,
			CreatedAt:       now,
		}
		if err := s.buildings.Insert(ctx, b); err != nil {
			return fmt.Errorf("insert building: %w", err)
		}

		if err := s.saves.ApplyPlacement(ctx, save.ID, spec.BaseCost, spec.BaseIncome, now); err != nil {
			return fmt.Errorf("apply placement: %w", err)
		}

		result = PlaceResult{
			Building:    b,
			Spec:        spec,
			Cash:        save.Cash - spec.BaseCost,
			TotalIncome: save.TotalIncome + spec.BaseIncome,
			Buildings:   save.BuildingsCount + 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.appendEvent(ctx, domain.NewGameEvent(accountID, domain.EventBuildingPlaced, map[string]any{
		"type": input.Type.String(),
		"x":    input.X,
		"y":    input.Y,
		"cost": spec.BaseCost,
	}))

	s.log.InfoContext(ctx, "building placed",
		slog.String("account_id", accountID.String()),
		slog.String("type", input.Type.String()),
		slog.Int("x", input.X),
		slog.Int("y", input.Y))

	return &result, nil
}
