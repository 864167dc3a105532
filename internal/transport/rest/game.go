package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/adapter/postgres/gamelog"
	"github.com/greenrush/tycoon-backend/internal/domain"
	"github.com/greenrush/tycoon-backend/internal/service/accrual"
	"github.com/greenrush/tycoon-backend/internal/service/game"
	"github.com/greenrush/tycoon-backend/internal/service/placement"
	"github.com/greenrush/tycoon-backend/pkg/ctxutil"
)

// gameService defines the game state interface needed by GameHandler.
type gameService interface {
	State(ctx context.Context, accountID uuid.UUID) (*game.State, error)
	Touch(ctx context.Context, accountID uuid.UUID) error
	Events(ctx context.Context, accountID uuid.UUID, filter gamelog.Filter) ([]domain.GameEvent, error)
}

// placementService defines the building purchase interface needed by GameHandler.
type placementService interface {
	PlaceBuilding(ctx context.Context, accountID uuid.UUID, input placement.PlaceInput) (*placement.PlaceResult, error)
}

// accrualService defines the income collection interface needed by GameHandler.
type accrualService interface {
	Collect(ctx context.Context, accountID uuid.UUID) (*accrual.CollectResult, error)
}

// GameHandler serves the authenticated game REST endpoints.
type GameHandler struct {
	game      gameService
	placement placementService
	accrual   accrualService
	log       *slog.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(g gameService, p placementService, a accrualService, logger *slog.Logger) *GameHandler {
	return &GameHandler{game: g, placement: p, accrual: a, log: logger.With("handler", "game")}
}

type buildRequest struct {
	BuildingType string `json:"buildingType"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
}

type buildingResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	X              int       `json:"x"`
	Y              int       `json:"y"`
	Level          int       `json:"level"`
	IncomePerSec   int64     `json:"incomePerSecond"`
	LastCollection time.Time `json:"lastCollection"`
}

type gridResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type stateResponse struct {
	Save      saveResponse       `json:"save"`
	Buildings []buildingResponse `json:"buildings"`
	Grid      gridResponse       `json:"grid"`
}

type buildResponse struct {
	BuildingID  string `json:"buildingId"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Color       string `json:"color"`
	Cash        int64  `json:"cash"`
	TotalIncome int64  `json:"totalIncome"`
	Buildings   int    `json:"buildings"`
}

type collectResponse struct {
	Amount int64 `json:"amount"`
	Cash   int64 `json:"cash"`
}

type eventResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// State handles GET /gamestate.
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	accountID, ok := ctxutil.AccountIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	state, err := h.game.State(r.Context(), accountID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	buildings := make([]buildingResponse, len(state.Buildings))
	for i, b := range state.Buildings {
		buildings[i] = buildingResponse{
			ID:             b.ID.String(),
			Type:           b.Type.String(),
			X:              b.X,
			Y:              b.Y,
			Level:          b.Level,
			IncomePerSec:   b.IncomePerSecond,
			LastCollection: b.LastCollection,
		}
	}

	writeJSON(w, http.StatusOK, stateResponse{
		Save:      toSaveResponse(state.Save),
		Buildings: buildings,
		Grid:      gridResponse{Width: state.GridWidth, Height: state.GridHeight},
	})
}

// Build handles POST /build.
func (h *GameHandler) Build(w http.ResponseWriter, r *http.Request) {
	accountID, ok := ctxutil.AccountIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "VALIDATION")
		return
	}

	result, err := h.placement.PlaceBuilding(r.Context(), accountID, placement.PlaceInput{
		Type: domain.BuildingType(req.BuildingType),
		X:    req.X,
		Y:    req.Y,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, buildResponse{
		BuildingID:  result.Building.ID.String(),
		Name:        result.Spec.Name,
		Symbol:      result.Spec.Symbol,
		Color:       result.Spec.Color,
		Cash:        result.Cash,
		TotalIncome: result.TotalIncome,
		Buildings:   result.Buildings,
	})
}

// Collect handles POST /collect.
func (h *GameHandler) Collect(w http.ResponseWriter, r *http.Request) {
	accountID, ok := ctxutil.AccountIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	result, err := h.accrual.Collect(r.Context(), accountID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, collectResponse{
		Amount: result.Collected,
		Cash:   result.Cash,
	})
}

// Save handles POST /save. The client's periodic progress save carries no
// payload; the server is authoritative and only records the activity.
func (h *GameHandler) Save(w http.ResponseWriter, r *http.Request) {
	accountID, ok := ctxutil.AccountIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	if err := h.game.Touch(r.Context(), accountID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Events handles GET /events.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	accountID, ok := ctxutil.AccountIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	filter, err := parseEventsFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
		return
	}

	events, err := h.game.Events(r.Context(), accountID, filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]eventResponse, len(events))
	for i, ev := range events {
		out[i] = eventResponse{
			ID:        ev.ID.String(),
			Type:      string(ev.Type),
			Payload:   ev.Payload,
			CreatedAt: ev.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func parseEventsFilter(r *http.Request) (gamelog.Filter, error) {
	var filter gamelog.Filter
	q := r.URL.Query()

	if raw := q.Get("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			filter.Types = append(filter.Types, domain.EventType(strings.TrimSpace(t)))
		}
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errInvalidQueryParam("limit")
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errInvalidQueryParam("offset")
		}
		filter.Offset = n
	}

	return filter, nil
}

func errInvalidQueryParam(name string) error {
	return &domain.ValidationError{Errors: []domain.FieldError{
		{Field: name, Message: "must be an integer"},
	}}
}
