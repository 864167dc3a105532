//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenrush/tycoon-backend/internal/adapter/postgres"
	accountrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/account"
	buildingrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/building"
	gamelogrepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/gamelog"
	saverepo "github.com/greenrush/tycoon-backend/internal/adapter/postgres/save"
	"github.com/greenrush/tycoon-backend/internal/adapter/postgres/testhelper"
	jwtauth "github.com/greenrush/tycoon-backend/internal/auth"
	"github.com/greenrush/tycoon-backend/internal/config"
	"github.com/greenrush/tycoon-backend/internal/service/accrual"
	authsvc "github.com/greenrush/tycoon-backend/internal/service/auth"
	"github.com/greenrush/tycoon-backend/internal/service/game"
	"github.com/greenrush/tycoon-backend/internal/service/placement"
	"github.com/greenrush/tycoon-backend/internal/transport/middleware"
	"github.com/greenrush/tycoon-backend/internal/transport/rest"
	"github.com/greenrush/tycoon-backend/pkg/keylock"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret-at-least-32-chars-long!!",
			JWTIssuer:        "test-issuer",
			SessionTTL:       168 * time.Hour,
			PasswordHashCost: bcrypt.MinCost,
		},
		Game: config.GameConfig{
			GridWidth:         20,
			GridHeight:        20,
			StartingCash:      8000,
			StartingCredits:   100,
			OfflineEfficiency: 0.5,
			OfflineMinHours:   0.1,
			SweepInterval:     time.Minute,
			SweepConcurrency:  4,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		},
	}
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	cfg := testConfig()

	accounts := accountrepo.New(pool)
	saves := saverepo.New(pool)
	buildings := buildingrepo.New(pool)
	events := gamelogrepo.New(pool)
	txm := postgres.NewTxManager(pool)
	locks := keylock.New[uuid.UUID]()
	jwtMgr := jwtauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)

	accrualSvc := accrual.NewService(logger, saves, buildings, events, txm, locks, cfg.Game)
	authService := authsvc.NewService(logger, accounts, saves, events, txm, jwtMgr, accrualSvc, cfg)
	placementSvc := placement.NewService(logger, saves, buildings, events, txm, locks, cfg.Game)
	gameSvc := game.NewService(saves, buildings, events, cfg.Game)

	authHandler := rest.NewAuthHandler(authService, logger)
	gameHandler := rest.NewGameHandler(gameSvc, placementSvc, accrualSvc, logger)
	healthHandler := rest.NewHealthHandler(pool, "test-version")

	requireAuth := middleware.Auth(authService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /gamestate", requireAuth(http.HandlerFunc(gameHandler.State)))
	mux.Handle("POST /build", requireAuth(http.HandlerFunc(gameHandler.Build)))
	mux.Handle("POST /collect", requireAuth(http.HandlerFunc(gameHandler.Collect)))
	mux.Handle("POST /save", requireAuth(http.HandlerFunc(gameHandler.Save)))
	mux.Handle("GET /events", requireAuth(http.HandlerFunc(gameHandler.Events)))
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// ---------------------------------------------------------------------------
// Request helpers.
// ---------------------------------------------------------------------------

// restRequest sends a JSON request to the test server. An empty token sends
// no Authorization header.
func restRequest(t *testing.T, ts *testServer, method, path, token string, body any) *http.Response {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(jsonBody)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	return resp
}

// decodeBody decodes the response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// uniquePlayer returns credentials that do not collide across tests sharing
// the database container.
func uniquePlayer() (username, email, password string) {
	suffix := uuid.New().String()[:8]
	return "player-" + suffix, "player-" + suffix + "@example.com", "securepassword123"
}

// registerPlayer creates a fresh account through the API and returns its
// session token and account ID.
func registerPlayer(t *testing.T, ts *testServer) (string, uuid.UUID) {
	t.Helper()

	username, email, password := uniquePlayer()
	resp := restRequest(t, ts, "POST", "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token, ok := body["token"].(string)
	require.True(t, ok, "expected token string in response")
	require.NotEmpty(t, token)

	account, ok := body["account"].(map[string]any)
	require.True(t, ok, "expected account object in response")
	accountID, err := uuid.Parse(account["id"].(string))
	require.NoError(t, err)

	return token, accountID
}

// saveIDFor looks up the account's save directly in the database.
func saveIDFor(t *testing.T, ts *testServer, accountID uuid.UUID) uuid.UUID {
	t.Helper()

	var saveID uuid.UUID
	err := ts.Pool.QueryRow(context.Background(),
		`SELECT id FROM game_saves WHERE account_id = $1`, accountID).Scan(&saveID)
	require.NoError(t, err)
	return saveID
}

// saveIDForString is saveIDFor for an account ID still in string form.
func saveIDForString(t *testing.T, ts *testServer, accountID string) uuid.UUID {
	t.Helper()

	id, err := uuid.Parse(accountID)
	require.NoError(t, err)
	return saveIDFor(t, ts, id)
}
