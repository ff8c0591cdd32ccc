package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"apiservices/internal/auth"
	"apiservices/internal/config"
	"apiservices/internal/db"
	"apiservices/internal/handler"
	"apiservices/internal/logging"
	"apiservices/internal/metrics"
	"apiservices/internal/model"
	"apiservices/internal/repository"
	"apiservices/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.RateLimitRPS = 0
	return cfg
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	tables := append(model.ArenaTables(), model.TodoTables()...)
	require.NoError(t, db.Migrate(gormDB, false, tables...))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func newEcho(t *testing.T, cfg *config.Config, reg *prometheus.Registry) (*echo.Echo, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	e := echo.New()
	Setup(e, cfg, logging.NewWithWriter(&logs, "info", "json"), metrics.NewCollector(reg), reg)
	return e, &logs
}

func arenaHandlers(t *testing.T, cfg *config.Config, jwtService *auth.JWTService) ArenaHandlers {
	t.Helper()
	gormDB := setupTestDB(t)
	users := repository.NewUserRepository(gormDB)
	leaderboard := repository.NewLeaderboardRepository(gormDB)
	sessions := repository.NewSessionRepository(gormDB)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return ArenaHandlers{
		Auth: handler.NewAuthHandler(service.NewAuthService(users, hasher, jwtService,
			service.AuthOptions{MeMode: cfg.MeMode, MockEmail: cfg.MockEmail}, nil, nil)),
		Leaderboard: handler.NewLeaderboardHandler(service.NewLeaderboardService(leaderboard, nil, time.Minute, nil, nil)),
		Session:     handler.NewSessionHandler(service.NewSessionService(sessions, nil, time.Minute, nil)),
		Seed:        handler.NewSeedHandler(service.NewSampleSeeder(users, leaderboard, sessions, hasher, nil, nil)),
	}
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSetup_OperationalRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, logs := newEcho(t, testConfig(t), reg)

	rec := serve(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Contains(t, logs.String(), `"uri":"/healthz"`)

	rec = serve(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/healthz",status_code="200"} 1`)
}

func TestSetup_StaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>arena</html>"), 0o600))

	cfg := testConfig(t)
	cfg.StaticDir = dir
	e, _ := newEcho(t, cfg, prometheus.NewRegistry())
	RegisterArena(e, cfg, auth.NewJWTService("s", time.Minute), arenaHandlers(t, cfg, auth.NewJWTService("s", time.Minute)))

	rec := serve(e, http.MethodGet, "/play/walls", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "arena")

	rec = serve(e, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterArena_Routes(t *testing.T) {
	cfg := testConfig(t)
	jwtService := auth.NewJWTService("s", time.Minute)
	e, _ := newEcho(t, cfg, prometheus.NewRegistry())
	RegisterArena(e, cfg, jwtService, arenaHandlers(t, cfg, jwtService))

	rec := serve(e, http.MethodGet, "/api", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to Snake Arena API"}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Disabled unless ENABLE_SEED_ENDPOINT is set.
	rec = serve(e, http.MethodPost, "/api/seed/sample", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRegisterArena_SeedEndpointAndTokenMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnableSeedEndpoint = true
	cfg.MeMode = config.MeModeToken
	jwtService := auth.NewJWTService("s", time.Minute)
	e, _ := newEcho(t, cfg, prometheus.NewRegistry())
	RegisterArena(e, cfg, jwtService, arenaHandlers(t, cfg, jwtService))

	rec := serve(e, http.MethodPost, "/api/seed/sample", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"skipped":false,"users":2,"entries":3,"sessions":2}`, rec.Body.String())

	token, err := jwtService.GenerateAccessToken(uuid.New(), "ghost", "ghost@snake.io")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	// Valid signature but no such user.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterTodos_RateLimitsWrites(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitRPS = 1
	e, _ := newEcho(t, cfg, prometheus.NewRegistry())
	RegisterTodos(e, cfg, handler.NewTodoHandler(service.NewTodoService(repository.NewTodoRepository(setupTestDB(t)), nil)))

	rec := serve(e, http.MethodPost, "/api/todos", `{"title":"first"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(e, http.MethodPost, "/api/todos", `{"title":"second"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are never throttled.
	for i := 0; i < 3; i++ {
		rec = serve(e, http.MethodGet, "/api/todos", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCustomValidator(t *testing.T) {
	type payload struct {
		Mode string `validate:"oneof=walls pass-through"`
	}
	cv := &CustomValidator{validator: validator.New()}
	assert.NoError(t, cv.Validate(&payload{Mode: "walls"}))
	assert.Error(t, cv.Validate(&payload{Mode: "teleport"}))
}
