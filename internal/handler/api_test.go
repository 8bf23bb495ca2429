package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"betaware/internal/middleware"
	"betaware/internal/model"
	"betaware/internal/repository/memory"
	"betaware/internal/service"
	"betaware/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func testUserModel() *model.User {
	return &model.User{ID: 1, Username: "joao", Email: "joao@email.com", Role: model.RoleUser}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	userRepo := memory.NewUserRepository()
	betRepo := memory.NewBetRepository()
	issuer := token.NewIssuer(testSecret, 24)
	verifier := token.NewChain(token.NewLocalVerifier(testSecret))

	log := zap.NewNop()
	authHandler := NewAuthHandler(service.NewAuthService(userRepo, issuer, log), log)
	betHandler := NewBetHandler(service.NewBetService(betRepo, log), log)
	healthHandler := NewHealthHandler(nil)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())

	authMW := middleware.AuthMiddleware(verifier)
	adminMW := middleware.AdminMiddleware()

	api := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(api, authMW, adminMW)
	betHandler.RegisterBetRoutes(api, authMW, adminMW)
	healthHandler.RegisterHealthRoutes(router)

	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Total   *int            `json:"total"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, bearer string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func register(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":        email,
		"password":     "password123",
		"display_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createBet(t *testing.T, router *gin.Engine, bearer string, eventTime time.Time) int64 {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/bets", bearer, gin.H{
		"category":   "Futebol",
		"game":       "Flamengo vs Palmeiras",
		"amount":     50.0,
		"event_time": eventTime.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var bet struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bet))
	return bet.ID
}

func TestRegisterLoginAndOwnership(t *testing.T) {
	router := setupRouter()

	tokenA := register(t, router, "a@email.com")
	register(t, router, "b@email.com")

	// Password hash never leaves the API
	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "a@email.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")

	createBet(t, router, tokenA, time.Now())

	// A sees exactly their bet
	w, env := doJSON(t, router, http.MethodGet, "/api/v1/bets", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Total)
	assert.Equal(t, 1, *env.Total)

	// B shares no bets with A
	wLoginB, envB := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "b@email.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, wLoginB.Code)
	var dataB struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(envB.Data, &dataB))

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/bets", dataB.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Total)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := setupRouter()
	register(t, router, "a@email.com")

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":        "a@email.com",
		"password":     "password123",
		"display_name": "Someone Else",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	router := setupRouter()
	register(t, router, "a@email.com")

	wWrongPassword, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "a@email.com", "password": "wrong-password",
	})
	wUnknownEmail, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "nobody@email.com", "password": "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, wWrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, wUnknownEmail.Code)
	assert.Equal(t, wWrongPassword.Body.String(), wUnknownEmail.Body.String())
}

func TestTokenFailureKinds(t *testing.T) {
	router := setupRouter()

	// No token at all
	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/bets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Present but invalid token
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/bets", "garbage.token.here", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Present but expired token
	expired, err := token.NewIssuer(testSecret, -1).Issue(testUserModel())
	require.NoError(t, err)
	w, env := doJSON(t, router, http.MethodGet, "/api/v1/bets", expired, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Token expired", env.Message)
}

func TestCreateBetValidation(t *testing.T) {
	router := setupRouter()
	tokenA := register(t, router, "a@email.com")

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/bets", tokenA, gin.H{
		"amount": 0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields []struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(env.Errors, &fields))
	assert.Len(t, fields, 3) // category, game, amount all reported
}

func TestPeriodFiltering(t *testing.T) {
	router := setupRouter()
	tokenA := register(t, router, "a@email.com")

	createBet(t, router, tokenA, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	createBet(t, router, tokenA, time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC))

	path := "/api/v1/bets/period?start=2024-06-01T00:00:00Z&end=2024-06-30T23:59:59Z"
	w, env := doJSON(t, router, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Total)

	// Reversed range yields an empty result, not an error
	path = "/api/v1/bets/period?start=2024-06-30T23:59:59Z&end=2024-06-01T00:00:00Z"
	w, env = doJSON(t, router, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Total)

	// Bad date format is rejected
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/bets/period?start=june&end=july", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Owner-scoped flavor requires a token
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/bets/user/period?start=2024-06-01T00:00:00Z&end=2024-12-31T00:00:00Z", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/bets/user/period?start=2024-06-01T00:00:00Z&end=2024-12-31T00:00:00Z", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, *env.Total)
}

func TestUpdateIsPartial(t *testing.T) {
	router := setupRouter()
	tokenA := register(t, router, "a@email.com")
	betID := createBet(t, router, tokenA, time.Now())

	w, env := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bets/%d", betID), tokenA, gin.H{
		"outcome": "WON",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var bet struct {
		Category  string  `json:"category"`
		Outcome   string  `json:"outcome"`
		UpdatedAt *string `json:"updated_at"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bet))
	assert.Equal(t, "WON", bet.Outcome)
	assert.Equal(t, "Futebol", bet.Category) // untouched
	assert.NotNil(t, bet.UpdatedAt)
}

func TestDeleteAuthorization(t *testing.T) {
	t.Setenv("INITIAL_ADMIN_EMAIL", "admin@email.com")
	router := setupRouter()

	tokenA := register(t, router, "a@email.com")
	tokenB := register(t, router, "b@email.com")
	tokenAdmin := register(t, router, "admin@email.com")

	betID := createBet(t, router, tokenA, time.Now())
	path := fmt.Sprintf("/api/v1/bets/%d", betID)

	// Non-owner non-admin is refused
	w, _ := doJSON(t, router, http.MethodDelete, path, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin may delete anyone's bet
	w, _ = doJSON(t, router, http.MethodDelete, path, tokenAdmin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The owner no longer sees it
	w, env := doJSON(t, router, http.MethodGet, "/api/v1/bets", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Total)

	// Deleting again is a 404
	w, _ = doJSON(t, router, http.MethodDelete, path, tokenAdmin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminListings(t *testing.T) {
	t.Setenv("INITIAL_ADMIN_EMAIL", "admin@email.com")
	router := setupRouter()

	tokenA := register(t, router, "a@email.com")
	tokenAdmin := register(t, router, "admin@email.com")
	createBet(t, router, tokenA, time.Now())

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/users", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/users", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, *env.Total)
	assert.NotContains(t, w.Body.String(), "password_hash")

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/admin/bets", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/admin/bets", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Total)
}

func TestHealthAndInfo(t *testing.T) {
	router := setupRouter()

	w, _ := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uptime")

	w, _ = doJSON(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
