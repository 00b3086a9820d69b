package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/services"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/middleware"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testCollector = monitoring.NewPrometheusCollector()

func newTestAuthService() services.AuthService {
	return services.NewAuthService("test-secret", time.Hour, 24*time.Hour)
}

func newAccountRouter(t *testing.T, accounts *MockAccountService) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := newTestAuthService()
	handler := NewAccountHandler(accounts, authService, testCollector, 15*time.Minute)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(zaptest.NewLogger(t).Sugar()))
	handler.SetupRoutes(router)
	return router, authService
}

func TestAccountHandler_Register(t *testing.T) {
	accounts := new(MockAccountService)
	router, _ := newAccountRouter(t, accounts)

	user := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", DisplayName: "alice"}
	accounts.On("Create", mock.Anything, "alice", "alice@example.com", "s3cret-pass").Return(user, nil)

	body, _ := json.Marshal(gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User         UserResponse `json:"user"`
		AccessToken  string       `json:"access_token"`
		RefreshToken string       `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAccountHandler_Register_UsernameTaken(t *testing.T) {
	accounts := new(MockAccountService)
	router, _ := newAccountRouter(t, accounts)

	accounts.On("Create", mock.Anything, "alice", "alice@example.com", "s3cret-pass").
		Return(nil, domain.ErrUsernameTaken)

	body, _ := json.Marshal(gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestAccountHandler_Register_InvalidInput(t *testing.T) {
	accounts := new(MockAccountService)
	router, _ := newAccountRouter(t, accounts)

	body, _ := json.Marshal(gin.H{
		"username": "ab", // too short
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	accounts := new(MockAccountService)
	router, _ := newAccountRouter(t, accounts)

	accounts.On("Login", mock.Anything, "alice", "wrong-pass").
		Return(nil, services.ErrInvalidCredentials)

	body, _ := json.Marshal(gin.H{"username": "alice", "password": "wrong-pass"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountHandler_Me(t *testing.T) {
	accounts := new(MockAccountService)
	router, authService := newAccountRouter(t, accounts)

	user := &domain.User{ID: "u1", Username: "alice"}
	accounts.On("Me", mock.Anything, domain.UserID("u1")).Return(user, nil)

	token, err := authService.GenerateToken("u1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/account/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAccountHandler_Me_Unauthenticated(t *testing.T) {
	accounts := new(MockAccountService)
	router, _ := newAccountRouter(t, accounts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/account/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountHandler_Deactivate(t *testing.T) {
	accounts := new(MockAccountService)
	router, authService := newAccountRouter(t, accounts)

	accounts.On("Deactivate", mock.Anything, domain.UserID("u1")).Return(nil)

	token, err := authService.GenerateToken("u1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	accounts.AssertExpectations(t)
}
