package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/services"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newStreamRouter(t *testing.T, streams *MockStreamService, tokens *MockTokenService) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := newTestAuthService()
	handler := NewStreamHandler(streams, tokens, authService, testCollector)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(zaptest.NewLogger(t).Sugar()))
	handler.SetupRoutes(router)
	return router, authService
}

func TestStreamHandler_List(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, _ := newStreamRouter(t, streams, tokens)

	streams.On("FindAll", mock.Anything, domain.StreamFilters{Take: 5, Skip: 10, SearchTerm: "games"}).
		Return([]*domain.Stream{{ID: "s1", Title: "gaming live"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/streams?take=5&skip=10&search=games", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gaming live")
	streams.AssertExpectations(t)
}

func TestStreamHandler_Random(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, _ := newStreamRouter(t, streams, tokens)

	streams.On("FindRandom", mock.Anything).Return([]*domain.Stream{{ID: "s1"}, {ID: "s2"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/streams/random", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Streams []StreamResponse `json:"streams"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Streams, 2)
}

func TestStreamHandler_IssueJoinToken_Anonymous(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, _ := newStreamRouter(t, streams, tokens)

	tokens.On("IssueJoinToken", mock.Anything, mock.AnythingOfType("domain.UserID"), domain.UserID("channel-1")).
		Return("signed-token", nil)

	body, _ := json.Marshal(gin.H{"channel_id": "channel-1"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/streams/token", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signed-token")
}

func TestStreamHandler_IssueJoinToken_Authenticated(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, authService := newStreamRouter(t, streams, tokens)

	tokens.On("IssueJoinToken", mock.Anything, domain.UserID("u1"), domain.UserID("channel-1")).
		Return("signed-token", nil)

	token, err := authService.GenerateToken("u1", "alice")
	require.NoError(t, err)

	body, _ := json.Marshal(gin.H{"channel_id": "channel-1"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/streams/token", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	tokens.AssertExpectations(t)
}

func TestStreamHandler_IssueJoinToken_ChannelNotFound(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, _ := newStreamRouter(t, streams, tokens)

	tokens.On("IssueJoinToken", mock.Anything, mock.AnythingOfType("domain.UserID"), domain.UserID("missing")).
		Return("", domain.ErrChannelNotFound)

	body, _ := json.Marshal(gin.H{"channel_id": "missing"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/streams/token", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamHandler_Mine_IncludesStreamKey(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, authService := newStreamRouter(t, streams, tokens)

	stream := &domain.Stream{ID: "s1", UserID: "u1", Title: "my stream", StreamKey: "sk_abc", ServerURL: "rtmp://ingest"}
	streams.On("FindByUserID", mock.Anything, domain.UserID("u1")).Return(stream, nil)

	token, err := authService.GenerateToken("u1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/streams/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sk_abc")
}

func TestStreamHandler_ChangeInfo(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, authService := newStreamRouter(t, streams, tokens)

	streams.On("ChangeInfo", mock.Anything, domain.UserID("u1"), "new title", "games").Return(nil)

	token, err := authService.GenerateToken("u1", "alice")
	require.NoError(t, err)

	body, _ := json.Marshal(gin.H{"title": "new title", "category_id": "games"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/streams/info", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	streams.AssertExpectations(t)
}

func TestStreamHandler_SetLive(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, authService := newStreamRouter(t, streams, tokens)

	streams.On("SetLive", mock.Anything, domain.UserID("u1"), true).Return(nil)

	token, err := authService.GenerateToken("u1", "alice")
	require.NoError(t, err)

	body, _ := json.Marshal(gin.H{"is_live": true})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/streams/live", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	streams.AssertExpectations(t)
}

func TestStreamHandler_SetLive_RequiresAuth(t *testing.T) {
	streams := new(MockStreamService)
	tokens := new(MockTokenService)
	router, _ := newStreamRouter(t, streams, tokens)

	body, _ := json.Marshal(gin.H{"is_live": true})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/streams/live", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	streams.AssertNotCalled(t, "SetLive", mock.Anything, mock.Anything, mock.Anything)
}
