package services

import (
	"testing"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_GenerateAndValidateToken(t *testing.T) {
	service := NewAuthService("test-secret", time.Hour, 24*time.Hour)

	token, err := service.GenerateToken(domain.UserID("u1"), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", time.Hour, 24*time.Hour)
	verifier := NewAuthService("secret-b", time.Hour, 24*time.Hour)

	token, err := issuer.GenerateToken(domain.UserID("u1"), "alice")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	service := NewAuthService("test-secret", -time.Minute, 24*time.Hour)

	token, err := service.GenerateToken(domain.UserID("u1"), "alice")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	service := NewAuthService("test-secret", time.Hour, 24*time.Hour)

	_, err := service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshToken(t *testing.T) {
	service := NewAuthService("test-secret", time.Hour, 24*time.Hour)

	token, err := service.GenerateRefreshToken(domain.UserID("u1"))
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), claims.UserID)
	assert.Empty(t, claims.Username)
}

func TestAuthService_AccessTokenRejectedOnRefresh(t *testing.T) {
	service := NewAuthService("test-secret", time.Hour, 24*time.Hour)

	accessToken, err := service.GenerateToken(domain.UserID("u1"), "alice")
	require.NoError(t, err)

	_, err = service.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshTokenRejectedAsAccess(t *testing.T) {
	service := NewAuthService("test-secret", time.Hour, 24*time.Hour)

	refreshToken, err := service.GenerateRefreshToken(domain.UserID("u1"))
	require.NoError(t, err)

	_, err = service.ValidateToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
