package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestIdentityService_Resolve_RegisteredUser(t *testing.T) {
	users := new(MockUserRepository)
	service := NewIdentityService(users)

	user := &domain.User{
		ID:       domain.UserID("user-1"),
		Username: "alice",
	}
	users.On("GetByID", context.Background(), domain.UserID("user-1")).Return(user, nil)

	identity := service.Resolve(context.Background(), "user-1")

	assert.Equal(t, domain.UserID("user-1"), identity.ID)
	assert.Equal(t, "alice", identity.DisplayName)
	assert.True(t, identity.IsRegistered)
	users.AssertExpectations(t)
}

func TestIdentityService_Resolve_UnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	service := NewIdentityService(users)

	users.On("GetByID", context.Background(), domain.UserID("ghost")).Return(nil, domain.ErrUserNotFound)

	identity := service.Resolve(context.Background(), "ghost")

	assert.Equal(t, domain.UserID("ghost"), identity.ID)
	assert.False(t, identity.IsRegistered)
	assert.True(t, strings.HasPrefix(identity.DisplayName, "Viewer-"))
	users.AssertExpectations(t)
}

func TestIdentityService_Resolve_DeactivatedUser(t *testing.T) {
	users := new(MockUserRepository)
	service := NewIdentityService(users)

	now := time.Now()
	user := &domain.User{
		ID:            domain.UserID("user-2"),
		Username:      "bob",
		IsDeactivated: true,
		DeactivatedAt: &now,
	}
	users.On("GetByID", context.Background(), domain.UserID("user-2")).Return(user, nil)

	identity := service.Resolve(context.Background(), "user-2")

	assert.False(t, identity.IsRegistered)
	assert.True(t, strings.HasPrefix(identity.DisplayName, "Viewer-"))
}
