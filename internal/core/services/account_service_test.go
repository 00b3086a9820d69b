package services

import (
	"context"
	"testing"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountService_Create(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	users.On("GetByUsername", context.Background(), "alice").Return(nil, domain.ErrUserNotFound)
	users.On("GetByEmail", context.Background(), "alice@example.com").Return(nil, domain.ErrUserNotFound)
	users.On("Create", context.Background(), mock.AnythingOfType("*domain.User")).Return(nil)
	streams.On("Create", context.Background(), mock.MatchedBy(func(s *domain.Stream) bool {
		return s.Title == "alice's stream" && s.ChatSettings.IsChatEnabled && s.StreamKey != ""
	})).Return(nil)

	user, err := service.Create(context.Background(), "Alice", "Alice@Example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.DisplayName)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))
	streams.AssertExpectations(t)
}

func TestAccountService_Create_UsernameTaken(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	existing := &domain.User{ID: "u1", Username: "alice"}
	users.On("GetByUsername", context.Background(), "alice").Return(existing, nil)

	_, err := service.Create(context.Background(), "alice", "other@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Create_EmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	existing := &domain.User{ID: "u1", Email: "alice@example.com"}
	users.On("GetByUsername", context.Background(), "newname").Return(nil, domain.ErrUserNotFound)
	users.On("GetByEmail", context.Background(), "alice@example.com").Return(existing, nil)

	_, err := service.Create(context.Background(), "newname", "alice@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Login(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{ID: "u1", Username: "alice", Password: string(hash)}
	users.On("GetByUsername", context.Background(), "alice").Return(user, nil)

	got, err := service.Login(context.Background(), "Alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), got.ID)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{ID: "u1", Username: "alice", Password: string(hash)}
	users.On("GetByUsername", context.Background(), "alice").Return(user, nil)

	_, err = service.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	users.On("GetByUsername", context.Background(), "ghost").Return(nil, domain.ErrUserNotFound)

	_, err := service.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_Login_Deactivated(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	user := &domain.User{ID: "u1", Username: "alice", Password: string(hash), IsDeactivated: true, DeactivatedAt: &now}
	users.On("GetByUsername", context.Background(), "alice").Return(user, nil)

	_, err = service.Login(context.Background(), "alice", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_Deactivate(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	service := NewAccountService(users, streams)

	user := &domain.User{ID: "u1", Username: "alice"}
	users.On("GetByID", context.Background(), domain.UserID("u1")).Return(user, nil)
	users.On("Update", context.Background(), mock.MatchedBy(func(u *domain.User) bool {
		return u.IsDeactivated && u.DeactivatedAt != nil
	})).Return(nil)

	err := service.Deactivate(context.Background(), "u1")
	require.NoError(t, err)
	users.AssertExpectations(t)
}
