package http

import (
	"context"
	"io"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Me(ctx context.Context, id domain.UserID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) Create(ctx context.Context, username, email, password string) (*domain.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) Deactivate(ctx context.Context, id domain.UserID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueJoinToken(ctx context.Context, requesterID, channelID domain.UserID) (string, error) {
	args := m.Called(ctx, requesterID, channelID)
	return args.String(0), args.Error(1)
}

type MockStreamService struct {
	mock.Mock
}

func (m *MockStreamService) FindAll(ctx context.Context, filters domain.StreamFilters) ([]*domain.Stream, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Stream), args.Error(1)
}

func (m *MockStreamService) FindRandom(ctx context.Context) ([]*domain.Stream, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Stream), args.Error(1)
}

func (m *MockStreamService) FindByUserID(ctx context.Context, userID domain.UserID) (*domain.Stream, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}

func (m *MockStreamService) ChangeInfo(ctx context.Context, userID domain.UserID, title, categoryID string) error {
	args := m.Called(ctx, userID, title, categoryID)
	return args.Error(0)
}

func (m *MockStreamService) ChangeThumbnail(ctx context.Context, userID domain.UserID, filename string, data io.Reader) error {
	args := m.Called(ctx, userID, filename, data)
	return args.Error(0)
}

func (m *MockStreamService) RemoveThumbnail(ctx context.Context, userID domain.UserID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStreamService) SetLive(ctx context.Context, userID domain.UserID, live bool) error {
	args := m.Called(ctx, userID, live)
	return args.Error(0)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) SendMessage(ctx context.Context, streamID domain.StreamID, userID domain.UserID, text string) (*domain.ChatMessage, error) {
	args := m.Called(ctx, streamID, userID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}

func (m *MockChatService) FindMessagesByStream(ctx context.Context, streamID domain.StreamID) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, streamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

func (m *MockChatService) ChangeSettings(ctx context.Context, userID domain.UserID, settings domain.ChatSettings) error {
	args := m.Called(ctx, userID, settings)
	return args.Error(0)
}
