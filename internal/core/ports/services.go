package ports

import (
	"context"
	"io"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
)

// IdentityService resolves a candidate user id to a display identity.
// Unknown ids resolve to an anonymous viewer identity, never an error.
type IdentityService interface {
	Resolve(ctx context.Context, candidateUserID domain.UserID) domain.Identity
}

// TokenService issues capability tokens for the external media service.
// Tokens issued here are join-only; publish rights are granted elsewhere
// by an authenticated flow.
type TokenService interface {
	IssueJoinToken(ctx context.Context, requesterID domain.UserID, channelID domain.UserID) (string, error)
}

type ChatService interface {
	SendMessage(ctx context.Context, streamID domain.StreamID, userID domain.UserID, text string) (*domain.ChatMessage, error)
	FindMessagesByStream(ctx context.Context, streamID domain.StreamID) ([]*domain.ChatMessage, error)
	ChangeSettings(ctx context.Context, userID domain.UserID, settings domain.ChatSettings) error
}

type StreamService interface {
	FindAll(ctx context.Context, filters domain.StreamFilters) ([]*domain.Stream, error)
	FindRandom(ctx context.Context) ([]*domain.Stream, error)
	FindByUserID(ctx context.Context, userID domain.UserID) (*domain.Stream, error)
	ChangeInfo(ctx context.Context, userID domain.UserID, title, categoryID string) error
	ChangeThumbnail(ctx context.Context, userID domain.UserID, filename string, data io.Reader) error
	RemoveThumbnail(ctx context.Context, userID domain.UserID) error
	SetLive(ctx context.Context, userID domain.UserID, live bool) error
}

type AccountService interface {
	Me(ctx context.Context, id domain.UserID) (*domain.User, error)
	Create(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Deactivate(ctx context.Context, id domain.UserID) error
}

type ProfileService interface {
	ChangeInfo(ctx context.Context, userID domain.UserID, username, displayName, bio string) error
	ChangeAvatar(ctx context.Context, userID domain.UserID, filename string, data io.Reader) error
	RemoveAvatar(ctx context.Context, userID domain.UserID) error
}

// FileStorage is the object storage collaborator used by thumbnail and
// avatar flows.
type FileStorage interface {
	Save(ctx context.Context, name string, data io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}

// ChatEventPublisher fans chat messages out to connected viewers,
// potentially across instances.
type ChatEventPublisher interface {
	PublishMessage(ctx context.Context, message *domain.ChatMessage) error
}
