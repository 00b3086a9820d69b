package ports

import (
	"context"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type StreamRepository interface {
	Create(ctx context.Context, stream *domain.Stream) error
	GetByID(ctx context.Context, id domain.StreamID) (*domain.Stream, error)
	GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Stream, error)
	Update(ctx context.Context, stream *domain.Stream) error
	List(ctx context.Context, filters domain.StreamFilters) ([]*domain.Stream, error)
	Count(ctx context.Context) (int, error)
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) error
	FindByStream(ctx context.Context, streamID domain.StreamID) ([]*domain.ChatMessage, error)
}
