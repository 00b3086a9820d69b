package services

import (
	"context"
	"fmt"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/utils"

	"go.uber.org/zap"
)

// StreamCacheInvalidator evicts cached stream projections after a write
// that bypasses the cached stream service. Nil disables invalidation.
type StreamCacheInvalidator interface {
	InvalidateUser(userID domain.UserID)
}

type chatService struct {
	streams     ports.StreamRepository
	messages    ports.ChatMessageRepository
	users       ports.UserRepository
	publisher   ports.ChatEventPublisher
	invalidator StreamCacheInvalidator
	logger      *zap.SugaredLogger
}

func NewChatService(
	streams ports.StreamRepository,
	messages ports.ChatMessageRepository,
	users ports.UserRepository,
	publisher ports.ChatEventPublisher,
	invalidator StreamCacheInvalidator,
	logger *zap.SugaredLogger,
) ports.ChatService {
	return &chatService{
		streams:     streams,
		messages:    messages,
		users:       users,
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger,
	}
}

// SendMessage admits a chat write only while the target stream is live.
// The liveness check and the insert are separate round trips, so a stream
// going offline in between can let one message through; acceptable at
// this scale.
//
// The isChatEnabled/followers-only settings are stored and surfaced to
// clients but not enforced here; the follow graph lives outside this
// service.
func (s *chatService) SendMessage(ctx context.Context, streamID domain.StreamID, userID domain.UserID, text string) (*domain.ChatMessage, error) {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return nil, err
	}

	if !stream.IsLive {
		return nil, domain.ErrStreamNotLive
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := &domain.ChatMessage{
		ID:        domain.MessageID(utils.NewMessageID()),
		StreamID:  stream.ID,
		UserID:    user.ID,
		Text:      text,
		CreatedAt: time.Now(),
		Username:  user.Username,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishMessage(ctx, message); err != nil {
			// Fan-out is best effort; the message is already persisted.
			s.logger.Warnw("failed to publish chat message event",
				"stream_id", message.StreamID,
				"message_id", message.ID,
				"error", err,
			)
		}
	}

	return message, nil
}

func (s *chatService) FindMessagesByStream(ctx context.Context, streamID domain.StreamID) ([]*domain.ChatMessage, error) {
	if _, err := s.streams.GetByID(ctx, streamID); err != nil {
		return nil, err
	}
	return s.messages.FindByStream(ctx, streamID)
}

// ChangeSettings updates the chat toggles on the caller's own stream.
// The toggles apply to the next admitted send, they are not states.
func (s *chatService) ChangeSettings(ctx context.Context, userID domain.UserID, settings domain.ChatSettings) error {
	stream, err := s.streams.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	stream.ChatSettings = settings
	stream.UpdatedAt = time.Now()

	if err := s.streams.Update(ctx, stream); err != nil {
		return fmt.Errorf("failed to update chat settings: %w", err)
	}

	// The write goes straight to the repository, so the cached stream
	// entry for this owner has to be evicted here.
	if s.invalidator != nil {
		s.invalidator.InvalidateUser(userID)
	}

	return nil
}
