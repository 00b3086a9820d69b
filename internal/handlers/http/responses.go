package http

import (
	"errors"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/services"
	apperrors "github.com/IgorPchelyakov/streamflow-backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserResponse is the public representation of a user. The password hash
// never leaves the service layer.
type UserResponse struct {
	ID          domain.UserID `json:"id"`
	Username    string        `json:"username"`
	Email       string        `json:"email,omitempty"`
	DisplayName string        `json:"display_name"`
	Avatar      string        `json:"avatar,omitempty"`
	Bio         string        `json:"bio,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar,
		Bio:         user.Bio,
		CreatedAt:   user.CreatedAt,
	}
}

// StreamResponse is the public representation of a stream. The stream key
// is only included for the owner via OwnerStreamResponse.
type StreamResponse struct {
	ID           domain.StreamID      `json:"id"`
	UserID       domain.UserID        `json:"user_id"`
	Title        string               `json:"title"`
	CategoryID   string               `json:"category_id,omitempty"`
	ThumbnailURL string               `json:"thumbnail_url,omitempty"`
	IsLive       bool                 `json:"is_live"`
	ChatSettings ChatSettingsResponse `json:"chat_settings"`
	CreatedAt    time.Time            `json:"created_at"`
}

type ChatSettingsResponse struct {
	IsChatEnabled              bool `json:"is_chat_enabled"`
	IsChatFollowersOnly        bool `json:"is_chat_followers_only"`
	IsChatPremiumFollowersOnly bool `json:"is_chat_premium_followers_only"`
}

type OwnerStreamResponse struct {
	StreamResponse
	ServerURL string `json:"server_url,omitempty"`
	StreamKey string `json:"stream_key,omitempty"`
}

func toStreamResponse(stream *domain.Stream) StreamResponse {
	return StreamResponse{
		ID:           stream.ID,
		UserID:       stream.UserID,
		Title:        stream.Title,
		CategoryID:   stream.CategoryID,
		ThumbnailURL: stream.ThumbnailURL,
		IsLive:       stream.IsLive,
		ChatSettings: ChatSettingsResponse{
			IsChatEnabled:              stream.ChatSettings.IsChatEnabled,
			IsChatFollowersOnly:        stream.ChatSettings.IsChatFollowersOnly,
			IsChatPremiumFollowersOnly: stream.ChatSettings.IsChatPremiumFollowersOnly,
		},
		CreatedAt: stream.CreatedAt,
	}
}

func toStreamResponses(streams []*domain.Stream) []StreamResponse {
	result := make([]StreamResponse, 0, len(streams))
	for _, stream := range streams {
		result = append(result, toStreamResponse(stream))
	}
	return result
}

type MessageResponse struct {
	ID        domain.MessageID `json:"id"`
	StreamID  domain.StreamID  `json:"stream_id"`
	UserID    domain.UserID    `json:"user_id"`
	Username  string           `json:"username"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
}

func toMessageResponse(message *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		StreamID:  message.StreamID,
		UserID:    message.UserID,
		Username:  message.Username,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}
}

func toMessageResponses(messages []*domain.ChatMessage) []MessageResponse {
	result := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		result = append(result, toMessageResponse(message))
	}
	return result
}

// handleServiceError maps domain errors onto application errors and
// pushes them to the error handler middleware.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.Error(apperrors.NewNotFoundError("user"))
	case errors.Is(err, domain.ErrChannelNotFound):
		c.Error(apperrors.NewNotFoundError("channel"))
	case errors.Is(err, domain.ErrStreamNotFound):
		c.Error(apperrors.NewNotFoundError("stream"))
	case errors.Is(err, domain.ErrMessageNotFound):
		c.Error(apperrors.NewNotFoundError("message"))
	case errors.Is(err, domain.ErrStreamNotLive):
		c.Error(apperrors.NewInvalidStateError("stream is not live"))
	case errors.Is(err, domain.ErrUsernameTaken):
		c.Error(apperrors.NewConflictError("username is already taken"))
	case errors.Is(err, domain.ErrEmailTaken):
		c.Error(apperrors.NewConflictError("email is already taken"))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Error(apperrors.NewUnauthorizedError("invalid credentials"))
	default:
		c.Error(err)
	}
}

// currentUserID returns the authenticated user id set by the auth
// middleware; the boolean reports whether the caller is authenticated.
func currentUserID(c *gin.Context) (domain.UserID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	userID, ok := value.(domain.UserID)
	return userID, ok
}
