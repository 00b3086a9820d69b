package http

import (
	"net/http"
	"strings"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/services"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/chatws"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/middleware"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/monitoring"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/errors"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat             ports.ChatService
	authService      services.AuthService
	hub              *chatws.Hub
	collector        *monitoring.PrometheusCollector
	maxMessageLength int
}

func NewChatHandler(
	chat ports.ChatService,
	authService services.AuthService,
	hub *chatws.Hub,
	collector *monitoring.PrometheusCollector,
	maxMessageLength int,
) *ChatHandler {
	return &ChatHandler{
		chat:             chat,
		authService:      authService,
		hub:              hub,
		collector:        collector,
		maxMessageLength: maxMessageLength,
	}
}

func (h *ChatHandler) SetupRoutes(router *gin.Engine) {
	streams := router.Group("/api/v1/streams")
	{
		streams.GET("/:id/messages", h.History)
		streams.GET("/:id/chat", h.Connect)
		streams.POST("/:id/messages", middleware.AuthMiddleware(h.authService), h.SendMessage)
	}

	chat := router.Group("/api/v1/chat")
	chat.Use(middleware.AuthMiddleware(h.authService))
	{
		chat.PATCH("/settings", h.ChangeSettings)
	}
}

func (h *ChatHandler) History(c *gin.Context) {
	streamID := domain.StreamID(c.Param("id"))
	if err := validation.ValidateID(string(streamID)); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	messages, err := h.chat.FindMessagesByStream(c.Request.Context(), streamID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": toMessageResponses(messages)})
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	streamID := domain.StreamID(c.Param("id"))
	if err := validation.ValidateID(string(streamID)); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	var req SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if err := validation.ValidateMessageText(req.Text, h.maxMessageLength); err != nil {
		h.collector.RecordChatMessageRejected("invalid_text")
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), streamID, userID, req.Text)
	if err != nil {
		switch err {
		case domain.ErrStreamNotFound:
			h.collector.RecordChatMessageRejected("stream_not_found")
		case domain.ErrStreamNotLive:
			h.collector.RecordChatMessageRejected("stream_not_live")
		}
		handleServiceError(c, err)
		return
	}

	h.collector.RecordChatMessageSent()

	c.JSON(http.StatusCreated, toMessageResponse(message))
}

// Connect upgrades the request to a websocket delivering the stream's
// chat in real time. The socket is read-only for the viewer.
func (h *ChatHandler) Connect(c *gin.Context) {
	streamID := domain.StreamID(c.Param("id"))
	if err := validation.ValidateID(string(streamID)); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	if _, err := h.chat.FindMessagesByStream(c.Request.Context(), streamID); err != nil {
		handleServiceError(c, err)
		return
	}

	h.collector.RecordChatViewerConnected(streamID)
	defer h.collector.RecordChatViewerDisconnected(streamID)

	h.hub.HandleWebSocket(streamID, c.Writer, c.Request)
}

type ChangeChatSettingsRequest struct {
	IsChatEnabled              *bool `json:"is_chat_enabled" binding:"required"`
	IsChatFollowersOnly        *bool `json:"is_chat_followers_only" binding:"required"`
	IsChatPremiumFollowersOnly *bool `json:"is_chat_premium_followers_only" binding:"required"`
}

func (h *ChatHandler) ChangeSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	var req ChangeChatSettingsRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	settings := domain.ChatSettings{
		IsChatEnabled:              *req.IsChatEnabled,
		IsChatFollowersOnly:        *req.IsChatFollowersOnly,
		IsChatPremiumFollowersOnly: *req.IsChatPremiumFollowersOnly,
	}

	if err := h.chat.ChangeSettings(c.Request.Context(), userID, settings); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
