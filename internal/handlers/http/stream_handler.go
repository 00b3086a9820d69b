package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/services"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/middleware"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/monitoring"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/errors"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/utils"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	streams     ports.StreamService
	tokens      ports.TokenService
	authService services.AuthService
	collector   *monitoring.PrometheusCollector
}

func NewStreamHandler(
	streams ports.StreamService,
	tokens ports.TokenService,
	authService services.AuthService,
	collector *monitoring.PrometheusCollector,
) *StreamHandler {
	return &StreamHandler{
		streams:     streams,
		tokens:      tokens,
		authService: authService,
		collector:   collector,
	}
}

func (h *StreamHandler) SetupRoutes(router *gin.Engine) {
	public := router.Group("/api/v1/streams")
	{
		public.GET("", h.List)
		public.GET("/random", h.Random)
		public.POST("/token", middleware.OptionalAuthMiddleware(h.authService), h.IssueJoinToken)
	}

	authed := router.Group("/api/v1/streams")
	authed.Use(middleware.AuthMiddleware(h.authService))
	{
		authed.GET("/me", h.Mine)
		authed.PATCH("/info", h.ChangeInfo)
		authed.POST("/thumbnail", h.ChangeThumbnail)
		authed.DELETE("/thumbnail", h.RemoveThumbnail)
		authed.POST("/live", h.SetLive)
	}
}

func (h *StreamHandler) List(c *gin.Context) {
	take, _ := strconv.Atoi(c.DefaultQuery("take", "0"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	search := strings.TrimSpace(c.Query("search"))

	streams, err := h.streams.FindAll(c.Request.Context(), domain.StreamFilters{
		Take:       take,
		Skip:       skip,
		SearchTerm: search,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"streams": toStreamResponses(streams)})
}

func (h *StreamHandler) Random(c *gin.Context) {
	streams, err := h.streams.FindRandom(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"streams": toStreamResponses(streams)})
}

type JoinTokenRequest struct {
	ChannelID string `json:"channel_id" binding:"required,max=64"`
}

// IssueJoinToken hands out a media join token for the requested channel.
// Anonymous viewers are allowed; they get a throwaway identity.
func (h *StreamHandler) IssueJoinToken(c *gin.Context) {
	var req JoinTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	if err := validation.ValidateID(req.ChannelID); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	requesterID, ok := currentUserID(c)
	if !ok {
		requesterID = domain.UserID(utils.NewUserID())
	}

	token, err := h.tokens.IssueJoinToken(c.Request.Context(), requesterID, domain.UserID(req.ChannelID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.collector.RecordJoinTokenIssued()

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Mine returns the caller's own stream including ingest credentials.
func (h *StreamHandler) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	stream, err := h.streams.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, OwnerStreamResponse{
		StreamResponse: toStreamResponse(stream),
		ServerURL:      stream.ServerURL,
		StreamKey:      stream.StreamKey,
	})
}

type ChangeStreamInfoRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	CategoryID string `json:"category_id" binding:"max=64"`
}

func (h *StreamHandler) ChangeInfo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	var req ChangeStreamInfoRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateStreamTitle(req.Title); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	if err := h.streams.ChangeInfo(c.Request.Context(), userID, req.Title, req.CategoryID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *StreamHandler) ChangeThumbnail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.NewInvalidInputError("file is required"))
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.Error(errors.NewInvalidInputError("file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.NewInvalidInputError("failed to read file"))
		return
	}
	defer file.Close()

	if err := h.streams.ChangeThumbnail(c.Request.Context(), userID, fileHeader.Filename, file); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *StreamHandler) RemoveThumbnail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.streams.RemoveThumbnail(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

type SetLiveRequest struct {
	IsLive *bool `json:"is_live" binding:"required"`
}

func (h *StreamHandler) SetLive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	var req SetLiveRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	if err := h.streams.SetLive(c.Request.Context(), userID, *req.IsLive); err != nil {
		handleServiceError(c, err)
		return
	}

	h.collector.RecordStreamLiveChange(*req.IsLive)

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
