package http

import (
	"net/http"
	"strings"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/services"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/middleware"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/errors"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20 // 10 MiB

type ProfileHandler struct {
	profiles    ports.ProfileService
	authService services.AuthService
}

func NewProfileHandler(profiles ports.ProfileService, authService services.AuthService) *ProfileHandler {
	return &ProfileHandler{
		profiles:    profiles,
		authService: authService,
	}
}

func (h *ProfileHandler) SetupRoutes(router *gin.Engine) {
	profile := router.Group("/api/v1/profile")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.PATCH("", h.ChangeInfo)
		profile.POST("/avatar", h.ChangeAvatar)
		profile.DELETE("/avatar", h.RemoveAvatar)
	}
}

type ChangeProfileRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Bio         string `json:"bio" binding:"max=500"`
}

func (h *ProfileHandler) ChangeInfo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	var req ChangeProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateUsername(req.Username); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidateBio(req.Bio); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	if err := h.profiles.ChangeInfo(c.Request.Context(), userID, req.Username, req.DisplayName, req.Bio); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *ProfileHandler) ChangeAvatar(c *gin.Context) {
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

	if err := h.profiles.ChangeAvatar(c.Request.Context(), userID, fileHeader.Filename, file); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *ProfileHandler) RemoveAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.profiles.RemoveAvatar(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
