package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pitchpay/internal/middleware"
	"pitchpay/internal/service"
	apperrors "pitchpay/pkg/app_errors"
	"pitchpay/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("users/me", middleware.RequireAuth(), h.Me)
		router.PUT("users/me/nickname", middleware.RequireAuth(), h.ChangeNickname)
		router.PUT("users/:id/permissions", middleware.RequireAdmin(), h.SetPermissions)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// ChangeNicknameRequest carries the new nickname.
type ChangeNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

func (h *UserHandler) ChangeNickname(c *gin.Context) {
	var req ChangeNicknameRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.ChangeNickname(c, middleware.CurrentUser(c), req.Nickname)
	if err != nil {
		h.handleError(c, err, "ChangeNickname")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetPermissionsRequest toggles the event-creation capability.
type SetPermissionsRequest struct {
	CanCreateEvents bool `json:"can_create_events"`
}

func (h *UserHandler) SetPermissions(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req SetPermissionsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	err = h.service.GrantEventCreation(c, middleware.CurrentUser(c), userID, req.CanCreateEvents)
	if err != nil {
		h.handleError(c, err, "SetPermissions")
		return
	}
	c.Status(http.StatusOK)
}

func (h *UserHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var rateLimited *apperrors.RateLimitedError
	switch {
	case errors.As(err, &rateLimited):
		log.Warn("Nickname change rate limited")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          rateLimited.Error(),
			"days_remaining": rateLimited.DaysRemaining,
		})
	case errors.Is(err, apperrors.ErrNicknameTaken):
		log.Warn("Nickname taken")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nickname already taken"})
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "Operation not permitted"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
