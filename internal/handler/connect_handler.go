package handler

import (
	"errors"
	"net/http"

	"pitchpay/internal/middleware"
	"pitchpay/internal/service"
	apperrors "pitchpay/pkg/app_errors"
	"pitchpay/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConnectHandler struct {
	service service.ConnectService
}

func NewConnectHandler(service service.ConnectService) *ConnectHandler {
	return &ConnectHandler{service: service}
}

func (h *ConnectHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("connect/onboarding", middleware.RequireAuth(), h.InitiateOnboarding)
		router.GET("connect/status", middleware.RequireAuth(), h.Status)
	}
}

func (h *ConnectHandler) InitiateOnboarding(c *gin.Context) {
	url, err := h.service.InitiateOnboarding(c, middleware.CurrentUser(c))
	if err != nil {
		h.handleError(c, err, "InitiateOnboarding")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"onboarding_url": url})
}

func (h *ConnectHandler) Status(c *gin.Context) {
	account, err := h.service.RefreshStatus(c, middleware.CurrentUser(c))
	if err != nil {
		h.handleError(c, err, "Status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"charges_enabled":     account.ChargesEnabled,
		"payouts_enabled":     account.PayoutsEnabled,
		"onboarding_complete": account.OnboardingComplete(),
	})
}

func (h *ConnectHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrOnboardingIncomplete):
		log.Warn("Onboarding not started")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start payout onboarding first"})
	case errors.Is(err, apperrors.ErrUpstreamService):
		log.Error("Payment processor unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processor unavailable"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
