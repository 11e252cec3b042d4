package handler

import (
	"errors"
	"net/http"

	"pitchpay/internal/middleware"
	"pitchpay/internal/model"
	"pitchpay/internal/service"
	apperrors "pitchpay/pkg/app_errors"
	"pitchpay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.ListPublic)
		router.GET("events/:uuid", h.GetDetail)
		router.POST("events", middleware.RequireAuth(), h.Create)
		router.GET("organizer/events", middleware.RequireAuth(), h.ListMine)
	}
}

func (h *EventHandler) ListPublic(c *gin.Context) {
	events, err := h.service.ListPublic(c)
	if err != nil {
		h.handleError(c, err, "ListPublic")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetDetail(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}

	managementView := c.Query("view") == "management"
	user := middleware.CurrentUser(c)
	if managementView && user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	detail, err := h.service.GetDetail(c, eventID, managementView)
	if err != nil {
		h.handleError(c, err, "GetDetail")
		return
	}

	if managementView && detail.Event.OrganizerID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, middleware.CurrentUser(c), req)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) ListMine(c *gin.Context) {
	events, err := h.service.ListByOrganizer(c, middleware.CurrentUser(c))
	if err != nil {
		h.handleError(c, err, "ListMine")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "Operation not permitted"})
	case errors.Is(err, apperrors.ErrOnboardingIncomplete):
		log.Warn("Onboarding incomplete")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Complete payout onboarding before creating paid events"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
