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

type ParticipantHandler struct {
	service service.ParticipantService
}

func NewParticipantHandler(service service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

func (h *ParticipantHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events/:uuid/participants", h.List)
		router.POST("events/:uuid/participants", middleware.RequireAuth(), h.AddCash)
		router.DELETE("events/:uuid/participants/:pid", middleware.RequireAuth(), h.Remove)
	}
}

func (h *ParticipantHandler) List(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}

	// Public display reads oldest first; management views ask for newest
	// first with order=desc.
	ascending := c.Query("order") != "desc"

	participants, err := h.service.ListByEvent(c, eventID, ascending)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, participants)
}

func (h *ParticipantHandler) AddCash(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}

	var req model.AddCashParticipantRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.AddCash(c, middleware.CurrentUser(c), eventID, req)
	if err != nil {
		h.handleError(c, err, "AddCash")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ParticipantHandler) Remove(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}
	participantID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant uuid"})
		return
	}

	err = h.service.Remove(c, middleware.CurrentUser(c), eventID, participantID)
	if err != nil {
		h.handleError(c, err, "Remove")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ParticipantHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrParticipantNotFound):
		log.Warn("Participant not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		log.Warn("Event is full")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event is full"})
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
