package handler

import (
	"errors"
	"net/http"
	"time"

	"pitchpay/internal/middleware"
	"pitchpay/internal/model"
	"pitchpay/internal/payment"
	"pitchpay/internal/queue"
	"pitchpay/internal/service"
	apperrors "pitchpay/pkg/app_errors"
	"pitchpay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	service   service.CheckoutService
	processor payment.Processor
	queue     queue.ConfirmationQueue
}

func NewCheckoutHandler(service service.CheckoutService, processor payment.Processor, queue queue.ConfirmationQueue) *CheckoutHandler {
	return &CheckoutHandler{
		service:   service,
		processor: processor,
		queue:     queue,
	}
}

func (h *CheckoutHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("checkout", middleware.RequireAuth(), h.InitiateCheckout)
		router.POST("webhook", h.Webhook)
	}
}

// InitiateCheckoutRequest starts an online registration for one spot.
type InitiateCheckoutRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
	Name    string    `json:"name"`
	Email   *string   `json:"email"`
}

func (h *CheckoutHandler) InitiateCheckout(c *gin.Context) {
	var req InitiateCheckoutRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	session, err := h.service.InitiateCheckout(c, middleware.CurrentUser(c), req.EventID, service.InitiateCheckoutRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err, "InitiateCheckout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":   session.ID,
		"checkout_url": session.URL,
	})
}

// Webhook receives payment-completed notifications. Only the signature is
// checked here; the verified confirmation goes onto the queue and the ledger
// write happens in the worker, keeping the processor's delivery timeout out
// of the database path.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	confirmation, err := h.processor.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.handleError(c, err, "Webhook")
		return
	}
	if confirmation == nil {
		// Authentic notification of a type the platform ignores.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	msg := &model.PaymentConfirmation{
		EventID:        confirmation.EventID,
		PaymentRef:     confirmation.SessionRef,
		ReservationRef: confirmation.ReservationRef,
		PayerName:      confirmation.PayerName,
		PayerEmail:     confirmation.PayerEmail,
		UserID:         confirmation.UserID,
		Amount:         confirmation.Amount,
		ReceivedAt:     time.Now().UTC(),
	}

	if err := h.queue.PublishConfirmation(c, msg); err != nil {
		// A 500 makes the processor redeliver later; nothing is lost.
		h.handleError(c, err, "Webhook")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *CheckoutHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		log.Warn("Event is full")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event is full"})
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		log.Warn("Already registered")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already registered for this event"})
	case errors.Is(err, apperrors.ErrOnboardingIncomplete):
		log.Warn("Onboarding incomplete")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Organizer has not completed payout onboarding"})
	case errors.Is(err, apperrors.ErrSignatureVerification):
		log.Warn("Signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
