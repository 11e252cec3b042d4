package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pitchpay/internal/handler"
	"pitchpay/internal/middleware"
	"pitchpay/internal/model"
	"pitchpay/internal/payment"
	"pitchpay/internal/queue"
	"pitchpay/internal/service"
	apperrors "pitchpay/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type CheckoutServiceMock struct {
	mock.Mock
}

func (m *CheckoutServiceMock) InitiateCheckout(ctx context.Context, caller *model.User, eventID uuid.UUID, req service.InitiateCheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, caller, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *CheckoutServiceMock) HandleConfirmation(ctx context.Context, confirmation *model.PaymentConfirmation) error {
	args := m.Called(ctx, confirmation)
	return args.Error(0)
}

type ProcessorMock struct {
	mock.Mock
}

func (m *ProcessorMock) CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *ProcessorMock) VerifyWebhook(payload []byte, signature string) (*payment.Confirmation, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Confirmation), args.Error(1)
}

func (m *ProcessorMock) CreateAccount(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *ProcessorMock) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	args := m.Called(ctx, accountID, refreshURL, returnURL)
	return args.String(0), args.Error(1)
}

func (m *ProcessorMock) GetAccountStatus(ctx context.Context, accountID string) (*payment.AccountStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.AccountStatus), args.Error(1)
}

func setupCheckoutRouter(checkout *CheckoutServiceMock, processor *ProcessorMock, q queue.ConfirmationQueue, users map[string]*model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth(&UserRepositoryStub{users: users}))
	handler.NewCheckoutHandler(checkout, processor, q).RegisterRoutes(router)
	return router
}

func TestCheckoutHandler_Webhook(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)

	t.Run("Success - verified confirmation is enqueued", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		checkout := new(CheckoutServiceMock)
		processor := new(ProcessorMock)
		q := queue.NewConfirmationQueue(4)
		router := setupCheckoutRouter(checkout, processor, q, nil)

		confirmation := &payment.Confirmation{
			SessionRef:     "cs_test_1",
			ReservationRef: "res-1",
			EventID:        3,
			Amount:         2000,
			PayerName:      "Ola",
		}
		processor.On("VerifyWebhook", payload, "sig-header").Return(confirmation, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", "sig-header")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		msgs, err := q.SubscribeConfirmations(ctx)
		require.NoError(t, err)
		select {
		case msg := <-msgs:
			assert.Equal(t, "cs_test_1", msg.Data.PaymentRef)
			assert.Equal(t, "res-1", msg.Data.ReservationRef)
			assert.Equal(t, 3, msg.Data.EventID)
			msg.Ack()
		case <-time.After(time.Second):
			t.Fatal("confirmation was not enqueued")
		}
		processor.AssertExpectations(t)
	})

	t.Run("Success - ignored notification type", func(t *testing.T) {
		checkout := new(CheckoutServiceMock)
		processor := new(ProcessorMock)
		q := queue.NewConfirmationQueue(4)
		router := setupCheckoutRouter(checkout, processor, q, nil)

		processor.On("VerifyWebhook", payload, "sig-header").Return(nil, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", "sig-header")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - bad signature maps to 400", func(t *testing.T) {
		checkout := new(CheckoutServiceMock)
		processor := new(ProcessorMock)
		q := queue.NewConfirmationQueue(4)
		router := setupCheckoutRouter(checkout, processor, q, nil)

		processor.On("VerifyWebhook", payload, "bad-sig").Return(nil, apperrors.ErrSignatureVerification).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", "bad-sig")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutHandler_InitiateCheckout(t *testing.T) {
	payer := &model.User{ID: 42, Nickname: "ola", Role: model.RoleUser}
	users := map[string]*model.User{"payer-token": payer}
	eventID := uuid.New()
	body := []byte(`{"event_id":"` + eventID.String() + `","name":"Ola"}`)

	t.Run("Success", func(t *testing.T) {
		checkout := new(CheckoutServiceMock)
		processor := new(ProcessorMock)
		q := queue.NewConfirmationQueue(4)
		router := setupCheckoutRouter(checkout, processor, q, users)

		session := &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}
		checkout.On("InitiateCheckout", mock.Anything, payer, eventID, mock.AnythingOfType("service.InitiateCheckoutRequest")).
			Return(session, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer payer-token")
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "cs_test_1")
	})

	t.Run("Failed - event is full", func(t *testing.T) {
		checkout := new(CheckoutServiceMock)
		processor := new(ProcessorMock)
		q := queue.NewConfirmationQueue(4)
		router := setupCheckoutRouter(checkout, processor, q, users)

		checkout.On("InitiateCheckout", mock.Anything, payer, eventID, mock.AnythingOfType("service.InitiateCheckoutRequest")).
			Return(nil, apperrors.ErrCapacityExceeded).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer payer-token")
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Event is full")
	})

	t.Run("Failed - anonymous request", func(t *testing.T) {
		checkout := new(CheckoutServiceMock)
		processor := new(ProcessorMock)
		q := queue.NewConfirmationQueue(4)
		router := setupCheckoutRouter(checkout, processor, q, users)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		checkout.AssertNotCalled(t, "InitiateCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
