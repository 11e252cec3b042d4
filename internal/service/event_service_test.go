package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pitchpay/internal/model"
	"pitchpay/internal/service"
	apperrors "pitchpay/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func onboardedAccount(organizerID int) *model.PayoutAccount {
	return &model.PayoutAccount{
		ID:              1,
		OrganizerID:     organizerID,
		StripeAccountID: "acct_test",
		ChargesEnabled:  true,
		PayoutsEnabled:  true,
	}
}

func validCreateRequest() model.CreateEventRequest {
	start := time.Now().Add(48 * time.Hour)
	return model.CreateEventRequest{
		Name:       "Friday Futsal",
		StartTime:  start,
		EndTime:    start.Add(90 * time.Minute),
		City:       "Warsaw",
		TotalCost:  20000,
		MinPlayers: 6,
		MaxPlayers: 10,
		FieldType:  model.FieldTypeFutsal,
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	organizer := &model.User{ID: 7, Role: model.RoleUser, CanCreateEvents: true}

	t.Run("Success", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		payoutRepo.On("FindByOrganizer", ctx, organizer.ID).Return(onboardedAccount(organizer.ID), nil).Once()
		eventRepo.On("Create", ctx, mock.AnythingOfType("*model.Event")).
			Return(func(ctx context.Context, event *model.Event) *model.Event { return event }, nil).Once()

		event, err := eventService.Create(ctx, organizer, validCreateRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(2000), event.PricePerPlayer)
		assert.Equal(t, organizer.ID, event.OrganizerID)
		assert.NotEqual(t, uuid.Nil, event.EventID)

		eventRepo.AssertExpectations(t)
		payoutRepo.AssertExpectations(t)
	})

	t.Run("Success - rounded price covers total cost", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		payoutRepo.On("FindByOrganizer", ctx, organizer.ID).Return(onboardedAccount(organizer.ID), nil).Once()
		eventRepo.On("Create", ctx, mock.AnythingOfType("*model.Event")).
			Return(func(ctx context.Context, event *model.Event) *model.Event { return event }, nil).Once()

		req := validCreateRequest()
		req.TotalCost = 10000
		req.MaxPlayers = 7

		event, err := eventService.Create(ctx, organizer, req)

		require.NoError(t, err)
		assert.Equal(t, int64(1429), event.PricePerPlayer)
	})

	t.Run("Failed - ErrForbidden without capability", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		plain := &model.User{ID: 8, Role: model.RoleUser}
		_, err := eventService.Create(ctx, plain, validCreateRequest())

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		payoutRepo.AssertNotCalled(t, "FindByOrganizer", mock.Anything, mock.Anything)
	})

	t.Run("Failed - ErrOnboardingIncomplete", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		account := onboardedAccount(organizer.ID)
		account.PayoutsEnabled = false
		payoutRepo.On("FindByOrganizer", ctx, organizer.ID).Return(account, nil).Once()

		_, err := eventService.Create(ctx, organizer, validCreateRequest())

		assert.ErrorIs(t, err, apperrors.ErrOnboardingIncomplete)
		eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failed - ErrOnboardingIncomplete without account", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		payoutRepo.On("FindByOrganizer", ctx, organizer.ID).Return(nil, apperrors.ErrPayoutAccountNotFound).Once()

		_, err := eventService.Create(ctx, organizer, validCreateRequest())

		assert.ErrorIs(t, err, apperrors.ErrOnboardingIncomplete)
	})

	t.Run("Failed - payout store error is not an onboarding problem", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		boom := errors.New("connection reset")
		payoutRepo.On("FindByOrganizer", ctx, organizer.ID).Return(nil, boom).Once()

		_, err := eventService.Create(ctx, organizer, validCreateRequest())

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, apperrors.ErrOnboardingIncomplete)
		eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failed - ErrInvalidInput", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		cases := map[string]func(*model.CreateEventRequest){
			"zero total cost":       func(r *model.CreateEventRequest) { r.TotalCost = 0 },
			"min players below two": func(r *model.CreateEventRequest) { r.MinPlayers = 1 },
			"max below min":         func(r *model.CreateEventRequest) { r.MaxPlayers = r.MinPlayers - 1 },
			"end before start":      func(r *model.CreateEventRequest) { r.EndTime = r.StartTime.Add(-time.Hour) },
			"unknown field type":    func(r *model.CreateEventRequest) { r.FieldType = "parquet" },
		}

		for name, mutate := range cases {
			req := validCreateRequest()
			mutate(&req)
			_, err := eventService.Create(ctx, organizer, req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, name)
		}
	})
}

func TestEventService_GetDetail(t *testing.T) {
	ctx := context.Background()

	event := &model.Event{
		ID:             3,
		EventID:        uuid.New(),
		Name:           "Friday Futsal",
		TotalCost:      20000,
		MaxPlayers:     10,
		PricePerPlayer: 2000,
	}

	t.Run("Success - derived figures from succeeded rows only", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		participants := []*model.Participant{
			{ID: 1, EventID: 3, Status: model.PaymentStatusSucceeded},
			{ID: 2, EventID: 3, Status: model.PaymentStatusSucceeded},
			{ID: 3, EventID: 3, Status: model.PaymentStatusSucceeded},
			{ID: 4, EventID: 3, Status: model.PaymentStatusPending},
			{ID: 5, EventID: 3, Status: model.PaymentStatusFailed},
		}

		eventRepo.On("FindByEventID", ctx, event.EventID).Return(event, nil).Once()
		participantRepo.On("ListByEvent", ctx, event.ID, true).Return(participants, nil).Once()

		detail, err := eventService.GetDetail(ctx, event.EventID, false)

		require.NoError(t, err)
		assert.Equal(t, 7, detail.AvailableSpots)
		assert.Equal(t, int64(6000), detail.CollectedAmount)
		assert.InDelta(t, 30.0, detail.FundingPercentage, 0.001)
		assert.Len(t, detail.Participants, 5)
	})

	t.Run("Success - management view lists newest first", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		eventRepo.On("FindByEventID", ctx, event.EventID).Return(event, nil).Once()
		participantRepo.On("ListByEvent", ctx, event.ID, false).Return([]*model.Participant{}, nil).Once()

		_, err := eventService.GetDetail(ctx, event.EventID, true)

		require.NoError(t, err)
		participantRepo.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		eventRepo := new(EventRepositoryMock)
		participantRepo := new(ParticipantRepositoryMock)
		payoutRepo := new(PayoutAccountRepositoryMock)
		eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)

		unknown := uuid.New()
		eventRepo.On("FindByEventID", ctx, unknown).Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := eventService.GetDetail(ctx, unknown, false)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}
