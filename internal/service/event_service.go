package service

import (
	"context"
	"errors"
	"time"

	"pitchpay/internal/model"
	"pitchpay/internal/pricing"
	"pitchpay/internal/repository"
	apperrors "pitchpay/pkg/app_errors"

	"github.com/google/uuid"
)

type EventService interface {
	// Create validates the request, checks the organizer's capability and
	// payout onboarding, and stores the event with its price per player
	// fixed at creation time.
	Create(ctx context.Context, organizer *model.User, req model.CreateEventRequest) (*model.Event, error)
	// GetDetail recomputes available spots, collected amount and funding
	// percentage from live participant state on every call.
	GetDetail(ctx context.Context, eventID uuid.UUID, managementView bool) (*model.EventDetail, error)
	ListPublic(ctx context.Context) ([]*model.Event, error)
	ListByOrganizer(ctx context.Context, organizer *model.User) ([]*model.Event, error)
}

type EventServiceImpl struct {
	repo            repository.EventRepository
	participantRepo repository.ParticipantRepository
	payoutRepo      repository.PayoutAccountRepository
}

func NewEventService(
	repo repository.EventRepository,
	participantRepo repository.ParticipantRepository,
	payoutRepo repository.PayoutAccountRepository,
) EventService {
	return &EventServiceImpl{
		repo:            repo,
		participantRepo: participantRepo,
		payoutRepo:      payoutRepo,
	}
}

func (s *EventServiceImpl) Create(ctx context.Context, organizer *model.User, req model.CreateEventRequest) (*model.Event, error) {
	if !organizer.MayCreateEvents() {
		return nil, apperrors.ErrForbidden
	}

	if req.TotalCost <= 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if req.MinPlayers < 2 || req.MaxPlayers < req.MinPlayers {
		return nil, apperrors.ErrInvalidInput
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.ErrInvalidInput
	}
	if req.FieldType == "" {
		req.FieldType = model.FieldTypeArtificialGrass
	}
	if !req.FieldType.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	// Every event collects online payments, so the payout account must be
	// fully onboarded before the organizer can create one.
	account, err := s.payoutRepo.FindByOrganizer(ctx, organizer.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPayoutAccountNotFound) {
			return nil, apperrors.ErrOnboardingIncomplete
		}
		return nil, err
	}
	if !account.OnboardingComplete() {
		return nil, apperrors.ErrOnboardingIncomplete
	}

	pricePerPlayer, err := pricing.PricePerPlayer(req.TotalCost, req.MaxPlayers)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		EventID:        uuid.New(),
		Name:           req.Name,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		City:           req.City,
		TotalCost:      req.TotalCost,
		MinPlayers:     req.MinPlayers,
		MaxPlayers:     req.MaxPlayers,
		PricePerPlayer: pricePerPlayer,
		FieldType:      req.FieldType,
		PlayersPerTeam: req.PlayersPerTeam,
		CleatsAllowed:  req.CleatsAllowed,
		OrganizerID:    organizer.ID,
	}

	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) GetDetail(ctx context.Context, eventID uuid.UUID, managementView bool) (*model.EventDetail, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.ListByEvent(ctx, event.ID, !managementView)
	if err != nil {
		return nil, err
	}

	succeeded := 0
	for _, p := range participants {
		if p.CountsTowardCapacity() {
			succeeded++
		}
	}

	collected := pricing.CollectedAmount(succeeded, event.PricePerPlayer)
	percentage, err := pricing.FundingPercentage(collected, event.TotalCost)
	if err != nil {
		return nil, err
	}

	return &model.EventDetail{
		Event:             event,
		AvailableSpots:    pricing.AvailableSpots(event.MaxPlayers, succeeded),
		CollectedAmount:   collected,
		FundingPercentage: percentage,
		Participants:      participants,
	}, nil
}

func (s *EventServiceImpl) ListPublic(ctx context.Context) ([]*model.Event, error) {
	return s.repo.ListPublic(ctx, time.Now().UTC())
}

func (s *EventServiceImpl) ListByOrganizer(ctx context.Context, organizer *model.User) ([]*model.Event, error) {
	return s.repo.ListByOrganizer(ctx, organizer.ID)
}
