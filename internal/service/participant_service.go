package service

import (
	"context"

	"pitchpay/internal/model"
	"pitchpay/internal/realtime"
	"pitchpay/internal/repository"
	apperrors "pitchpay/pkg/app_errors"
	"pitchpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ParticipantService is the ledger: the authoritative list of who holds a
// spot in an event, with the capacity invariant enforced at insert time.
type ParticipantService interface {
	// AddCash records a participant the organizer collected cash from. The
	// capacity check and the insert run in one transaction serialized on the
	// event row, so two concurrent adds cannot both land past the limit.
	AddCash(ctx context.Context, caller *model.User, eventID uuid.UUID, req model.AddCashParticipantRequest) (*model.Participant, error)
	// Remove deletes a ledger entry. Cash rows may be removed by the owning
	// organizer; online-paid rows only by an admin, since money changed
	// hands externally.
	Remove(ctx context.Context, caller *model.User, eventID uuid.UUID, participantID uuid.UUID) error
	ListByEvent(ctx context.Context, eventID uuid.UUID, ascending bool) ([]*model.Participant, error)
}

type ParticipantServiceImpl struct {
	pool      TxBeginner
	repo      repository.ParticipantRepository
	eventRepo repository.EventRepository
	publisher realtime.Publisher
}

func NewParticipantService(
	pool TxBeginner,
	repo repository.ParticipantRepository,
	eventRepo repository.EventRepository,
	publisher realtime.Publisher,
) ParticipantService {
	return &ParticipantServiceImpl{
		pool:      pool,
		repo:      repo,
		eventRepo: eventRepo,
		publisher: publisher,
	}
}

func (s *ParticipantServiceImpl) AddCash(ctx context.Context, caller *model.User, eventID uuid.UUID, req model.AddCashParticipantRequest) (*model.Participant, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Non-owners learn nothing beyond "not found".
	if event.OrganizerID != caller.ID && !caller.IsAdmin() {
		return nil, apperrors.ErrEventNotFound
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	locked, err := s.eventRepo.FindByIDForUpdate(ctx, tx, event.ID)
	if err != nil {
		return nil, err
	}

	succeeded, err := s.repo.CountSucceededTx(ctx, tx, locked.ID)
	if err != nil {
		return nil, err
	}
	if succeeded >= locked.MaxPlayers {
		return nil, apperrors.ErrCapacityExceeded
	}

	participant := &model.Participant{
		ParticipantID: uuid.New(),
		EventID:       locked.ID,
		Name:          req.Name,
		Email:         req.Email,
		Status:        model.PaymentStatusSucceeded,
	}

	created, err := s.repo.Create(ctx, tx, participant)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notify(eventID, realtime.MessageParticipantAdded, created)

	return created, nil
}

func (s *ParticipantServiceImpl) Remove(ctx context.Context, caller *model.User, eventID uuid.UUID, participantID uuid.UUID) error {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.OrganizerID != caller.ID && !caller.IsAdmin() {
		return apperrors.ErrEventNotFound
	}

	participant, err := s.repo.FindByParticipantID(ctx, participantID)
	if err != nil {
		return err
	}
	if participant.EventID != event.ID {
		return apperrors.ErrParticipantNotFound
	}

	if participant.IsOnline() && !caller.IsAdmin() {
		return apperrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, participant.ID); err != nil {
		return err
	}

	s.notify(eventID, realtime.MessageParticipantRemoved, participant)

	return nil
}

func (s *ParticipantServiceImpl) ListByEvent(ctx context.Context, eventID uuid.UUID, ascending bool) ([]*model.Participant, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, event.ID, ascending)
}

// notify is fire-and-forget; a dropped update never fails the mutation.
func (s *ParticipantServiceImpl) notify(eventID uuid.UUID, msgType realtime.MessageType, participant *model.Participant) {
	if err := s.publisher.Publish(context.Background(), eventID, msgType, participant); err != nil {
		logger.WithComponent("service").Warn("realtime publish failed",
			zap.String("event_id", eventID.String()), zap.Error(err))
	}
}
