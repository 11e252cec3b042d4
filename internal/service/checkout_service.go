package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pitchpay/internal/cache"
	"pitchpay/internal/model"
	"pitchpay/internal/payment"
	"pitchpay/internal/realtime"
	"pitchpay/internal/repository"
	apperrors "pitchpay/pkg/app_errors"
	"pitchpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CheckoutOptions carries deployment-level checkout settings from config.
type CheckoutOptions struct {
	Currency       string
	PlatformFeeBps int64
	SuccessURL     string
	CancelURL      string
	ReservationTTL time.Duration
}

// InitiateCheckoutRequest is the payer's registration input.
type InitiateCheckoutRequest struct {
	Name  string
	Email *string
}

// CheckoutService is the payment intake adapter: it opens hosted checkout
// sessions with a slot reserved up front, and turns verified confirmations
// into exactly one ledger entry each.
type CheckoutService interface {
	InitiateCheckout(ctx context.Context, caller *model.User, eventID uuid.UUID, req InitiateCheckoutRequest) (*payment.CheckoutSession, error)
	// HandleConfirmation is idempotent on the payment reference. Redelivered
	// confirmations are acknowledged without a second insert.
	HandleConfirmation(ctx context.Context, confirmation *model.PaymentConfirmation) error
}

type CheckoutServiceImpl struct {
	pool         TxBeginner
	eventRepo    repository.EventRepository
	repo         repository.ParticipantRepository
	payoutRepo   repository.PayoutAccountRepository
	reservations cache.SlotReservationManager
	processor    payment.Processor
	publisher    realtime.Publisher
	opts         CheckoutOptions
}

func NewCheckoutService(
	pool TxBeginner,
	eventRepo repository.EventRepository,
	participantRepo repository.ParticipantRepository,
	payoutRepo repository.PayoutAccountRepository,
	reservations cache.SlotReservationManager,
	processor payment.Processor,
	publisher realtime.Publisher,
	opts CheckoutOptions,
) CheckoutService {
	if opts.Currency == "" {
		opts.Currency = "pln"
	}
	if opts.ReservationTTL == 0 {
		opts.ReservationTTL = 30 * time.Minute
	}
	return &CheckoutServiceImpl{
		pool:         pool,
		eventRepo:    eventRepo,
		repo:         participantRepo,
		payoutRepo:   payoutRepo,
		reservations: reservations,
		processor:    processor,
		publisher:    publisher,
		opts:         opts,
	}
}

func (s *CheckoutServiceImpl) InitiateCheckout(ctx context.Context, caller *model.User, eventID uuid.UUID, req InitiateCheckoutRequest) (*payment.CheckoutSession, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	account, err := s.payoutRepo.FindByOrganizer(ctx, event.OrganizerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPayoutAccountNotFound) {
			return nil, apperrors.ErrOnboardingIncomplete
		}
		return nil, err
	}
	if !account.OnboardingComplete() {
		return nil, apperrors.ErrOnboardingIncomplete
	}

	registered, err := s.repo.ExistsUserForEvent(ctx, event.ID, caller.ID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, apperrors.ErrAlreadyRegistered
	}

	succeeded, err := s.repo.CountSucceeded(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	// The payer can spend minutes inside the hosted checkout, so the spot is
	// held in Redis until the confirmation arrives or the session expires.
	reservationRef := uuid.New().String()
	reserved, err := s.reservations.Reserve(ctx, event.ID, reservationRef, succeeded, event.MaxPlayers, s.opts.ReservationTTL)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, apperrors.ErrCapacityExceeded
	}

	name := req.Name
	if name == "" {
		name = caller.Nickname
	}
	userID := caller.ID

	session, err := s.processor.CreateCheckoutSession(ctx, payment.CheckoutParams{
		EventID:            event.ID,
		ReservationRef:     reservationRef,
		ProductName:        fmt.Sprintf("%s - spot", event.Name),
		Amount:             event.PricePerPlayer,
		Currency:           s.opts.Currency,
		PayerName:          name,
		PayerEmail:         req.Email,
		UserID:             &userID,
		DestinationAccount: account.StripeAccountID,
		PlatformFee:        event.PricePerPlayer * s.opts.PlatformFeeBps / 10000,
		SuccessURL:         s.opts.SuccessURL,
		CancelURL:          s.opts.CancelURL,
		ExpiresIn:          s.opts.ReservationTTL,
	})
	if err != nil {
		// The reservation must not outlive a session that never existed.
		if relErr := s.reservations.Release(context.Background(), event.ID, reservationRef); relErr != nil {
			logger.WithComponent("service").Warn("release reservation failed",
				zap.String("reservation_ref", reservationRef), zap.Error(relErr))
		}
		return nil, err
	}

	return session, nil
}

func (s *CheckoutServiceImpl) HandleConfirmation(ctx context.Context, confirmation *model.PaymentConfirmation) error {
	log := logger.WithComponent("service").With(zap.String("payment_ref", confirmation.PaymentRef))

	// Fast path for redeliveries: the processor retries until acknowledged.
	if _, err := s.repo.FindByPaymentRef(ctx, confirmation.PaymentRef); err == nil {
		s.releaseReservation(confirmation)
		return nil
	} else if !errors.Is(err, apperrors.ErrParticipantNotFound) {
		return err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, confirmation.EventID)
	if err != nil {
		return err
	}

	succeeded, err := s.repo.CountSucceededTx(ctx, tx, event.ID)
	if err != nil {
		return err
	}
	if succeeded >= event.MaxPlayers {
		// The payer's money already moved, so the row is admitted past the
		// limit and flagged for the organizer to resolve (refund or keep).
		log.Warn("confirmed payment for a full event, admitting overflow participant",
			zap.Int("event_id", event.ID),
			zap.Int("succeeded", succeeded),
			zap.Int("max_players", event.MaxPlayers))
	}

	ref := confirmation.PaymentRef
	participant := &model.Participant{
		ParticipantID: uuid.New(),
		EventID:       event.ID,
		Name:          confirmation.PayerName,
		Email:         confirmation.PayerEmail,
		UserID:        confirmation.UserID,
		Status:        model.PaymentStatusSucceeded,
		PaymentRef:    &ref,
	}

	created, err := s.repo.Create(ctx, tx, participant)
	if err != nil {
		// Unique-constraint hits mean another delivery won the race; that is
		// success from the processor's point of view.
		if errors.Is(err, apperrors.ErrDuplicateConfirmation) || errors.Is(err, apperrors.ErrAlreadyRegistered) {
			s.releaseReservation(confirmation)
			return nil
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.releaseReservation(confirmation)

	if err := s.publisher.Publish(context.Background(), event.EventID, realtime.MessageParticipantAdded, created); err != nil {
		log.Warn("realtime publish failed", zap.Error(err))
	}

	return nil
}

func (s *CheckoutServiceImpl) releaseReservation(confirmation *model.PaymentConfirmation) {
	if confirmation.ReservationRef == "" {
		return
	}
	if err := s.reservations.Release(context.Background(), confirmation.EventID, confirmation.ReservationRef); err != nil {
		logger.WithComponent("service").Warn("release reservation failed",
			zap.String("reservation_ref", confirmation.ReservationRef), zap.Error(err))
	}
}
