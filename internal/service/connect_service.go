package service

import (
	"context"
	"errors"

	"pitchpay/internal/model"
	"pitchpay/internal/payment"
	"pitchpay/internal/repository"
	apperrors "pitchpay/pkg/app_errors"
)

// ConnectOptions holds the onboarding redirect URLs from config.
type ConnectOptions struct {
	RefreshURL string
	ReturnURL  string
}

// ConnectService is the organizer payout gate: it owns the external payout
// account lifecycle and the capability flags other services consult.
type ConnectService interface {
	// InitiateOnboarding lazily creates the payout account on first call and
	// returns a fresh one-time onboarding link. Repeat calls reuse the
	// existing account.
	InitiateOnboarding(ctx context.Context, organizer *model.User) (string, error)
	// RefreshStatus pulls the current capability flags from the processor
	// and persists them. Called on status-page visits and onboarding
	// returns, never on a schedule.
	RefreshStatus(ctx context.Context, organizer *model.User) (*model.PayoutAccount, error)
}

type ConnectServiceImpl struct {
	repo      repository.PayoutAccountRepository
	processor payment.Processor
	opts      ConnectOptions
}

func NewConnectService(repo repository.PayoutAccountRepository, processor payment.Processor, opts ConnectOptions) ConnectService {
	return &ConnectServiceImpl{
		repo:      repo,
		processor: processor,
		opts:      opts,
	}
}

func (s *ConnectServiceImpl) InitiateOnboarding(ctx context.Context, organizer *model.User) (string, error) {
	account, err := s.repo.FindByOrganizer(ctx, organizer.ID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrPayoutAccountNotFound) {
			return "", err
		}

		accountID, err := s.processor.CreateAccount(ctx, organizer.Email)
		if err != nil {
			return "", err
		}

		account, err = s.repo.Create(ctx, &model.PayoutAccount{
			OrganizerID:     organizer.ID,
			StripeAccountID: accountID,
		})
		if err != nil {
			return "", err
		}
	}

	return s.processor.CreateAccountLink(ctx, account.StripeAccountID, s.opts.RefreshURL, s.opts.ReturnURL)
}

func (s *ConnectServiceImpl) RefreshStatus(ctx context.Context, organizer *model.User) (*model.PayoutAccount, error) {
	account, err := s.repo.FindByOrganizer(ctx, organizer.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPayoutAccountNotFound) {
			return nil, apperrors.ErrOnboardingIncomplete
		}
		return nil, err
	}

	status, err := s.processor.GetAccountStatus(ctx, account.StripeAccountID)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateFlags(ctx, organizer.ID, status.ChargesEnabled, status.PayoutsEnabled)
}
