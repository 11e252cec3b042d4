package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrPayoutAccountNotFound = errors.New("payout account not found")

	ErrInvalidInput   = errors.New("invalid input")
	ErrDivisionByZero = errors.New("division by zero")

	ErrCapacityExceeded      = errors.New("event is full")
	ErrAlreadyRegistered     = errors.New("user already registered for event")
	ErrDuplicateConfirmation = errors.New("payment confirmation already processed")
	ErrNicknameTaken         = errors.New("nickname already taken")

	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("operation not permitted")
	ErrOnboardingIncomplete  = errors.New("payout onboarding incomplete")
	ErrSignatureVerification = errors.New("webhook signature verification failed")

	ErrUpstreamService = errors.New("upstream service unavailable")
)

// RateLimitedError reports how long the caller has to wait before the
// nickname can be changed again.
type RateLimitedError struct {
	DaysRemaining int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("nickname can be changed again in %d days", e.DaysRemaining)
}
