// Package payment wraps the external payment processor. Services depend on
// the Processor interface only; the Stripe implementation lives behind it.
package payment

import (
	"context"
	"time"
)

// CheckoutParams describes one hosted-checkout session: a single spot in a
// single event, optionally routed to the organizer's payout account with a
// platform fee withheld.
type CheckoutParams struct {
	EventID            int
	ReservationRef     string
	ProductName        string
	Amount             int64 // cents
	Currency           string
	PayerName          string
	PayerEmail         *string
	UserID             *int
	DestinationAccount string
	PlatformFee        int64 // cents
	SuccessURL         string
	CancelURL          string
	ExpiresIn          time.Duration
}

// CheckoutSession is the created hosted session the payer is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// Confirmation is a verified payment-completed notification. SessionRef is
// the idempotency key for ledger insertion.
type Confirmation struct {
	SessionRef     string
	ReservationRef string
	EventID        int
	Amount         int64
	PayerName      string
	PayerEmail     *string
	UserID         *int
}

// AccountStatus mirrors the processor's capability flags for a payout
// account.
type AccountStatus struct {
	ChargesEnabled bool
	PayoutsEnabled bool
}

type Processor interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// VerifyWebhook checks the shared-secret signature and extracts the
	// confirmation. Returns (nil, nil) for authentic notifications of types
	// the platform does not act on.
	VerifyWebhook(payload []byte, signature string) (*Confirmation, error)

	// Connect-style payout account lifecycle.
	CreateAccount(ctx context.Context, email string) (string, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error)
}
