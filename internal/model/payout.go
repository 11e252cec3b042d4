package model

import "time"

// PayoutAccount tracks the organizer's external payout account and its
// capability flags. It is created lazily on the first onboarding attempt and
// never deleted.
type PayoutAccount struct {
	ID              int       `json:"id" db:"id"`
	OrganizerID     int       `json:"organizer_id" db:"organizer_id"`
	StripeAccountID string    `json:"stripe_account_id" db:"stripe_account_id"`
	ChargesEnabled  bool      `json:"charges_enabled" db:"charges_enabled"`
	PayoutsEnabled  bool      `json:"payouts_enabled" db:"payouts_enabled"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// OnboardingComplete reports whether the organizer may collect online
// payments. Both flags must be set by the processor.
func (a *PayoutAccount) OnboardingComplete() bool {
	return a.ChargesEnabled && a.PayoutsEnabled
}
