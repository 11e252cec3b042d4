package model

import "time"

// PaymentConfirmation is the queue payload produced by the webhook handler
// after signature verification and consumed by the confirmation worker. The
// processor delivers confirmations at least once, so PaymentRef is the
// idempotency key.
type PaymentConfirmation struct {
	EventID        int       `json:"event_id"`
	PaymentRef     string    `json:"payment_ref"`
	ReservationRef string    `json:"reservation_ref,omitempty"`
	PayerName      string    `json:"payer_name"`
	PayerEmail     *string   `json:"payer_email,omitempty"`
	UserID         *int      `json:"user_id,omitempty"`
	Amount         int64     `json:"amount"`
	ReceivedAt     time.Time `json:"received_at"`
}
