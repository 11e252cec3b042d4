package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the payment state of a participant row.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSucceeded, PaymentStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo checks whether the status may move to target. Terminal
// states never transition.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	transitions := map[PaymentStatus][]PaymentStatus{
		PaymentStatusPending:   {PaymentStatusSucceeded, PaymentStatusFailed},
		PaymentStatusSucceeded: {},
		PaymentStatusFailed:    {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Participant is one entry in an event's ledger. A non-nil PaymentRef means
// the spot was paid online through the payment processor; a nil one means the
// organizer recorded a cash payment.
type Participant struct {
	ID            int           `json:"id" db:"id"`
	ParticipantID uuid.UUID     `json:"participant_id" db:"participant_id"`
	EventID       int           `json:"event_id" db:"event_id"`
	Name          string        `json:"name" db:"name"`
	Email         *string       `json:"email,omitempty" db:"email"`
	UserID        *int          `json:"user_id,omitempty" db:"user_id"`
	Status        PaymentStatus `json:"status" db:"status"`
	PaymentRef    *string       `json:"payment_ref,omitempty" db:"payment_ref"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// IsOnline reports whether the participant paid through the processor.
func (p *Participant) IsOnline() bool {
	return p.PaymentRef != nil
}

// CountsTowardCapacity reports whether the row occupies a spot.
func (p *Participant) CountsTowardCapacity() bool {
	return p.Status == PaymentStatusSucceeded
}

// AddCashParticipantRequest is the organizer's manual cash entry.
type AddCashParticipantRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email *string `json:"email"`
}
