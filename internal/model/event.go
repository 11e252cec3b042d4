package model

import (
	"time"

	"github.com/google/uuid"
)

// FieldType enumerates the playing surfaces an event can be hosted on.
type FieldType string

const (
	FieldTypeFutsal          FieldType = "futsal"
	FieldTypeArtificialGrass FieldType = "artificial_grass"
	FieldTypeNaturalGrass    FieldType = "natural_grass"
)

func (f FieldType) IsValid() bool {
	switch f {
	case FieldTypeFutsal, FieldTypeArtificialGrass, FieldTypeNaturalGrass:
		return true
	}
	return false
}

// Event is the source of truth for capacity and pricing. All money amounts
// are integer cents. PricePerPlayer is computed once at creation time and
// never recomputed afterwards.
type Event struct {
	ID             int       `json:"id" db:"id"`
	EventID        uuid.UUID `json:"event_id" db:"event_id"`
	Name           string    `json:"name" db:"name"`
	StartTime      time.Time `json:"start_time" db:"start_time"`
	EndTime        time.Time `json:"end_time" db:"end_time"`
	City           string    `json:"city" db:"city"`
	TotalCost      int64     `json:"total_cost" db:"total_cost"`
	MinPlayers     int       `json:"min_players" db:"min_players"`
	MaxPlayers     int       `json:"max_players" db:"max_players"`
	PricePerPlayer int64     `json:"price_per_player" db:"price_per_player"`
	FieldType      FieldType `json:"field_type" db:"field_type"`
	PlayersPerTeam int       `json:"players_per_team" db:"players_per_team"`
	CleatsAllowed  bool      `json:"cleats_allowed" db:"cleats_allowed"`
	OrganizerID    int       `json:"organizer_id" db:"organizer_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsEnded reports whether the event's scheduled window has passed. Ended
// events drop out of the public listing but are never deleted.
func (e *Event) IsEnded(now time.Time) bool {
	return now.After(e.EndTime)
}

// CreateEventRequest carries organizer input for event creation.
type CreateEventRequest struct {
	Name           string    `json:"name" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	City           string    `json:"city" binding:"required"`
	TotalCost      int64     `json:"total_cost" binding:"required"`
	MinPlayers     int       `json:"min_players" binding:"required"`
	MaxPlayers     int       `json:"max_players" binding:"required"`
	FieldType      FieldType `json:"field_type"`
	PlayersPerTeam int       `json:"players_per_team"`
	CleatsAllowed  bool      `json:"cleats_allowed"`
}

// EventDetail is an event plus the figures derived from the current
// participant state. Derived fields are recomputed on every read.
type EventDetail struct {
	Event             *Event         `json:"event"`
	AvailableSpots    int            `json:"available_spots"`
	CollectedAmount   int64          `json:"collected_amount"`
	FundingPercentage float64        `json:"funding_percentage"`
	Participants      []*Participant `json:"participants"`
}
