// Package realtime pushes participant-change notifications to subscribed
// clients. Delivery is fire-and-forget; the ledger never depends on it.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pitchpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type MessageType string

const (
	MessageParticipantAdded   MessageType = "participant_added"
	MessageParticipantRemoved MessageType = "participant_removed"
)

// Envelope is the typed message published on an event's channel.
type Envelope struct {
	Type    MessageType     `json:"type"`
	EventID uuid.UUID       `json:"event_id"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventID uuid.UUID, msgType MessageType, payload interface{}) error
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

func channelFor(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:updates", eventID)
}

func (p *RedisPublisher) Publish(ctx context.Context, eventID uuid.UUID, msgType MessageType, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	envelope := Envelope{
		Type:    msgType,
		EventID: eventID,
		Payload: raw,
		SentAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := p.client.Publish(ctx, channelFor(eventID), data).Err(); err != nil {
		logger.WithComponent("realtime").Warn("publish failed", zap.String("event_id", eventID.String()), zap.Error(err))
		return err
	}
	return nil
}

// NopPublisher drops every message. Used where realtime delivery is not
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventID uuid.UUID, msgType MessageType, payload interface{}) error {
	return nil
}
