package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotReservationManager holds a spot for a pending checkout session so the
// capacity the payer saw at session-creation time is still there when the
// confirmation arrives. Reservations expire together with the checkout
// session.
type SlotReservationManager interface {
	// Reserve attempts to hold one spot for the given session reference.
	// Returns false when succeeded participants plus live reservations have
	// already reached the player limit. Atomic via Lua.
	Reserve(ctx context.Context, eventID int, sessionRef string, succeededCount, maxPlayers int, ttl time.Duration) (bool, error)
	// Release frees the reservation, either because the confirmation arrived
	// or because the session was cancelled.
	Release(ctx context.Context, eventID int, sessionRef string) error
}

type SlotReservationManagerImpl struct {
	client *redis.Client
}

func NewSlotReservationManager(client *redis.Client) SlotReservationManager {
	return &SlotReservationManagerImpl{
		client: client,
	}
}

func (m *SlotReservationManagerImpl) reservationsKey(eventID int) string {
	return fmt.Sprintf("event:%d:reservations", eventID)
}

// Reservations live in a sorted set scored by expiry unix time. The script
// prunes expired members, then admits the new reservation only if the event
// still has room once live holds are counted.
func (m *SlotReservationManagerImpl) Reserve(ctx context.Context, eventID int, sessionRef string, succeededCount, maxPlayers int, ttl time.Duration) (bool, error) {
	key := m.reservationsKey(eventID)
	now := time.Now().UTC()
	expiry := now.Add(ttl).Unix()

	script := `
		local key = KEYS[1]
		local session_ref = ARGV[1]
		local now = tonumber(ARGV[2])
		local expiry = tonumber(ARGV[3])
		local succeeded = tonumber(ARGV[4])
		local max_players = tonumber(ARGV[5])

		-- drop reservations whose checkout session has expired
		redis.call('ZREMRANGEBYSCORE', key, '-inf', now)

		local held = redis.call('ZCARD', key)
		if succeeded + held >= max_players then
			return -1
		end

		redis.call('ZADD', key, expiry, session_ref)
		return 1
	`

	result, err := m.client.Eval(ctx, script, []string{key},
		sessionRef, now.Unix(), expiry, succeededCount, maxPlayers,
	).Result()
	if err != nil {
		return false, err
	}

	code, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected reservation script result: %v", result)
	}
	return code == 1, nil
}

func (m *SlotReservationManagerImpl) Release(ctx context.Context, eventID int, sessionRef string) error {
	key := m.reservationsKey(eventID)
	return m.client.ZRem(ctx, key, sessionRef).Err()
}
