package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist yet. The unique index on
// participants.payment_ref is what makes webhook processing idempotent at
// the storage level.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		nickname TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'user',
		can_create_events BOOLEAN NOT NULL DEFAULT FALSE,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		api_token TEXT UNIQUE,
		nickname_changed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS events (
		id SERIAL PRIMARY KEY,
		event_id UUID NOT NULL UNIQUE,
		name TEXT NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		city TEXT NOT NULL,
		total_cost BIGINT NOT NULL CHECK (total_cost > 0),
		min_players INT NOT NULL CHECK (min_players >= 2),
		max_players INT NOT NULL CHECK (max_players >= min_players),
		price_per_player BIGINT NOT NULL,
		field_type TEXT NOT NULL DEFAULT 'artificial_grass',
		players_per_team INT NOT NULL DEFAULT 0,
		cleats_allowed BOOLEAN NOT NULL DEFAULT TRUE,
		organizer_id INT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS participants (
		id SERIAL PRIMARY KEY,
		participant_id UUID NOT NULL UNIQUE,
		event_id INT NOT NULL REFERENCES events(id),
		name TEXT NOT NULL,
		email TEXT,
		user_id INT REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'pending',
		payment_ref TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS participants_payment_ref_key
		ON participants (payment_ref) WHERE payment_ref IS NOT NULL;
	CREATE UNIQUE INDEX IF NOT EXISTS participants_event_user_key
		ON participants (event_id, user_id) WHERE user_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS payout_accounts (
		id SERIAL PRIMARY KEY,
		organizer_id INT NOT NULL UNIQUE REFERENCES users(id),
		stripe_account_id TEXT NOT NULL UNIQUE,
		charges_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		payouts_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	_, err := pool.Exec(ctx, schema)
	return err
}
