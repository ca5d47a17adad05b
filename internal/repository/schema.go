package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables if they do not exist. The CHECK
// constraint on events is the last line of defense for the ticket-pool
// invariant; the row lock in Book/Cancel is what actually prevents races.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			total_tickets INT NOT NULL,
			available_tickets INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT tickets_in_range CHECK (available_tickets >= 0 AND available_tickets <= total_tickets)
		);

		CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			event_id UUID NOT NULL REFERENCES events(id),
			status TEXT NOT NULL,
			replacing BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS bookings_event_created_idx ON bookings (event_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS waitlist_entries (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			event_id UUID NOT NULL REFERENCES events(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS waitlist_event_created_idx ON waitlist_entries (event_id, created_at DESC);
	`)
	return err
}
