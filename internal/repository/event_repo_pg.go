package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type EventRepository interface {
	Create(ctx context.Context, name string, totalTickets int) (*domain.Event, error)
	Status(ctx context.Context, eventID string) (*domain.EventStatus, error)
	List(ctx context.Context) ([]domain.Event, error)
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

// Create inserts a new event with a full ticket pool. Event names are
// case-normalized and unique.
func (r *PGEventRepository) Create(ctx context.Context, name string, totalTickets int) (*domain.Event, error) {
	event := &domain.Event{
		ID:               uuid.NewString(),
		Name:             strings.ToLower(name),
		TotalTickets:     totalTickets,
		AvailableTickets: totalTickets,
	}
	err := r.db.QueryRow(ctx, `INSERT INTO events (id, name, total_tickets, available_tickets)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		event.ID, event.Name, event.TotalTickets, event.AvailableTickets).
		Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return event, nil
}

// Status returns the event together with its outstanding waitlist size.
// Used as the fallback when the status cache has no snapshot.
func (r *PGEventRepository) Status(ctx context.Context, eventID string) (*domain.EventStatus, error) {
	row := r.db.QueryRow(ctx, `SELECT e.id, e.name, e.available_tickets,
		(SELECT COUNT(*) FROM waitlist_entries w WHERE w.event_id = e.id)
		FROM events e WHERE e.id = $1`, eventID)
	var status domain.EventStatus
	if err := row.Scan(&status.ID, &status.Name, &status.AvailableTickets, &status.WaitlistCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (r *PGEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, total_tickets, available_tickets, created_at, updated_at FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.TotalTickets, &e.AvailableTickets, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ EventRepository = (*PGEventRepository)(nil)
