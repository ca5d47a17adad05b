package repository

import (
	"context"
	"errors"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Book(ctx context.Context, userID, eventID string) (*domain.Booking, *domain.WaitlistEntry, error)
	Cancel(ctx context.Context, userID, bookID string) (cancelled, replacement *domain.Booking, err error)
	ListByEvent(ctx context.Context, eventID string, page, limit int) ([]domain.Booking, int, error)
	WaitlistByEvent(ctx context.Context, eventID string, page, limit int) ([]domain.WaitlistEntry, int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Book allocates a ticket or joins the waitlist, atomically.
//
// The SELECT ... FOR UPDATE takes a row-level lock on the event, so
// concurrent bookings for the same event serialize here: no two
// transactions can both observe the last remaining ticket. Exactly one of
// the returned booking/waitlist entry is non-nil on success.
func (r *PGBookingRepository) Book(ctx context.Context, userID, eventID string) (*domain.Booking, *domain.WaitlistEntry, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var available int
	err = tx.QueryRow(ctx, `SELECT available_tickets FROM events WHERE id=$1 FOR UPDATE`, eventID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrEventNotFound
		}
		return nil, nil, err
	}

	if available > 0 {
		booking := &domain.Booking{
			ID:      uuid.NewString(),
			UserID:  userID,
			EventID: eventID,
			Status:  domain.BookingStatusBooked,
		}
		if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, event_id, status, replacing)
			VALUES ($1, $2, $3, $4, false)
			RETURNING created_at, updated_at`,
			booking.ID, booking.UserID, booking.EventID, booking.Status).
			Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
			return nil, nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE events SET available_tickets = available_tickets - 1, updated_at = now() WHERE id=$1`, eventID); err != nil {
			return nil, nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, nil, err
		}
		return booking, nil, nil
	}

	entry := &domain.WaitlistEntry{
		ID:      uuid.NewString(),
		UserID:  userID,
		EventID: eventID,
	}
	if err := tx.QueryRow(ctx, `INSERT INTO waitlist_entries (id, user_id, event_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		entry.ID, entry.UserID, entry.EventID).
		Scan(&entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return nil, entry, nil
}

// Cancel marks a booking cancelled and reassigns the freed ticket to the
// most recent waitlist entrant if one exists, otherwise returns the ticket
// to the pool. Existence is checked before ownership so the two failure
// modes stay distinct.
func (r *PGBookingRepository) Cancel(ctx context.Context, userID, bookID string) (*domain.Booking, *domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	booking := &domain.Booking{ID: bookID, Status: domain.BookingStatusBooked}
	err = tx.QueryRow(ctx, `SELECT user_id, event_id, replacing, created_at, updated_at
		FROM bookings WHERE id=$1 AND status=$2 FOR UPDATE`,
		bookID, domain.BookingStatusBooked).
		Scan(&booking.UserID, &booking.EventID, &booking.Replacing, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrBookingNotFound
		}
		return nil, nil, err
	}
	if booking.UserID != userID {
		return nil, nil, domain.ErrNotOwner
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2`,
		domain.BookingStatusCancelled, bookID); err != nil {
		return nil, nil, err
	}
	booking.Status = domain.BookingStatusCancelled

	// Most recent entrant is promoted first. The lookup does not hold the
	// event row lock, so an entrant being added concurrently by a sold-out
	// booking can be missed; that entrant stays queued for the next
	// cancellation while the ticket returns to the pool.
	var entryID, entrantID string
	err = tx.QueryRow(ctx, `SELECT id, user_id FROM waitlist_entries
		WHERE event_id=$1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`,
		booking.EventID).Scan(&entryID, &entrantID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	if err == nil {
		replacement := &domain.Booking{
			ID:        uuid.NewString(),
			UserID:    entrantID,
			EventID:   booking.EventID,
			Status:    domain.BookingStatusBooked,
			Replacing: true,
		}
		if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, event_id, status, replacing)
			VALUES ($1, $2, $3, $4, true)
			RETURNING created_at, updated_at`,
			replacement.ID, replacement.UserID, replacement.EventID, replacement.Status).
			Scan(&replacement.CreatedAt, &replacement.UpdatedAt); err != nil {
			return nil, nil, err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM waitlist_entries WHERE id=$1`, entryID); err != nil {
			return nil, nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, nil, err
		}
		return booking, replacement, nil
	}

	if _, err := tx.Exec(ctx, `UPDATE events SET available_tickets = available_tickets + 1, updated_at = now() WHERE id=$1`, booking.EventID); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return booking, nil, nil
}

// ListByEvent returns active bookings newest first; cancelled bookings are
// excluded from the listing.
func (r *PGBookingRepository) ListByEvent(ctx context.Context, eventID string, page, limit int) ([]domain.Booking, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id=$1 AND status != $2`,
		eventID, domain.BookingStatusCancelled).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, user_id, event_id, status, replacing, created_at, updated_at
		FROM bookings WHERE event_id=$1 AND status != $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		eventID, domain.BookingStatusCancelled, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.EventID, &b.Status, &b.Replacing, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

func (r *PGBookingRepository) WaitlistByEvent(ctx context.Context, eventID string, page, limit int) ([]domain.WaitlistEntry, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM waitlist_entries WHERE event_id=$1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, user_id, event_id, created_at, updated_at
		FROM waitlist_entries WHERE event_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		eventID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]domain.WaitlistEntry, 0)
	for rows.Next() {
		var e domain.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.EventID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
