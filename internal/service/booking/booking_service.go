// Package booking implements the ticket allocation engine: event
// initialization, booking, cancellation with waitlist promotion, and
// status reads. All allocation decisions happen inside store transactions;
// cache deltas and integration events are published only after commit.
package booking

import (
	"context"
	"time"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/evgall/ticketline/internal/kafka"
	"github.com/evgall/ticketline/internal/notify"
	"github.com/evgall/ticketline/internal/repository"
	"github.com/evgall/ticketline/internal/statuscache"
	"github.com/sirupsen/logrus"
)

type Outcome string

const (
	OutcomeBooked     Outcome = "booked"
	OutcomeWaitlisted Outcome = "waitlisted"
)

// BookResult carries exactly one of Booking or Waitlist, selected by Outcome.
type BookResult struct {
	Outcome  Outcome
	Booking  *domain.Booking
	Waitlist *domain.WaitlistEntry
}

// CancelResult reports whether the freed ticket went to a waitlist entrant.
type CancelResult struct {
	Promoted    bool
	Replacement *domain.Booking
}

type BookingUseCase interface {
	InitializeEvent(ctx context.Context, name string, totalTickets int) (*domain.Event, error)
	Book(ctx context.Context, userID, eventID string) (*BookResult, error)
	Cancel(ctx context.Context, userID, bookID string) (*CancelResult, error)
	Status(ctx context.Context, eventID string) (*domain.EventStatus, error)
	Bookings(ctx context.Context, eventID string, page, limit int) ([]domain.Booking, domain.Pagination, error)
	Waitlists(ctx context.Context, eventID string, page, limit int) ([]domain.WaitlistEntry, domain.Pagination, error)
}

// Notifier feeds the in-process status cache.
type Notifier interface {
	Publish(msg notify.Message)
}

// Producer publishes integration events for external consumers.
type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// StatusReader is the fast-path view consulted before the store.
type StatusReader interface {
	Read(eventID string) (statuscache.Snapshot, bool)
}

type BookingService struct {
	events   repository.EventRepository
	bookings repository.BookingRepository
	status   StatusReader
	notifier Notifier
	producer Producer
	topic    string
	log      *logrus.Logger
}

type BookingServiceOption func(*BookingService)

// WithProducer enables integration-event publishing to the given topic.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewBookingService(
	events repository.EventRepository,
	bookings repository.BookingRepository,
	status StatusReader,
	notifier Notifier,
	log *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		events:   events,
		bookings: bookings,
		status:   status,
		notifier: notifier,
		log:      log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// InitializeEvent creates an event with a full ticket pool and seeds its
// cache snapshot.
func (s *BookingService) InitializeEvent(ctx context.Context, name string, totalTickets int) (*domain.Event, error) {
	event, err := s.events.Create(ctx, name, totalTickets)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"event_id": event.ID, "name": event.Name}).Info("event created")

	s.notifier.Publish(notify.Message{
		Kind:         notify.KindInit,
		EventID:      event.ID,
		Name:         event.Name,
		TotalTickets: event.TotalTickets,
	})
	s.emit(ctx, kafka.TicketEvent{Type: kafka.TypeEventCreated, EventID: event.ID, EventName: event.Name})
	return event, nil
}

// Book allocates a ticket when one is available and joins the waitlist
// otherwise. The branch decision is made under the event row lock inside
// the repository transaction.
func (s *BookingService) Book(ctx context.Context, userID, eventID string) (*BookResult, error) {
	booked, waitlisted, err := s.bookings.Book(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if booked != nil {
		s.notifier.Publish(notify.Message{Kind: notify.KindBooked, EventID: eventID})
		s.emit(ctx, kafka.TicketEvent{Type: kafka.TypeTicketBooked, EventID: eventID, BookingID: booked.ID, UserID: userID})
		return &BookResult{Outcome: OutcomeBooked, Booking: booked}, nil
	}

	s.notifier.Publish(notify.Message{Kind: notify.KindWaitlisted, EventID: eventID})
	s.emit(ctx, kafka.TicketEvent{Type: kafka.TypeWaitlisted, EventID: eventID, UserID: userID})
	return &BookResult{Outcome: OutcomeWaitlisted, Waitlist: waitlisted}, nil
}

// Cancel voids the caller's booking. The freed ticket goes to the most
// recent waitlist entrant when one exists; otherwise it returns to the pool
// and a release delta keeps the cache in step.
func (s *BookingService) Cancel(ctx context.Context, userID, bookID string) (*CancelResult, error) {
	cancelled, replacement, err := s.bookings.Cancel(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_id": bookID, "event_id": cancelled.EventID}).Info("booking cancelled")
	s.emit(ctx, kafka.TicketEvent{Type: kafka.TypeBookingCancelled, EventID: cancelled.EventID, BookingID: bookID, UserID: userID})

	if replacement != nil {
		s.notifier.Publish(notify.Message{Kind: notify.KindBooked, EventID: cancelled.EventID, Replacement: true})
		s.emit(ctx, kafka.TicketEvent{Type: kafka.TypeWaitlistPromoted, EventID: cancelled.EventID, BookingID: replacement.ID, UserID: replacement.UserID})
		return &CancelResult{Promoted: true, Replacement: replacement}, nil
	}

	s.notifier.Publish(notify.Message{Kind: notify.KindReleased, EventID: cancelled.EventID})
	return &CancelResult{}, nil
}

// Status serves from the cache snapshot and falls back to the store on a
// miss. The snapshot may trail the store by the notification delivery
// latency; the store answer is always authoritative.
func (s *BookingService) Status(ctx context.Context, eventID string) (*domain.EventStatus, error) {
	if snap, ok := s.status.Read(eventID); ok {
		return &domain.EventStatus{
			ID:               eventID,
			Name:             snap.Name,
			AvailableTickets: snap.AvailableTickets,
			WaitlistCount:    snap.WaitlistCount,
		}, nil
	}
	s.log.WithField("event_id", eventID).Debug("status cache miss")
	return s.events.Status(ctx, eventID)
}

func (s *BookingService) Bookings(ctx context.Context, eventID string, page, limit int) ([]domain.Booking, domain.Pagination, error) {
	items, total, err := s.bookings.ListByEvent(ctx, eventID, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return items, paginate(total, page, limit), nil
}

func (s *BookingService) Waitlists(ctx context.Context, eventID string, page, limit int) ([]domain.WaitlistEntry, domain.Pagination, error) {
	items, total, err := s.bookings.WaitlistByEvent(ctx, eventID, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return items, paginate(total, page, limit), nil
}

// emit publishes an integration event. Failures are logged, never surfaced:
// the booking already committed and the core does not retry.
func (s *BookingService) emit(ctx context.Context, event kafka.TicketEvent) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event.CreatedAt = time.Now()
	if err := s.producer.Publish(ctx, s.topic, event.EventID, event); err != nil {
		s.log.WithError(err).WithField("type", event.Type).Warn("failed to publish ticket event")
	}
}

func paginate(total, page, limit int) domain.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return domain.Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

var _ BookingUseCase = (*BookingService)(nil)
