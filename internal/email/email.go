package email

import (
	"context"

	"github.com/evgall/ticketline/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender delivers booking confirmations. The current implementation only
// logs; the worker treats it as an opaque sink.
type Sender struct {
	log *logrus.Logger
}

func NewSender(log *logrus.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	s.log.WithFields(logrus.Fields{
		"type":       event.Type,
		"user_id":    event.UserID,
		"event_id":   event.EventID,
		"booking_id": event.BookingID,
	}).Info("sending confirmation email")
	return nil
}
