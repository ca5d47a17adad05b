package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TicketEvent is the integration event published after each committed
// booking-engine operation. External consumers (the worker, analytics)
// read these; the status cache does not, it is fed in-process.
type TicketEvent struct {
	Type      string    `json:"type"`
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name,omitempty"`
	BookingID string    `json:"booking_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	TypeEventCreated     = "event_created"
	TypeTicketBooked     = "ticket_booked"
	TypeWaitlisted       = "waitlisted"
	TypeBookingCancelled = "booking_cancelled"
	TypeWaitlistPromoted = "waitlist_promoted"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
