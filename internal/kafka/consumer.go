package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Consumer reads ticket events from a topic and hands the decoded event to a
// handler. Messages that fail to decode are logged and skipped; a handler
// error stops the loop.
type Consumer struct {
	reader *kafka.Reader
	log    *logrus.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *logrus.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, TicketEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.dispatch(ctx, msg.Value, handler); err != nil {
			return err
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, payload []byte, handler func(context.Context, TicketEvent) error) error {
	var event TicketEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.log.WithError(err).Warn("skipping undecodable ticket event")
		return nil
	}

	c.log.WithFields(logrus.Fields{
		"type":     event.Type,
		"event_id": event.EventID,
	}).Debug("ticket event received")

	return handler(ctx, event)
}
