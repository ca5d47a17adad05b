// Package notify is the in-process signal path between the booking engine
// and the status cache. Messages are published only after a store
// transaction commits and are delivered asynchronously to a single
// subscriber through a bounded channel.
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	// KindInit seeds a fresh snapshot for a newly created event.
	KindInit Kind = "init"
	// KindBooked means a ticket was allocated. Replacement marks a
	// waitlist promotion, which consumes a waitlist slot instead of a ticket.
	KindBooked Kind = "booked"
	// KindWaitlisted means a caller joined the waitlist of a sold-out event.
	KindWaitlisted Kind = "waitlisted"
	// KindReleased means a booking was cancelled with nobody waiting,
	// returning one ticket to the pool.
	KindReleased Kind = "released"
)

type Message struct {
	Kind         Kind
	EventID      string
	Name         string
	TotalTickets int
	Replacement  bool
}

// Notifier is a fire-and-forget pub/sub over a bounded channel. There is no
// retry and no durability: a dropped message only delays cache convergence
// until the next store-backed read.
type Notifier struct {
	mu     sync.RWMutex
	ch     chan Message
	closed bool
	log    *logrus.Logger
}

func New(buffer int, log *logrus.Logger) *Notifier {
	if buffer <= 0 {
		buffer = 64
	}
	return &Notifier{ch: make(chan Message, buffer), log: log}
}

// Publish never blocks the caller. When the buffer is full, or the notifier
// is already closed, the message is dropped with a warning.
func (n *Notifier) Publish(msg Message) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		n.log.WithFields(logrus.Fields{"kind": msg.Kind, "event_id": msg.EventID}).
			Warn("notifier closed, dropping message")
		return
	}
	select {
	case n.ch <- msg:
	default:
		n.log.WithFields(logrus.Fields{"kind": msg.Kind, "event_id": msg.EventID}).
			Warn("notification buffer full, dropping message")
	}
}

// Subscribe exposes the delivery channel for the single updater goroutine.
func (n *Notifier) Subscribe() <-chan Message {
	return n.ch
}

// Close stops delivery. It is safe to call more than once and concurrently
// with Publish; late publishes are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	close(n.ch)
}
