// Package statuscache holds the in-process availability view of every
// event. It is a best-effort projection of the store: deltas arrive
// asynchronously over the notification channel, so a read may briefly trail
// the latest committed transaction. Allocation correctness never depends on
// it; the store remains the source of truth.
package statuscache

import "sync"

// Snapshot is the denormalized per-event view. WaitlistCount may go
// negative transiently when a promotion delta overtakes the matching
// waitlist delta; it converges once both are applied.
type Snapshot struct {
	Name             string
	AvailableTickets int
	WaitlistCount    int
}

type Cache struct {
	mu     sync.RWMutex
	events map[string]Snapshot
}

func New() *Cache {
	return &Cache{events: make(map[string]Snapshot)}
}

// Init inserts the snapshot for a newly created event, overwriting any
// existing entry.
func (c *Cache) Init(eventID, name string, totalTickets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[eventID] = Snapshot{Name: name, AvailableTickets: totalTickets}
}

// ApplyBooking records an allocated ticket. A replacement booking consumes
// a waitlist slot and leaves the ticket count untouched. Unknown events are
// ignored rather than creating phantom entries.
func (c *Cache) ApplyBooking(eventID string, replacement bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.events[eventID]
	if !ok {
		return
	}
	if replacement {
		snap.WaitlistCount--
	} else {
		snap.AvailableTickets--
	}
	c.events[eventID] = snap
}

// ApplyWait records a caller joining the waitlist of a sold-out event.
func (c *Cache) ApplyWait(eventID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.events[eventID]
	if !ok {
		return
	}
	snap.WaitlistCount++
	c.events[eventID] = snap
}

// ApplyRelease records a cancellation that returned a ticket to the pool.
func (c *Cache) ApplyRelease(eventID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.events[eventID]
	if !ok {
		return
	}
	snap.AvailableTickets++
	c.events[eventID] = snap
}

// Read returns a copy of the current snapshot. It never errors: a miss is
// reported through ok and the caller falls back to the store.
func (c *Cache) Read(eventID string) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.events[eventID]
	return snap, ok
}
