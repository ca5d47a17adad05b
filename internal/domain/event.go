package domain

import "time"

type Event struct {
	ID               string
	Name             string
	TotalTickets     int
	AvailableTickets int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EventStatus is the denormalized availability view returned by status reads,
// served from the status cache when possible and from the store otherwise.
type EventStatus struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AvailableTickets int    `json:"available_tickets"`
	WaitlistCount    int    `json:"wait_list_count"`
}
