package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

type Booking struct {
	ID        string
	UserID    string
	EventID   string
	Status    BookingStatus
	Replacing bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WaitlistEntry struct {
	ID        string
	UserID    string
	EventID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}
