package domain

import "errors"

// ErrDuplicateName is returned when an event name or username is already taken.
var ErrDuplicateName = errors.New("name already exists")

// ErrEventNotFound is returned when the target event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when a booking is absent or already cancelled.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotOwner is returned when a caller tries to cancel someone else's booking.
// Ownership is checked only after the booking is known to exist.
var ErrNotOwner = errors.New("booking belongs to another user")

// ErrInvalidCredentials is returned on a failed authentication attempt.
var ErrInvalidCredentials = errors.New("invalid username or password")
