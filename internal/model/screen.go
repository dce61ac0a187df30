package model

import "time"

// Screen is a physical auditorium.  TotalSeats is the declared
// capacity and is informational only: seat inventory for a showtime is
// generated from the fixed 10x10 layout regardless of this value (see
// service.ProvisionSeats).
type Screen struct {
	ID         uint64    // screens.id
	Number     uint32    // screens.number
	TotalSeats uint32    // screens.total_seats
	CreatedAt  time.Time // screens.created_at
}
