package model

import "time"

// Reservation records a user's claim on a set of seats for one
// showtime.  The seats are linked through the reservation_seats table;
// all of them belong to the reservation's showtime.  Code is a random
// confirmation code handed back to the client.  Reservations are never
// partially mutated: cancel-and-rebook is the only way to change one.
type Reservation struct {
	ID         uint64    // reservations.id
	UserID     uint64    // reservations.user_id
	ShowtimeID uint64    // reservations.showtime_id
	Code       string    // reservations.code (uuid)
	CreatedAt  time.Time // reservations.created_at
}
