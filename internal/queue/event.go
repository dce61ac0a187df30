// Package queue defines the reservation event payloads exchanged over
// the message broker and the background consumer that processes them.
package queue

// Event kinds carried in ReservationEvent.Kind.
const (
	KindConfirmed = "reservation.confirmed"
	KindCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is confirmed or
// cancelled.  It carries enough detail for downstream consumers to
// notify the customer without querying the primary database.
type ReservationEvent struct {
	Kind          string   `json:"kind"`
	ReservationID uint64   `json:"reservation_id"`
	Code          string   `json:"code"`
	UserID        uint64   `json:"user_id"`
	UserEmail     string   `json:"user_email"`
	MovieTitle    string   `json:"movie_title"`
	StartsAt      string   `json:"starts_at"`
	SeatLabels    []string `json:"seats"`
	OccurredAt    string   `json:"occurred_at"`
}
