package service // service holds the reservation engine and seat provisioner

import (
	"context"

	"github.com/iliyamo/movie-reservation/internal/model"
)

// Store is the unit-of-work boundary the engine commits through.  An
// implementation must run fn inside a single transaction: every Tx call
// observes the same isolated snapshot, and a non-nil error from fn
// rolls the whole unit back so no partial state persists.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of storage operations available inside one unit of
// work.  Lookups that find nothing return zero values with a nil error;
// the engine decides which absences are errors.
type Tx interface {
	// ShowtimeExists reports whether the showtime row exists.
	ShowtimeExists(ctx context.Context, showtimeID uint64) (bool, error)
	// InsertShowtime creates the showtime and populates its ID.
	InsertShowtime(ctx context.Context, st *model.Showtime) error
	// SeatCount returns the number of seats provisioned for a showtime.
	SeatCount(ctx context.Context, showtimeID uint64) (int, error)
	// InsertSeats bulk-creates seat rows.
	InsertSeats(ctx context.Context, seats []model.Seat) error
	// LockAvailableSeats returns the subset of seatIDs that belong to
	// the showtime and are currently unreserved, locking those rows
	// until the transaction ends so no concurrent unit of work can
	// reserve them first.
	LockAvailableSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error)
	// MarkSeatsReserved flips the is_reserved flag on the given seats.
	MarkSeatsReserved(ctx context.Context, seatIDs []uint64, reserved bool) error
	// InsertReservation creates the reservation and populates ID and
	// CreatedAt.
	InsertReservation(ctx context.Context, res *model.Reservation) error
	// LinkReservationSeats associates seats with a reservation.
	LinkReservationSeats(ctx context.Context, reservationID uint64, seatIDs []uint64) error
	// ReservationForUser returns the reservation when it exists and
	// belongs to userID, (nil, nil) otherwise.
	ReservationForUser(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error)
	// ReservationSeatIDs lists the seat IDs linked to a reservation.
	ReservationSeatIDs(ctx context.Context, reservationID uint64) ([]uint64, error)
	// DeleteReservation removes the reservation and its seat links.
	DeleteReservation(ctx context.Context, reservationID uint64) error
}
