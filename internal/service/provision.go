package service

import (
	"context"

	"github.com/iliyamo/movie-reservation/internal/model"
)

// Fixed seat layout generated for every showtime: rows A..J with ten
// seats each.  The screen's declared total_seats is informational only
// and does not change the layout.
const (
	seatRows    = 10
	seatsPerRow = 10
)

// CreateShowtime inserts a showtime and provisions its seat inventory
// as one atomic unit.  A showtime is never committed without seats,
// and any delay between the two steps would leave a publicly visible
// showtime with nothing to book, so the provisioning is not deferred
// to a background job.
func (e *Engine) CreateShowtime(ctx context.Context, st *model.Showtime) error {
	return e.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.InsertShowtime(ctx, st); err != nil {
			return err
		}
		return provisionSeats(ctx, tx, st.ID)
	})
}

// ProvisionSeats generates the seat inventory for an existing showtime
// if it has none yet.  Calling it again is a no-op, so a duplicated
// trigger cannot double the inventory.
func (e *Engine) ProvisionSeats(ctx context.Context, showtimeID uint64) error {
	return e.store.WithinTx(ctx, func(tx Tx) error {
		ok, err := tx.ShowtimeExists(ctx, showtimeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrShowtimeNotFound
		}
		return provisionSeats(ctx, tx, showtimeID)
	})
}

func provisionSeats(ctx context.Context, tx Tx, showtimeID uint64) error {
	n, err := tx.SeatCount(ctx, showtimeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // already provisioned
	}
	seats := make([]model.Seat, 0, seatRows*seatsPerRow)
	for r := 0; r < seatRows; r++ {
		for num := 1; num <= seatsPerRow; num++ {
			seats = append(seats, model.Seat{
				ShowtimeID: showtimeID,
				RowLabel:   string(rune('A' + r)),
				SeatNumber: uint32(num),
			})
		}
	}
	return tx.InsertSeats(ctx, seats)
}
