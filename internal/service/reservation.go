package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-reservation/internal/model"
)

// Engine executes the atomic reservation protocol.  All of its state
// changes happen inside a single Store unit of work, so two concurrent
// calls can never both reserve the same seat: the availability check
// re-reads committed state with the rows locked, and the commit either
// applies every step or none of them.
type Engine struct {
	store Store
}

// NewEngine constructs an Engine bound to the given store.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store}
}

// Reserve claims the given seats of a showtime for a user.  It returns
// the created reservation together with the reserved seats, or one of
// the service sentinels: ErrValidation for an empty or malformed seat
// list, ErrShowtimeNotFound when the showtime does not exist, and
// ErrSeatsConflict when any requested seat is taken, in which case the
// whole request is rejected and nothing is written.
func (e *Engine) Reserve(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) (*model.Reservation, []model.Seat, error) {
	ids, ok := dedupSeatIDs(seatIDs)
	if !ok || len(ids) == 0 {
		return nil, nil, ErrValidation
	}

	var (
		res   *model.Reservation
		seats []model.Seat
	)
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		ok, err := tx.ShowtimeExists(ctx, showtimeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrShowtimeNotFound
		}
		// Re-check availability inside the transaction with the rows
		// locked.  A count mismatch means at least one seat is missing,
		// belongs to another showtime, or was reserved since the caller
		// last looked; the whole request fails.
		seats, err = tx.LockAvailableSeats(ctx, showtimeID, ids)
		if err != nil {
			return err
		}
		if len(seats) != len(ids) {
			return ErrSeatsConflict
		}
		res = &model.Reservation{
			UserID:     userID,
			ShowtimeID: showtimeID,
			Code:       uuid.NewString(),
		}
		if err := tx.InsertReservation(ctx, res); err != nil {
			return err
		}
		locked := make([]uint64, 0, len(seats))
		for _, s := range seats {
			locked = append(locked, s.ID)
		}
		if err := tx.MarkSeatsReserved(ctx, locked, true); err != nil {
			return err
		}
		return tx.LinkReservationSeats(ctx, res.ID, locked)
	})
	if err != nil {
		return nil, nil, err
	}
	for i := range seats {
		seats[i].IsReserved = true
	}
	return res, seats, nil
}

// Cancel removes a reservation owned by userID and releases its seats
// back to the pool.  The delete and the seat flag reversal are one
// atomic unit, so a concurrent Reserve can never observe a seat free
// while the reservation row still exists.  A missing reservation and a
// reservation owned by someone else both yield ErrReservationNotFound.
func (e *Engine) Cancel(ctx context.Context, userID, reservationID uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		r, err := tx.ReservationForUser(ctx, reservationID, userID)
		if err != nil {
			return err
		}
		if r == nil {
			return ErrReservationNotFound
		}
		seatIDs, err := tx.ReservationSeatIDs(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := tx.DeleteReservation(ctx, reservationID); err != nil {
			return err
		}
		if len(seatIDs) > 0 {
			if err := tx.MarkSeatsReserved(ctx, seatIDs, false); err != nil {
				return err
			}
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// dedupSeatIDs drops duplicates while keeping the caller's order.
// Duplicates would otherwise make the count check in Reserve fail
// spuriously.  A zero id is malformed input and reported as such.
func dedupSeatIDs(seatIDs []uint64) ([]uint64, bool) {
	out := make([]uint64, 0, len(seatIDs))
	seen := make(map[uint64]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if id == 0 {
			return nil, false
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, true
}
