package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/movie-reservation/internal/model"
)

// memStore is an in-memory Store for exercising the engine.  WithinTx
// serializes units of work on a mutex and snapshots the state up
// front, restoring it when fn fails, which models the isolation and
// rollback behavior the engine relies on.
type memStore struct {
	mu    sync.Mutex
	state *memState

	// linkErr, when set, is returned by LinkReservationSeats to force
	// a rollback late in the reservation protocol.
	linkErr error
}

type memState struct {
	showtimes    map[uint64]model.Showtime
	seats        map[uint64]model.Seat
	reservations map[uint64]model.Reservation
	resSeats     map[uint64][]uint64

	nextShowtime    uint64
	nextSeat        uint64
	nextReservation uint64
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		showtimes:    map[uint64]model.Showtime{},
		seats:        map[uint64]model.Seat{},
		reservations: map[uint64]model.Reservation{},
		resSeats:     map[uint64][]uint64{},
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		showtimes:       make(map[uint64]model.Showtime, len(s.showtimes)),
		seats:           make(map[uint64]model.Seat, len(s.seats)),
		reservations:    make(map[uint64]model.Reservation, len(s.reservations)),
		resSeats:        make(map[uint64][]uint64, len(s.resSeats)),
		nextShowtime:    s.nextShowtime,
		nextSeat:        s.nextSeat,
		nextReservation: s.nextReservation,
	}
	for k, v := range s.showtimes {
		c.showtimes[k] = v
	}
	for k, v := range s.seats {
		c.seats[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.resSeats {
		ids := make([]uint64, len(v))
		copy(ids, v)
		c.resSeats[k] = ids
	}
	return c
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(&memTx{store: m}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// seatByID returns the current seat row, for assertions.
func (m *memStore) seatByID(id uint64) (model.Seat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.state.seats[id]
	return s, ok
}

// seatsOf returns the seats of a showtime ordered by row then number.
func (m *memStore) seatsOf(showtimeID uint64) []model.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Seat
	for _, s := range m.state.seats {
		if s.ShowtimeID == showtimeID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RowLabel != out[j].RowLabel {
			return out[i].RowLabel < out[j].RowLabel
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out
}

func (m *memStore) reservationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.reservations)
}

type memTx struct {
	store *memStore
}

func (t *memTx) ShowtimeExists(_ context.Context, showtimeID uint64) (bool, error) {
	_, ok := t.store.state.showtimes[showtimeID]
	return ok, nil
}

func (t *memTx) InsertShowtime(_ context.Context, st *model.Showtime) error {
	t.store.state.nextShowtime++
	st.ID = t.store.state.nextShowtime
	st.CreatedAt = time.Now().UTC()
	t.store.state.showtimes[st.ID] = *st
	return nil
}

func (t *memTx) SeatCount(_ context.Context, showtimeID uint64) (int, error) {
	n := 0
	for _, s := range t.store.state.seats {
		if s.ShowtimeID == showtimeID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) InsertSeats(_ context.Context, seats []model.Seat) error {
	for _, s := range seats {
		t.store.state.nextSeat++
		s.ID = t.store.state.nextSeat
		t.store.state.seats[s.ID] = s
	}
	return nil
}

func (t *memTx) LockAvailableSeats(_ context.Context, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	var out []model.Seat
	for _, id := range seatIDs {
		s, ok := t.store.state.seats[id]
		if !ok || s.ShowtimeID != showtimeID || s.IsReserved {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RowLabel != out[j].RowLabel {
			return out[i].RowLabel < out[j].RowLabel
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out, nil
}

func (t *memTx) MarkSeatsReserved(_ context.Context, seatIDs []uint64, reserved bool) error {
	for _, id := range seatIDs {
		s := t.store.state.seats[id]
		s.IsReserved = reserved
		t.store.state.seats[id] = s
	}
	return nil
}

func (t *memTx) InsertReservation(_ context.Context, res *model.Reservation) error {
	t.store.state.nextReservation++
	res.ID = t.store.state.nextReservation
	res.CreatedAt = time.Now().UTC()
	t.store.state.reservations[res.ID] = *res
	return nil
}

func (t *memTx) LinkReservationSeats(_ context.Context, reservationID uint64, seatIDs []uint64) error {
	if t.store.linkErr != nil {
		return t.store.linkErr
	}
	ids := make([]uint64, len(seatIDs))
	copy(ids, seatIDs)
	t.store.state.resSeats[reservationID] = ids
	return nil
}

func (t *memTx) ReservationForUser(_ context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	r, ok := t.store.state.reservations[reservationID]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	out := r
	return &out, nil
}

func (t *memTx) ReservationSeatIDs(_ context.Context, reservationID uint64) ([]uint64, error) {
	ids := t.store.state.resSeats[reservationID]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}

func (t *memTx) DeleteReservation(_ context.Context, reservationID uint64) error {
	delete(t.store.state.reservations, reservationID)
	delete(t.store.state.resSeats, reservationID)
	return nil
}
