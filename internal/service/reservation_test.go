package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-reservation/internal/model"
)

func newTestShowtime(t *testing.T, e *Engine) uint64 {
	t.Helper()
	st := &model.Showtime{MovieID: 1, ScreenID: 1, StartsAt: time.Now().Add(24 * time.Hour)}
	require.NoError(t, e.CreateShowtime(context.Background(), st))
	require.NotZero(t, st.ID)
	return st.ID
}

func TestReserveSuccess(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	res, seats, err := e.Reserve(context.Background(), 7, showtimeID, []uint64{5, 6})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Code)
	assert.Equal(t, uint64(7), res.UserID)
	assert.Equal(t, showtimeID, res.ShowtimeID)

	require.Len(t, seats, 2)
	for _, s := range seats {
		assert.True(t, s.IsReserved)
	}
	for _, id := range []uint64{5, 6} {
		got, ok := store.seatByID(id)
		require.True(t, ok)
		assert.True(t, got.IsReserved, "seat %d should be reserved", id)
	}
}

func TestReserveConflictRejectsWholeRequest(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	_, _, err := e.Reserve(context.Background(), 1, showtimeID, []uint64{5, 6})
	require.NoError(t, err)

	// Seat 6 is taken, so the request for 6 and 7 must fail entirely.
	_, _, err = e.Reserve(context.Background(), 2, showtimeID, []uint64{6, 7})
	require.ErrorIs(t, err, ErrSeatsConflict)

	seat7, ok := store.seatByID(7)
	require.True(t, ok)
	assert.False(t, seat7.IsReserved, "seat 7 must stay free after the conflicting request")
	assert.Equal(t, 1, store.reservationCount())
}

func TestReserveValidation(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	_, _, err := e.Reserve(context.Background(), 1, showtimeID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = e.Reserve(context.Background(), 1, showtimeID, []uint64{})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = e.Reserve(context.Background(), 1, showtimeID, []uint64{0, 3})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReserveDeduplicatesSeatIDs(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	res, seats, err := e.Reserve(context.Background(), 1, showtimeID, []uint64{5, 5, 5})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, seats, 1)
}

func TestReserveUnknownShowtime(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)

	_, _, err := e.Reserve(context.Background(), 1, 42, []uint64{1})
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestReserveSeatOfOtherShowtime(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	_ = newTestShowtime(t, e) // owns seats 1..100
	second := newTestShowtime(t, e)

	// Seat 5 belongs to the first showtime, not the second.
	_, _, err := e.Reserve(context.Background(), 1, second, []uint64{5})
	assert.ErrorIs(t, err, ErrSeatsConflict)
}

func TestReserveRollsBackOnFailure(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	boom := errors.New("link failed")
	store.linkErr = boom

	_, _, err := e.Reserve(context.Background(), 1, showtimeID, []uint64{5, 6})
	require.ErrorIs(t, err, boom)

	// The failed unit of work must leave no trace: no reservation row
	// and every seat still free.
	assert.Equal(t, 0, store.reservationCount())
	for _, s := range store.seatsOf(showtimeID) {
		assert.False(t, s.IsReserved)
	}
}

func TestCancelReleasesSeats(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	res, _, err := e.Reserve(context.Background(), 1, showtimeID, []uint64{5, 6})
	require.NoError(t, err)

	cancelled, err := e.Cancel(context.Background(), 1, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Code, cancelled.Code)

	for _, id := range []uint64{5, 6} {
		got, ok := store.seatByID(id)
		require.True(t, ok)
		assert.False(t, got.IsReserved, "seat %d should be released", id)
	}
	assert.Equal(t, 0, store.reservationCount())

	// A second cancel finds nothing.
	_, err = e.Cancel(context.Background(), 1, res.ID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancelForeignReservation(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	res, _, err := e.Reserve(context.Background(), 1, showtimeID, []uint64{5})
	require.NoError(t, err)

	// Another user cannot cancel it, and nothing changes.
	_, err = e.Cancel(context.Background(), 2, res.ID)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	seat, ok := store.seatByID(5)
	require.True(t, ok)
	assert.True(t, seat.IsReserved)
	assert.Equal(t, 1, store.reservationCount())
}

func TestCancelledSeatsCanBeRebooked(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	res, _, err := e.Reserve(context.Background(), 1, showtimeID, []uint64{5, 6})
	require.NoError(t, err)
	_, err = e.Cancel(context.Background(), 1, res.ID)
	require.NoError(t, err)

	_, seats, err := e.Reserve(context.Background(), 2, showtimeID, []uint64{5, 6})
	require.NoError(t, err)
	assert.Len(t, seats, 2)
}

func TestConcurrentReserveNoDoubleBooking(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	showtimeID := newTestShowtime(t, e)

	const workers = 32
	var (
		wg        sync.WaitGroup
		successes int64
		conflicts int64
		mu        sync.Mutex
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(user uint64) {
			defer wg.Done()
			_, _, err := e.Reserve(context.Background(), user, showtimeID, []uint64{13})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSeatsConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes, "exactly one request may win the seat")
	assert.Equal(t, int64(workers-1), conflicts)
	assert.Equal(t, 1, store.reservationCount())
}
