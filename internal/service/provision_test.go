package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-reservation/internal/model"
)

func TestCreateShowtimeProvisionsFullLayout(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)

	st := &model.Showtime{MovieID: 1, ScreenID: 1, StartsAt: time.Now().Add(time.Hour)}
	require.NoError(t, e.CreateShowtime(context.Background(), st))

	seats := store.seatsOf(st.ID)
	require.Len(t, seats, 100)

	// Rows A..J, ten seats each, none reserved.
	i := 0
	for r := 0; r < 10; r++ {
		for num := 1; num <= 10; num++ {
			s := seats[i]
			assert.Equal(t, string(rune('A'+r)), s.RowLabel)
			assert.Equal(t, uint32(num), s.SeatNumber)
			assert.False(t, s.IsReserved)
			i++
		}
	}
}

func TestProvisionSeatsIsIdempotent(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)

	st := &model.Showtime{MovieID: 1, ScreenID: 1, StartsAt: time.Now().Add(time.Hour)}
	require.NoError(t, e.CreateShowtime(context.Background(), st))

	// A second provisioning pass must not add a single seat.
	require.NoError(t, e.ProvisionSeats(context.Background(), st.ID))
	assert.Len(t, store.seatsOf(st.ID), 100)
}

func TestProvisionSeatsUnknownShowtime(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)

	err := e.ProvisionSeats(context.Background(), 99)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestShowtimesHaveIndependentInventories(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)

	first := &model.Showtime{MovieID: 1, ScreenID: 1, StartsAt: time.Now().Add(time.Hour)}
	second := &model.Showtime{MovieID: 1, ScreenID: 1, StartsAt: time.Now().Add(2 * time.Hour)}
	require.NoError(t, e.CreateShowtime(context.Background(), first))
	require.NoError(t, e.CreateShowtime(context.Background(), second))

	assert.Len(t, store.seatsOf(first.ID), 100)
	assert.Len(t, store.seatsOf(second.ID), 100)
}
