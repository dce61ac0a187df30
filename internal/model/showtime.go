package model

import "time"

// Showtime is a single scheduled screening of a movie on a screen.
// Creating a showtime also creates its full seat inventory inside the
// same transaction; a showtime is never visible without seats.
type Showtime struct {
	ID        uint64    // showtimes.id
	MovieID   uint64    // showtimes.movie_id
	ScreenID  uint64    // showtimes.screen_id
	StartsAt  time.Time // showtimes.starts_at
	CreatedAt time.Time // showtimes.created_at
}
