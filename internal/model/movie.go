package model

import "time"

// Movie represents a film in the catalog.  Genre is a single label
// used by showtime filtering, Rating runs 0 to 10, and PosterURL is
// nil when no artwork has been uploaded.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	DurationMin uint32    // movies.duration_min
	Genre       string    // movies.genre
	Rating      float64   // movies.rating
	PosterURL   *string   // movies.poster_url (nullable)
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
