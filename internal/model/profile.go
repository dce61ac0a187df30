package model

// Profile holds the display attributes attached one-to-one to a user
// account.  It is created at registration time in the same transaction
// as the user row.
type Profile struct {
	UserID        uint64 // profiles.user_id (unique FK)
	FullName      string // profiles.full_name
	Phone         string // profiles.phone
	FavoriteGenre string // profiles.favorite_genre (may be empty)
}
