package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-reservation/internal/model"
)

// ErrProfileNotFound is returned when a user has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepo persists the display attributes attached to accounts.
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo returns a ProfileRepo bound to the given database.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// CreateTx inserts a profile inside an existing transaction.  It is
// called from registration together with UserRepo.CreateTx so account
// and profile are committed as one unit.
func (r *ProfileRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	const q = `INSERT INTO profiles (user_id, full_name, phone, favorite_genre) VALUES (?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, p.UserID, p.FullName, p.Phone, p.FavoriteGenre)
	return err
}

// GetByUserID retrieves the profile of a user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Profile, error) {
	const q = `SELECT user_id, full_name, phone, favorite_genre FROM profiles WHERE user_id = ?`
	var p model.Profile
	err := r.db.QueryRowContext(ctx, q, userID).
		Scan(&p.UserID, &p.FullName, &p.Phone, &p.FavoriteGenre)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}
