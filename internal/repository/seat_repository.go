package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-reservation/internal/model"
)

// SeatRepo provides read access to a showtime's seat inventory.  Seat
// rows are created in bulk by the engine when a showtime is created
// and are never inserted individually afterwards; all mutation of the
// is_reserved flag goes through the engine's transactions.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// AvailableByShowtime returns the unreserved seats of a showtime
// ordered by row_label then seat_number.  Read-only; it takes no locks
// and is safe under arbitrary concurrency.
func (r *SeatRepo) AvailableByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	const q = `SELECT id, showtime_id, row_label, seat_number, is_reserved
	           FROM seats
	           WHERE showtime_id = ? AND is_reserved = 0
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.RowLabel, &s.SeatNumber, &s.IsReserved); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByShowtime returns the total number of seats provisioned for a
// showtime, reserved or not.
func (r *SeatRepo) CountByShowtime(ctx context.Context, showtimeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE showtime_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, showtimeID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
