package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-reservation/internal/model"
	"github.com/iliyamo/movie-reservation/internal/service"
)

// Store adapts *sql.DB to the reservation engine's unit-of-work port.
// Every engine commit runs inside one database transaction; the seat
// availability re-check locks the targeted rows with FOR UPDATE so two
// concurrent transactions cannot both observe a seat as free.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// WithinTx runs fn inside a transaction.  A non-nil error from fn (or
// from commit) rolls everything back; no seat flag or reservation row
// survives a failed unit of work.
func (s *Store) WithinTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// storeTx implements service.Tx over an open *sql.Tx.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) ShowtimeExists(ctx context.Context, showtimeID uint64) (bool, error) {
	const q = `SELECT id FROM showtimes WHERE id = ?`
	var id uint64
	err := t.tx.QueryRowContext(ctx, q, showtimeID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (t *storeTx) InsertShowtime(ctx context.Context, st *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, screen_id, starts_at) VALUES (?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, st.MovieID, st.ScreenID, st.StartsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	return nil
}

func (t *storeTx) SeatCount(ctx context.Context, showtimeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE showtime_id = ?`
	var n int
	if err := t.tx.QueryRowContext(ctx, q, showtimeID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *storeTx) InsertSeats(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (showtime_id, row_label, seat_number) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.ShowtimeID, s.RowLabel, s.SeatNumber)
	}
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

// LockAvailableSeats is the critical read of the reservation protocol.
// FOR UPDATE makes the selected rows exclusive to this transaction, so
// the availability observed here is the committed state at lock time,
// not a stale snapshot from before the transaction began.
func (t *storeTx) LockAvailableSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id, showtime_id, row_label, seat_number, is_reserved
	          FROM seats
	          WHERE showtime_id = ? AND is_reserved = 0 AND id IN (` + placeholders(len(seatIDs)) + `)
	          ORDER BY row_label, seat_number
	          FOR UPDATE`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showtimeID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.RowLabel, &s.SeatNumber, &s.IsReserved); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *storeTx) MarkSeatsReserved(ctx context.Context, seatIDs []uint64, reserved bool) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `UPDATE seats SET is_reserved = ? WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, reserved)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *storeTx) InsertReservation(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, showtime_id, code) VALUES (?, ?, ?)`
	r, err := t.tx.ExecContext(ctx, q, res.UserID, res.ShowtimeID, res.Code)
	if err != nil {
		return err
	}
	id, err := r.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back created_at so the caller sees the stored timestamp.
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return t.tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

func (t *storeTx) LinkReservationSeats(ctx context.Context, reservationID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_seats (reservation_id, seat_id) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reservationID, id)
	}
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *storeTx) ReservationForUser(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, showtime_id, code, created_at
	           FROM reservations WHERE id = ? AND user_id = ?`
	var r model.Reservation
	err := t.tx.QueryRowContext(ctx, q, reservationID, userID).
		Scan(&r.ID, &r.UserID, &r.ShowtimeID, &r.Code, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (t *storeTx) ReservationSeatIDs(ctx context.Context, reservationID uint64) ([]uint64, error) {
	const q = `SELECT seat_id FROM reservation_seats WHERE reservation_id = ?`
	rows, err := t.tx.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *storeTx) DeleteReservation(ctx context.Context, reservationID uint64) error {
	// Seat links first; the reservations FK would also cascade but the
	// repository does not rely on schema options for correctness.
	const delSeats = `DELETE FROM reservation_seats WHERE reservation_id = ?`
	if _, err := t.tx.ExecContext(ctx, delSeats, reservationID); err != nil {
		return err
	}
	const delRes = `DELETE FROM reservations WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, delRes, reservationID)
	return err
}

// placeholders returns n comma-separated ? markers for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
