package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// ReservationRepo assembles reservation history for display.  Writes
// to reservations and reservation_seats happen only through the
// engine's store; this repository is the read side.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// SeatPart identifies one booked seat inside a reservation response.
type SeatPart struct {
	SeatID     uint64 `json:"id"`
	RowLabel   string `json:"row"`
	SeatNumber uint32 `json:"number"`
}

// ReservationDetail is a reservation expanded with its showtime, movie,
// screen and booked seats, as shown in the profile history.
type ReservationDetail struct {
	ID         uint64     `json:"id"`
	Code       string     `json:"code"`
	ReservedAt string     `json:"reserved_at"`
	Showtime   struct {
		ID        uint64     `json:"id"`
		StartTime string     `json:"start_time"`
		Movie     MoviePart  `json:"movie"`
		Screen    ScreenPart `json:"screen"`
	} `json:"showtime"`
	Seats []SeatPart `json:"seats"`
}

// ListByUser returns all reservations of a user, newest first, each
// expanded with showtime, movie, screen and seat details.  Seats for
// the whole page are fetched with one IN query and fanned back in.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.code, r.created_at,
	                  st.id, st.starts_at,
	                  m.id, m.title, m.description, m.duration_min, m.genre, m.rating, m.poster_url,
	                  sc.id, sc.number, sc.total_seats
	           FROM reservations r
	           JOIN showtimes st ON st.id = r.showtime_id
	           JOIN movies m     ON m.id  = st.movie_id
	           JOIN screens sc   ON sc.id = st.screen_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		var reservedAt, startsAt time.Time
		var poster sql.NullString
		if err := rows.Scan(
			&d.ID, &d.Code, &reservedAt,
			&d.Showtime.ID, &startsAt,
			&d.Showtime.Movie.ID, &d.Showtime.Movie.Title, &d.Showtime.Movie.Description,
			&d.Showtime.Movie.Duration, &d.Showtime.Movie.Genre, &d.Showtime.Movie.Rating, &poster,
			&d.Showtime.Screen.ID, &d.Showtime.Screen.Number, &d.Showtime.Screen.TotalSeats,
		); err != nil {
			return nil, err
		}
		d.ReservedAt = reservedAt.UTC().Format(time.RFC3339)
		d.Showtime.StartTime = startsAt.UTC().Format(time.RFC3339)
		if poster.Valid {
			p := poster.String
			d.Showtime.Movie.PosterURL = &p
		}
		d.Seats = []SeatPart{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// One query for all seats of the listed reservations.
	ids := make([]interface{}, 0, len(details))
	marks := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		marks = append(marks, "?")
	}
	seatQ := `SELECT rs.reservation_id, rs.seat_id, s.row_label, s.seat_number
	          FROM reservation_seats rs
	          JOIN seats s ON s.id = rs.seat_id
	          WHERE rs.reservation_id IN (` + strings.Join(marks, ",") + `)
	          ORDER BY rs.reservation_id, s.row_label, s.seat_number`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var rid uint64
		var sp SeatPart
		if err := srows.Scan(&rid, &sp.SeatID, &sp.RowLabel, &sp.SeatNumber); err != nil {
			return nil, err
		}
		idx, ok := index[rid]
		if !ok {
			continue
		}
		details[idx].Seats = append(details[idx].Seats, sp)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// SeatLabels returns the "A1"-style labels of the seats linked to a
// reservation, for notification payloads.
func (r *ReservationRepo) SeatLabels(ctx context.Context, reservationID uint64) ([]string, error) {
	const q = `SELECT s.row_label, s.seat_number
	           FROM reservation_seats rs
	           JOIN seats s ON s.id = rs.seat_id
	           WHERE rs.reservation_id = ?
	           ORDER BY s.row_label, s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labels []string
	for rows.Next() {
		var row string
		var num uint32
		if err := rows.Scan(&row, &num); err != nil {
			return nil, err
		}
		labels = append(labels, row+strconv.FormatUint(uint64(num), 10))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}
