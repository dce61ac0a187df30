package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-reservation/internal/model"
)

// ErrShowtimeNotFound is returned when a showtime lookup yields no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ShowtimeRepo provides read access to showtimes with their movie and
// screen expanded.  Showtime creation goes through the engine's store
// so that seat provisioning happens in the same transaction.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// MoviePart is the movie payload nested inside showtime responses.
type MoviePart struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    uint32  `json:"duration"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

// ScreenPart is the screen payload nested inside showtime responses.
type ScreenPart struct {
	ID         uint64 `json:"id"`
	Number     uint32 `json:"number"`
	TotalSeats uint32 `json:"total_seats"`
}

// ShowtimeDetail is a showtime with its movie and screen expanded,
// as returned by the listing endpoints.
type ShowtimeDetail struct {
	ID        uint64     `json:"id"`
	StartTime string     `json:"start_time"`
	Movie     MoviePart  `json:"movie"`
	Screen    ScreenPart `json:"screen"`
}

const showtimeDetailCols = `st.id, st.starts_at,
	       m.id, m.title, m.description, m.duration_min, m.genre, m.rating, m.poster_url,
	       sc.id, sc.number, sc.total_seats
	FROM showtimes st
	JOIN movies m  ON m.id  = st.movie_id
	JOIN screens sc ON sc.id = st.screen_id`

func scanShowtimeDetail(rows *sql.Rows) (ShowtimeDetail, error) {
	var d ShowtimeDetail
	var startsAt time.Time
	var poster sql.NullString
	if err := rows.Scan(
		&d.ID, &startsAt,
		&d.Movie.ID, &d.Movie.Title, &d.Movie.Description, &d.Movie.Duration,
		&d.Movie.Genre, &d.Movie.Rating, &poster,
		&d.Screen.ID, &d.Screen.Number, &d.Screen.TotalSeats,
	); err != nil {
		return ShowtimeDetail{}, err
	}
	d.StartTime = startsAt.UTC().Format(time.RFC3339)
	if poster.Valid {
		p := poster.String
		d.Movie.PosterURL = &p
	}
	return d, nil
}

// List returns every showtime with movie and screen details, ordered
// by start time.
func (r *ShowtimeRepo) List(ctx context.Context) ([]ShowtimeDetail, error) {
	const q = `SELECT ` + showtimeDetailCols + ` ORDER BY st.starts_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShowtimeDetails(rows)
}

// AvailableQuery carries the optional filters for AvailableByMovie.
// From/To bound starts_at when both are set; Genre is matched
// case-insensitively against the movie's genre.
type AvailableQuery struct {
	MovieID uint64
	From    *time.Time
	To      *time.Time
	Genre   string
}

// AvailableByMovie returns future showtimes of a movie, optionally
// narrowed by a date range and a genre.  Only showtimes strictly after
// the current time are returned.
func (r *ShowtimeRepo) AvailableByMovie(ctx context.Context, q AvailableQuery) ([]ShowtimeDetail, error) {
	query := `SELECT ` + showtimeDetailCols + ` WHERE st.movie_id = ? AND st.starts_at > ?`
	args := []interface{}{q.MovieID, time.Now().UTC()}
	if q.From != nil && q.To != nil {
		query += ` AND st.starts_at BETWEEN ? AND ?`
		args = append(args, q.From.UTC(), q.To.UTC())
	}
	if q.Genre != "" {
		query += ` AND LOWER(m.genre) = LOWER(?)`
		args = append(args, q.Genre)
	}
	query += ` ORDER BY st.starts_at`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShowtimeDetails(rows)
}

func collectShowtimeDetails(rows *sql.Rows) ([]ShowtimeDetail, error) {
	result := make([]ShowtimeDetail, 0)
	for rows.Next() {
		d, err := scanShowtimeDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a bare showtime row.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, movie_id, screen_id, starts_at, created_at FROM showtimes WHERE id = ?`
	var st model.Showtime
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&st.ID, &st.MovieID, &st.ScreenID, &st.StartsAt, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ShowtimeHeader is the movie title and start time of one showtime,
// used by the available-seats endpoint and notification emails.
type ShowtimeHeader struct {
	ShowtimeID uint64
	MovieTitle string
	StartsAt   time.Time
}

// GetHeaderForMovie returns the header of a showtime only when it
// belongs to the given movie; ErrShowtimeNotFound otherwise.
func (r *ShowtimeRepo) GetHeaderForMovie(ctx context.Context, movieID, showtimeID uint64) (*ShowtimeHeader, error) {
	const q = `SELECT st.id, m.title, st.starts_at
	           FROM showtimes st
	           JOIN movies m ON m.id = st.movie_id
	           WHERE st.id = ? AND st.movie_id = ?`
	var h ShowtimeHeader
	err := r.db.QueryRowContext(ctx, q, showtimeID, movieID).
		Scan(&h.ShowtimeID, &h.MovieTitle, &h.StartsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetHeader returns the header of a showtime regardless of movie.
func (r *ShowtimeRepo) GetHeader(ctx context.Context, showtimeID uint64) (*ShowtimeHeader, error) {
	const q = `SELECT st.id, m.title, st.starts_at
	           FROM showtimes st
	           JOIN movies m ON m.id = st.movie_id
	           WHERE st.id = ?`
	var h ShowtimeHeader
	err := r.db.QueryRowContext(ctx, q, showtimeID).
		Scan(&h.ShowtimeID, &h.MovieTitle, &h.StartsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &h, nil
}
