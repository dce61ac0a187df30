package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-reservation/internal/repository"
)

// CatalogHandler serves the public browsing endpoints: movie listings,
// showtime listings, available showtimes and the seat map.
type CatalogHandler struct {
	Movies    *repository.MovieRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

func NewCatalogHandler(m *repository.MovieRepo, st *repository.ShowtimeRepo, s *repository.SeatRepo) *CatalogHandler {
	return &CatalogHandler{Movies: m, Showtimes: st, Seats: s}
}

type movieResp struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    uint32  `json:"duration"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

// ListMovies returns the whole catalog ordered by title.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieResp{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Duration:    m.DurationMin,
			Genre:       m.Genre,
			Rating:      m.Rating,
			PosterURL:   m.PosterURL,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

// ListShowtimes returns every showtime with movie and screen expanded.
func (h *CatalogHandler) ListShowtimes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	showtimes, err := h.Showtimes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": showtimes})
}

// AvailableShowtimes lists future showtimes of one movie, optionally
// filtered by a date range (start_date and end_date as YYYY-MM-DD,
// both required together) and a genre. An empty result is reported as
// 404 so clients can distinguish "nothing scheduled" from an empty
// page.
func (h *CatalogHandler) AvailableShowtimes(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movie_id"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	q := repository.AvailableQuery{MovieID: movieID, Genre: strings.TrimSpace(c.QueryParam("genre"))}

	startStr := strings.TrimSpace(c.QueryParam("start_date"))
	endStr := strings.TrimSpace(c.QueryParam("end_date"))
	if (startStr == "") != (endStr == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date and end_date must be provided together"})
	}
	if startStr != "" {
		from, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date, expected YYYY-MM-DD"})
		}
		to, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date, expected YYYY-MM-DD"})
		}
		// Make end_date inclusive for the whole day.
		to = to.Add(24*time.Hour - time.Second)
		if to.Before(from) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date before start_date"})
		}
		q.From = &from
		q.To = &to
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	showtimes, err := h.Showtimes.AvailableByMovie(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(showtimes) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no available showtimes found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": showtimes})
}

type seatResp struct {
	ID     uint64 `json:"id"`
	Row    string `json:"row"`
	Number uint32 `json:"number"`
}

// AvailableSeats returns the free seats of a showtime that belongs to
// the given movie.
func (h *CatalogHandler) AvailableSeats(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movie_id"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	showtimeID, err := strconv.ParseUint(c.Param("showtime_id"), 10, 64)
	if err != nil || showtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	head, err := h.Showtimes.GetHeaderForMovie(ctx, movieID, showtimeID)
	if err != nil {
		if err == repository.ErrShowtimeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	seats, err := h.Seats.AvailableByShowtime(ctx, showtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]seatResp, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatResp{ID: s.ID, Row: s.RowLabel, Number: s.SeatNumber})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie_title":     head.MovieTitle,
		"showtime_start":  head.StartsAt.UTC().Format(time.RFC3339),
		"available_seats": out,
	})
}
