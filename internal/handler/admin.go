package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-reservation/internal/model"
	"github.com/iliyamo/movie-reservation/internal/repository"
	"github.com/iliyamo/movie-reservation/internal/service"
)

// AdminHandler serves the catalog management endpoints, restricted to
// the ADMIN role by the router.
type AdminHandler struct {
	Movies  *repository.MovieRepo
	Screens *repository.ScreenRepo
	Engine  *service.Engine
}

func NewAdminHandler(m *repository.MovieRepo, s *repository.ScreenRepo, e *service.Engine) *AdminHandler {
	return &AdminHandler{Movies: m, Screens: s, Engine: e}
}

type createMovieReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    uint32  `json:"duration"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
	PosterURL   *string `json:"poster_url"`
}

// CreateMovie adds a movie to the catalog.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Duration == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and duration required"})
	}
	if req.Rating < 0 || req.Rating > 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 0 and 10"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Movie{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.Duration,
		Genre:       strings.TrimSpace(req.Genre),
		Rating:      req.Rating,
		PosterURL:   req.PosterURL,
	}
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

type createScreenReq struct {
	Number     uint32 `json:"number"`
	TotalSeats uint32 `json:"total_seats"`
}

// CreateScreen registers an auditorium.  TotalSeats is informational;
// the seat layout provisioned per showtime is fixed.
func (h *AdminHandler) CreateScreen(c echo.Context) error {
	var req createScreenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number required"})
	}
	if req.TotalSeats == 0 {
		req.TotalSeats = 100
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := &model.Screen{Number: req.Number, TotalSeats: req.TotalSeats}
	if err := h.Screens.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create screen failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": s.ID})
}

type createShowtimeReq struct {
	MovieID  uint64 `json:"movie_id"`
	ScreenID uint64 `json:"screen_id"`
	StartsAt string `json:"starts_at"` // RFC3339
}

// CreateShowtime schedules a showing and provisions its full seat map
// in the same transaction, so a showtime is never visible without its
// seats.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var req createShowtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.ScreenID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and screen_id required"})
	}
	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at, expected RFC3339"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Screens.GetByID(ctx, req.ScreenID); err != nil {
		if err == repository.ErrScreenNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	st := &model.Showtime{
		MovieID:  req.MovieID,
		ScreenID: req.ScreenID,
		StartsAt: startsAt.UTC(),
	}
	if err := h.Engine.CreateShowtime(ctx, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showtime failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": st.ID})
}
