package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-reservation/internal/middleware"
	"github.com/iliyamo/movie-reservation/internal/repository"
)

// ProfileHandler serves the authenticated user's profile together
// with their reservation history.
type ProfileHandler struct {
	Profiles     *repository.ProfileRepo
	Reservations *repository.ReservationRepo
}

func NewProfileHandler(p *repository.ProfileRepo, r *repository.ReservationRepo) *ProfileHandler {
	return &ProfileHandler{Profiles: p, Reservations: r}
}

type profileResp struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	FavoriteGenre string `json:"favorite_genre"`
}

// Get returns the caller's profile and reservations in one payload.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	list, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"profile": profileResp{
			FullName:      p.FullName,
			Phone:         p.Phone,
			FavoriteGenre: p.FavoriteGenre,
		},
		"reservations": list,
	})
}
