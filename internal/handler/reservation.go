package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-reservation/internal/middleware"
	"github.com/iliyamo/movie-reservation/internal/model"
	"github.com/iliyamo/movie-reservation/internal/queue"
	"github.com/iliyamo/movie-reservation/internal/repository"
	"github.com/iliyamo/movie-reservation/internal/service"
)

// ReservationHandler exposes booking and cancellation.  The actual
// seat accounting is delegated to the engine; this layer binds input,
// maps sentinels to status codes and fires notification events.
type ReservationHandler struct {
	Engine       *service.Engine
	Reservations *repository.ReservationRepo
	Showtimes    *repository.ShowtimeRepo
	Users        *repository.UserRepo
	Publisher    *queue.Publisher
}

func NewReservationHandler(e *service.Engine, r *repository.ReservationRepo, st *repository.ShowtimeRepo, u *repository.UserRepo, p *queue.Publisher) *ReservationHandler {
	return &ReservationHandler{Engine: e, Reservations: r, Showtimes: st, Users: u, Publisher: p}
}

type reserveReq struct {
	ShowtimeID uint64   `json:"showtime_id"`
	SeatIDs    []uint64 `json:"seat_ids"`
}

type reservationResp struct {
	ID         uint64     `json:"id"`
	Code       string     `json:"code"`
	ShowtimeID uint64     `json:"showtime_id"`
	Seats      []seatResp `json:"seats"`
	ReservedAt string     `json:"reserved_at"`
}

// Create books the requested seats for the authenticated user.  The
// whole request succeeds or fails as one unit; if any seat is taken
// the engine reports a conflict and nothing is booked.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, seats, err := h.Engine.Reserve(ctx, userID, req.ShowtimeID, req.SeatIDs)
	if err != nil {
		switch err {
		case service.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids must be a non-empty list of valid ids"})
		case service.ErrShowtimeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case service.ErrSeatsConflict:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more selected seats are already reserved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}

	out := make([]seatResp, 0, len(seats))
	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatResp{ID: s.ID, Row: s.RowLabel, Number: s.SeatNumber})
		labels = append(labels, s.RowLabel+strconv.FormatUint(uint64(s.SeatNumber), 10))
	}

	go h.publishEvent(queue.KindConfirmed, res, labels)

	return c.JSON(http.StatusCreated, reservationResp{
		ID:         res.ID,
		Code:       res.Code,
		ShowtimeID: res.ShowtimeID,
		Seats:      out,
		ReservedAt: res.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Cancel deletes a reservation owned by the caller and releases its
// seats.  Reservations of other users are indistinguishable from
// missing ones.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Labels fetched before the delete so the cancellation event can
	// still name the seats.
	labels, _ := h.Reservations.SeatLabels(ctx, reservationID)

	res, err := h.Engine.Cancel(ctx, userID, reservationID)
	if err != nil {
		if err == service.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
	}

	go h.publishEvent(queue.KindCancelled, res, labels)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "reservation cancelled",
		"code":    res.Code,
	})
}

// ListMine returns the caller's reservation history.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// publishEvent sends a reservation event to the broker.  Delivery is
// best effort and runs detached from the request, so a broker outage
// never fails a booking.
func (h *ReservationHandler) publishEvent(kind string, res *model.Reservation, labels []string) {
	if h.Publisher == nil || res == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.ReservationEvent{
		Kind:          kind,
		ReservationID: res.ID,
		Code:          res.Code,
		UserID:        res.UserID,
		SeatLabels:    labels,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if head, err := h.Showtimes.GetHeader(ctx, res.ShowtimeID); err == nil {
		ev.MovieTitle = head.MovieTitle
		ev.StartsAt = head.StartsAt.UTC().Format(time.RFC3339)
	}
	if u, err := h.Users.GetByID(ctx, res.UserID); err == nil {
		ev.UserEmail = u.Email
	}
	if err := h.Publisher.Publish(ctx, ev); err != nil {
		log.Printf("reservation: event publish failed: %v", err)
	}
}
