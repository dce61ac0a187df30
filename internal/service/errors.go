// Package service implements the reservation core: the atomic reserve
// and cancel protocols and the one-time seat provisioning that runs
// with showtime creation.  Handlers translate the sentinel errors
// defined here into HTTP responses; anything else coming out of the
// engine is a commit failure and maps to a 500.
package service

import "errors"

// ErrValidation is returned when the caller's input is malformed
// before any storage access happens (empty or invalid seat id list).
var ErrValidation = errors.New("invalid input")

// ErrShowtimeNotFound is returned when the referenced showtime does
// not exist.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrReservationNotFound is returned when a reservation does not exist
// or belongs to a different user.  The two cases are deliberately not
// distinguished so callers cannot probe for other users' reservations.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSeatsConflict is returned when one or more requested seats are no
// longer available.  The whole request is rejected; the caller should
// re-query availability and retry with a fresh selection.
var ErrSeatsConflict = errors.New("one or more selected seats are already reserved")
