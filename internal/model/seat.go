package model

// Seat is a bookable unit of capacity within one showtime.  The
// (ShowtimeID, RowLabel, SeatNumber) triple is unique.  IsReserved
// flips true only inside a successful reservation commit and back to
// false only when that reservation is cancelled.
type Seat struct {
	ID         uint64 // seats.id
	ShowtimeID uint64 // seats.showtime_id
	RowLabel   string // seats.row_label (A..J)
	SeatNumber uint32 // seats.seat_number (1..10)
	IsReserved bool   // seats.is_reserved
}
