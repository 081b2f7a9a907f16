package bookings

import "time"

// BookingRequest is the payload of a booking attempt
type BookingRequest struct {
	ConcertID  uint      `json:"concert_id" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	SeatLabels []string  `json:"seat_labels"`
}
