package subscriptions

import "time"

// SubscribeRequest asks to be notified once booked occupancy for the
// concert date reaches the given percentage
type SubscribeRequest struct {
	ConcertID        uint      `json:"concert_id" validate:"required"`
	Date             time.Time `json:"date" validate:"required"`
	ThresholdPercent int       `json:"threshold_percent" validate:"min=0,max=100"`
}
