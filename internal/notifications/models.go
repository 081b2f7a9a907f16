package notifications

import "time"

// ThresholdEvent is the audit record published when a booking pushes a
// concert date's occupancy across one or more subscriber thresholds
type ThresholdEvent struct {
	EventID          string    `json:"event_id"`
	ConcertID        uint      `json:"concert_id"`
	Date             time.Time `json:"date"`
	OccupancyPercent int       `json:"occupancy_percent"`
	FreeSeats        int       `json:"free_seats"`
	SubscribersSent  int       `json:"subscribers_sent"`
	OccurredAt       time.Time `json:"occurred_at"`
}
