package seats

import "time"

// SeatResponse is the wire shape of one seat in the listing
type SeatResponse struct {
	Label    string    `json:"label"`
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
	IsBooked bool      `json:"is_booked"`
}

func toSeatResponses(rows []Seat) []SeatResponse {
	out := make([]SeatResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, SeatResponse{
			Label:    s.Label,
			Date:     s.Date,
			Price:    s.Price,
			IsBooked: s.IsBooked,
		})
	}
	return out
}
