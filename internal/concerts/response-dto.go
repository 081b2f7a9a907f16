package concerts

// ConcertSummary is the lightweight catalog listing entry
type ConcertSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ImageName string `json:"image_name"`
}
