package seats

import (
	"time"
)

// Seat is the persisted state of one bookable unit: a labelled seat on a
// single concert date. Rows are created by the seed tool for every
// published date and updated write-behind when bookings commit; the
// in-memory ledger is the authority while the process runs.
type Seat struct {
	ID       uint      `json:"-" gorm:"primaryKey"`
	Label    string    `json:"label" gorm:"size:8;not null;uniqueIndex:idx_seats_label_date"`
	Date     time.Time `json:"date" gorm:"not null;uniqueIndex:idx_seats_label_date;index"`
	Price    float64   `json:"price" gorm:"not null"`
	IsBooked bool      `json:"is_booked" gorm:"not null;default:false"`
	Version  uint64    `json:"-" gorm:"not null;default:0"`
}

func (Seat) TableName() string {
	return "seats"
}

// SeatKey identifies one seat on one concert date. Immutable.
type SeatKey struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
}

// SeatFlip is one booked-state transition together with the version the
// ledger assigned to it inside the shard critical section. Versions are
// strictly increasing per seat, which lets the write-behind store update
// discard a delayed flip that would overwrite a newer state.
type SeatFlip struct {
	Label   string
	Date    time.Time
	Booked  bool
	Version uint64
}

// BookingStatus filters the seats-for-date listing
type BookingStatus string

const (
	StatusAny      BookingStatus = "any"
	StatusBooked   BookingStatus = "booked"
	StatusUnbooked BookingStatus = "unbooked"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusAny, "":
		return StatusAny, true
	case StatusBooked:
		return StatusBooked, true
	case StatusUnbooked:
		return StatusUnbooked, true
	default:
		return "", false
	}
}

// DateKey normalizes a concert date for use as a map key. Dates arriving
// from JSON or the database may differ in location; the ledger and the
// subscription registry must treat them as the same instant.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
