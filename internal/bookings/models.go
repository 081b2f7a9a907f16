package bookings

import (
	"time"

	"concertly/internal/seats"

	"github.com/google/uuid"
)

// Booking is the persisted record of a committed reservation. Created
// once and never mutated; cancellation releases the seats and removes
// the record rather than rewriting it.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	BookingRef string    `json:"booking_ref" gorm:"uniqueIndex;not null"`
	ConcertID  uint      `json:"concert_id" gorm:"index;not null"`
	Date       time.Time `json:"date" gorm:"not null"`
	OwnerID    uuid.UUID `json:"owner_id" gorm:"type:uuid;index;not null"`
	TotalPrice float64   `json:"total_price" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Seats []BookedSeat `json:"seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookedSeat pins one seat of the theatre grid to a booking
type BookedSeat struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	BookingID uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	Label     string    `json:"label" gorm:"size:8;not null"`
	Date      time.Time `json:"date" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (BookedSeat) TableName() string {
	return "booked_seats"
}

// SeatKeys returns the ledger keys of every seat in the booking
func (b *Booking) SeatKeys() []seats.SeatKey {
	keys := make([]seats.SeatKey, 0, len(b.Seats))
	for _, s := range b.Seats {
		keys = append(keys, seats.SeatKey{Label: s.Label, Date: s.Date})
	}
	return keys
}
