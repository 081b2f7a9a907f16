package database

import (
	"concertly/internal/bookings"
	"concertly/internal/concerts"
	"concertly/internal/seats"
	"concertly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&concerts.Performer{},
		&concerts.Concert{},
		&concerts.ConcertDate{},
		&seats.Seat{},
		&bookings.Booking{},
		&bookings.BookedSeat{},
	)
}
