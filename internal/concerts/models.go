package concerts

import (
	"time"
)

// Concert is a catalog entry: a titled show with one or more performers
// playing on one or more published dates
type Concert struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	ImageName string    `json:"image_name"`
	Blurb     string    `json:"blurb" gorm:"type:varchar(1000)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Dates      []ConcertDate `json:"dates,omitempty" gorm:"foreignKey:ConcertID;constraint:OnDelete:CASCADE;"`
	Performers []Performer   `json:"performers,omitempty" gorm:"many2many:concert_performers;"`
}

// ConcertDate is one published date of a concert
type ConcertDate struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	ConcertID uint      `json:"-" gorm:"index;not null"`
	Date      time.Time `json:"date" gorm:"not null;index"`
}

// Performer appears in zero or more concerts
type Performer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	ImageName string    `json:"image_name"`
	Genre     string    `json:"genre"`
	Blurb     string    `json:"blurb" gorm:"type:varchar(1000)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Concert) TableName() string {
	return "concerts"
}

func (ConcertDate) TableName() string {
	return "concert_dates"
}

func (Performer) TableName() string {
	return "performers"
}

// HasDate reports whether the concert is published for the given instant
func (c *Concert) HasDate(date time.Time) bool {
	target := date.UTC()
	for _, d := range c.Dates {
		if d.Date.UTC().Equal(target) {
			return true
		}
	}
	return false
}
