package seats

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository handles seat persistence. The ledger is loaded from here and
// booking flips are written back after the in-memory commit.
type Repository interface {
	GetSeatsForDate(ctx context.Context, date time.Time) ([]Seat, error)
	CreateSeats(ctx context.Context, seatRows []Seat) error
	SetBooked(ctx context.Context, flips []SeatFlip) error
	DatesWithSeats(ctx context.Context) ([]time.Time, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetSeatsForDate(ctx context.Context, date time.Time) ([]Seat, error) {
	var rows []Seat
	if err := r.db.WithContext(ctx).
		Where("date = ?", date.UTC()).
		Order("label").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load seats for date: %w", err)
	}
	return rows, nil
}

func (r *repository) CreateSeats(ctx context.Context, seatRows []Seat) error {
	if len(seatRows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(seatRows, 200).Error; err != nil {
		return fmt.Errorf("failed to create seats: %w", err)
	}
	return nil
}

// SetBooked applies booked-state flips to the store. Called after the
// ledger commit, never inside its critical section. Each update is
// guarded by the flip's version, so a delayed write can never overwrite
// the row a newer flip already persisted.
func (r *repository) SetBooked(ctx context.Context, flips []SeatFlip) error {
	if len(flips) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, f := range flips {
			if err := tx.Model(&Seat{}).
				Where("label = ? AND date = ? AND version < ?", f.Label, f.Date.UTC(), f.Version).
				Updates(map[string]interface{}{"is_booked": f.Booked, "version": f.Version}).Error; err != nil {
				return fmt.Errorf("failed to update seat %s: %w", f.Label, err)
			}
		}
		return nil
	})
}

func (r *repository) DatesWithSeats(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Distinct("date").
		Order("date").
		Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("failed to list seat dates: %w", err)
	}
	return dates, nil
}
