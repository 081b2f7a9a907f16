package concerts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrConcertNotFound = errors.New("concert not found")
var ErrPerformerNotFound = errors.New("performer not found")

// Repository handles catalog persistence
type Repository interface {
	GetConcertByID(ctx context.Context, id uint) (*Concert, error)
	GetAllConcerts(ctx context.Context) ([]Concert, error)
	GetPerformerByID(ctx context.Context, id uint) (*Performer, error)
	GetAllPerformers(ctx context.Context) ([]Performer, error)
	CreateConcert(ctx context.Context, concert *Concert) error
	CreatePerformer(ctx context.Context, performer *Performer) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetConcertByID(ctx context.Context, id uint) (*Concert, error) {
	var concert Concert
	err := r.db.WithContext(ctx).
		Preload("Dates").
		Preload("Performers").
		First(&concert, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConcertNotFound
		}
		return nil, fmt.Errorf("failed to get concert: %w", err)
	}
	return &concert, nil
}

func (r *repository) GetAllConcerts(ctx context.Context) ([]Concert, error) {
	var list []Concert
	err := r.db.WithContext(ctx).
		Preload("Dates").
		Preload("Performers").
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list concerts: %w", err)
	}
	return list, nil
}

func (r *repository) GetPerformerByID(ctx context.Context, id uint) (*Performer, error) {
	var performer Performer
	err := r.db.WithContext(ctx).First(&performer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPerformerNotFound
		}
		return nil, fmt.Errorf("failed to get performer: %w", err)
	}
	return &performer, nil
}

func (r *repository) GetAllPerformers(ctx context.Context) ([]Performer, error) {
	var list []Performer
	err := r.db.WithContext(ctx).Order("id").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list performers: %w", err)
	}
	return list, nil
}

func (r *repository) CreateConcert(ctx context.Context, concert *Concert) error {
	if err := r.db.WithContext(ctx).Create(concert).Error; err != nil {
		return fmt.Errorf("failed to create concert: %w", err)
	}
	return nil
}

func (r *repository) CreatePerformer(ctx context.Context, performer *Performer) error {
	if err := r.db.WithContext(ctx).Create(performer).Error; err != nil {
		return fmt.Errorf("failed to create performer: %w", err)
	}
	return nil
}
