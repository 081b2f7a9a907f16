package concerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"concertly/pkg/cache"
)

// Service exposes the read-only concert catalog. Reads go through the
// Redis cache when one is wired; the booking path's date validation does
// too, since published dates only change on reseed.
type Service interface {
	GetConcert(ctx context.Context, id uint) (*Concert, error)
	GetAllConcerts(ctx context.Context) ([]Concert, error)
	GetConcertSummaries(ctx context.Context) ([]ConcertSummary, error)
	GetPerformer(ctx context.Context, id uint) (*Performer, error)
	GetAllPerformers(ctx context.Context) ([]Performer, error)
	ConcertHasDate(ctx context.Context, concertID uint, date time.Time) (bool, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
}

func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
	}
}

func (s *service) GetConcert(ctx context.Context, id uint) (*Concert, error) {
	if s.cacheService == nil {
		return s.repo.GetConcertByID(ctx, id)
	}

	var concert Concert
	err := s.cacheService.GetOrSet(ctx, concertKey(id), s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetConcertByID(ctx, id)
	}, &concert)
	if err != nil {
		// ErrConcertNotFound surfaces through the fetcher wrap
		return nil, unwrapFetcher(err)
	}
	return &concert, nil
}

func (s *service) GetAllConcerts(ctx context.Context) ([]Concert, error) {
	if s.cacheService == nil {
		return s.repo.GetAllConcerts(ctx)
	}

	var list []Concert
	err := s.cacheService.GetOrSet(ctx, "concertly:catalog:concerts", s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetAllConcerts(ctx)
	}, &list)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return list, nil
}

func (s *service) GetConcertSummaries(ctx context.Context) ([]ConcertSummary, error) {
	list, err := s.GetAllConcerts(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConcertSummary, 0, len(list))
	for _, c := range list {
		summaries = append(summaries, ConcertSummary{
			ID:        c.ID,
			Title:     c.Title,
			ImageName: c.ImageName,
		})
	}
	return summaries, nil
}

func (s *service) GetPerformer(ctx context.Context, id uint) (*Performer, error) {
	if s.cacheService == nil {
		return s.repo.GetPerformerByID(ctx, id)
	}

	var performer Performer
	err := s.cacheService.GetOrSet(ctx, performerKey(id), s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetPerformerByID(ctx, id)
	}, &performer)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return &performer, nil
}

func (s *service) GetAllPerformers(ctx context.Context) ([]Performer, error) {
	if s.cacheService == nil {
		return s.repo.GetAllPerformers(ctx)
	}

	var list []Performer
	err := s.cacheService.GetOrSet(ctx, "concertly:catalog:performers", s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetAllPerformers(ctx)
	}, &list)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return list, nil
}

// ConcertHasDate reports whether the concert exists and is published for
// the date. Used by booking validation and subscription registration.
func (s *service) ConcertHasDate(ctx context.Context, concertID uint, date time.Time) (bool, error) {
	concert, err := s.GetConcert(ctx, concertID)
	if err != nil {
		if errors.Is(err, ErrConcertNotFound) {
			return false, nil
		}
		return false, err
	}
	return concert.HasDate(date), nil
}

func concertKey(id uint) string {
	return fmt.Sprintf("concertly:catalog:concert:%d", id)
}

func performerKey(id uint) string {
	return fmt.Sprintf("concertly:catalog:performer:%d", id)
}

// unwrapFetcher restores sentinel errors the cache layer wrapped
func unwrapFetcher(err error) error {
	switch {
	case errors.Is(err, ErrConcertNotFound):
		return ErrConcertNotFound
	case errors.Is(err, ErrPerformerNotFound):
		return ErrPerformerNotFound
	default:
		return err
	}
}
