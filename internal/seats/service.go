package seats

import (
	"context"
	"fmt"
	"time"
)

// Service bridges the in-memory ledger and the persistent seat store: it
// primes ledger shards on demand and serves the seats-for-date listing.
type Service interface {
	EnsureDate(ctx context.Context, date time.Time) error
	Reserve(ctx context.Context, date time.Time, labels []string) (*Reservation, error)
	Release(ctx context.Context, keys []SeatKey) error
	CountFree(ctx context.Context, date time.Time) (int, error)
	GetSeatsForDate(ctx context.Context, date time.Time, status BookingStatus) ([]Seat, error)
}

type service struct {
	repo   Repository
	ledger *Ledger
}

func NewService(repo Repository, ledger *Ledger) Service {
	return &service{
		repo:   repo,
		ledger: ledger,
	}
}

// EnsureDate loads seat state for the date into the ledger if it is not
// already there. The store read happens outside any shard lock; Prime is
// idempotent so concurrent callers are harmless.
func (s *service) EnsureDate(ctx context.Context, date time.Time) error {
	if s.ledger.Loaded(date) {
		return nil
	}

	rows, err := s.repo.GetSeatsForDate(ctx, date)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no seats provisioned for %s", DateKey(date))
	}

	s.ledger.Prime(date, rows)
	return nil
}

// Reserve books the labels atomically and writes the flips back to the
// store. A store failure after the ledger commit is undone in memory so
// no seat is left half-reserved.
func (s *service) Reserve(ctx context.Context, date time.Time, labels []string) (*Reservation, error) {
	if err := s.EnsureDate(ctx, date); err != nil {
		return nil, err
	}

	res, err := s.ledger.Reserve(date, labels)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetBooked(ctx, res.Flips); err != nil {
		s.ledger.Release(res.Keys)
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	return res, nil
}

// Release frees the seats in the ledger and the store. Idempotent. The
// versioned flips keep the store write ordered against any concurrent
// re-reserve of the same seats.
func (s *service) Release(ctx context.Context, keys []SeatKey) error {
	flips := s.ledger.Release(keys)
	return s.repo.SetBooked(ctx, flips)
}

func (s *service) CountFree(ctx context.Context, date time.Time) (int, error) {
	if err := s.EnsureDate(ctx, date); err != nil {
		return 0, err
	}
	return s.ledger.CountFree(date)
}

func (s *service) GetSeatsForDate(ctx context.Context, date time.Time, status BookingStatus) ([]Seat, error) {
	if err := s.EnsureDate(ctx, date); err != nil {
		return nil, err
	}

	all, err := s.ledger.Snapshot(date)
	if err != nil {
		return nil, err
	}
	if status == StatusAny {
		return all, nil
	}

	filtered := make([]Seat, 0, len(all))
	for _, seat := range all {
		if (status == StatusBooked) == seat.IsBooked {
			filtered = append(filtered, seat)
		}
	}
	return filtered, nil
}
