package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"concertly/internal/concerts"
	"concertly/internal/seats"
	"concertly/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrUnknownConcert   = errors.New("unknown concert")
	ErrInvalidDate      = errors.New("concert is not scheduled on this date")
	ErrEmptyRequest     = errors.New("no seat labels requested")
	ErrSeatsUnavailable = errors.New("seats unavailable")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking belongs to another user")

	// ErrInconsistency marks a cancellation that released seats but could
	// not remove the record (or mirror-image). Callers must alert on it.
	ErrInconsistency = errors.New("booking state inconsistent")
)

// Catalog looks up concerts for request validation (narrowed from the
// concerts service)
type Catalog interface {
	GetConcert(ctx context.Context, id uint) (*concerts.Concert, error)
}

// SeatService is the slice of the seats service the coordinator needs
type SeatService interface {
	Reserve(ctx context.Context, date time.Time, labels []string) (*seats.Reservation, error)
	Release(ctx context.Context, keys []seats.SeatKey) error
}

// Notifier receives the post-commit occupancy signal. It must not block;
// the dispatcher's delivery path guarantees that.
type Notifier interface {
	NotifyThresholdCrossed(ctx context.Context, concertID uint, date time.Time, freeSeats int)
}

// Service orchestrates a booking attempt: validate, reserve, persist,
// then raise the occupancy notification
type Service interface {
	AttemptBooking(ctx context.Context, req BookingRequest, ownerID uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID, ownerID uuid.UUID) error
	GetBooking(ctx context.Context, bookingID, ownerID uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, ownerID uuid.UUID) ([]Booking, error)
}

type service struct {
	repo     Repository
	catalog  Catalog
	seats    SeatService
	notifier Notifier
	log      *logger.Logger
}

func NewService(repo Repository, catalog Catalog, seatService SeatService, notifier Notifier, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		seats:    seatService,
		notifier: notifier,
		log:      log,
	}
}

func (s *service) AttemptBooking(ctx context.Context, req BookingRequest, ownerID uuid.UUID) (*Booking, error) {
	concert, err := s.catalog.GetConcert(ctx, req.ConcertID)
	if err != nil {
		if errors.Is(err, concerts.ErrConcertNotFound) {
			return nil, ErrUnknownConcert
		}
		return nil, fmt.Errorf("failed to validate concert: %w", err)
	}

	if !concert.HasDate(req.Date) {
		return nil, ErrInvalidDate
	}

	if len(req.SeatLabels) == 0 {
		return nil, ErrEmptyRequest
	}

	reservation, err := s.seats.Reserve(ctx, req.Date, req.SeatLabels)
	if err != nil {
		var conflict *seats.SeatConflict
		if errors.As(err, &conflict) {
			return nil, fmt.Errorf("%w: %v", ErrSeatsUnavailable, conflict.Unavailable)
		}
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}

	booking := s.buildBooking(req, ownerID, reservation)

	if err := s.repo.Create(ctx, booking); err != nil {
		// Roll the seats back so nothing stays half-reserved
		if relErr := s.seats.Release(ctx, reservation.Keys); relErr != nil {
			s.log.WithError(relErr).ErrorContext(ctx, "rollback release failed after persist error",
				"booking_ref", booking.BookingRef)
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.ConcertID, booking.Date, len(booking.Seats))

	// The ledger lock is long released; slow subscribers cannot stall this
	s.notifier.NotifyThresholdCrossed(ctx, req.ConcertID, req.Date, reservation.FreeRemaining)

	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID, ownerID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.OwnerID != ownerID {
		return ErrNotOwner
	}

	keys := booking.SeatKeys()
	if err := s.seats.Release(ctx, keys); err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	if err := s.repo.Delete(ctx, bookingID); err != nil {
		// Seats are free but the record survived; this must be alerted on,
		// never swallowed
		s.log.ErrorContext(ctx, "booking record not removed after seats released",
			"booking_id", bookingID.String(), "error", err.Error())
		return fmt.Errorf("%w: seats released but record not removed: %v", ErrInconsistency, err)
	}

	s.log.LogBookingCancelled(ctx, bookingID.String(), len(keys))
	return nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, ownerID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, ownerID uuid.UUID) ([]Booking, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

func (s *service) buildBooking(req BookingRequest, ownerID uuid.UUID, reservation *seats.Reservation) *Booking {
	booking := &Booking{
		ID:         uuid.New(),
		BookingRef: generateBookingRef(),
		ConcertID:  req.ConcertID,
		Date:       req.Date.UTC(),
		OwnerID:    ownerID,
	}

	for _, key := range reservation.Keys {
		price := seats.PriceForRow(rune(key.Label[0]))
		booking.Seats = append(booking.Seats, BookedSeat{
			BookingID: booking.ID,
			Label:     key.Label,
			Date:      key.Date,
			Price:     price,
		})
		booking.TotalPrice += price
	}

	return booking
}

const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateBookingRef returns a short human-readable booking reference
func generateBookingRef() string {
	ref := make([]byte, 8)
	for i := range ref {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(refAlphabet))))
		if err != nil {
			// crypto/rand failing is unrecoverable for ref generation
			panic(fmt.Sprintf("booking ref generation: %v", err))
		}
		ref[i] = refAlphabet[n.Int64()]
	}
	return "CNC-" + string(ref)
}
