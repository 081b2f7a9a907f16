package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"concertly/internal/concerts"
	"concertly/internal/seats"
	"concertly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate() time.Time {
	return time.Date(2027, 3, 14, 20, 0, 0, 0, time.UTC)
}

type fakeCatalog struct {
	concerts map[uint]*concerts.Concert
}

func (f *fakeCatalog) GetConcert(ctx context.Context, id uint) (*concerts.Concert, error) {
	c, ok := f.concerts[id]
	if !ok {
		return nil, concerts.ErrConcertNotFound
	}
	return c, nil
}

// ledgerSeatService backs the SeatService with a real ledger so
// concurrency behavior is exercised, not simulated
type ledgerSeatService struct {
	ledger *seats.Ledger
}

func (s *ledgerSeatService) Reserve(ctx context.Context, date time.Time, labels []string) (*seats.Reservation, error) {
	return s.ledger.Reserve(date, labels)
}

func (s *ledgerSeatService) Release(ctx context.Context, keys []seats.SeatKey) error {
	s.ledger.Release(keys)
	return nil
}

type notifyCall struct {
	concertID uint
	freeSeats int
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (f *fakeNotifier) NotifyThresholdCrossed(ctx context.Context, concertID uint, date time.Time, freeSeats int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{concertID: concertID, freeSeats: freeSeats})
}

type memoryRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*Booking
	createErr error
	deleteErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (r *memoryRepo) Create(ctx context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (r *memoryRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

type fixture struct {
	svc      Service
	repo     *memoryRepo
	ledger   *seats.Ledger
	notifier *fakeNotifier
	date     time.Time
}

func newFixture(t *testing.T, labels ...string) *fixture {
	t.Helper()

	date := testDate()

	catalog := &fakeCatalog{concerts: map[uint]*concerts.Concert{
		1: {
			ID:    1,
			Title: "Echoes Live",
			Dates: []concerts.ConcertDate{{ConcertID: 1, Date: date}},
		},
	}}

	rows := make([]seats.Seat, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, seats.Seat{
			Label: label,
			Date:  date,
			Price: seats.PriceForRow(rune(label[0])),
		})
	}
	ledger := seats.NewLedger()
	ledger.Prime(date, rows)

	repo := newMemoryRepo()
	notifier := &fakeNotifier{}

	svc := NewService(repo, catalog, &ledgerSeatService{ledger: ledger}, notifier, logger.GetDefault())
	return &fixture{svc: svc, repo: repo, ledger: ledger, notifier: notifier, date: date}
}

func TestAttemptBookingSuccess(t *testing.T) {
	f := newFixture(t, "A1", "A2", "D5")
	owner := uuid.New()

	booking, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1", "D5"},
	}, owner)
	require.NoError(t, err)

	assert.Equal(t, uint(1), booking.ConcertID)
	assert.Equal(t, owner, booking.OwnerID)
	assert.Len(t, booking.Seats, 2)
	assert.Equal(t, seats.PriceForRow('A')+seats.PriceForRow('D'), booking.TotalPrice)
	assert.True(t, strings.HasPrefix(booking.BookingRef, "CNC-"))

	// The record was persisted
	stored, err := f.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingRef, stored.BookingRef)

	// The notifier saw the post-reservation free count
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, uint(1), f.notifier.calls[0].concertID)
	assert.Equal(t, 1, f.notifier.calls[0].freeSeats)
}

func TestAttemptBookingDuplicateLabelsCollapse(t *testing.T) {
	f := newFixture(t, "A1", "A2")
	owner := uuid.New()

	// One physical seat, requested twice: one row, charged once
	booking, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1", "A1"},
	}, owner)
	require.NoError(t, err)

	require.Len(t, booking.Seats, 1)
	assert.Equal(t, "A1", booking.Seats[0].Label)
	assert.Equal(t, seats.PriceForRow('A'), booking.TotalPrice)

	free, err := f.ledger.CountFree(f.date)
	require.NoError(t, err)
	assert.Equal(t, 1, free)
}

func TestAttemptBookingValidation(t *testing.T) {
	testCases := []struct {
		name    string
		req     BookingRequest
		wantErr error
	}{
		{
			name:    "unknown concert",
			req:     BookingRequest{ConcertID: 99, Date: testDate(), SeatLabels: []string{"A1"}},
			wantErr: ErrUnknownConcert,
		},
		{
			name:    "concert exists but not on that date",
			req:     BookingRequest{ConcertID: 1, Date: testDate().Add(24 * time.Hour), SeatLabels: []string{"A1"}},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "no seats requested",
			req:     BookingRequest{ConcertID: 1, Date: testDate()},
			wantErr: ErrEmptyRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, "A1")

			_, err := f.svc.AttemptBooking(context.Background(), tc.req, uuid.New())
			assert.ErrorIs(t, err, tc.wantErr)

			// Nothing was reserved, persisted, or notified
			free, lerr := f.ledger.CountFree(f.date)
			require.NoError(t, lerr)
			assert.Equal(t, 1, free)
			assert.Empty(t, f.notifier.calls)
		})
	}
}

// An unknown concert must be rejected before any date or seat check, so
// an attacker cannot probe seat availability through invalid concerts.
func TestAttemptBookingUnknownConcertCheckedFirst(t *testing.T) {
	f := newFixture(t, "A1")

	_, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID: 99,
		Date:      testDate().Add(48 * time.Hour),
	}, uuid.New())

	assert.ErrorIs(t, err, ErrUnknownConcert)
}

func TestAttemptBookingSeatConflict(t *testing.T) {
	f := newFixture(t, "A1", "A2", "A3")
	owner := uuid.New()

	_, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A2"},
	}, owner)
	require.NoError(t, err)

	// Overlapping request fails as a whole
	_, err = f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1", "A2", "A3"},
	}, owner)
	require.ErrorIs(t, err, ErrSeatsUnavailable)
	assert.Contains(t, err.Error(), "A2")

	// A1 and A3 stayed free
	free, lerr := f.ledger.CountFree(f.date)
	require.NoError(t, lerr)
	assert.Equal(t, 2, free)

	// A failed attempt persists nothing and raises no notification
	assert.Len(t, f.notifier.calls, 1)
	assert.Len(t, f.repo.bookings, 1)
}

func TestAttemptBookingPersistFailureRollsBackSeats(t *testing.T) {
	f := newFixture(t, "A1", "A2")
	f.repo.createErr = errors.New("connection reset")

	_, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1", "A2"},
	}, uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSeatsUnavailable)

	// The ledger rolled back; both seats are bookable again
	free, lerr := f.ledger.CountFree(f.date)
	require.NoError(t, lerr)
	assert.Equal(t, 2, free)

	// No notification for a booking that never committed
	assert.Empty(t, f.notifier.calls)

	f.repo.createErr = nil
	_, err = f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1", "A2"},
	}, uuid.New())
	require.NoError(t, err)
}

// TestAttemptBookingRace has two owners race for the same seat; exactly
// one booking may exist afterwards.
func TestAttemptBookingRace(t *testing.T) {
	f := newFixture(t, "A1", "A2", "A3", "A4")

	const contenders = 16

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	losers := 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
				ConcertID:  1,
				Date:       f.date,
				SeatLabels: []string{"A1"},
			}, uuid.New())

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, ErrSeatsUnavailable)
				losers++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, contenders-1, losers)
	assert.Len(t, f.repo.bookings, 1)

	free, err := f.ledger.CountFree(f.date)
	require.NoError(t, err)
	assert.Equal(t, 3, free)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t, "A1", "A2")
	owner := uuid.New()

	booking, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1", "A2"},
	}, owner)
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelBooking(context.Background(), booking.ID, owner))

	// Seats are free again and the record is gone
	free, lerr := f.ledger.CountFree(f.date)
	require.NoError(t, lerr)
	assert.Equal(t, 2, free)

	_, err = f.repo.GetByID(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// Cancelling again reports not found
	err = f.svc.CancelBooking(context.Background(), booking.ID, owner)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelBookingOwnership(t *testing.T) {
	f := newFixture(t, "A1")
	owner := uuid.New()

	booking, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1"},
	}, owner)
	require.NoError(t, err)

	err = f.svc.CancelBooking(context.Background(), booking.ID, uuid.New())
	require.ErrorIs(t, err, ErrNotOwner)

	// The booking and its seat are untouched
	free, lerr := f.ledger.CountFree(f.date)
	require.NoError(t, lerr)
	assert.Equal(t, 0, free)
}

func TestCancelBookingDeleteFailureIsInconsistency(t *testing.T) {
	f := newFixture(t, "A1")
	owner := uuid.New()

	booking, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1"},
	}, owner)
	require.NoError(t, err)

	f.repo.deleteErr = errors.New("connection reset")

	err = f.svc.CancelBooking(context.Background(), booking.ID, owner)
	require.ErrorIs(t, err, ErrInconsistency)

	// The seats were released before the delete failed
	free, lerr := f.ledger.CountFree(f.date)
	require.NoError(t, lerr)
	assert.Equal(t, 1, free)
}

func TestGetBooking(t *testing.T) {
	f := newFixture(t, "A1")
	owner := uuid.New()

	booking, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"A1"},
	}, owner)
	require.NoError(t, err)

	got, err := f.svc.GetBooking(context.Background(), booking.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingRef, got.BookingRef)

	_, err = f.svc.GetBooking(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.GetBooking(context.Background(), uuid.New(), owner)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture(t, "A1", "A2", "B1")
	owner := uuid.New()
	other := uuid.New()

	for _, label := range []string{"A1", "A2"} {
		_, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
			ConcertID:  1,
			Date:       f.date,
			SeatLabels: []string{label},
		}, owner)
		require.NoError(t, err)
	}
	_, err := f.svc.AttemptBooking(context.Background(), BookingRequest{
		ConcertID:  1,
		Date:       f.date,
		SeatLabels: []string{"B1"},
	}, other)
	require.NoError(t, err)

	mine, err := f.svc.GetUserBookings(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestGenerateBookingRef(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := generateBookingRef()
		assert.True(t, strings.HasPrefix(ref, "CNC-"))
		assert.Len(t, ref, 12)
		seen[ref] = true
	}
	// 100 draws over a 32^8 space must not collide
	assert.Len(t, seen, 100)
}
