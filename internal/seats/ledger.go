package seats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrDateNotLoaded is returned when the ledger has no seat state for a
// date; callers prime the shard from the store first (see Service).
var ErrDateNotLoaded = errors.New("seat ledger: date not loaded")

// SeatConflict reports a failed reservation: one or more requested labels
// were unknown for the date or already booked. Nothing was reserved.
type SeatConflict struct {
	Date        time.Time
	Unavailable []string
}

func (e *SeatConflict) Error() string {
	return fmt.Sprintf("seats unavailable for %s: %s",
		e.Date.UTC().Format(time.RFC3339), strings.Join(e.Unavailable, ", "))
}

// Reservation is the result of a successful Reserve. FreeRemaining is
// counted inside the same critical section that booked the seats, so it
// reflects exactly this reservation plus everything committed before it.
// Flips carry the versioned state transitions for the store write-behind.
type Reservation struct {
	Keys          []SeatKey
	Flips         []SeatFlip
	FreeRemaining int
}

type seatRecord struct {
	price   float64
	booked  bool
	version uint64
}

// dateShard owns all seat state for a single concert date. Its mutex is
// the only lock held during the check-and-set of a reservation, so dates
// never contend with each other.
type dateShard struct {
	mu    sync.Mutex
	date  time.Time
	seats map[string]*seatRecord
}

// Ledger holds booking state for every (seat, date) pair and provides the
// atomic all-or-nothing reserve used by the booking flow. It has no
// dependencies; seat state is installed via Prime.
type Ledger struct {
	mu     sync.RWMutex
	shards map[string]*dateShard
}

func NewLedger() *Ledger {
	return &Ledger{
		shards: make(map[string]*dateShard),
	}
}

// Loaded reports whether seat state for the date has been installed
func (l *Ledger) Loaded(date time.Time) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.shards[DateKey(date)]
	return ok
}

// Prime installs seat state for a date. It is a no-op if the date is
// already loaded: in-memory bookings are authoritative and must not be
// clobbered by a re-read of the store.
func (l *Ledger) Prime(date time.Time, seatRows []Seat) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := DateKey(date)
	if _, ok := l.shards[key]; ok {
		return
	}

	shard := &dateShard{
		date:  date.UTC(),
		seats: make(map[string]*seatRecord, len(seatRows)),
	}
	for _, s := range seatRows {
		shard.seats[s.Label] = &seatRecord{
			price:   s.Price,
			booked:  s.IsBooked,
			version: s.Version,
		}
	}
	l.shards[key] = shard
}

func (l *Ledger) shard(date time.Time) (*dateShard, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.shards[DateKey(date)]
	return s, ok
}

// Reserve atomically books the named seats for the date. Either every
// label is free and all become booked, or nothing changes and a
// *SeatConflict names each label that was missing or taken. The free-seat
// count in the returned Reservation is taken before the lock is released.
func (l *Ledger) Reserve(date time.Time, labels []string) (*Reservation, error) {
	shard, ok := l.shard(date)
	if !ok {
		return nil, ErrDateNotLoaded
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()

	// A request names a set of seats; a repeated label counts once.
	uniq := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		uniq = append(uniq, label)
	}

	var unavailable []string
	for _, label := range uniq {
		rec, exists := shard.seats[label]
		if !exists || rec.booked {
			unavailable = append(unavailable, label)
		}
	}
	if len(unavailable) > 0 {
		sort.Strings(unavailable)
		return nil, &SeatConflict{Date: shard.date, Unavailable: unavailable}
	}

	keys := make([]SeatKey, 0, len(uniq))
	flips := make([]SeatFlip, 0, len(uniq))
	for _, label := range uniq {
		rec := shard.seats[label]
		rec.booked = true
		rec.version++
		keys = append(keys, SeatKey{Label: label, Date: shard.date})
		flips = append(flips, SeatFlip{Label: label, Date: shard.date, Booked: true, Version: rec.version})
	}

	return &Reservation{
		Keys:          keys,
		Flips:         flips,
		FreeRemaining: shard.countFreeLocked(),
	}, nil
}

// Release marks each given seat unbooked again. Releasing a free or
// unknown seat is a no-op, so rollback and cancellation can retry safely.
// The returned flips carry the new per-seat versions for the store
// write-behind.
func (l *Ledger) Release(keys []SeatKey) []SeatFlip {
	byDate := make(map[string][]string)
	dates := make(map[string]time.Time)
	for _, k := range keys {
		dk := DateKey(k.Date)
		byDate[dk] = append(byDate[dk], k.Label)
		dates[dk] = k.Date
	}

	var flips []SeatFlip
	for dk, labels := range byDate {
		shard, ok := l.shard(dates[dk])
		if !ok {
			continue
		}
		shard.mu.Lock()
		for _, label := range labels {
			if rec, exists := shard.seats[label]; exists && rec.booked {
				rec.booked = false
				rec.version++
				flips = append(flips, SeatFlip{Label: label, Date: shard.date, Booked: false, Version: rec.version})
			}
		}
		shard.mu.Unlock()
	}
	return flips
}

// CountFree returns the number of currently unbooked seats for the date,
// computed from live state.
func (l *Ledger) CountFree(date time.Time) (int, error) {
	shard, ok := l.shard(date)
	if !ok {
		return 0, ErrDateNotLoaded
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.countFreeLocked(), nil
}

// Snapshot returns the live state of every seat for the date, sorted by
// label, for the seats listing endpoint.
func (l *Ledger) Snapshot(date time.Time) ([]Seat, error) {
	shard, ok := l.shard(date)
	if !ok {
		return nil, ErrDateNotLoaded
	}

	shard.mu.Lock()
	out := make([]Seat, 0, len(shard.seats))
	for label, rec := range shard.seats {
		out = append(out, Seat{
			Label:    label,
			Date:     shard.date,
			Price:    rec.price,
			IsBooked: rec.booked,
		})
	}
	shard.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (s *dateShard) countFreeLocked() int {
	free := 0
	for _, rec := range s.seats {
		if !rec.booked {
			free++
		}
	}
	return free
}
