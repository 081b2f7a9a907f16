package subscriptions

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidThreshold is returned for thresholds outside 0-100
var ErrInvalidThreshold = errors.New("threshold percent must be between 0 and 100")

type subscription struct {
	concertID uint
	threshold int
	waiter    *Waiter
}

// Registry stores pending threshold subscriptions keyed by concert date.
// Registration, drain and cancellation all run under one mutex, so a
// subscriber arriving during a drain is either included (if it already
// qualifies) or cleanly left for the next one, never lost.
type Registry struct {
	mu     sync.Mutex
	byDate map[string][]*subscription
}

func NewRegistry() *Registry {
	return &Registry{
		byDate: make(map[string][]*subscription),
	}
}

// Subscribe registers a waiter to be resolved once occupancy for the
// concert's date reaches thresholdPercent.
func (r *Registry) Subscribe(concertID uint, date time.Time, thresholdPercent int, w *Waiter) error {
	if thresholdPercent < 0 || thresholdPercent > 100 {
		return ErrInvalidThreshold
	}

	key := dateKey(date)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byDate[key] = append(r.byDate[key], &subscription{
		concertID: concertID,
		threshold: thresholdPercent,
		waiter:    w,
	})
	return nil
}

// DrainSatisfied atomically removes and returns every waiter registered
// for the date whose concert matches and whose threshold is reached.
// Subscriptions for other concerts sharing the date are skipped, not
// aborted on: the scan always completes the full pass.
func (r *Registry) DrainSatisfied(concertID uint, date time.Time, occupancyPercent int) []*Waiter {
	key := dateKey(date)

	r.mu.Lock()
	defer r.mu.Unlock()

	pending := r.byDate[key]
	if len(pending) == 0 {
		return nil
	}

	var drained []*Waiter
	remaining := pending[:0]
	for _, sub := range pending {
		if sub.concertID == concertID && sub.threshold <= occupancyPercent {
			drained = append(drained, sub.waiter)
			continue
		}
		remaining = append(remaining, sub)
	}

	if len(remaining) == 0 {
		delete(r.byDate, key)
	} else {
		r.byDate[key] = remaining
	}
	return drained
}

// Cancel removes a still-pending subscription by waiter identity, so a
// disconnected subscriber is never resolved. Unknown waiters are a no-op.
func (r *Registry) Cancel(date time.Time, w *Waiter) {
	key := dateKey(date)

	r.mu.Lock()
	defer r.mu.Unlock()

	pending := r.byDate[key]
	for i, sub := range pending {
		if sub.waiter == w {
			r.byDate[key] = append(pending[:i], pending[i+1:]...)
			if len(r.byDate[key]) == 0 {
				delete(r.byDate, key)
			}
			return
		}
	}
}

// Pending returns the number of subscriptions waiting on the date
func (r *Registry) Pending(date time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byDate[dateKey(date)])
}

// dateKey normalizes a date for map lookup; instants equal across
// locations must collide.
func dateKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
