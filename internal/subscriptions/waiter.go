package subscriptions

import "sync"

// Notification is the single payload a threshold subscriber receives
type Notification struct {
	FreeSeatsRemaining int `json:"free_seats_remaining"`
}

// Waiter is a one-shot reply handle. It is consumed exactly once, either
// by Resolve when a drain satisfies it or by Cancel when the subscriber
// goes away; whichever happens first wins.
type Waiter struct {
	once sync.Once
	ch   chan Notification
}

func NewWaiter() *Waiter {
	return &Waiter{
		// Buffered so Resolve never blocks on a slow or absent reader
		ch: make(chan Notification, 1),
	}
}

// Resolve delivers the notification. Reports false if the waiter was
// already resolved or cancelled.
func (w *Waiter) Resolve(n Notification) bool {
	delivered := false
	w.once.Do(func() {
		w.ch <- n
		delivered = true
	})
	return delivered
}

// Cancel consumes the waiter without a payload. A later Resolve reports
// false, so the dispatcher can tell the subscriber is gone.
func (w *Waiter) Cancel() {
	w.once.Do(func() {
		close(w.ch)
	})
}

// Done returns the channel the subscriber blocks on. It yields the
// notification, or closes without one if the waiter was cancelled.
func (w *Waiter) Done() <-chan Notification {
	return w.ch
}
