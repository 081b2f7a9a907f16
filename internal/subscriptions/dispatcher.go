package subscriptions

import (
	"context"
	"time"

	"concertly/pkg/logger"
)

// AuditPublisher publishes threshold-crossed events for external
// consumers (defined here to avoid importing the Kafka producer package)
type AuditPublisher interface {
	PublishThresholdCrossed(ctx context.Context, concertID uint, date time.Time, occupancyPercent, freeSeats, notified int) error
}

// Dispatcher resolves satisfied subscriptions after a booking commits.
// It is invoked outside the seat ledger's critical section and never
// blocks the booking path: Resolve on a waiter cannot block, and one
// subscriber's failure never affects another's delivery.
type Dispatcher struct {
	registry *Registry
	capacity int
	audit    AuditPublisher // optional
	log      *logger.Logger
}

func NewDispatcher(registry *Registry, theatreCapacity int, audit AuditPublisher, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		capacity: theatreCapacity,
		audit:    audit,
		log:      log,
	}
}

// OccupancyPercent converts a free-seat count to the booked percentage
// of theatre capacity.
func (d *Dispatcher) OccupancyPercent(freeSeats int) int {
	return 100 - int(float64(freeSeats)/float64(d.capacity)*100)
}

// NotifyThresholdCrossed drains every subscription for the concert date
// whose threshold the new occupancy satisfies and resolves each exactly
// once with the remaining free-seat count.
func (d *Dispatcher) NotifyThresholdCrossed(ctx context.Context, concertID uint, date time.Time, freeSeats int) {
	occupancy := d.OccupancyPercent(freeSeats)

	waiters := d.registry.DrainSatisfied(concertID, date, occupancy)
	if len(waiters) == 0 {
		return
	}

	notified := 0
	for _, w := range waiters {
		if w.Resolve(Notification{FreeSeatsRemaining: freeSeats}) {
			notified++
			d.log.LogNotificationDelivered(ctx, concertID, date, freeSeats)
		} else {
			// Subscriber cancelled between drain and delivery
			d.log.LogNotificationFailed(ctx, concertID, date, "waiter already consumed")
		}
	}

	if d.audit != nil {
		if err := d.audit.PublishThresholdCrossed(ctx, concertID, date, occupancy, freeSeats, notified); err != nil {
			d.log.WithError(err).WarnContext(ctx, "failed to publish threshold audit event")
		}
	}
}
