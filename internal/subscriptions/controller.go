package subscriptions

import (
	"context"
	"net/http"
	"time"

	"concertly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Catalog validates that a subscription targets a real concert date
// (defined here to avoid a dependency on the concerts package)
type Catalog interface {
	ConcertHasDate(ctx context.Context, concertID uint, date time.Time) (bool, error)
}

type Controller struct {
	registry    *Registry
	catalog     Catalog
	validator   *validator.Validate
	waitTimeout time.Duration
}

func NewController(registry *Registry, catalog Catalog, waitTimeout time.Duration) *Controller {
	return &Controller{
		registry:    registry,
		catalog:     catalog,
		validator:   validator.New(),
		waitTimeout: waitTimeout,
	}
}

// Subscribe long-polls until the concert date's occupancy crosses the
// requested threshold. The reply carries the free seats remaining at the
// moment the crossing booking committed. Dropping the connection cancels
// the subscription so a dead client is never resolved.
func (ctrl *Controller) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	ok, err := ctrl.catalog.ConcertHasDate(c.Request.Context(), req.ConcertID, req.Date)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to validate concert", nil, nil)
		return
	}
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Unknown concert or date", nil, nil)
		return
	}

	waiter := NewWaiter()
	if err := ctrl.registry.Subscribe(req.ConcertID, req.Date, req.ThresholdPercent, waiter); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	timeout := time.NewTimer(ctrl.waitTimeout)
	defer timeout.Stop()

	select {
	case notification, delivered := <-waiter.Done():
		if !delivered {
			// Cancelled elsewhere; nothing to send
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Occupancy threshold reached", notification, nil)

	case <-c.Request.Context().Done():
		ctrl.registry.Cancel(req.Date, waiter)
		waiter.Cancel()

	case <-timeout.C:
		ctrl.registry.Cancel(req.Date, waiter)
		waiter.Cancel()
		// A drain may have resolved the waiter just as the timer fired.
		// After Cancel the channel is either closed or holds the buffered
		// notification, so this receive never blocks; a delivered
		// notification still belongs to the subscriber.
		if notification, delivered := <-waiter.Done(); delivered {
			response.RespondJSON(c, "success", http.StatusOK, "Occupancy threshold reached", notification, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusRequestTimeout, "Subscription wait timed out", nil, nil)
	}
}
