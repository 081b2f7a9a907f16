package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"concertly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	known map[uint]time.Time
	err   error
}

func (f *fakeCatalog) ConcertHasDate(ctx context.Context, concertID uint, date time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	d, ok := f.known[concertID]
	return ok && d.Equal(date.UTC()), nil
}

func newTestEngine(ctrl *Controller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/subscribe/concert-info", ctrl.Subscribe)
	return engine
}

func subscribeBody(concertID uint, date time.Time, threshold int) *bytes.Buffer {
	body, _ := json.Marshal(SubscribeRequest{
		ConcertID:        concertID,
		Date:             date,
		ThresholdPercent: threshold,
	})
	return bytes.NewBuffer(body)
}

func TestSubscribeRejectsBadRequests(t *testing.T) {
	date := testDate()
	catalog := &fakeCatalog{known: map[uint]time.Time{1: date}}

	testCases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "malformed json",
			body:       `{"concert_id": `,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing concert id",
			body:       fmt.Sprintf(`{"date":%q,"threshold_percent":50}`, date.Format(time.RFC3339)),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "threshold above range",
			body:       fmt.Sprintf(`{"concert_id":1,"date":%q,"threshold_percent":101}`, date.Format(time.RFC3339)),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown concert",
			body:       fmt.Sprintf(`{"concert_id":9,"date":%q,"threshold_percent":50}`, date.Format(time.RFC3339)),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "known concert on wrong date",
			body:       fmt.Sprintf(`{"concert_id":1,"date":%q,"threshold_percent":50}`, date.Add(24*time.Hour).Format(time.RFC3339)),
			wantStatus: http.StatusBadRequest,
		},
	}

	registry := NewRegistry()
	engine := newTestEngine(NewController(registry, catalog, time.Second))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/subscribe/concert-info", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, 0, registry.Pending(date))
		})
	}
}

func TestSubscribeDeliversNotification(t *testing.T) {
	date := testDate()
	registry := NewRegistry()
	catalog := &fakeCatalog{known: map[uint]time.Time{1: date}}
	dispatcher := NewDispatcher(registry, 10, nil, logger.GetDefault())
	engine := newTestEngine(NewController(registry, catalog, 5*time.Second))

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/subscribe/concert-info", subscribeBody(1, date, 25))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		done <- rec
	}()

	// Wait for the long-poll to register, then cross the threshold
	require.Eventually(t, func() bool {
		return registry.Pending(date) == 1
	}, 2*time.Second, 10*time.Millisecond)

	dispatcher.NotifyThresholdCrossed(context.Background(), 1, date, 7)

	select {
	case rec := <-done:
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string       `json:"status"`
			Data   Notification `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, 7, resp.Data.FreeSeatsRemaining)
	case <-time.After(3 * time.Second):
		t.Fatal("long-poll did not complete after notification")
	}

	assert.Equal(t, 0, registry.Pending(date))
}

func TestSubscribeTimesOut(t *testing.T) {
	date := testDate()
	registry := NewRegistry()
	catalog := &fakeCatalog{known: map[uint]time.Time{1: date}}
	engine := newTestEngine(NewController(registry, catalog, 50*time.Millisecond))

	req := httptest.NewRequest(http.MethodPost, "/subscribe/concert-info", subscribeBody(1, date, 25))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestTimeout, rec.Code)

	// The timed-out subscription is gone; a later crossing resolves nobody
	assert.Equal(t, 0, registry.Pending(date))
	assert.Empty(t, registry.DrainSatisfied(1, date, 100))
}

// Races a drain-and-resolve against the long-poll timeout. Whenever the
// resolve wins the waiter, the subscriber must see the notification, not
// a timeout, no matter how close the two land.
func TestSubscribeTimeoutRaceNeverDropsNotification(t *testing.T) {
	date := testDate()
	catalog := &fakeCatalog{known: map[uint]time.Time{1: date}}

	for i := 0; i < 25; i++ {
		registry := NewRegistry()
		engine := newTestEngine(NewController(registry, catalog, time.Millisecond))

		done := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			req := httptest.NewRequest(http.MethodPost, "/subscribe/concert-info", subscribeBody(1, date, 25))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			done <- rec
		}()

		var rec *httptest.ResponseRecorder
		resolved := false
		for rec == nil {
			if !resolved {
				if waiters := registry.DrainSatisfied(1, date, 50); len(waiters) == 1 {
					resolved = waiters[0].Resolve(Notification{FreeSeatsRemaining: 4})
				}
			}
			select {
			case r := <-done:
				rec = r
			default:
			}
		}

		if resolved {
			require.Equal(t, http.StatusOK, rec.Code,
				"resolved subscriber received %d instead of the notification", rec.Code)
			var resp struct {
				Data Notification `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, 4, resp.Data.FreeSeatsRemaining)
		} else {
			assert.Equal(t, http.StatusRequestTimeout, rec.Code)
		}
	}
}

func TestSubscribeCancelsOnDisconnect(t *testing.T) {
	date := testDate()
	registry := NewRegistry()
	catalog := &fakeCatalog{known: map[uint]time.Time{1: date}}
	engine := newTestEngine(NewController(registry, catalog, 5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/subscribe/concert-info", subscribeBody(1, date, 25)).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(httptest.NewRecorder(), req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return registry.Pending(date) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Client goes away
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after client disconnect")
	}

	assert.Equal(t, 0, registry.Pending(date))
}
