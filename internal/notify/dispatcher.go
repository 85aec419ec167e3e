package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/lumora-app/lumora/internal/config"
)

// Dispatcher is the side-effect port for match notifications. The
// implementation must never block the write path: callers invoke it on
// the async pool and drop the error after logging.
type Dispatcher interface {
	DispatchMatch(ctx context.Context, toUserID uint64, matchID string) error
}

// matchPayload is the wire format the notification collaborator accepts.
type matchPayload struct {
	Type     string `json:"type"`
	ToUserID uint64 `json:"toUserId"`
	MatchID  string `json:"matchId"`
}

// HTTPDispatcher posts match notifications to the collaborator endpoint.
// A circuit breaker keeps a dead collaborator from eating a pool worker
// per like during an outage.
type HTTPDispatcher struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHTTPDispatcher(cfg *config.Config) *HTTPDispatcher {
	return &HTTPDispatcher{
		url: cfg.Notifier.URL,
		client: &http.Client{
			Timeout: cfg.Notifier.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "match_notifier",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (d *HTTPDispatcher) DispatchMatch(ctx context.Context, toUserID uint64, matchID string) error {
	payload, err := json.Marshal(matchPayload{
		Type:     "match",
		ToUserID: toUserID,
		MatchID:  matchID,
	})
	if err != nil {
		return err
	}

	_, err = d.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("notifier returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
