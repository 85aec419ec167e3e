package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-app/lumora/internal/config"
	"github.com/lumora-app/lumora/internal/notify"
)

func dispatcherFor(url string) *notify.HTTPDispatcher {
	cfg := &config.Config{}
	cfg.Notifier.URL = url
	cfg.Notifier.Timeout = 2 * time.Second
	return notify.NewHTTPDispatcher(cfg)
}

func TestDispatchMatchPostsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := dispatcherFor(srv.URL)
	require.NoError(t, d.DispatchMatch(context.Background(), 42, "match-abc"))

	assert.Equal(t, "match", got["type"])
	assert.Equal(t, float64(42), got["toUserId"])
	assert.Equal(t, "match-abc", got["matchId"])
}

func TestDispatchMatchErrorStatusSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := dispatcherFor(srv.URL)
	err := d.DispatchMatch(context.Background(), 1, "match-x")
	assert.Error(t, err)
}

func TestDispatchMatchBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := dispatcherFor(srv.URL)
	for i := 0; i < 5; i++ {
		err := d.DispatchMatch(context.Background(), 1, "match-x")
		assert.Error(t, err)
	}

	// circuit is open: the collaborator is no longer hit
	err := d.DispatchMatch(context.Background(), 1, "match-x")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int64(5), hits.Load())
}
