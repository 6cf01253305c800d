package static

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobvault/pkg/utils"
)

func newTestEngine(attempts int) *Engine {
	e := NewEngine("test-agent", attempts, 5*time.Second)
	e.retryDelay = time.Millisecond
	return e
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("<html><body>job posting</body></html>"))
	}))
	defer srv.Close()

	e := newTestEngine(3)
	html, err := e.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "job posting")
}

func TestFetchRetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("<html><body>finally</body></html>"))
	}))
	defer srv.Close()

	e := newTestEngine(3)
	html, err := e.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "finally")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchExhausts429Retries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := newTestEngine(3)
	_, err := e.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindFetch))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchRetriesOn503(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html><body>recovered</body></html>"))
	}))
	defer srv.Close()

	e := newTestEngine(3)
	html, err := e.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "recovered")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchDoesNotRetryOn404(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := newTestEngine(3)
	_, err := e.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindFetch))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRetriesTransportErrors(t *testing.T) {
	// Point at a closed server so every attempt fails at the transport level.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	e := newTestEngine(2)
	_, err := e.Fetch(context.Background(), url)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindFetch))
}

func TestBackoffGrowth(t *testing.T) {
	e := newTestEngine(4)
	e.retryDelay = time.Second

	rl := &rateLimitError{url: "http://example.com"}
	assert.Equal(t, time.Second, e.backoff(1, rl))
	assert.Equal(t, 2*time.Second, e.backoff(2, rl))
	assert.Equal(t, 4*time.Second, e.backoff(3, rl))

	transport := utils.NewFetchError("request failed", nil)
	assert.Equal(t, time.Second, e.backoff(1, transport))
	assert.Equal(t, time.Second, e.backoff(3, transport))
}
