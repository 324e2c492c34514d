package rechtspraak

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rberrors "github.com/tombee/rechtsbron/pkg/errors"
)

// newTestClient builds a client against a test server with instant
// backoff so retry tests run fast.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(baseURL, DefaultClientConfig())
	require.NoError(t, err)
	client.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return client
}

func TestNewClient_InvalidTarget(t *testing.T) {
	tests := []struct {
		name string
		base string
	}{
		{"empty", ""},
		{"no scheme", "data.rechtspraak.nl/uitspraken"},
		{"bad scheme", "ftp://data.rechtspraak.nl"},
		{"scheme only", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.base, DefaultClientConfig())
			require.Error(t, err)
			assert.True(t, rberrors.IsInvalidTarget(err), "expected InvalidTargetError, got %T", err)
		})
	}
}

func TestFetch_InvalidPathNeverAttempted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	for _, path := range []string{"", "   /", "https://elsewhere.example/zoeken"} {
		_, _, err := client.Fetch(context.Background(), path, nil)
		require.Error(t, err)
		assert.True(t, rberrors.IsInvalidTarget(err))
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "invalid targets must not reach the network")
}

func TestFetch_CacheHitAvoidsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("ETag", `W/"v1"`)
		w.Write([]byte(`<feed><title>x</title></feed>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	params := map[string]string{"q": "bewijs"}

	first, meta1, err := client.Fetch(context.Background(), "zoeken", params)
	require.NoError(t, err)
	assert.False(t, meta1.FromCache)
	assert.Equal(t, `W/"v1"`, meta1.ETag)

	second, meta2, err := client.Fetch(context.Background(), "zoeken", params)
	require.NoError(t, err)
	assert.True(t, meta2.FromCache)
	assert.Equal(t, `W/"v1"`, meta2.ETag)

	assert.Equal(t, first, second, "cached payload must be byte-identical")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second fetch within TTL must not hit the network")
}

func TestFetch_TTLExpiryTriggersExactlyOneNewCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`<feed/>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	now := time.Now()
	client.cache.now = func() time.Time { return now }

	_, _, err := client.Fetch(context.Background(), "zoeken", nil)
	require.NoError(t, err)

	now = now.Add(DefaultCacheTTL + time.Second)
	_, meta, err := client.Fetch(context.Background(), "zoeken", nil)
	require.NoError(t, err)
	assert.False(t, meta.FromCache)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// The refreshed entry serves again without a third call.
	_, meta, err = client.Fetch(context.Background(), "zoeken", nil)
	require.NoError(t, err)
	assert.True(t, meta.FromCache)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_RetriesRetryableStatusUpToCeiling(t *testing.T) {
	for _, status := range []int{500, 503, 429} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(status)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, meta, err := client.Fetch(context.Background(), "zoeken", nil)

			require.Error(t, err)
			assert.Equal(t, status, rberrors.StatusCode(err))
			assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "attempts must stop at the ceiling")
			assert.Equal(t, 3, meta.Attempts)
		})
	}
}

func TestFetch_RecoversWithinRetryBudget(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`<feed/>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	payload, meta, err := client.Fetch(context.Background(), "zoeken", nil)

	require.NoError(t, err)
	assert.Equal(t, []byte(`<feed/>`), payload)
	assert.Equal(t, 3, meta.Attempts)
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, _, err := client.Fetch(context.Background(), "content", map[string]string{"id": "ECLI:NL:HR:1"})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, rberrors.StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not retry")
}

func TestFetch_NetworkErrorRetriesAndSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(t, server.URL)
	var delays []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, meta, err := client.Fetch(context.Background(), "zoeken", nil)

	require.Error(t, err)
	var netErr *rberrors.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 3, meta.Attempts)

	// Two retries, each backoff no shorter than the previous.
	require.Len(t, delays, 2)
	assert.LessOrEqual(t, delays[0], delays[1])
	for _, d := range delays {
		assert.LessOrEqual(t, d, DefaultRetryPolicy().MaxDelay)
	}
}

func TestFetch_AttemptTimeoutConsumesRetryBudget(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := DefaultClientConfig()
	cfg.Timeout = 50 * time.Millisecond
	client, err := NewClient(server.URL, cfg)
	require.NoError(t, err)
	client.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	_, meta, err := client.Fetch(context.Background(), "zoeken", nil)

	require.Error(t, err)
	var netErr *rberrors.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 3, meta.Attempts,
		"a per-attempt timeout is a retryable network failure, not caller cancellation")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetch_CancelledCallerStopsRetrying(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.Fetch(ctx, "zoeken", nil)

	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(1),
		"a dead caller context must not consume the retry budget")
}

func TestFetch_CancellationDuringBackoffReturnsLastError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, DefaultClientConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	client.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, _, err = client.Fetch(ctx, "zoeken", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rberrors.StatusCode(err),
		"the failure that triggered the retry is surfaced, not the cancellation")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetryPolicy_Delay(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, policy.Delay(1))
	assert.Equal(t, 2*time.Second, policy.Delay(2))
	assert.Equal(t, 4*time.Second, policy.Delay(3))
	assert.Equal(t, 5*time.Second, policy.Delay(4), "delay is capped at MaxDelay")
	assert.Equal(t, 5*time.Second, policy.Delay(10))
}

func TestFetch_HeaderOverrides(t *testing.T) {
	var gotAccept, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`<feed/>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, _, err := client.Fetch(context.Background(), "zoeken", nil, WithHeader("Accept", "application/atom+xml"))
	require.NoError(t, err)

	assert.Equal(t, "application/atom+xml", gotAccept)
	assert.Equal(t, DefaultUserAgent, gotAgent)
}

func TestFetchNode_ParseErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<feed><entry>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	node, _, err := client.FetchNode(context.Background(), "zoeken", nil)

	require.Error(t, err)
	assert.Nil(t, node)
	assert.True(t, rberrors.IsParseError(err), "malformed markup must never decay to an empty tree")
}
