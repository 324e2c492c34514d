// Package rechtspraak implements the resilient retrieval layer for the
// rechtspraak.nl-style open-data provider: an HTTP transport client with
// timeout, retry-with-backoff, and TTL caching; a structural markup
// decoder; a record mapper; and the two-phase search orchestrator.
package rechtspraak

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tombee/rechtsbron/internal/log"
	"github.com/tombee/rechtsbron/pkg/errors"
)

const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies rechtsbron to the provider.
	DefaultUserAgent = "rechtsbron/1.0"

	// maxErrorBodyBytes caps how much of an error response is kept for
	// diagnostics.
	maxErrorBodyBytes = 512
)

// RetryPolicy controls how failed requests are retried. Retries apply
// only to network failures, 5xx responses, and HTTP 429; they run
// strictly sequentially, never in parallel.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, including the first try.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the provider-tuned policy: three attempts,
// 500ms base, 5s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Delay computes the backoff before the retry following failed attempt n
// (1-based): min(base * 2^n, max). Delays are non-decreasing.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return delay
}

// ClientConfig configures a transport client.
type ClientConfig struct {
	// Timeout bounds each request attempt. Default: 10s.
	Timeout time.Duration

	// Retry is the retry policy. Default: DefaultRetryPolicy.
	Retry RetryPolicy

	// CacheTTL is how long responses are served from cache. Default: 5m.
	CacheTTL time.Duration

	// UserAgent is sent on every request. Default: DefaultUserAgent.
	UserAgent string

	// Logger receives transport events. Default: slog.Default.
	Logger *slog.Logger

	// Metrics receives transport counters. Optional.
	Metrics *Metrics

	// Transport overrides the HTTP round tripper. Used by tests.
	Transport http.RoundTripper
}

// DefaultClientConfig returns a ClientConfig with production defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   DefaultTimeout,
		Retry:     DefaultRetryPolicy(),
		CacheTTL:  DefaultCacheTTL,
		UserAgent: DefaultUserAgent,
	}
}

// Client fetches payloads from one provider base URL. It owns its cache
// and retry state exclusively; callers sharing a base URL should obtain
// the client through a Registry so they share both.
type Client struct {
	base      *url.URL
	httpc     *http.Client
	cache     *ttlCache
	retry     RetryPolicy
	userAgent string
	logger    *slog.Logger
	metrics   *Metrics

	// sleep is replaced in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// Meta describes how a fetch was satisfied. It feeds observability only;
// callers must not branch on it.
type Meta struct {
	// FromCache is true when the payload came from the TTL cache.
	FromCache bool

	// Attempts is the number of network attempts made (0 on cache hit).
	Attempts int

	// ETag is the validation tag captured from the response, if any.
	ETag string
}

// NewClient creates a transport client for the given base URL. A base
// without an http(s) scheme or host is rejected with InvalidTargetError
// before any request could be attempted.
func NewClient(baseURL string, cfg ClientConfig) (*Client, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base: base,
		httpc: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		cache:     newTTLCache(cfg.CacheTTL),
		retry:     cfg.Retry,
		userAgent: cfg.UserAgent,
		logger:    log.WithComponent(logger, "transport"),
		metrics:   cfg.Metrics,
		sleep:     sleepContext,
	}, nil
}

// BaseURL returns the normalized provider base this client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// CacheSize returns the number of cached payloads, for diagnostics.
func (c *Client) CacheSize() int {
	return c.cache.size()
}

// ClearCache drops all cached payloads.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// FetchOption customizes a single fetch.
type FetchOption func(*http.Request)

// WithHeader sets a per-request header override. Headers are not part of
// the cache identity.
func WithHeader(key, value string) FetchOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// Fetch retrieves the payload at path with the given query parameters.
// The cache is consulted first; on a miss the request runs under the
// configured timeout and retry policy. The final failure after the retry
// budget is exhausted is returned, never swallowed.
func (c *Client) Fetch(ctx context.Context, path string, params map[string]string, opts ...FetchOption) ([]byte, Meta, error) {
	target, err := c.resolve(path, params)
	if err != nil {
		return nil, Meta{}, err
	}

	key := cacheKey(path, params)
	if payload, etag, ok := c.cache.get(key); ok {
		c.metrics.cacheHit()
		c.logger.Debug("cache hit", slog.String("path", path), slog.Bool(log.CacheKey, true))
		return payload, Meta{FromCache: true, ETag: etag}, nil
	}
	c.metrics.cacheMiss()

	start := time.Now()
	payload, meta, err := c.doWithRetry(ctx, target, opts)
	c.metrics.observeRequest(time.Since(start).Seconds())
	if err != nil {
		return nil, meta, err
	}

	c.cache.put(key, payload, meta.ETag)
	return payload, meta, nil
}

// FetchNode fetches a payload and decodes it into a generic node tree.
func (c *Client) FetchNode(ctx context.Context, path string, params map[string]string, opts ...FetchOption) (*Node, Meta, error) {
	payload, meta, err := c.Fetch(ctx, path, params, opts...)
	if err != nil {
		return nil, meta, err
	}
	node, err := Decode(payload)
	if err != nil {
		return nil, meta, err
	}
	return node, meta, nil
}

// resolve joins base and path and attaches the query string. An empty or
// absolute path is rejected: this client only speaks to its own base.
func (c *Client) resolve(path string, params map[string]string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return "", &errors.InvalidTargetError{Target: path, Reason: "empty path"}
	}
	if strings.Contains(path, "://") {
		return "", &errors.InvalidTargetError{Target: path, Reason: "path must be relative to the client base"}
	}

	target := c.base.JoinPath(trimmed)
	if len(params) > 0 {
		values := make(url.Values, len(params))
		for k, v := range params {
			values.Set(k, v)
		}
		target.RawQuery = values.Encode()
	}
	return target.String(), nil
}

// doWithRetry performs the request with sequential retry-with-backoff.
func (c *Client) doWithRetry(ctx context.Context, target string, opts []FetchOption) ([]byte, Meta, error) {
	var lastErr error
	meta := Meta{}

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		meta.Attempts = attempt

		if attempt > 1 {
			c.metrics.retry()
			delay := c.retry.Delay(attempt - 1)
			c.logger.Debug("retrying request",
				slog.Int(log.AttemptKey, attempt),
				slog.Duration("backoff", delay),
			)
			if err := c.sleep(ctx, delay); err != nil {
				// Caller gave up during backoff; surface what failed.
				return nil, meta, lastErr
			}
		}

		payload, etag, err := c.do(ctx, target, opts)
		if err == nil {
			meta.ETag = etag
			return payload, meta, nil
		}
		lastErr = err

		// Only the caller's own context ends the attempt loop early. A
		// per-attempt timeout also surfaces as DeadlineExceeded but is an
		// ordinary retryable network failure.
		if ctx.Err() != nil {
			return nil, meta, lastErr
		}
		if !errors.Retryable(err) {
			return nil, meta, lastErr
		}
	}

	c.logger.Warn("retry budget exhausted",
		slog.Int("attempts", c.retry.MaxAttempts),
		log.Error(lastErr),
	)
	return nil, meta, lastErr
}

// do performs one request attempt.
func (c *Client) do(ctx context.Context, target string, opts []FetchOption) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", &errors.InvalidTargetError{Target: target, Reason: err.Error()}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", &errors.NetworkError{
			Operation: "fetch",
			URL:       target,
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, "", &errors.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        target,
			Body:       string(excerpt),
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &errors.NetworkError{
			Operation: "fetch",
			URL:       target,
			Cause:     fmt.Errorf("reading response body: %w", err),
		}
	}
	return payload, resp.Header.Get("ETag"), nil
}

// parseBase validates and parses a provider base URL. A base without an
// http(s) scheme or host yields InvalidTargetError.
func parseBase(baseURL string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, &errors.InvalidTargetError{Target: baseURL, Reason: err.Error()}
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, &errors.InvalidTargetError{Target: baseURL, Reason: "scheme must be http or https"}
	}
	if base.Host == "" {
		return nil, &errors.InvalidTargetError{Target: baseURL, Reason: "missing host"}
	}
	return base, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
