package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// maxBodyBytes bounds a single upstream response.
const maxBodyBytes = 64 << 20

// Options are shared by every upstream client.
type Options struct {
	HTTPClient *http.Client
	Cache      Cache
	// CacheTTL of zero disables response caching.
	CacheTTL time.Duration
	Retry    RetryPolicy
	Logger   *zap.Logger
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Upstream string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Upstream, e.Code, e.Body)
}

// Retryable reports whether the request may succeed when repeated.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type httpClient struct {
	upstream string
	client   *http.Client
	cache    Cache
	ttl      time.Duration
	retry    RetryPolicy
	logger   *zap.Logger
}

func (o Options) build(upstream string) httpClient {
	c := httpClient{
		upstream: upstream,
		client:   o.HTTPClient,
		cache:    o.Cache,
		ttl:      o.CacheTTL,
		retry:    o.Retry,
		logger:   o.Logger,
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 30 * time.Second}
	}
	if c.cache == nil {
		c.cache = NopCache{}
	}
	if c.retry == (RetryPolicy{}) {
		c.retry = DefaultRetryPolicy
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// do sends the request, consulting the cache first when caching is enabled.
// A fresh payload is cached only when cacheable is nil or accepts it.
func (c httpClient) do(ctx context.Context, method, url string, body []byte, cacheable func([]byte) bool) ([]byte, error) {
	key := cacheKey(c.upstream, method, url, string(body))
	if c.ttl > 0 {
		cached, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn("cache get failed", zap.String("upstream", c.upstream), zap.Error(err))
		case ok:
			cacheLookupsTotal.WithLabelValues(c.upstream, "hit").Inc()
			return cached, nil
		default:
			cacheLookupsTotal.WithLabelValues(c.upstream, "miss").Inc()
		}
	}

	var payload []byte
	err := withRetry(ctx, c.retry, func(ctx context.Context) error {
		start := time.Now()
		data, err := c.send(ctx, method, url, body)
		upstreamRequestDuration.WithLabelValues(c.upstream).Observe(time.Since(start).Seconds())
		if err != nil {
			upstreamRequestsTotal.WithLabelValues(c.upstream, statusLabel(err)).Inc()
			c.logger.Warn("upstream request failed",
				zap.String("upstream", c.upstream),
				zap.String("url", url),
				zap.Error(err))
			if se, ok := err.(*StatusError); ok && !se.Retryable() {
				return permanent(err)
			}
			return err
		}
		upstreamRequestsTotal.WithLabelValues(c.upstream, "ok").Inc()
		payload = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 && (cacheable == nil || cacheable(payload)) {
		if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
			c.logger.Warn("cache set failed", zap.String("upstream", c.upstream), zap.Error(err))
		}
	}
	return payload, nil
}

func (c httpClient) send(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := data
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Upstream: c.upstream, Code: resp.StatusCode, Body: string(snippet)}
	}
	return data, nil
}

func statusLabel(err error) string {
	if se, ok := err.(*StatusError); ok {
		return strconv.Itoa(se.Code)
	}
	return "error"
}
