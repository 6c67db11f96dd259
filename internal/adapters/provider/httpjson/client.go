// Package httpjson is the JSON-over-HTTP client shared by the provider
// adapters: context-bound requests, optional rate limiting, bounded retries
// with exponential backoff on transport failures, 429 and 5xx.
package httpjson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/okian/huddle/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultTimeout     = 15 * time.Second
	defaultBackoff     = 500 * time.Millisecond
	maxBackoff         = 30 * time.Second
	backoffFactor      = 2
	maxBodyBytes       = 8 << 20
	abbreviatedBodyLen = 240
)

// Client performs JSON requests against one upstream.
type Client struct {
	name       string
	httpClient *http.Client
	headers    http.Header
	maxRetries int
	backoff    time.Duration
	limiter    *rate.Limiter
}

// New creates a client. name labels upstream metrics.
func New(name string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		httpClient: &http.Client{Timeout: defaultTimeout},
		headers:    http.Header{},
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and returns the raw body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers)
}

// GetJSON fetches url and decodes the body into target.
func (c *Client) GetJSON(ctx context.Context, url string, headers http.Header, target any) ([]byte, error) {
	raw, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return raw, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return raw, nil
}

// PostJSON encodes body, posts it to url and decodes the response into target.
func (c *Client) PostJSON(ctx context.Context, url string, body any, headers http.Header, target any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/json")

	raw, err := c.do(ctx, http.MethodPost, url, payload, h)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return raw, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, headers http.Header) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		raw, retryable, err := c.once(ctx, method, url, body, headers)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxRetries {
			break
		}

		metrics.RecordUpstreamRetry(c.name)
		timer := time.NewTimer(c.backoffFor(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, headers http.Header) ([]byte, bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		return nil, true, fmt.Errorf("%w: send request: %w", ErrTransient, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, true, fmt.Errorf("%w: read response body: %w", ErrTransient, readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, false, nil
	}
	statusErr := &StatusError{Code: resp.StatusCode, Body: abbreviate(raw)}
	if isRetryableStatus(resp.StatusCode) {
		return nil, true, fmt.Errorf("%w: %w", ErrTransient, statusErr)
	}
	return nil, false, statusErr
}

func (c *Client) backoffFor(attempt int) time.Duration {
	d := c.backoff
	for i := 0; i < attempt; i++ {
		d *= backoffFactor
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status=%d body=%s", e.Code, e.Body)
}

// StatusCode extracts the upstream status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= abbreviatedBodyLen {
		return text
	}
	return text[:abbreviatedBodyLen] + "..."
}
