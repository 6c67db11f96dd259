package sportsdataio

import (
	"github.com/okian/huddle/internal/adapters/provider/httpjson"
	"github.com/okian/huddle/pkg/logger"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithClient sets the HTTP client. It replaces the rate limit and retry
// settings of the default client.
func WithClient(c *httpjson.Client) Option {
	return func(a *Adapter) { a.client = c }
}

// WithBaseURL sets the API base URL.
func WithBaseURL(u string) Option {
	return func(a *Adapter) {
		if u != "" {
			a.baseURL = u
		}
	}
}

// WithAPIKey sets the subscription key.
func WithAPIKey(key string) Option {
	return func(a *Adapter) { a.apiKey = key }
}

// WithRateLimit sets the allowed requests per second. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(a *Adapter) {
		if rps >= 0 {
			a.rps = rps
		}
	}
}

// WithMaxRetries sets how often a 429, 5xx or transport failure is retried.
func WithMaxRetries(n int) Option {
	return func(a *Adapter) {
		if n >= 0 {
			a.maxRetries = n
		}
	}
}

// WithLogger sets the adapter logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}
