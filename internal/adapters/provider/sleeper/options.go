package sleeper

import (
	"time"

	"github.com/okian/huddle/internal/adapters/provider/httpjson"
	"github.com/okian/huddle/pkg/logger"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithClient sets the HTTP client used for both endpoints.
func WithClient(c *httpjson.Client) Option {
	return func(a *Adapter) { a.client = c }
}

// WithRESTURL sets the REST API base URL.
func WithRESTURL(u string) Option {
	return func(a *Adapter) {
		if u != "" {
			a.restURL = u
		}
	}
}

// WithGraphQLURL sets the GraphQL endpoint.
func WithGraphQLURL(u string) Option {
	return func(a *Adapter) {
		if u != "" {
			a.graphqlURL = u
		}
	}
}

// WithToken sets the raw JWT sent as Authorization to the GraphQL
// endpoint. Without a token the GraphQL fallback is skipped.
func WithToken(token string) Option {
	return func(a *Adapter) { a.token = token }
}

// WithFreshWindow sets how far from now a finished game may be dated and
// still be considered.
func WithFreshWindow(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.freshWindow = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
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
