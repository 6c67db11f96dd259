package pyespn

import (
	"github.com/okian/huddle/internal/adapters/cache"
	"github.com/okian/huddle/internal/adapters/provider/httpjson"
	"github.com/okian/huddle/pkg/logger"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithClient sets the HTTP client.
func WithClient(c *httpjson.Client) Option {
	return func(a *Adapter) { a.client = c }
}

// WithProxyURL sets the base URL of the ESPN data proxy.
func WithProxyURL(u string) Option {
	return func(a *Adapter) {
		if u != "" {
			a.proxyURL = u
		}
	}
}

// WithCache sets the payload cache.
func WithCache(c cache.Cache) Option {
	return func(a *Adapter) { a.cache = c }
}

// WithLogger sets the adapter logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}
