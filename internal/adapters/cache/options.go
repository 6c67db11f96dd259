package cache

import "time"

type options struct {
	size   int
	ttl    time.Duration
	prefix string
}

// Option configures a cache.
type Option func(*options)

// WithSize bounds the number of entries of a memory cache.
func WithSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.size = n
		}
	}
}

// WithTTL sets how long an entry lives.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithPrefix sets the key prefix of a Redis cache.
func WithPrefix(p string) Option {
	return func(o *options) {
		if p != "" {
			o.prefix = p
		}
	}
}
