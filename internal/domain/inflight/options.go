package inflight

// Option configures a Guard.
type Option func(*memoryGuard)

// WithMaxKeys bounds the number of keys held at once. When the bound is
// reached the oldest key is forgotten so a Release lost to a crash cannot
// block a game forever. maxKeys <= 0 means unbounded.
func WithMaxKeys(maxKeys int) Option {
	return func(g *memoryGuard) {
		g.maxKeys = maxKeys
	}
}
