package live

import "errors"

var (
	// ErrStopped is returned when a subscriber arrives after the hub stopped.
	ErrStopped = errors.New("live hub stopped")

	// ErrUpgrade wraps a failed websocket handshake. The response has
	// already been written when it is returned.
	ErrUpgrade = errors.New("websocket upgrade failed")
)
