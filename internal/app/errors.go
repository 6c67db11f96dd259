package service

import "errors"

// Sentinel kinds surfaced by the service.
var (
	// ErrNoPlayData means every provider was ineligible, failed or empty.
	ErrNoPlayData = errors.New("no provider returned play data")

	ErrBackpressure = errors.New("refresh queue is full")
	ErrInFlight     = errors.New("refresh already in flight")
	ErrNotStarted   = errors.New("service not started")
	ErrStopped      = errors.New("service stopped")
	ErrNotTracked   = errors.New("game not tracked")
	ErrFieldSource  = errors.New("field view source not configured")
)
