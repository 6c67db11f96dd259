package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotFound    = errors.New("snapshot not found")
	ErrInvalidGame = errors.New("snapshot without game id")
)
