package model

import "errors"

// Sentinel kinds for model validation.
var (
	ErrInvalidPlay           = errors.New("invalid play")
	ErrConflictingScoreFlags = errors.New("more than one scoring flag set")
	ErrInvalidGame           = errors.New("invalid game")
)
