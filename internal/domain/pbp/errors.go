package pbp

import "errors"

// Sentinel kinds for payload decoding.
var (
	ErrEmptyPayload     = errors.New("empty play-by-play payload")
	ErrMalformedPayload = errors.New("malformed play-by-play payload")
)
