package pyespn

import "errors"

// ErrNotFound is returned when the proxy has no payload for a game.
var ErrNotFound = errors.New("espn game not found")
