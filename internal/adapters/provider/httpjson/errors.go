package httpjson

import "errors"

// Error kinds returned by Client.
var (
	ErrTransient = errors.New("transient upstream failure")
	ErrDecode    = errors.New("decode upstream payload")
)
