package provider

import "errors"

// ErrUnknownProvider is returned for a provider name no adapter answers to.
var ErrUnknownProvider = errors.New("unknown provider")
