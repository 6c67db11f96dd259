package sleeper

import "errors"

// ErrGraphQL wraps errors reported in a GraphQL response body.
var ErrGraphQL = errors.New("sleeper graphql error")
