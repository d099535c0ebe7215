package domain

import (
	"errors"
	"fmt"
)

// Upstream failures. Every error returned by a MapsRepository for a failed
// round trip wraps ErrUpstream.
var (
	ErrUpstream          = errors.New("upstream request failed")
	ErrUpstreamStatus    = fmt.Errorf("%w: unexpected http status", ErrUpstream)
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrUpstream)
)
