// Package genetic evolves colour schemes for one image through interactive
// scoring rounds.
package genetic

import "errors"

// ErrInvalidState marks operations called outside their place in the
// scoring/evolution loop, such as evolving before every scheme is scored.
// Use errors.Is to detect it.
var ErrInvalidState = errors.New("invalid optimizer state")
