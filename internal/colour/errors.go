// Package colour provides colour extraction, weighting and palette analysis.
package colour

import "errors"

// ErrInvalidInput reports arguments or data the pipeline cannot work with:
// empty pixel sets, malformed interchange text, out-of-range counts or
// thresholds. Wrap it with context and check with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
