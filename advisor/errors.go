package advisor

import "errors"

// ErrNoData is returned when the full source chain yields nothing
// worth answering from. Callers present it as "not found", not as a
// system failure.
var ErrNoData = errors.New("advisor: no regulation data found for this query")

// ErrSynthesisUnavailable is returned when sources were collected but
// the answer model could not be reached.
var ErrSynthesisUnavailable = errors.New("advisor: answer model unavailable")
