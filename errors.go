package plfmip

import (
	"errors"
	"fmt"
)

// Error taxonomy of the benchmark. All four abort the offending instance;
// ErrMalformedBatch additionally poisons the batch reader that raised it,
// since a broken block shape means every later row offset is suspect.
var (
	ErrInvalidBreakpoints = errors.New("invalid breakpoints")
	ErrUnsupportedMethod  = errors.New("unsupported encoding method")
	ErrInvalidDimension   = errors.New("invalid dimension")
	ErrMalformedBatch     = errors.New("malformed batch")
)

func wrapErrorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
