package info

import "github.com/pkg/errors"

// ErrInvalidQuery is wrapped by the panics raised when a parameter outside the query tables is used.
// It is a programmer error, never recovered silently.
var ErrInvalidQuery = errors.New("invalid query")

func invalidQueryf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidQuery, format, args...)
}
