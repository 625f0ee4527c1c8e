package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable is matched by errors.Is when the package
	// database could not be opened.
	ErrBackendUnavailable = errors.New("package database unavailable")

	// ErrBadRecord marks a per-record failure. Sources wrap it and the
	// catalog skips the record.
	ErrBadRecord = errors.New("bad package record")

	// ErrStaleCursor is reported by a cursor whose catalog was reset by a
	// later PreOpen.
	ErrStaleCursor = errors.New("catalog was reopened during enumeration")
)

// UnavailableError is returned by PreOpen when the backend cannot be
// opened.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("could not load the package database: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is reports ErrBackendUnavailable as a match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrBackendUnavailable
}
