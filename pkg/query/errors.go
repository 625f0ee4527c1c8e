package query

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is matched by errors.Is for every *InvalidPatternError.
var ErrInvalidPattern = errors.New("invalid search pattern")

// InvalidPatternError reports a search expression that does not compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("bad search query '%s': %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidPattern as a match.
func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}
