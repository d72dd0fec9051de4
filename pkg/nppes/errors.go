package nppes

import (
	"errors"
	"fmt"
)

// StatusError is returned when the registry answers with a non-200 status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nppes: unexpected status %d", e.StatusCode)
}

// IsStatusError reports whether err (or any error in its chain) is a *StatusError.
func IsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}
