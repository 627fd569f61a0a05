package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an operation referenced an unknown app ID where
// absence is semantically significant (get, patch). Operations where absence
// is expected (status updates, removal) swallow it as a no-op instead.
var ErrNotFound = errors.New("app not found")

// ErrPortExhausted indicates the allocator scanned its whole search window
// without finding a free port. Fatal to the registration that triggered it;
// never retried automatically.
var ErrPortExhausted = errors.New("port range exhausted")

// ValidationError describes malformed input to a registry operation.
// Surfaced to HTTP callers as a 4xx, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
