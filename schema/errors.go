package schema

import (
	"fmt"
	"strings"
)

// ValidationError reports a request that is missing a mandatory dimension.
// It is surfaced to the caller as a failure envelope and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NoMatchingUserError reports that the case-insensitive identity lookup
// found no users at all for the requested names.
type NoMatchingUserError struct {
	Names []string
}

func (e *NoMatchingUserError) Error() string {
	return "No users found with case-insensitive search for " + strings.Join(e.Names, ",")
}
