package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrorUnauthorized is returned when no acting user could be resolved from
// the request context. Never retried.
var ErrorUnauthorized = errors.New("unauthorized")

// InvalidTransitionError reports a completion state-machine violation.
// It carries enough context to render a precise user-facing message.
type InvalidTransitionError struct {
	JobId     int
	From      string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %q from status %q (job_id=%d)", e.Attempted, e.From, e.JobId)
}

// ValidationError reports a missing or malformed input field. Raised before
// any mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

func NewValidationError(field string, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageReleaseWarning is non-fatal: the photo metadata row was deleted but
// releasing the backing storage object failed. Logged and surfaced to the
// caller as a warning, not an error.
type StorageReleaseWarning struct {
	Locator string
	Err     error
}

func (w *StorageReleaseWarning) Error() string {
	return fmt.Sprintf("storage object %q was not released: %v", w.Locator, w.Err)
}

func (w *StorageReleaseWarning) Unwrap() error {
	return w.Err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrorRecordNotFound)
}
