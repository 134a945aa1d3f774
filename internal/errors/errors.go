package errors

import (
	"errors"
	"fmt"
)

// ErrJobInProgress is returned when a batch job is already running elsewhere.
var ErrJobInProgress = errors.New("job already in progress")

// Kind classifies datastore failures. Callers switch on Kind instead of
// driver specific error codes.
type Kind string

const (
	KindUnavailable Kind = "unavailable"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
)

// RepositoryError is the only error type the repository layer returns.
type RepositoryError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *RepositoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// Repo builds a RepositoryError.
func Repo(kind Kind, op string, err error) *RepositoryError {
	return &RepositoryError{Kind: kind, Op: op, Err: err}
}

// ValidationError rejects malformed input before any query runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing entity. ID is zero when the entity is
// not keyed by a user id.
type NotFoundError struct {
	Entity string
	ID     uint64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err is a NotFoundError or a NotFound
// RepositoryError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var re *RepositoryError
	return errors.As(err, &re) && re.Kind == KindNotFound
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
