package domain

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced entity id does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Entity, e.ID)
}

// InvalidStateError reports a violated state-machine precondition. It is a
// logic conflict and must not be retried.
type InvalidStateError struct {
	ProjectID string
	State     ApprovalState
	Op        string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: project %s is %s", e.Op, e.ProjectID, e.State)
}

// PersistenceError wraps an opaque storage failure. Callers may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidState reports whether err is or wraps an *InvalidStateError.
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

// IsRetryable reports whether err is a transient storage failure.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
