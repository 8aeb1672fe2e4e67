package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = fmt.Errorf("%w: not found", ErrValidation)
	ErrRepository = errors.New("repository call failed")
	ErrState      = errors.New("inconsistent edition state")
)

// ValidationError reports a bad cross reference handed to the session. The
// working set is untouched when one is returned.
type ValidationError struct {
	Kind error
	Msg  string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// RepositoryError wraps a failed gateway call. errors.Is matches both
// ErrRepository and the gateway's own error.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %v", ErrRepository.Error(), e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() []error { return []error{ErrRepository, e.Err} }

// StateError is reported, never returned from a mutation: the affected
// match or field is left unassigned.
type StateError struct {
	Msg string
	Err error
}

func (e *StateError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrState.Error(), e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", ErrState.Error(), e.Msg, e.Err)
}

func (e *StateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrState}
	}
	return []error{ErrState, e.Err}
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &ValidationError{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func repositoryError(op string, err error) error {
	return &RepositoryError{Op: op, Err: err}
}
