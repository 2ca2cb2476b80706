package performance

import (
	"errors"
	"fmt"
	"strings"

	"hrportal/internal/platform/validation"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("not allowed to modify this record")
)

type ValidationError struct {
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+" "+issue.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Issues: []validation.Issue{{Field: field, Reason: reason}}}
}

func validate(v any) error {
	if issues := validation.Struct(v); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// PersistenceError wraps a store failure that is not a missing record.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
