package projects

import (
	"errors"

	"hrportal/internal/platform/validation"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("not allowed to access this project")
)

type ValidationError struct {
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	return "project payload validation failed"
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Issues: []validation.Issue{{Field: field, Reason: reason}}}
}
