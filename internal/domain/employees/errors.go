package employees

import (
	"errors"

	"hrportal/internal/platform/validation"
)

var (
	ErrEmailTaken = errors.New("an account with this email already exists")
	ErrNotFound   = errors.New("employee not found")
)

type ValidationError struct {
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	return "employee payload validation failed"
}
