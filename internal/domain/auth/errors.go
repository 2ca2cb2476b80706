package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrMFANotConfigured   = errors.New("mfa setup has not been started")
	ErrUserNotFound       = errors.New("user not found")
)
