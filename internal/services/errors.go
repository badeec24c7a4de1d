package services

import "errors"

// Sentinel errors shared by all services. Handlers map these onto HTTP
// statuses; anything else is treated as an internal failure.
var (
	// ErrDuplicate is returned when a registration conflicts with an
	// existing username or email.
	ErrDuplicate = errors.New("username or email already exists")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords. Callers must not be able to tell which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is returned for deactivated accounts regardless of
	// password correctness.
	ErrAccountDisabled = errors.New("account is disabled")

	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)
