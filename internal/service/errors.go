package service

import "errors"

// Session and login failures are deliberately coarse: a caller cannot tell
// an unknown token from a tampered one, or a missing account from a wrong
// password. The distinct kinds exist for logging and for the expiry cleanup
// side effect.
var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict reports a duplicate identity or review, whether caught by
	// the soft pre-check or by the storage unique index losing a race.
	ErrConflict = errors.New("conflict")

	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")

	ErrCodeExpired = errors.New("verification code expired")
	ErrCodeInvalid = errors.New("invalid verification code")

	ErrProviderVerification = errors.New("provider verification failed")
	ErrMailDispatch         = errors.New("verification mail dispatch failed")
)
