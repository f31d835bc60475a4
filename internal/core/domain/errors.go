package domain

import "errors"

// Sentinel errors. The API layer maps these to HTTP status codes in one
// place; services and repositories return them (possibly wrapped).
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrTaskNotFound       = errors.New("task not found")
	ErrForbidden          = errors.New("access denied")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrSelfModification   = errors.New("cannot modify your own account")
	ErrInvalidRole        = errors.New("invalid role")
	ErrAssigneeNotFound   = errors.New("assigned user not found")
	ErrInvalidInput       = errors.New("invalid input")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenInvalid = errors.New("invalid token")
)
