package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrPostNotFound    = errors.New("post not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrContentRequired = errors.New("content is required")
)
