package store

import "errors"

// Sentinel errors for controllers to map to HTTP status.
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
	ErrBookNotFound   = errors.New("book not found")
)
