package errors

import "errors"

var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidID indicates the provided ID is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid user ID format")

	// ErrDuplicate indicates the username or email is already taken.
	ErrDuplicate = errors.New("username or email already registered")
)
