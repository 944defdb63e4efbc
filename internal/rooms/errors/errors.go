package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid room ID format")

	// ErrStatusConflict reports a conditional status update that matched the
	// room id but not the expected current status (a lost CAS race).
	ErrStatusConflict = errors.New("room status changed concurrently")
)
