package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	// ErrDuplicateSlot is the storage-level uniqueness invariant firing:
	// another transaction committed the identical (doctor, start, end)
	// slot first.
	ErrDuplicateSlot = errors.New("identical active slot already exists")

	// ErrLockHeld means the advisory slot lock is currently owned by a
	// concurrent booking attempt.
	ErrLockHeld = errors.New("slot lock held by another booking attempt")
)
