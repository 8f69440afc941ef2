package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStatusChanged is returned by UpdateIfStatus when the booking's
	// stored status no longer matches the expected one; the caller lost a
	// race with another transition and must re-read.
	ErrStatusChanged = errors.New("booking status changed concurrently")

	// ErrDuplicateEmail is returned when creating a user whose email is
	// already registered.
	ErrDuplicateEmail = errors.New("email already exists")
)
