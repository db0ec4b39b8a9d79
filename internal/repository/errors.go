package repository

import "errors"

// Sentinel errors shared by the data-access layer. Services and handlers
// match on these with errors.Is rather than inspecting driver errors.
var (
	// ErrNotFound is returned when no row exists for the given identifier.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("repository: duplicate record")
	// ErrAlreadyPaid is returned when a settlement targets an enrollment
	// that already left the PENDING state.
	ErrAlreadyPaid = errors.New("repository: enrollment already paid")
	// ErrSeatUnavailable is returned when the conditional seat decrement
	// finds no seats remaining.
	ErrSeatUnavailable = errors.New("repository: no seats available")
)
