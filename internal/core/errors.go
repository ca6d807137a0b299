package core

import "errors"

var (
	// ErrNotFound is returned by store lookups when no document matches.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when a contest id is not a valid
	// document id.
	ErrInvalidID = errors.New("invalid id")

	// ErrAlreadyRegistered is returned when a participant registers for
	// the same contest twice.
	ErrAlreadyRegistered = errors.New("already registered")
)
