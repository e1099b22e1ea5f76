package domain

import "errors"

var (
	// ErrInvalidInput is returned when the URL to shorten is empty or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for an unknown token or link id.
	ErrNotFound = errors.New("link not found")
	// ErrDuplicateToken signals a uniqueness violation on insert.
	// The allocator recovers from it and callers never see it.
	ErrDuplicateToken = errors.New("token already exists")
	// ErrAllocationExhausted is returned when every allocation attempt collided.
	ErrAllocationExhausted = errors.New("token allocation failed after max attempts")
)
