package services

import "errors"

// The closed set of error kinds every service returns. Handlers translate
// these to HTTP status codes; anything else is a 500.
var (
	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means a malformed identifier or an input that fails
	// a domain rule (e.g. a category parenting itself).
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means a unique constraint was violated.
	ErrConflict = errors.New("already exists")
)
