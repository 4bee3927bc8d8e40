package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input breaks a precondition of the tour
// expansion (e.g. an owner with no chosen alternative, an alternative id that
// is missing from the alternatives table, a negative tour count).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvariant marks a violated invariant of the stable tour id scheme: a
// generated label outside the canonical label space or a duplicate tour id.
// It never describes bad user input. It means the canonical flavor maps and
// the configured alternatives tables disagree, and the run must be aborted.
// Handlers should map this to HTTP 500.
var ErrInvariant = errors.New("invariant violation")
