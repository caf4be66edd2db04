package errs

import "errors"

// Error kinds returned by the booking usecases. Callers branch with
// errors.Is; detail is carried by the wrapped message.
var (
	// ErrInvalidInput marks bad caller-supplied data (route, budget, expiry).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an ownership mismatch.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState marks an entity that is not in the status the
	// operation requires.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict marks a version mismatch on a compare-and-swap write.
	ErrConflict = errors.New("version conflict")

	// ErrUnexpected marks a storage or collaborator failure.
	ErrUnexpected = errors.New("unexpected error")
)
