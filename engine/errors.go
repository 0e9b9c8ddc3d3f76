package engine

import "errors"

// Common engine errors.
var (
	// ErrNotAvailable is returned when no requested engine can be initialized.
	ErrNotAvailable = errors.New("engine: not available")

	// ErrNotInitialized is returned when a call needs Init first.
	ErrNotInitialized = errors.New("engine: not initialized")

	// ErrInvalidHandle is returned when a handle is unknown or released.
	ErrInvalidHandle = errors.New("engine: invalid handle")

	// ErrInvalidDocument is returned when data is not a readable document.
	ErrInvalidDocument = errors.New("engine: invalid document")

	// ErrInvalidSize is returned for non-positive or oversized surfaces.
	ErrInvalidSize = errors.New("engine: invalid surface size")

	// ErrAllocationFailed is returned when the engine could not allocate a
	// resource.
	ErrAllocationFailed = errors.New("engine: allocation failed")
)
