package native

import "errors"

// Errors returned by the native engine.
var (
	// ErrLibraryNotLoaded is returned when the shim or one of its
	// dependencies could not be opened.
	ErrLibraryNotLoaded = errors.New("native: library not loaded")

	// ErrSymbolNotFound is returned when the shim lacks an expected symbol.
	ErrSymbolNotFound = errors.New("native: symbol not found")

	// ErrUnsupportedPlatform is returned where no dynamic loader is available.
	ErrUnsupportedPlatform = errors.New("native: dynamic loading not supported on this platform")
)
