// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import "image"

// Handle is an opaque token for a resource owned by an engine.
// The zero value, InvalidHandle, means "no resource".
//
// A handle must be passed back to the engine unmodified and released at
// most once. Holding a handle grants the right to reference the resource
// until it is released; it does not own the memory behind it.
type Handle uintptr

// InvalidHandle is returned by constructors on failure.
const InvalidHandle Handle = 0

// Valid reports whether h refers to a resource.
func (h Handle) Valid() bool {
	return h != InvalidHandle
}

// Engine names.
const (
	// NameNative is the engine backed by the pag4go shared library.
	NameNative = "native"
	// NameSoftware is the headless pure Go engine.
	NameSoftware = "software"
)

// Engine is the boundary between the Go façades and the animation engine.
//
// Every per-object call takes the handle returned by the matching
// constructor. Constructors return InvalidHandle with a non-nil error on
// failure. Calls made with an unknown or released handle return zero values
// and must not fault.
type Engine interface {
	// Name returns the engine identifier (e.g. "native", "software").
	Name() string

	// Init makes the engine ready for use. For the native engine this loads
	// the shared module. Init is idempotent.
	Init() error

	// Close releases engine-wide resources. Handles must not be used after
	// Close.
	Close()

	// InitFile prepares the file bindings. It runs once per process before
	// the first file is constructed.
	InitFile() error

	// InitSurface prepares the surface bindings. It runs once per process
	// before the first surface is constructed.
	InitSurface() error

	// MaxSupportedTagLevel returns the highest document tag level the engine
	// can read.
	MaxSupportedTagLevel() int

	DocumentBackend
	FileBackend
	SurfaceBackend
}

// DocumentBackend parses documents into shared, immutable representations.
type DocumentBackend interface {
	// LoadDocument parses data. path is informational and may be empty.
	LoadDocument(data []byte, path string) (Handle, error)

	// ReleaseDocument frees a parsed document. File instances made from it
	// must be released first.
	ReleaseDocument(doc Handle)
}

// FileBackend manages file instances. A file instance is a mutable view of a
// document: it starts with the document's original values and owns its own
// duration and time stretch settings.
type FileBackend interface {
	MakeFile(doc Handle) (Handle, error)
	ReleaseFile(file Handle)

	FileTagLevel(file Handle) int
	FileNumTexts(file Handle) int
	FileNumImages(file Handle) int
	FileNumVideos(file Handle) int
	FileWidth(file Handle) int
	FileHeight(file Handle) int
	FilePath(file Handle) string

	FileTimeStretchMode(file Handle) int32
	FileSetTimeStretchMode(file Handle, mode int32)

	// FileDuration returns the duration in microseconds.
	FileDuration(file Handle) int64

	// FileSetDuration sets the duration in microseconds. A value <= 0
	// restores the document's own duration.
	FileSetDuration(file Handle, duration int64)

	// FileFrameRate returns the main composition's frame rate.
	FileFrameRate(file Handle) float32

	// FileNumChildren returns the number of direct child layers of the main
	// composition.
	FileNumChildren(file Handle) int

	// FileLayerAt describes the child layer at index, bottom first. It
	// reports false if index is out of range.
	FileLayerAt(file Handle, index int) (Layer, bool)
}

// Layer is a read-only description of a composition's child layer.
type Layer struct {
	// Type uses the engine's layer type codes.
	Type int32
	Name string

	// StartTime and Duration are in microseconds on the parent's timeline.
	StartTime int64
	Duration  int64
}

// SurfaceBackend manages offscreen pixel targets.
type SurfaceBackend interface {
	MakeOffscreen(width, height int) (Handle, error)
	ReleaseSurface(surface Handle)

	SurfaceWidth(surface Handle) int
	SurfaceHeight(surface Handle) int

	// SurfaceUpdateSize reallocates the pixel buffer after the surface's
	// dimensions changed. Contents are not preserved.
	SurfaceUpdateSize(surface Handle)

	// SurfaceClearAll makes every pixel transparent and reports whether any
	// pixel changed.
	SurfaceClearAll(surface Handle) bool

	// SurfaceFreeCache drops caches held for the surface without
	// invalidating it.
	SurfaceFreeCache(surface Handle)

	// SurfaceReadPixels copies premultiplied RGBA8 pixels into dst using
	// stride bytes per row.
	SurfaceReadPixels(surface Handle, dst []byte, stride int) bool
}

// Snapshotter is implemented by engines that keep a readback image of a
// surface. The image belongs to the engine and stays valid until the next
// Snapshot, SurfaceFreeCache or SurfaceUpdateSize call for that surface.
// Snapshot returns nil for an unknown surface.
type Snapshotter interface {
	Snapshot(surface Handle) *image.RGBA
}
