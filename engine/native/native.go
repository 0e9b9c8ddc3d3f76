// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native drives the PAG runtime through the pag4go shim library.
//
// The shim is opened at run time with the host's dynamic linker, so the
// package builds without cgo and without the library present. Opening the
// shim happens in [Engine.Init]; the file and surface entry points are
// resolved separately by [Engine.InitFile] and [Engine.InitSurface].
package native

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/gogpu/pag/engine"
)

// DefaultLibrary is the module name of the shim.
const DefaultLibrary = "pag4go"

func init() {
	engine.Register(engine.NameNative, func() engine.Engine {
		return New()
	})
}

// Option configures an Engine.
type Option func(*Engine)

// WithLibrary sets the module name or path of the shim.
func WithLibrary(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.library = name
		}
	}
}

// WithLoader sets the loader used to open the shim.
func WithLoader(l *Loader) Option {
	return func(e *Engine) {
		if l != nil {
			e.loader = l
		}
	}
}

// withBinder replaces symbol resolution. Tests use it to stand in for the
// shim.
func withBinder(b binder) Option {
	return func(e *Engine) {
		e.bind = b
	}
}

// Engine forwards every call to the shim. Handles are the shim's own
// object pointers.
type Engine struct {
	mu      sync.RWMutex
	library string
	loader  *Loader
	bind    binder
	lib     uintptr

	file    *fileSymbols
	surface *surfaceSymbols
}

// New returns an engine for the shim. Nothing is opened until Init.
func New(opts ...Option) *Engine {
	e := &Engine{
		library: DefaultLibrary,
		loader:  defaultLoader,
		bind:    registerFunc,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return engine.NameNative }

// Library returns the module name of the shim.
func (e *Engine) Library() string { return e.library }

// Init opens the shim.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lib != 0 {
		return nil
	}
	h, ok := e.loader.Load(e.library)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLibraryNotLoaded, e.library)
	}
	e.lib = h
	return nil
}

// Close drops the resolved entry points. The shim stays resident.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.file = nil
	e.surface = nil
}

// InitFile resolves the document and file entry points.
func (e *Engine) InitFile() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file != nil {
		return nil
	}
	if e.lib == 0 {
		return engine.ErrNotInitialized
	}
	syms := &fileSymbols{}
	if err := bindAll(e.bind, e.lib, syms.table()); err != nil {
		return err
	}
	e.file = syms
	engine.Logger().Debug("native: file bindings ready", "library", e.library)
	return nil
}

// InitSurface resolves the surface entry points.
func (e *Engine) InitSurface() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.surface != nil {
		return nil
	}
	if e.lib == 0 {
		return engine.ErrNotInitialized
	}
	syms := &surfaceSymbols{}
	if err := bindAll(e.bind, e.lib, syms.table()); err != nil {
		return err
	}
	e.surface = syms
	engine.Logger().Debug("native: surface bindings ready", "library", e.library)
	return nil
}

func (e *Engine) files() *fileSymbols {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.file
}

func (e *Engine) surfaces() *surfaceSymbols {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.surface
}

// MaxSupportedTagLevel implements engine.Engine. It is 0 until InitFile.
func (e *Engine) MaxSupportedTagLevel() int {
	s := e.files()
	if s == nil {
		return 0
	}
	return int(s.maxSupportedTagLevel())
}

// LoadDocument implements engine.DocumentBackend.
func (e *Engine) LoadDocument(data []byte, path string) (engine.Handle, error) {
	s := e.files()
	if s == nil {
		return engine.InvalidHandle, engine.ErrNotInitialized
	}
	if len(data) == 0 {
		return engine.InvalidHandle, fmt.Errorf("%w: empty data", engine.ErrInvalidDocument)
	}
	h := s.documentLoad(unsafe.Pointer(&data[0]), uintptr(len(data)), path)
	runtime.KeepAlive(data)
	if h == 0 {
		return engine.InvalidHandle, engine.ErrInvalidDocument
	}
	return engine.Handle(h), nil
}

// ReleaseDocument implements engine.DocumentBackend.
func (e *Engine) ReleaseDocument(doc engine.Handle) {
	if s := e.files(); s != nil && doc.Valid() {
		s.documentRelease(uintptr(doc))
	}
}

// MakeFile implements engine.FileBackend.
func (e *Engine) MakeFile(doc engine.Handle) (engine.Handle, error) {
	s := e.files()
	if s == nil {
		return engine.InvalidHandle, engine.ErrNotInitialized
	}
	if !doc.Valid() {
		return engine.InvalidHandle, engine.ErrInvalidHandle
	}
	h := s.make(uintptr(doc))
	if h == 0 {
		return engine.InvalidHandle, engine.ErrAllocationFailed
	}
	return engine.Handle(h), nil
}

// ReleaseFile implements engine.FileBackend.
func (e *Engine) ReleaseFile(file engine.Handle) {
	if s := e.files(); s != nil && file.Valid() {
		s.release(uintptr(file))
	}
}

func (e *Engine) fileInt(file engine.Handle, get func(*fileSymbols) func(uintptr) int32) int {
	s := e.files()
	if s == nil || !file.Valid() {
		return 0
	}
	return int(get(s)(uintptr(file)))
}

// FileTagLevel implements engine.FileBackend.
func (e *Engine) FileTagLevel(file engine.Handle) int {
	return e.fileInt(file, func(s *fileSymbols) func(uintptr) int32 { return s.tagLevel })
}

// FileNumTexts implements engine.FileBackend.
func (e *Engine) FileNumTexts(file engine.Handle) int {
	return e.fileInt(file, func(s *fileSymbols) func(uintptr) int32 { return s.numTexts })
}

// FileNumImages implements engine.FileBackend.
func (e *Engine) FileNumImages(file engine.Handle) int {
	return e.fileInt(file, func(s *fileSymbols) func(uintptr) int32 { return s.numImages })
}

// FileNumVideos implements engine.FileBackend.
func (e *Engine) FileNumVideos(file engine.Handle) int {
	return e.fileInt(file, func(s *fileSymbols) func(uintptr) int32 { return s.numVideos })
}

// FileWidth implements engine.FileBackend.
func (e *Engine) FileWidth(file engine.Handle) int {
	return e.fileInt(file, func(s *fileSymbols) func(uintptr) int32 { return s.width })
}

// FileHeight implements engine.FileBackend.
func (e *Engine) FileHeight(file engine.Handle) int {
	return e.fileInt(file, func(s *fileSymbols) func(uintptr) int32 { return s.height })
}

// FilePath implements engine.FileBackend.
func (e *Engine) FilePath(file engine.Handle) string {
	s := e.files()
	if s == nil || !file.Valid() {
		return ""
	}
	return s.path(uintptr(file))
}

// FileTimeStretchMode implements engine.FileBackend.
func (e *Engine) FileTimeStretchMode(file engine.Handle) int32 {
	s := e.files()
	if s == nil || !file.Valid() {
		return 0
	}
	return s.timeStretchMode(uintptr(file))
}

// FileSetTimeStretchMode implements engine.FileBackend.
func (e *Engine) FileSetTimeStretchMode(file engine.Handle, mode int32) {
	if s := e.files(); s != nil && file.Valid() {
		s.setTimeStretchMode(uintptr(file), mode)
	}
}

// FileDuration implements engine.FileBackend.
func (e *Engine) FileDuration(file engine.Handle) int64 {
	s := e.files()
	if s == nil || !file.Valid() {
		return 0
	}
	return s.duration(uintptr(file))
}

// FileSetDuration implements engine.FileBackend.
func (e *Engine) FileSetDuration(file engine.Handle, duration int64) {
	if s := e.files(); s != nil && file.Valid() {
		s.setDuration(uintptr(file), duration)
	}
}

// FileFrameRate implements engine.FileBackend.
func (e *Engine) FileFrameRate(file engine.Handle) float32 {
	s := e.files()
	if s == nil || !file.Valid() {
		return 0
	}
	return s.frameRate(uintptr(file))
}

// FileNumChildren implements engine.FileBackend.
func (e *Engine) FileNumChildren(file engine.Handle) int {
	return e.fileInt(file, func(s *fileSymbols) func(uintptr) int32 { return s.numChildren })
}

// FileLayerAt implements engine.FileBackend. The index is checked against
// the shim's child count before any layer call.
func (e *Engine) FileLayerAt(file engine.Handle, index int) (engine.Layer, bool) {
	s := e.files()
	if s == nil || !file.Valid() || index < 0 || index >= int(s.numChildren(uintptr(file))) {
		return engine.Layer{}, false
	}
	f, i := uintptr(file), int32(index)
	return engine.Layer{
		Type:      s.layerType(f, i),
		Name:      s.layerName(f, i),
		StartTime: s.layerStartTime(f, i),
		Duration:  s.layerDuration(f, i),
	}, true
}

// MakeOffscreen implements engine.SurfaceBackend.
func (e *Engine) MakeOffscreen(width, height int) (engine.Handle, error) {
	s := e.surfaces()
	if s == nil {
		return engine.InvalidHandle, engine.ErrNotInitialized
	}
	if width <= 0 || height <= 0 || width > maxInt32 || height > maxInt32 {
		return engine.InvalidHandle, fmt.Errorf("%w: %dx%d", engine.ErrInvalidSize, width, height)
	}
	h := s.makeOffscreen(int32(width), int32(height))
	if h == 0 {
		return engine.InvalidHandle, engine.ErrAllocationFailed
	}
	return engine.Handle(h), nil
}

const maxInt32 = 1<<31 - 1

// ReleaseSurface implements engine.SurfaceBackend.
func (e *Engine) ReleaseSurface(surface engine.Handle) {
	if s := e.surfaces(); s != nil && surface.Valid() {
		s.release(uintptr(surface))
	}
}

// SurfaceWidth implements engine.SurfaceBackend.
func (e *Engine) SurfaceWidth(surface engine.Handle) int {
	s := e.surfaces()
	if s == nil || !surface.Valid() {
		return 0
	}
	return int(s.width(uintptr(surface)))
}

// SurfaceHeight implements engine.SurfaceBackend.
func (e *Engine) SurfaceHeight(surface engine.Handle) int {
	s := e.surfaces()
	if s == nil || !surface.Valid() {
		return 0
	}
	return int(s.height(uintptr(surface)))
}

// SurfaceUpdateSize implements engine.SurfaceBackend.
func (e *Engine) SurfaceUpdateSize(surface engine.Handle) {
	if s := e.surfaces(); s != nil && surface.Valid() {
		s.updateSize(uintptr(surface))
	}
}

// SurfaceClearAll implements engine.SurfaceBackend.
func (e *Engine) SurfaceClearAll(surface engine.Handle) bool {
	s := e.surfaces()
	if s == nil || !surface.Valid() {
		return false
	}
	return s.clearAll(uintptr(surface))
}

// SurfaceFreeCache implements engine.SurfaceBackend.
func (e *Engine) SurfaceFreeCache(surface engine.Handle) {
	if s := e.surfaces(); s != nil && surface.Valid() {
		s.freeCache(uintptr(surface))
	}
}

// SurfaceReadPixels implements engine.SurfaceBackend.
func (e *Engine) SurfaceReadPixels(surface engine.Handle, dst []byte, stride int) bool {
	s := e.surfaces()
	if s == nil || !surface.Valid() || len(dst) == 0 || stride <= 0 || stride > maxInt32 {
		return false
	}
	ok := s.readPixels(uintptr(surface), unsafe.Pointer(&dst[0]), uintptr(len(dst)), int32(stride))
	runtime.KeepAlive(dst)
	return ok
}

var _ engine.Engine = (*Engine)(nil)
