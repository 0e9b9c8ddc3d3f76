// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/gogpu/pag/engine"
)

// windowsDependencies are the GPU interface modules the shim links against
// on Windows. They must be resident before the shim itself is opened.
var windowsDependencies = []string{"libGLESv2", "libEGL"}

// Opener opens a shared library file and returns its module handle.
type Opener interface {
	Open(file string) (uintptr, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(file string) (uintptr, error)

// Open calls f(file).
func (f OpenerFunc) Open(file string) (uintptr, error) {
	return f(file)
}

// Loader keeps track of the modules opened in this process. Modules stay
// resident once opened, so loading a module twice returns the first handle.
type Loader struct {
	mu     sync.Mutex
	opener Opener
	goos   string
	loaded map[string]uintptr
}

// NewLoader returns a loader that opens files with opener and names them
// after the conventions of goos.
func NewLoader(opener Opener, goos string) *Loader {
	return &Loader{
		opener: opener,
		goos:   goos,
		loaded: make(map[string]uintptr),
	}
}

var defaultLoader = NewLoader(systemOpener{}, runtime.GOOS)

// DefaultLoader returns the process-wide loader backed by the host's
// dynamic linker.
func DefaultLoader() *Loader {
	return defaultLoader
}

// LoadLibrary loads the named module with the process-wide loader.
// It reports false for an empty name or any failure; failures are logged and
// never propagate.
func LoadLibrary(name string) bool {
	_, ok := defaultLoader.Load(name)
	return ok
}

// Load opens the named module, preceded on Windows by its GPU interface
// dependencies. A failure of any of them fails the whole load.
func (l *Loader) Load(name string) (uintptr, bool) {
	if name == "" {
		engine.Logger().Error("native: empty library name")
		return 0, false
	}

	if l.goos == "windows" {
		for _, dep := range windowsDependencies {
			if _, err := l.open(dep); err != nil {
				engine.Logger().Error("native: dependency not loaded", "library", name, "dependency", dep, "err", err)
				return 0, false
			}
		}
	}

	h, err := l.open(name)
	if err != nil {
		engine.Logger().Error("native: library not loaded", "library", name, "err", err)
		return 0, false
	}
	engine.Logger().Info("native: library loaded", "library", name)
	return h, true
}

// Loaded reports whether the named module is resident.
func (l *Loader) Loaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.loaded[LibraryFileName(l.goos, name)]
	return ok
}

func (l *Loader) open(name string) (h uintptr, err error) {
	file := LibraryFileName(l.goos, name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.loaded[file]; ok {
		return h, nil
	}

	defer func() {
		if r := recover(); r != nil {
			h, err = 0, fmt.Errorf("%w: %s: %v", ErrLibraryNotLoaded, file, r)
		}
	}()

	h, err = l.opener.Open(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrLibraryNotLoaded, file, err)
	}
	if h == 0 {
		return 0, fmt.Errorf("%w: %s", ErrLibraryNotLoaded, file)
	}
	l.loaded[file] = h
	return h, nil
}

// LibraryFileName maps a module name to the file name the host's loader
// expects: libNAME.so, libNAME.dylib or NAME.dll. Names that already carry a
// directory or an extension are returned unchanged.
func LibraryFileName(goos, name string) string {
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) != "" {
		return name
	}
	switch goos {
	case "windows":
		return name + ".dll"
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}
