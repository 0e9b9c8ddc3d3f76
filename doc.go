// Package pag provides Go bindings for the PAG animation engine.
//
// # Overview
//
// pag exposes three types to Go programs: [File], a loaded animation
// document; [Surface], an offscreen pixel target; and [Rect], a plain
// rectangle value. File and Surface hold a handle to a resource owned by
// the engine and forward every operation to it.
//
// # Quick Start
//
//	import "github.com/gogpu/pag"
//
//	f := pag.Load("intro.pag")
//	if f == nil {
//	    log.Fatal("not a PAG document")
//	}
//	defer f.Release()
//
//	fmt.Println(f.Width(), f.Height(), f.Duration())
//
//	s := pag.MakeOffscreen(f.Width(), f.Height())
//	defer s.Release()
//
// # Engines
//
// The engine is resolved when the first File or Surface is created:
//   - native: the pag4go shim library, opened at run time (see engine/native)
//   - software: a headless pure Go engine reading document metadata and
//     backing surfaces with gg pixmaps (see engine/software)
//
// native is preferred; when its module cannot be loaded pag falls back to
// software and logs a warning. Use [Configure] or the PAG_ENGINE and
// PAG_LIBRARY environment variables to choose.
//
// # Resources
//
// Every File and Surface must be released with Release (or Close). Release
// is idempotent. The runtime releases unreachable objects eventually, but
// only as a bound on leaks.
//
// Files loaded from the same path share one parsed document until the last
// of them is released. Files loaded from bytes never share.
//
// # Layers
//
// A File is its main composition. [File.NumChildren], [File.LayerAt] and
// [File.Layers] describe its child layers by value; the layer tree itself is
// read-only.
//
// # Errors
//
// Constructors return nil when a document cannot be loaded or a surface
// cannot be allocated; the reason is logged (see [SetLogger]). Methods on a
// released object return zero values.
package pag

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
