// Package software provides a headless, pure Go engine.
//
// The software engine implements the engine boundary without the native
// library. Documents are read with the container reader in internal/pagfmt,
// which recovers metadata (tag level, editable texts, images, video
// compositions, main composition size and duration) but does not decode
// content. Offscreen surfaces are gg.Pixmap buffers.
//
// It is registered as "software" and is the fallback when the native engine
// cannot be loaded. Tests and CI use it directly:
//
//	e := software.New()
//	_ = e.Init()
//	doc, err := e.LoadDocument(data, "")
package software

import (
	"sync"

	"github.com/gogpu/pag/engine"
	"github.com/gogpu/pag/internal/pagfmt"
)

// MaxSurfaceSize is the largest width or height MakeOffscreen accepts.
const MaxSurfaceSize = 16384

func init() {
	engine.Register(engine.NameSoftware, func() engine.Engine {
		return New()
	})
}

// Engine is the headless engine. It is safe for concurrent use.
type Engine struct {
	mu          sync.Mutex
	initialized bool
	next        engine.Handle

	docs     map[engine.Handle]*document
	files    map[engine.Handle]*fileInstance
	surfaces map[engine.Handle]*surface
}

// Stats counts live objects in the engine.
type Stats struct {
	Documents int
	Files     int
	Surfaces  int
}

var (
	_ engine.Engine      = (*Engine)(nil)
	_ engine.Snapshotter = (*Engine)(nil)
)

// New creates a software engine. Call Init before use.
func New() *Engine {
	return &Engine{
		docs:     make(map[engine.Handle]*document),
		files:    make(map[engine.Handle]*fileInstance),
		surfaces: make(map[engine.Handle]*surface),
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return engine.NameSoftware
}

// Init marks the engine ready. It never fails.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = true
	return nil
}

// Close drops every live object.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	clear(e.docs)
	clear(e.files)
	clear(e.surfaces)
	e.initialized = false
}

// InitFile has nothing to bind.
func (e *Engine) InitFile() error {
	return e.ready()
}

// InitSurface has nothing to bind.
func (e *Engine) InitSurface() error {
	return e.ready()
}

// MaxSupportedTagLevel returns the highest tag code the reader knows.
func (e *Engine) MaxSupportedTagLevel() int {
	return int(pagfmt.MaxTagCode)
}

// Stats returns the number of live documents, files and surfaces.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Documents: len(e.docs),
		Files:     len(e.files),
		Surfaces:  len(e.surfaces),
	}
}

func (e *Engine) ready() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return engine.ErrNotInitialized
	}
	return nil
}

// newHandle returns the next handle. Caller holds e.mu.
func (e *Engine) newHandle() engine.Handle {
	e.next++
	return e.next
}
