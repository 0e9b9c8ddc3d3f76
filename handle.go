package pag

import (
	"runtime"
	"sync/atomic"

	"github.com/gogpu/pag/engine"
)

// resource owns one engine handle. It is allocated apart from the façade
// so a cleanup attached to the façade can reach it.
type resource struct {
	h    atomic.Uintptr
	kind string
	free func(engine.Handle)
}

func newResource(kind string, h engine.Handle, free func(engine.Handle)) *resource {
	r := &resource{kind: kind, free: free}
	r.h.Store(uintptr(h))
	return r
}

// get returns the handle, or InvalidHandle after release.
func (r *resource) get() engine.Handle {
	return engine.Handle(r.h.Load())
}

// release zeroes the handle and frees it. Only the first call frees; it
// reports whether this call did.
func (r *resource) release() bool {
	h := engine.Handle(r.h.Swap(0))
	if !h.Valid() {
		return false
	}
	r.free(h)
	return true
}

// track releases r when owner becomes unreachable without having been
// released. It only bounds leaks.
func track[T any](owner *T, r *resource) {
	runtime.AddCleanup(owner, func(r *resource) {
		if r.release() {
			Logger().Warn("pag: released by cleanup; call Release", "kind", r.kind)
		}
	}, r)
}
