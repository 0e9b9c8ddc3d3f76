package software

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/gogpu/pag/engine"
)

const bytesPerPixel = 4

// surface is an offscreen RGBA8 target.
type surface struct {
	pm *gg.Pixmap

	// Size the next UpdateSize allocates.
	width  int
	height int

	// snapshot is reused across Snapshot calls until FreeCache.
	snapshot *image.RGBA
}

func validSize(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxSurfaceSize && height <= MaxSurfaceSize
}

// MakeOffscreen allocates a transparent surface.
func (e *Engine) MakeOffscreen(width, height int) (engine.Handle, error) {
	if !validSize(width, height) {
		return engine.InvalidHandle, fmt.Errorf("%w: %dx%d", engine.ErrInvalidSize, width, height)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return engine.InvalidHandle, engine.ErrNotInitialized
	}

	h := e.newHandle()
	e.surfaces[h] = &surface{
		pm:     gg.NewPixmap(width, height),
		width:  width,
		height: height,
	}
	engine.Logger().Debug("software: offscreen surface", "handle", h, "width", width, "height", height)
	return h, nil
}

// ReleaseSurface frees a surface.
func (e *Engine) ReleaseSurface(s engine.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.surfaces, s)
}

func (e *Engine) withSurface(h engine.Handle, fn func(s *surface)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.surfaces[h]; ok {
		fn(s)
	}
}

func (e *Engine) SurfaceWidth(h engine.Handle) (n int) {
	e.withSurface(h, func(s *surface) { n = s.pm.Width() })
	return n
}

func (e *Engine) SurfaceHeight(h engine.Handle) (n int) {
	e.withSurface(h, func(s *surface) { n = s.pm.Height() })
	return n
}

// SetSize changes the surface's target size the way a resized window would.
// Width and Height keep reporting the old buffer until SurfaceUpdateSize.
// It reports false for unknown handles or invalid sizes.
func (e *Engine) SetSize(h engine.Handle, width, height int) (ok bool) {
	if !validSize(width, height) {
		return false
	}
	e.withSurface(h, func(s *surface) {
		s.width, s.height = width, height
		ok = true
	})
	return ok
}

// SurfaceUpdateSize reallocates the buffer at the current target size.
func (e *Engine) SurfaceUpdateSize(h engine.Handle) {
	e.withSurface(h, func(s *surface) {
		s.pm = gg.NewPixmap(s.width, s.height)
		s.snapshot = nil
	})
}

// SurfaceClearAll zeroes the buffer, reporting whether anything changed.
func (e *Engine) SurfaceClearAll(h engine.Handle) (changed bool) {
	e.withSurface(h, func(s *surface) {
		for _, b := range s.pm.Data() {
			if b != 0 {
				changed = true
				break
			}
		}
		if changed {
			s.pm.Clear(gg.Transparent)
		}
	})
	return changed
}

// SurfaceFreeCache drops the snapshot image.
func (e *Engine) SurfaceFreeCache(h engine.Handle) {
	e.withSurface(h, func(s *surface) { s.snapshot = nil })
}

// SurfaceReadPixels copies rows into dst. stride must cover a full row and
// dst must hold every row.
func (e *Engine) SurfaceReadPixels(h engine.Handle, dst []byte, stride int) (ok bool) {
	e.withSurface(h, func(s *surface) {
		w, ht := s.pm.Width(), s.pm.Height()
		rowBytes := w * bytesPerPixel
		if stride < rowBytes || !rowsFit(len(dst), stride, rowBytes, ht) {
			return
		}
		src := s.pm.Data()
		for y := 0; y < ht; y++ {
			copy(dst[y*stride:y*stride+rowBytes], src[y*rowBytes:(y+1)*rowBytes])
		}
		ok = true
	})
	return ok
}

// rowsFit reports whether n bytes hold height rows of row bytes placed
// stride bytes apart, without overflowing stride*(height-1).
func rowsFit(n, stride, row, height int) bool {
	if n < row {
		return false
	}
	return height <= 1 || stride <= (n-row)/(height-1)
}

// Pixmap returns the surface's pixel buffer for direct drawing, or nil.
// The pixmap is replaced by SurfaceUpdateSize.
func (e *Engine) Pixmap(h engine.Handle) (pm *gg.Pixmap) {
	e.withSurface(h, func(s *surface) { pm = s.pm })
	return pm
}

// Snapshot returns the surface contents as an image. The image is cached
// and reused by later calls until SurfaceFreeCache or SurfaceUpdateSize.
func (e *Engine) Snapshot(h engine.Handle) (img *image.RGBA) {
	e.withSurface(h, func(s *surface) {
		w, ht := s.pm.Width(), s.pm.Height()
		if s.snapshot == nil || s.snapshot.Rect.Dx() != w || s.snapshot.Rect.Dy() != ht {
			s.snapshot = image.NewRGBA(image.Rect(0, 0, w, ht))
		}
		copy(s.snapshot.Pix, s.pm.Data())
		img = s.snapshot
	})
	return img
}

// HasCache reports whether the surface holds a cached snapshot.
func (e *Engine) HasCache(h engine.Handle) (cached bool) {
	e.withSurface(h, func(s *surface) { cached = s.snapshot != nil })
	return cached
}
