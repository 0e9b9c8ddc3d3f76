package pag

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pag/engine"
)

// bytesPerPixel is the size of one RGBA8 pixel.
const bytesPerPixel = 4

// ErrNoPixels is returned when a surface's pixels cannot be read.
var ErrNoPixels = errors.New("pag: surface pixels unavailable")

// Surface is an offscreen pixel target owned by the engine.
//
// Call Release when done. Release frees the surface's caches before the
// surface itself. A released Surface returns zero values and false.
type Surface struct {
	eng engine.Engine
	res *resource
}

// MakeOffscreen allocates an offscreen surface. It returns nil if either
// dimension is not positive or the engine cannot allocate it.
func MakeOffscreen(width, height int) *Surface {
	if width <= 0 || height <= 0 {
		Logger().Warn("pag: offscreen surface: invalid size", "width", width, "height", height)
		return nil
	}
	p := proc
	eng, err := p.surfaceEngine()
	if err != nil {
		return nil
	}
	h, err := eng.MakeOffscreen(width, height)
	if err != nil {
		Logger().Warn("pag: offscreen surface failed", "width", width, "height", height, "err", err)
		return nil
	}
	p.liveSurfaces.Add(1)
	Logger().Debug("pag: offscreen surface", "width", width, "height", height)

	s := &Surface{eng: eng}
	s.res = newResource("surface", h, func(h engine.Handle) {
		eng.SurfaceFreeCache(h)
		eng.ReleaseSurface(h)
		p.liveSurfaces.Add(-1)
	})
	track(s, s.res)
	return s
}

func (s *Surface) handle() engine.Handle {
	if s == nil {
		return engine.InvalidHandle
	}
	return s.res.get()
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	h := s.handle()
	if !h.Valid() {
		return 0
	}
	return s.eng.SurfaceWidth(h)
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	h := s.handle()
	if !h.Valid() {
		return 0
	}
	return s.eng.SurfaceHeight(h)
}

// Extent returns the surface size as a texture extent.
func (s *Surface) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(s.Width()),
		Height:             uint32(s.Height()),
		DepthOrArrayLayers: 1,
	}
}

// Format returns the pixel format CopyPixelsTo writes.
func (s *Surface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// UpdateSize must be called after the surface's size changed outside of
// this package. The pixel contents are not preserved.
func (s *Surface) UpdateSize() {
	if h := s.handle(); h.Valid() {
		s.eng.SurfaceUpdateSize(h)
	}
}

// ClearAll makes every pixel transparent. It reports whether any pixel
// changed, so an already clear surface returns false.
func (s *Surface) ClearAll() bool {
	h := s.handle()
	if !h.Valid() {
		return false
	}
	return s.eng.SurfaceClearAll(h)
}

// FreeCache frees caches held for the surface. The surface stays usable.
func (s *Surface) FreeCache() {
	if h := s.handle(); h.Valid() {
		s.eng.SurfaceFreeCache(h)
	}
}

// CopyPixelsTo copies the pixels into buf as premultiplied RGBA8 rows of
// stride bytes. It returns false if stride is shorter than a row or buf
// cannot hold every row.
func (s *Surface) CopyPixelsTo(buf []byte, stride int) bool {
	h := s.handle()
	if !h.Valid() {
		return false
	}
	width, height := s.eng.SurfaceWidth(h), s.eng.SurfaceHeight(h)
	row := width * bytesPerPixel
	if width <= 0 || height <= 0 || stride < row || !rowsFit(len(buf), stride, row, height) {
		return false
	}
	return s.eng.SurfaceReadPixels(h, buf, stride)
}

// rowsFit reports whether n bytes hold height rows of row bytes placed
// stride bytes apart. The last row needs no padding.
func rowsFit(n, stride, row, height int) bool {
	if n < row {
		return false
	}
	return height == 1 || stride <= (n-row)/(height-1)
}

// EncodePNG writes the surface contents to w as a PNG image. Engines that
// cache a readback image reuse it until FreeCache.
func (s *Surface) EncodePNG(w io.Writer) error {
	img := s.pixels()
	if img == nil {
		return ErrNoPixels
	}
	return png.Encode(w, img)
}

func (s *Surface) pixels() *image.RGBA {
	h := s.handle()
	if !h.Valid() {
		return nil
	}
	if sn, ok := s.eng.(engine.Snapshotter); ok {
		return sn.Snapshot(h)
	}
	width, height := s.eng.SurfaceWidth(h), s.eng.SurfaceHeight(h)
	if width <= 0 || height <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if !s.eng.SurfaceReadPixels(h, img.Pix, img.Stride) {
		return nil
	}
	return img
}

// Release frees the surface's caches and then the surface.
// It is safe to call more than once.
func (s *Surface) Release() {
	if s == nil {
		return
	}
	if s.res.release() {
		Logger().Debug("pag: surface released")
	}
}

// Close calls Release. It implements io.Closer.
func (s *Surface) Close() error {
	s.Release()
	return nil
}
