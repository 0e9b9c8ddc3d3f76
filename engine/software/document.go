package software

import (
	"fmt"

	"github.com/gogpu/pag/engine"
	"github.com/gogpu/pag/internal/pagfmt"
)

type document struct {
	info *pagfmt.Info
	path string
}

// fileInstance is a mutable view of a document.
type fileInstance struct {
	doc *document

	stretch int32
	// duration overrides the document duration when positive.
	duration int64
}

// LoadDocument scans data and keeps the result under a new handle.
func (e *Engine) LoadDocument(data []byte, path string) (engine.Handle, error) {
	info, err := pagfmt.Scan(data)
	if err != nil {
		return engine.InvalidHandle, fmt.Errorf("%w: %w", engine.ErrInvalidDocument, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return engine.InvalidHandle, engine.ErrNotInitialized
	}

	h := e.newHandle()
	e.docs[h] = &document{info: info, path: path}
	engine.Logger().Debug("software: document loaded",
		"handle", h, "path", path, "tagLevel", info.TagLevel)
	return h, nil
}

// ReleaseDocument forgets a document. Files already made from it keep
// working until they are released.
func (e *Engine) ReleaseDocument(doc engine.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.docs, doc)
}

// MakeFile creates a file instance with the document's original values.
func (e *Engine) MakeFile(doc engine.Handle) (engine.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.docs[doc]
	if !ok {
		return engine.InvalidHandle, engine.ErrInvalidHandle
	}
	h := e.newHandle()
	e.files[h] = &fileInstance{doc: d, stretch: int32(d.info.TimeStretch)}
	return h, nil
}

// ReleaseFile frees a file instance.
func (e *Engine) ReleaseFile(file engine.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.files, file)
}

// withFile runs fn on the instance for file, if any, under the lock.
func (e *Engine) withFile(file engine.Handle, fn func(f *fileInstance)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.files[file]; ok {
		fn(f)
	}
}

func (e *Engine) FileTagLevel(file engine.Handle) (n int) {
	e.withFile(file, func(f *fileInstance) { n = f.doc.info.TagLevel })
	return n
}

func (e *Engine) FileNumTexts(file engine.Handle) (n int) {
	e.withFile(file, func(f *fileInstance) { n = f.doc.info.NumTexts })
	return n
}

func (e *Engine) FileNumImages(file engine.Handle) (n int) {
	e.withFile(file, func(f *fileInstance) { n = f.doc.info.NumImages })
	return n
}

func (e *Engine) FileNumVideos(file engine.Handle) (n int) {
	e.withFile(file, func(f *fileInstance) { n = f.doc.info.NumVideos })
	return n
}

func (e *Engine) FileWidth(file engine.Handle) (n int) {
	e.withFile(file, func(f *fileInstance) { n = int(f.doc.info.Width) })
	return n
}

func (e *Engine) FileHeight(file engine.Handle) (n int) {
	e.withFile(file, func(f *fileInstance) { n = int(f.doc.info.Height) })
	return n
}

func (e *Engine) FilePath(file engine.Handle) (path string) {
	e.withFile(file, func(f *fileInstance) { path = f.doc.path })
	return path
}

func (e *Engine) FileTimeStretchMode(file engine.Handle) (mode int32) {
	e.withFile(file, func(f *fileInstance) { mode = f.stretch })
	return mode
}

// FileSetTimeStretchMode ignores modes outside the known range.
func (e *Engine) FileSetTimeStretchMode(file engine.Handle, mode int32) {
	if mode < int32(pagfmt.StretchNone) || mode > int32(pagfmt.StretchRepeatInverted) {
		engine.Logger().Debug("software: ignoring time stretch mode", "handle", file, "mode", mode)
		return
	}
	e.withFile(file, func(f *fileInstance) { f.stretch = mode })
}

func (e *Engine) FileDuration(file engine.Handle) (d int64) {
	e.withFile(file, func(f *fileInstance) {
		if f.duration > 0 {
			d = f.duration
			return
		}
		d = f.doc.info.Duration
	})
	return d
}

// FileSetDuration stores a positive duration; anything else restores the
// document's duration.
func (e *Engine) FileSetDuration(file engine.Handle, duration int64) {
	e.withFile(file, func(f *fileInstance) {
		if duration <= 0 {
			f.duration = 0
			return
		}
		f.duration = duration
	})
}

func (e *Engine) FileFrameRate(file engine.Handle) (rate float32) {
	e.withFile(file, func(f *fileInstance) { rate = f.doc.info.FrameRate })
	return rate
}

func (e *Engine) FileNumChildren(file engine.Handle) (n int) {
	e.withFile(file, func(f *fileInstance) { n = len(f.doc.info.Layers) })
	return n
}

// FileLayerAt reads the layer from the scanned document. Instances made from
// the same document report the same layers.
func (e *Engine) FileLayerAt(file engine.Handle, index int) (l engine.Layer, ok bool) {
	e.withFile(file, func(f *fileInstance) {
		layers := f.doc.info.Layers
		if index < 0 || index >= len(layers) {
			return
		}
		pl := layers[index]
		l = engine.Layer{
			Type:      int32(pl.Type),
			Name:      pl.Name,
			StartTime: pl.StartTime,
			Duration:  pl.Duration,
		}
		ok = true
	})
	return l, ok
}
