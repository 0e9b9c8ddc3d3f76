package pag

import (
	"os"

	"github.com/gogpu/pag/engine"
)

// TimeStretchMode controls how an animation fills a duration that differs
// from its own.
type TimeStretchMode int32

// Time stretch modes.
const (
	// TimeStretchNone keeps the original timing and stops at the end.
	TimeStretchNone TimeStretchMode = iota
	// TimeStretchScale scales the timeline to fit the duration.
	TimeStretchScale
	// TimeStretchRepeat loops the stretchable range. This is the default.
	TimeStretchRepeat
	// TimeStretchRepeatInverted loops the stretchable range back and forth.
	TimeStretchRepeatInverted
)

// String returns the mode name.
func (m TimeStretchMode) String() string {
	switch m {
	case TimeStretchNone:
		return "none"
	case TimeStretchScale:
		return "scale"
	case TimeStretchRepeat:
		return "repeat"
	case TimeStretchRepeatInverted:
		return "repeat-inverted"
	default:
		return "unknown"
	}
}

// File is a loaded animation document.
//
// Files loaded from the same path share one parsed document for as long as
// any of them is alive. Each File owns its own time stretch mode and
// duration; changing them never affects another File.
//
// Call Release when done. A File that becomes unreachable without Release
// is eventually released by the runtime, but that is not timely.
// A released File returns zero values and ignores mutations.
type File struct {
	p   *process
	eng engine.Engine
	res *resource
	ref docRef
}

// docRef is one counted reference to a parsed document.
type docRef struct {
	path   string // cache key; empty for documents loaded from bytes
	doc    engine.Handle
	cached bool
}

func (d docRef) retain(p *process) bool {
	if d.cached {
		return p.paths.Retain(d.path)
	}
	return p.docs.Retain(d.doc)
}

func (d docRef) release(p *process) {
	if d.cached {
		p.paths.Release(d.path)
		return
	}
	p.docs.Release(d.doc)
}

// MaxSupportedTagLevel returns the highest document tag level the engine
// can read, or 0 when no engine is available.
func MaxSupportedTagLevel() int {
	eng, err := proc.fileEngine()
	if err != nil {
		return 0
	}
	return eng.MaxSupportedTagLevel()
}

// Load loads the document at path. It returns nil if path is empty, the
// file cannot be read or its contents are not a document.
func Load(path string) *File {
	if path == "" {
		Logger().Warn("pag: load: empty path")
		return nil
	}
	p := proc
	eng, err := p.fileEngine()
	if err != nil {
		return nil
	}

	doc, err := p.paths.Acquire(path, func() (engine.Handle, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return engine.InvalidHandle, err
		}
		doc, err := eng.LoadDocument(data, path)
		if err == nil {
			Logger().Debug("pag: document parsed", "path", path, "bytes", len(data))
		}
		return doc, err
	})
	if err != nil {
		Logger().Warn("pag: load failed", "path", path, "err", err)
		return nil
	}
	return newFile(p, eng, docRef{path: path, doc: doc, cached: true})
}

// LoadBytes loads a document from memory. Every call parses its own copy;
// nothing is shared with other files.
func LoadBytes(data []byte) *File {
	return LoadBytesWithPath(data, "")
}

// LoadBytesWithPath is like LoadBytes but records path as the document's
// source, as reported by Path. The path is not read.
func LoadBytesWithPath(data []byte, path string) *File {
	if len(data) == 0 {
		Logger().Warn("pag: load: empty data", "path", path)
		return nil
	}
	p := proc
	eng, err := p.fileEngine()
	if err != nil {
		return nil
	}

	doc, err := eng.LoadDocument(data, path)
	if err != nil {
		Logger().Warn("pag: load failed", "path", path, "bytes", len(data), "err", err)
		return nil
	}
	if _, err := p.docs.Acquire(doc, func() (engine.Handle, error) { return doc, nil }); err != nil {
		eng.ReleaseDocument(doc)
		return nil
	}
	return newFile(p, eng, docRef{path: path, doc: doc})
}

// newFile makes a file instance of ref's document. It takes over ref and
// gives it back if the instance cannot be made.
func newFile(p *process, eng engine.Engine, ref docRef) *File {
	h, err := eng.MakeFile(ref.doc)
	if err != nil {
		ref.release(p)
		Logger().Warn("pag: file instance failed", "path", ref.path, "err", err)
		return nil
	}
	p.liveFiles.Add(1)

	f := &File{p: p, eng: eng, ref: ref}
	f.res = newResource("file", h, func(h engine.Handle) {
		eng.ReleaseFile(h)
		ref.release(p)
		p.liveFiles.Add(-1)
	})
	track(f, f.res)
	return f
}

func (f *File) handle() engine.Handle {
	if f == nil {
		return engine.InvalidHandle
	}
	return f.res.get()
}

// TagLevel returns the highest tag level used by the document.
func (f *File) TagLevel() int {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileTagLevel(h)
}

// NumTexts returns the number of replaceable text layers.
func (f *File) NumTexts() int {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileNumTexts(h)
}

// NumImages returns the number of replaceable images.
func (f *File) NumImages() int {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileNumImages(h)
}

// NumVideos returns the number of video compositions.
func (f *File) NumVideos() int {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileNumVideos(h)
}

// Width returns the width of the main composition.
func (f *File) Width() int {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileWidth(h)
}

// Height returns the height of the main composition.
func (f *File) Height() int {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileHeight(h)
}

// Path returns the path the document was loaded from, or "" for documents
// loaded from bytes without a path.
func (f *File) Path() string {
	h := f.handle()
	if !h.Valid() {
		return ""
	}
	return f.eng.FilePath(h)
}

// TimeStretchMode returns the time stretch mode.
func (f *File) TimeStretchMode() TimeStretchMode {
	h := f.handle()
	if !h.Valid() {
		return TimeStretchNone
	}
	return TimeStretchMode(f.eng.FileTimeStretchMode(h))
}

// SetTimeStretchMode sets the time stretch mode.
func (f *File) SetTimeStretchMode(mode TimeStretchMode) {
	if h := f.handle(); h.Valid() {
		f.eng.FileSetTimeStretchMode(h, int32(mode))
	}
}

// Duration returns the duration in microseconds.
func (f *File) Duration() int64 {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileDuration(h)
}

// SetDuration sets the duration in microseconds. A duration <= 0 restores
// the document's own duration.
func (f *File) SetDuration(duration int64) {
	if h := f.handle(); h.Valid() {
		f.eng.FileSetDuration(h, duration)
	}
}

// CopyOriginal returns a new File of the same document with its original
// time stretch mode and duration. It returns nil for a released File.
func (f *File) CopyOriginal() *File {
	if !f.handle().Valid() {
		return nil
	}
	if !f.ref.retain(f.p) {
		return nil
	}
	return newFile(f.p, f.eng, f.ref)
}

// Release frees the file instance and its reference to the document.
// It is safe to call more than once.
func (f *File) Release() {
	if f == nil {
		return
	}
	if f.res.release() {
		Logger().Debug("pag: file released", "path", f.ref.path)
	}
}

// Close calls Release. It implements io.Closer.
func (f *File) Close() error {
	f.Release()
	return nil
}
