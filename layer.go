package pag

// LayerType identifies what a layer draws.
type LayerType int32

// Layer types.
const (
	LayerUnknown LayerType = iota
	LayerNull
	LayerSolid
	LayerText
	LayerShape
	LayerImage
	LayerPreCompose
	LayerCamera
)

// String returns the layer type name.
func (t LayerType) String() string {
	switch t {
	case LayerNull:
		return "null"
	case LayerSolid:
		return "solid"
	case LayerText:
		return "text"
	case LayerShape:
		return "shape"
	case LayerImage:
		return "image"
	case LayerPreCompose:
		return "precompose"
	case LayerCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Layer describes a child layer of a file's main composition. It is a
// snapshot; it does not track later changes to the File.
type Layer struct {
	Type LayerType
	Name string

	// StartTime and Duration are in microseconds on the composition's
	// timeline.
	StartTime int64
	Duration  int64
}

// FrameRate returns the main composition's frame rate in frames per second.
func (f *File) FrameRate() float32 {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileFrameRate(h)
}

// NumChildren returns the number of direct child layers of the main
// composition.
func (f *File) NumChildren() int {
	h := f.handle()
	if !h.Valid() {
		return 0
	}
	return f.eng.FileNumChildren(h)
}

// LayerAt describes the child layer at index, bottom first. It reports false
// if index is out of range or f is released.
func (f *File) LayerAt(index int) (Layer, bool) {
	h := f.handle()
	if !h.Valid() {
		return Layer{}, false
	}
	l, ok := f.eng.FileLayerAt(h, index)
	if !ok {
		return Layer{}, false
	}
	return Layer{
		Type:      LayerType(l.Type),
		Name:      l.Name,
		StartTime: l.StartTime,
		Duration:  l.Duration,
	}, true
}

// Layers returns every child layer of the main composition, bottom first.
func (f *File) Layers() []Layer {
	n := f.NumChildren()
	layers := make([]Layer, 0, n)
	for i := 0; i < n; i++ {
		if l, ok := f.LayerAt(i); ok {
			layers = append(layers, l)
		}
	}
	return layers
}
