package pagfmt

import (
	"fmt"
	"math"
)

// maxDepth bounds block nesting so hostile input cannot exhaust the stack.
const maxDepth = 64

// Info is the metadata collected from a document.
type Info struct {
	Version uint8

	// TagLevel is the highest tag code present in the document.
	TagLevel int

	NumTexts  int
	NumImages int
	NumVideos int

	// Main composition (the last top-level composition block).
	Width     int32
	Height    int32
	Frames    uint64
	FrameRate float32

	// Duration is the main composition's duration in microseconds.
	Duration int64

	// TimeStretch is the document's stretch mode; StretchRepeat unless the
	// document carries a TimeStretchMode tag.
	TimeStretch TimeStretch

	// Layers are the direct children of the main composition, bottom first.
	Layers []Layer
}

// Layer describes one child layer of a composition.
type Layer struct {
	Type LayerType
	Name string

	// StartFrame and Frames place the layer on its composition's timeline.
	// A layer without attributes spans the whole composition.
	StartFrame uint64
	Frames     uint64

	// StartTime and Duration are StartFrame and Frames in microseconds at
	// the composition's frame rate.
	StartTime int64
	Duration  int64
}

type composition struct {
	width     int32
	height    int32
	frames    uint64
	frameRate float32
	hasAttrs  bool
	layers    []*layerState
}

type layerState struct {
	Layer
	hasAttrs bool
}

type scanner struct {
	info    Info
	current *composition
	main    *composition
	layer   *layerState
}

// Scan reads the header of data and walks its tags.
func Scan(data []byte) (*Info, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	if len(data) < HeaderSize {
		return nil, ErrTruncated
	}

	r := newReader(data[len(Magic):HeaderSize])
	version := r.uint8()
	bodyLength := r.uint32()
	compression := int8(r.uint8())
	if compression != CompressionNone {
		return nil, fmt.Errorf("%w: scheme %d", ErrCompressed, compression)
	}
	if uint64(bodyLength) > uint64(len(data)-HeaderSize) {
		return nil, ErrTruncated
	}

	s := &scanner{info: Info{Version: version, TimeStretch: StretchRepeat}}
	if err := s.tags(data[HeaderSize:HeaderSize+int(bodyLength)], 0); err != nil {
		return nil, err
	}
	if s.main == nil || !s.main.hasAttrs {
		return nil, ErrNoComposition
	}
	if s.main.frameRate <= 0 || math.IsNaN(float64(s.main.frameRate)) {
		return nil, fmt.Errorf("%w: frame rate %v", ErrMalformed, s.main.frameRate)
	}

	s.info.Width = s.main.width
	s.info.Height = s.main.height
	s.info.Frames = s.main.frames
	s.info.FrameRate = s.main.frameRate
	s.info.Duration = FramesToDuration(s.main.frames, s.main.frameRate)
	s.info.Layers = make([]Layer, 0, len(s.main.layers))
	for _, l := range s.main.layers {
		if !l.hasAttrs {
			l.Frames = s.main.frames
		}
		l.StartTime = FramesToDuration(l.StartFrame, s.main.frameRate)
		l.Duration = FramesToDuration(l.Frames, s.main.frameRate)
		s.info.Layers = append(s.info.Layers, l.Layer)
	}
	return &s.info, nil
}

// FramesToDuration converts a frame count to microseconds, rounding to the
// nearest microsecond. Results beyond the int64 range saturate at
// math.MaxInt64.
func FramesToDuration(frames uint64, frameRate float32) int64 {
	if !(frameRate > 0) {
		return 0
	}
	us := math.Round(float64(frames) * 1e6 / float64(frameRate))
	if us >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(us)
}

// tags walks a tag list until End or the end of data.
func (s *scanner) tags(data []byte, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrMalformed, maxDepth)
	}
	r := newReader(data)
	for r.remaining() > 0 {
		code, length := r.tagHeader()
		body := r.bytes(length)
		if r.err != nil {
			return r.err
		}
		if code == TagEnd {
			return nil
		}
		if int(code) > s.info.TagLevel {
			s.info.TagLevel = int(code)
		}
		if err := s.tag(code, body, depth); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) tag(code TagCode, body []byte, depth int) error {
	switch code {
	case TagVectorCompositionBlock, TagBitmapCompositionBlock, TagVideoCompositionBlock:
		if code == TagVideoCompositionBlock {
			s.info.NumVideos++
		}
		return s.composition(body, depth)
	case TagLayerBlock:
		return s.layerBlock(body, depth)
	case TagLayerAttributes:
		return s.layerAttributes(body)
	case TagCompositionAttributes:
		return s.compositionAttributes(body)
	case TagTextSource:
		s.info.NumTexts++
	case TagImageBytes, TagImageBytes2, TagImageBytes3:
		s.info.NumImages++
	case TagTimeStretchMode:
		return s.timeStretch(body)
	}
	return nil
}

func (s *scanner) composition(body []byte, depth int) error {
	r := newReader(body)
	_ = r.encodedUint32() // id
	if r.err != nil {
		return r.err
	}

	parent := s.current
	c := &composition{}
	s.current = c
	err := s.tags(body[r.pos:], depth+1)
	s.current = parent
	if err != nil {
		return err
	}
	if depth == 0 {
		s.main = c
	}
	return nil
}

func (s *scanner) layerBlock(body []byte, depth int) error {
	r := newReader(body)
	kind := LayerType(r.uint8())
	_ = r.encodedUint32() // id
	if r.err != nil {
		return r.err
	}

	parent := s.layer
	l := &layerState{Layer: Layer{Type: kind}}
	s.layer = l
	err := s.tags(body[r.pos:], depth+1)
	s.layer = parent
	if err != nil {
		return err
	}
	if parent == nil && s.current != nil {
		s.current.layers = append(s.current.layers, l)
	}
	return nil
}

func (s *scanner) layerAttributes(body []byte) error {
	r := newReader(body)
	name := r.string()
	start := r.encodedUint64(10)
	frames := r.encodedUint64(10)
	if r.err != nil {
		return r.err
	}
	if s.layer == nil {
		return nil
	}
	s.layer.Name = name
	s.layer.StartFrame = start
	s.layer.Frames = frames
	s.layer.hasAttrs = true
	return nil
}

func (s *scanner) compositionAttributes(body []byte) error {
	r := newReader(body)
	width := r.encodedInt32()
	height := r.encodedInt32()
	frames := r.encodedUint64(10)
	frameRate := r.float32()
	_ = r.bytes(3) // background color
	if r.err != nil {
		return r.err
	}
	if s.current == nil {
		// Attributes outside a composition block describe nothing.
		return nil
	}
	s.current.width = width
	s.current.height = height
	s.current.frames = frames
	s.current.frameRate = frameRate
	s.current.hasAttrs = true
	return nil
}

func (s *scanner) timeStretch(body []byte) error {
	r := newReader(body)
	mode := r.uint8()
	_ = r.encodedUint64(10) // scaled start
	_ = r.encodedUint64(10) // scaled duration
	if r.err != nil {
		return r.err
	}
	if TimeStretch(mode) > StretchRepeatInverted {
		return fmt.Errorf("%w: time stretch mode %d", ErrMalformed, mode)
	}
	s.info.TimeStretch = TimeStretch(mode)
	return nil
}
