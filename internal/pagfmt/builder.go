package pagfmt

import (
	"encoding/binary"
	"math"
)

// Composition describes a composition block for the Builder.
type Composition struct {
	// Kind is one of TagVectorCompositionBlock, TagBitmapCompositionBlock or
	// TagVideoCompositionBlock. Zero means vector.
	Kind TagCode

	ID        uint32
	Width     int32
	Height    int32
	Frames    uint64
	FrameRate float32

	// TextLayers is the number of text layers, each carrying a TextSource.
	TextLayers int

	// SolidLayers is the number of plain solid layers.
	SolidLayers int

	// Layers are written before the solid and text layers, each with a
	// LayerAttributes tag. Text layers also get a TextSource.
	Layers []Layer
}

// Builder assembles an uncompressed document.
// The zero value is not usable; call NewBuilder.
type Builder struct {
	version uint8
	body    []byte
	nextID  uint32
}

// NewBuilder returns a Builder for a version 1 document.
func NewBuilder() *Builder {
	return &Builder{version: 1, nextID: 1}
}

// Version sets the header version byte.
func (b *Builder) Version(v uint8) *Builder {
	b.version = v
	return b
}

// Composition appends a composition block. The last composition appended is
// the document's main composition.
func (b *Builder) Composition(c Composition) *Builder {
	kind := c.Kind
	if kind == 0 {
		kind = TagVectorCompositionBlock
	}
	if c.ID == 0 {
		c.ID = b.id()
	}

	var body []byte
	body = appendEncodedUint64(body, uint64(c.ID))

	var attrs []byte
	attrs = appendEncodedInt32(attrs, c.Width)
	attrs = appendEncodedInt32(attrs, c.Height)
	attrs = appendEncodedUint64(attrs, c.Frames)
	attrs = binary.LittleEndian.AppendUint32(attrs, math.Float32bits(c.FrameRate))
	attrs = append(attrs, 0, 0, 0)
	body = AppendTag(body, TagCompositionAttributes, attrs)

	for _, l := range c.Layers {
		var attrs []byte
		attrs = append(attrs, l.Name...)
		attrs = append(attrs, 0)
		attrs = appendEncodedUint64(attrs, l.StartFrame)
		attrs = appendEncodedUint64(attrs, l.Frames)

		lb := []byte{byte(l.Type)}
		lb = appendEncodedUint64(lb, uint64(b.id()))
		lb = AppendTag(lb, TagLayerAttributes, attrs)
		if l.Type == LayerText {
			lb = AppendTag(lb, TagTextSource, []byte("text"))
		}
		lb = AppendTag(lb, TagEnd, nil)
		body = AppendTag(body, TagLayerBlock, lb)
	}
	for i := 0; i < c.SolidLayers; i++ {
		var solid []byte
		solid = append(solid, 0xff, 0xff, 0xff)
		body = AppendTag(body, TagLayerBlock, b.layer(LayerSolid, TagSolidColor, solid))
	}
	for i := 0; i < c.TextLayers; i++ {
		body = AppendTag(body, TagLayerBlock, b.layer(LayerText, TagTextSource, []byte("text")))
	}
	body = AppendTag(body, TagEnd, nil)

	b.body = AppendTag(b.body, kind, body)
	return b
}

// Images appends n image byte tags with a small placeholder payload.
func (b *Builder) Images(n int) *Builder {
	for i := 0; i < n; i++ {
		var body []byte
		body = appendEncodedUint64(body, uint64(b.id()))
		body = append(body, 0x89, 'P', 'N', 'G')
		b.body = AppendTag(b.body, TagImageBytes, body)
	}
	return b
}

// TimeStretch appends a TimeStretchMode tag.
func (b *Builder) TimeStretch(mode TimeStretch, start, duration uint64) *Builder {
	body := []byte{byte(mode)}
	body = appendEncodedUint64(body, start)
	body = appendEncodedUint64(body, duration)
	b.body = AppendTag(b.body, TagTimeStretchMode, body)
	return b
}

// Tag appends a raw top-level tag.
func (b *Builder) Tag(code TagCode, body []byte) *Builder {
	b.body = AppendTag(b.body, code, body)
	return b
}

// Bytes returns the encoded document, terminated by an End tag.
func (b *Builder) Bytes() []byte {
	body := AppendTag(append([]byte(nil), b.body...), TagEnd, nil)

	out := make([]byte, 0, HeaderSize+len(body))
	out = append(out, Magic...)
	out = append(out, b.version)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	compression := CompressionNone
	out = append(out, byte(compression))
	return append(out, body...)
}

func (b *Builder) id() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Builder) layer(layerType LayerType, code TagCode, payload []byte) []byte {
	body := []byte{byte(layerType)}
	body = appendEncodedUint64(body, uint64(b.id()))
	body = AppendTag(body, code, payload)
	return AppendTag(body, TagEnd, nil)
}

// AppendTag appends a tag header and body to dst.
// It panics if code does not fit in a tag header.
func AppendTag(dst []byte, code TagCode, body []byte) []byte {
	if code > maxTagCode {
		panic("pagfmt: tag code out of range")
	}
	if len(body) < longLength {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(code)<<tagLengthBits|uint16(len(body)))
	} else {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(code)<<tagLengthBits|longLength)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(body)))
	}
	return append(dst, body...)
}

func appendEncodedUint64(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

func appendEncodedInt32(dst []byte, v int32) []byte {
	if v < 0 {
		return appendEncodedUint64(dst, uint64(uint32(-v))<<1|1)
	}
	return appendEncodedUint64(dst, uint64(uint32(v))<<1)
}
