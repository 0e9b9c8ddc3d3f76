// Package pagfmt reads the container layer of PAG documents.
//
// It understands the file header and the tag framing well enough to walk
// composition and layer blocks and collect document metadata: the tag level a
// document requires, how many editable texts, images and video compositions
// it has, and the size and duration of its main composition. Shape, image and
// video payloads are skipped without decoding.
//
// The package also provides a Builder that writes documents in the same
// framing.
package pagfmt

import "errors"

// Magic is the three byte signature every PAG document starts with.
const Magic = "PAG"

// HeaderSize is the size of the fixed file header in bytes:
// magic (3), version (1), body length (4), compression (1).
const HeaderSize = 9

// CompressionNone marks an uncompressed body.
const CompressionNone int8 = -1

// TagCode identifies a tag in the document body.
type TagCode uint16

// Tag codes understood by the reader. Codes not listed here are skipped but
// still count towards the tag level.
const (
	TagEnd                    TagCode = 0
	TagFontTables             TagCode = 1
	TagVectorCompositionBlock TagCode = 2
	TagCompositionAttributes  TagCode = 3
	TagImageTables            TagCode = 4
	TagLayerBlock             TagCode = 5
	TagLayerAttributes        TagCode = 6
	TagSolidColor             TagCode = 7
	TagTextSource             TagCode = 8
	TagImageReference         TagCode = 11
	TagCompositionReference   TagCode = 12
	TagTransform2D            TagCode = 13
	TagFileAttributes         TagCode = 30
	TagTimeStretchMode        TagCode = 31
	TagBitmapCompositionBlock TagCode = 45
	TagBitmapSequence         TagCode = 46
	TagImageBytes             TagCode = 47
	TagImageBytes2            TagCode = 48
	TagImageBytes3            TagCode = 49
	TagVideoCompositionBlock  TagCode = 50
	TagVideoSequence          TagCode = 51

	// MaxTagCode is the highest tag code this reader knows about.
	MaxTagCode = TagVideoSequence
)

// Tag header layout: the low 6 bits hold a short length, the rest the code.
const (
	tagLengthBits = 6
	tagLengthMask = 1<<tagLengthBits - 1
	// longLength marks a header followed by an explicit uint32 length.
	longLength = tagLengthMask
	// maxTagCode is the largest code a uint16 header can carry.
	maxTagCode = 1<<(16-tagLengthBits) - 1
)

// TimeStretch mirrors the engine's time stretch modes.
type TimeStretch uint8

// Time stretch modes.
const (
	StretchNone TimeStretch = iota
	StretchScale
	StretchRepeat
	StretchRepeatInverted
)

// LayerType is the type byte at the start of a layer block.
type LayerType uint8

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

// Errors returned by the reader.
var (
	// ErrBadMagic is returned when the data does not start with the PAG signature.
	ErrBadMagic = errors.New("pagfmt: not a PAG document")

	// ErrTruncated is returned when the data ends inside a header or a tag.
	ErrTruncated = errors.New("pagfmt: unexpected end of data")

	// ErrCompressed is returned for bodies using a compression scheme the
	// reader does not handle.
	ErrCompressed = errors.New("pagfmt: compressed body not supported")

	// ErrMalformed is returned when a value cannot be decoded.
	ErrMalformed = errors.New("pagfmt: malformed tag data")

	// ErrNoComposition is returned when a document has no composition block.
	ErrNoComposition = errors.New("pagfmt: document has no composition")
)
