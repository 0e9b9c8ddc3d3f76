package pagfmt

import (
	"bytes"
	"encoding/binary"
	"math"
)

// reader decodes primitives from a byte slice. The first error sticks and
// every later read returns zero values.
type reader struct {
	data []byte
	pos  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > r.remaining() {
		r.fail(ErrTruncated)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) uint8() uint8 {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) uint16() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) uint32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) float32() float32 {
	return math.Float32frombits(r.uint32())
}

// string reads a NUL terminated UTF-8 string.
func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.data[r.pos:], 0)
	if i < 0 {
		r.fail(ErrTruncated)
		return ""
	}
	str := string(r.data[r.pos : r.pos+i])
	r.pos += i + 1
	return str
}

// encodedUint64 reads a little-endian base-128 varint of at most maxBytes.
func (r *reader) encodedUint64(maxBytes int) uint64 {
	var v uint64
	for i := 0; i < maxBytes; i++ {
		b := r.uint8()
		if r.err != nil {
			return 0
		}
		v |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return v
		}
	}
	r.fail(ErrMalformed)
	return 0
}

func (r *reader) encodedUint32() uint32 {
	return uint32(r.encodedUint64(5))
}

// encodedInt32 reads a varint whose lowest bit carries the sign.
func (r *reader) encodedInt32() int32 {
	v := r.encodedUint32()
	n := int32(v >> 1)
	if v&1 != 0 {
		return -n
	}
	return n
}

// tagHeader reads the code and body length of the next tag.
func (r *reader) tagHeader() (TagCode, int) {
	v := r.uint16()
	code := TagCode(v >> tagLengthBits)
	length := int(v & tagLengthMask)
	if length == longLength {
		n := r.uint32()
		if uint64(n) > uint64(r.remaining()) {
			r.fail(ErrTruncated)
			return 0, 0
		}
		length = int(n)
	}
	return code, length
}
