package pag

import (
	"fmt"
	"math"
)

// Rect holds four independent coordinates. No ordering is enforced: x2 may
// be less than x1 and the rectangle may be empty.
//
// Rect is a plain value and carries no engine resource.
type Rect struct {
	x1, y1, x2, y2 float32
}

// NewRect returns a Rect with the given coordinates.
func NewRect(x1, y1, x2, y2 float32) Rect {
	return Rect{x1: x1, y1: y1, x2: x2, y2: y2}
}

// X1 returns the first x coordinate.
func (r Rect) X1() float32 { return r.x1 }

// Y1 returns the first y coordinate.
func (r Rect) Y1() float32 { return r.y1 }

// X2 returns the second x coordinate.
func (r Rect) X2() float32 { return r.x2 }

// Y2 returns the second y coordinate.
func (r Rect) Y2() float32 { return r.y2 }

// SetX1 sets the first x coordinate.
func (r *Rect) SetX1(v float32) { r.x1 = v }

// SetY1 sets the first y coordinate.
func (r *Rect) SetY1(v float32) { r.y1 = v }

// SetX2 sets the second x coordinate.
func (r *Rect) SetX2(v float32) { r.x2 = v }

// SetY2 sets the second y coordinate.
func (r *Rect) SetY2(v float32) { r.y2 = v }

// Width returns x2 - x1, negative for an inverted rect.
func (r Rect) Width() float32 { return r.x2 - r.x1 }

// Height returns y2 - y1, negative for an inverted rect.
func (r Rect) Height() float32 { return r.y2 - r.y1 }

// IsEmpty reports whether the rect encloses no area.
func (r Rect) IsEmpty() bool { return !(r.x1 < r.x2 && r.y1 < r.y2) }

// Sort returns a copy with x1 <= x2 and y1 <= y2.
func (r Rect) Sort() Rect {
	if r.x1 > r.x2 {
		r.x1, r.x2 = r.x2, r.x1
	}
	if r.y1 > r.y2 {
		r.y1, r.y2 = r.y2, r.y1
	}
	return r
}

// Equal reports whether all four coordinates are identical. NaN equals NaN
// and 0 differs from -0, so Equal agrees with Hash.
func (r Rect) Equal(o Rect) bool {
	return floatBits(r.x1) == floatBits(o.x1) &&
		floatBits(r.y1) == floatBits(o.y1) &&
		floatBits(r.x2) == floatBits(o.x2) &&
		floatBits(r.y2) == floatBits(o.y2)
}

// Hash returns a hash of all four coordinates. Equal rects hash equal.
func (r Rect) Hash() uint32 {
	h := floatBits(r.x1)
	h = 31*h + floatBits(r.y1)
	h = 31*h + floatBits(r.x2)
	h = 31*h + floatBits(r.y2)
	return h
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g, %g, %g, %g)", r.x1, r.y1, r.x2, r.y2)
}

// canonicalNaN is the bit pattern every NaN is folded to.
const canonicalNaN = 0x7fc00000

func floatBits(f float32) uint32 {
	if f != f {
		return canonicalNaN
	}
	return math.Float32bits(f)
}
