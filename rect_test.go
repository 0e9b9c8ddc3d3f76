package pag

import (
	"math"
	"testing"
)

func TestRectEqualAndHash(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"same", NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4), true},
		{"inverted", NewRect(10, 20, -5, -7), NewRect(10, 20, -5, -7), true},
		{"degenerate", NewRect(3, 3, 3, 3), NewRect(3, 3, 3, 3), true},
		{"zero value", Rect{}, NewRect(0, 0, 0, 0), true},
		{"nan", NewRect(nan, 0, 1, 1), NewRect(nan, 0, 1, 1), true},
		{"signed zero", NewRect(0, 0, 1, 1), NewRect(float32(math.Copysign(0, -1)), 0, 1, 1), false},
		{"x2 differs", NewRect(1, 2, 3, 4), NewRect(1, 2, 3.5, 4), false},
		{"swapped", NewRect(1, 2, 3, 4), NewRect(3, 4, 1, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal not symmetric")
			}
			if tt.want && tt.a.Hash() != tt.b.Hash() {
				t.Errorf("equal rects hash differently: %d, %d", tt.a.Hash(), tt.b.Hash())
			}
		})
	}
}

func TestRectSettersBreakEquality(t *testing.T) {
	setters := map[string]func(*Rect){
		"X1": func(r *Rect) { r.SetX1(r.X1() + 1) },
		"Y1": func(r *Rect) { r.SetY1(r.Y1() + 1) },
		"X2": func(r *Rect) { r.SetX2(r.X2() + 1) },
		"Y2": func(r *Rect) { r.SetY2(r.Y2() + 1) },
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			orig := NewRect(5, 6, 1, 2)
			r := orig
			set(&r)
			if r.Equal(orig) {
				t.Errorf("%v still equals %v after Set%s", r, orig, name)
			}
			if !orig.Equal(NewRect(5, 6, 1, 2)) {
				t.Error("setter changed the snapshot")
			}
		})
	}
}

func TestRectAccessors(t *testing.T) {
	r := NewRect(1, 2, 3, 4)
	if r.X1() != 1 || r.Y1() != 2 || r.X2() != 3 || r.Y2() != 4 {
		t.Errorf("accessors = %v", r)
	}
	if got := r.String(); got != "Rect(1, 2, 3, 4)" {
		t.Errorf("String() = %q", got)
	}
}

func TestRectGeometry(t *testing.T) {
	tests := []struct {
		r             Rect
		width, height float32
		empty         bool
		sorted        Rect
	}{
		{NewRect(0, 0, 10, 5), 10, 5, false, NewRect(0, 0, 10, 5)},
		{NewRect(10, 5, 0, 0), -10, -5, true, NewRect(0, 0, 10, 5)},
		{NewRect(2, 2, 2, 8), 0, 6, true, NewRect(2, 2, 2, 8)},
	}
	for _, tt := range tests {
		if got := tt.r.Width(); got != tt.width {
			t.Errorf("%v.Width() = %g, want %g", tt.r, got, tt.width)
		}
		if got := tt.r.Height(); got != tt.height {
			t.Errorf("%v.Height() = %g, want %g", tt.r, got, tt.height)
		}
		if got := tt.r.IsEmpty(); got != tt.empty {
			t.Errorf("%v.IsEmpty() = %v, want %v", tt.r, got, tt.empty)
		}
		before := tt.r
		if got := tt.r.Sort(); !got.Equal(tt.sorted) {
			t.Errorf("%v.Sort() = %v, want %v", tt.r, got, tt.sorted)
		}
		if !tt.r.Equal(before) {
			t.Errorf("Sort mutated the receiver")
		}
	}
}
