package roi

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEllipseArea(t *testing.T) {
	approxEqual := func(x, y float64) bool {
		return math.Abs(x-y) < 1e-7
	}

	center := Pt(5.0, 5.0)
	e := NewEllipse(center, Vec(5.0, 5.0), 1.0)
	if a := e.Area(); !approxEqual(a, 25.0*math.Pi) {
		t.Errorf("got area %v, expected %v", a, 25.0*math.Pi)
	}
	e = NewEllipse(center, Vec(5.0, 10.0), 1.0)
	if a := e.Area(); !approxEqual(a, 50.0*math.Pi) {
		t.Errorf("got area %v, expected %v", a, 50.0*math.Pi)
	}

	eNegRadius := NewEllipse(center, Vec(-5.0, 10.0), 1.0)
	if a := eNegRadius.Area(); !approxEqual(a, 50.0*math.Pi) {
		t.Errorf("got area %v, expected %v", a, 50.0*math.Pi)
	}

	// The sampled boundary converges on the true area from below.
	if a := PolygonArea(e.Sample(256)); a > e.Area() || a < 0.999*e.Area() {
		t.Errorf("got sampled area %v, expected just under %v", a, e.Area())
	}
}

func TestEllipseContains(t *testing.T) {
	e := NewEllipseFromRect(Rect{0, 0, 20, 10})
	tests := []struct {
		pt   Point
		want bool
	}{
		{Pt(10, 5), true},
		{Pt(0.01, 5), true},
		{Pt(19.99, 5), true},
		{Pt(10, 0.01), true},
		{Pt(1, 1), false},
		{Pt(19, 9), false},
		{Pt(-0.001, 5), false},
	}
	for _, tt := range tests {
		if got := e.Contains(tt.pt); got != tt.want {
			t.Errorf("Contains(%v) = %t, want %t", tt.pt, got, tt.want)
		}
	}

	flat := NewEllipseFromRect(Rect{0, 0, 20, 0})
	if flat.Contains(Pt(10, 0)) {
		t.Error("ellipse without height contains its center")
	}
}

func TestEllipseBoundingBox(t *testing.T) {
	opt := cmpopts.EquateApprox(0, 1e-9)

	e := NewEllipseFromRect(Rect{2, 3, 12, 7})
	diff(t, Rect{2, 3, 12, 7}, e.BoundingBox(), opt)

	// A circle's bounding box does not change under rotation.
	c := NewEllipse(Pt(0, 0), Vec(2, 2), 0.8)
	diff(t, Rect{-2, -2, 2, 2}, c.BoundingBox(), opt)

	r := NewEllipse(Pt(1, 1), Vec(3, 1), math.Pi/2)
	diff(t, Rect{0, -2, 2, 4}, r.BoundingBox(), opt)

	bb := r.BoundingBox()
	for _, pt := range r.Sample(64) {
		if pt.X < bb.X0-1e-9 || pt.X > bb.X1+1e-9 || pt.Y < bb.Y0-1e-9 || pt.Y > bb.Y1+1e-9 {
			t.Fatalf("sample %v outside bounding box %v", pt, bb)
		}
	}
}

func TestEllipseRadii(t *testing.T) {
	e := NewEllipse(Pt(4, 5), Vec(3, 1), 0.3)
	diff(t, Vec(3, 1), e.Radii(), cmpopts.EquateApprox(0, 1e-9))
	if r := e.Rotation(); math.Abs(r-0.3) > 1e-9 {
		t.Errorf("got rotation %v, want 0.3", r)
	}
	diff(t, Pt(4, 5), e.Center())
}
