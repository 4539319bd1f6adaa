package roi

import (
	"math"
)

// Ellipse is an ellipse stored as the affine image of the unit circle.
type Ellipse struct {
	inner Affine
}

// NewEllipse creates an ellipse with the given center, radii and rotation.
//
// The returned ellipse is the result of taking a circle, stretching it by
// radii along the x and y axes, rotating it from the x axis by xRotation
// radians, and finally translating the center to center.
func NewEllipse(center Point, radii Vec2, xRotation float64) Ellipse {
	rx, ry := radii.Splat()
	return newEllipse(Vec2(center), rx, ry, xRotation)
}

// NewEllipseFromRect returns the largest ellipse that can be bounded by rect,
// using its absolute width and height. The ellipse is axis-aligned.
func NewEllipseFromRect(rect Rect) Ellipse {
	center := Vec2(rect.Center())
	width, height := rect.Size().Scale(1.0 / 2.0).Splat()
	return newEllipse(center, width, height, 0.0)
}

// NewEllipseFromAffine creates an ellipse from an affine transformation of the unit
// circle.
func NewEllipseFromAffine(aff Affine) Ellipse {
	return Ellipse{inner: aff}
}

func newEllipse(center Vec2, scaleX, scaleY, xRotation float64) Ellipse {
	// Since the circle is symmetric about the x and y axes, using absolute values for the
	// radii results in the same ellipse. For simplicity we make this change here.
	return Ellipse{
		inner: Translate(center).
			Mul(Rotate(xRotation)).
			Mul(Scale(math.Abs(scaleX), math.Abs(scaleY))),
	}
}

// Contains reports whether pt lies inside or on the ellipse. It evaluates the
// ellipse's implicit quadratic by mapping pt back onto the unit circle, so the
// result has no faceting. Degenerate ellipses contain no points.
func (e Ellipse) Contains(pt Point) bool {
	inv, err := e.inner.Invert()
	if err != nil {
		return false
	}
	return Vec2(pt.Transform(inv)).Hypot2() <= 1.0
}

func (e Ellipse) IsInf() bool {
	return e.inner.IsInf()
}

func (e Ellipse) IsNaN() bool {
	return e.inner.IsNaN()
}

// Area returns the ellipse's area.
func (e Ellipse) Area() float64 {
	return math.Pi * math.Abs(e.inner.Determinant())
}

// BoundingBox returns the tight axis-aligned bounding box of the ellipse.
func (e Ellipse) BoundingBox() Rect {
	// The two radius vectors are the images of the impulses (1, 0) and
	// (0, 1), which are the columns (a, b) and (c, d) of the linear part.
	// See https://www.iquilezles.org/www/articles/ellipses/ellipses.htm.
	aff := e.inner.Coefficients()
	a2 := aff[0] * aff[0]
	b2 := aff[1] * aff[1]
	c2 := aff[2] * aff[2]
	d2 := aff[3] * aff[3]
	cx := aff[4]
	cy := aff[5]
	rangeX := math.Sqrt(a2 + c2)
	rangeY := math.Sqrt(b2 + d2)
	return Rect{
		X0: cx - rangeX,
		Y0: cy - rangeY,
		X1: cx + rangeX,
		Y1: cy + rangeY,
	}
}

// Sample returns n points evenly spaced in parameter around the ellipse,
// starting at the end of the first radius vector. The points form a closed
// polygon inscribed in the ellipse.
func (e Ellipse) Sample(n int) []Point {
	if n <= 0 {
		return nil
	}
	pts := make([]Point, n)
	for i := range pts {
		th := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point(VecFromAngle(th)).Transform(e.inner)
	}
	return pts
}

// Center returns the center of the ellipse.
func (e Ellipse) Center() Point {
	return Point(e.inner.Translation())
}

// Radii returns the two radii of the ellipse.
//
// The first number is the horizontal radius and the second is the
// vertical radius, before rotation.
func (e Ellipse) Radii() Vec2 {
	radii, _ := e.inner.svd()
	return radii
}

// Rotation returns the ellipse's rotation, in radians.
func (e Ellipse) Rotation() float64 {
	_, rot := e.inner.svd()
	return rot
}

func (e Ellipse) Translate(v Vec2) Ellipse {
	return Ellipse{
		inner: Translate(v).Mul(e.inner),
	}
}

// Transform returns the image of the ellipse under aff.
func (e Ellipse) Transform(aff Affine) Ellipse {
	return Ellipse{
		inner: aff.Mul(e.inner),
	}
}
