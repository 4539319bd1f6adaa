package roi

import (
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/image/math/f64"
)

// Affine is a 2D affine transform, the Transform2D of region geometry. It maps
// between a shape's local frame, the scene, and an array's index space.
//
// If the coefficients are (a, b, c, d, e, f), then the resulting
// transformation represents this augmented matrix:
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// The idea is that (A * B) * v == A * (B * v), that is, A.Mul(B) applies B
// first and A second.
type Affine struct {
	// We represent Affine as a struct instead of an array because Go applies
	// few optimizations to arrays, while structs benefit from SROA.

	N0, N1, N2, N3, N4, N5 float64
}

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// FlipY is a transform that is flipped on the y-axis. Useful for converting
// between y-up and y-down spaces.
var FlipY = Affine{1, 0, 0, -1, 0, 0}

// FlipX is a transform that is flipped on the x-axis.
var FlipX = Affine{-1, 0, 0, 1, 0, 0}

// Scale creates an affine transform representing non-uniform scaling with
// different scale values for x and y.
func Scale(x, y float64) Affine {
	return Affine{x, 0, 0, y, 0, 0}
}

// Translate creates an affine transform representing translation.
func Translate(v Vec2) Affine {
	return Affine{1, 0, 0, 1, v.X, v.Y}
}

// Rotate creates an affine transform representing rotation.
//
// The convention for rotation is that a positive angle rotates a
// positive X direction into positive Y. Thus, in a Y-down coordinate
// system (as is common for images), it is a clockwise rotation, and
// in Y-up (traditional for math), it is anti-clockwise.
//
// The angle th is expressed in radians.
func Rotate(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// RotateAbout creates an affine transform representing a rotation of th radians
// about center.
//
// See [Rotate] for more info.
func RotateAbout(th float64, center Point) Affine {
	c := Vec2(center)
	return Translate(c.Negate()).ThenRotate(th).ThenTranslate(c)
}

// Skew creates an affine transformation representing a skew.
//
// The x and y parameters represent skew factors for the horizontal and vertical
// directions, respectively.
func Skew(x, y float64) Affine {
	return Affine{1, y, x, 1, 0, 0}
}

// Coefficients returns the the coefficients of the transform.
func (aff Affine) Coefficients() [6]float64 {
	return [6]float64{aff.N0, aff.N1, aff.N2, aff.N3, aff.N4, aff.N5}
}

// Aff3 converts the transform to the row-major representation used by
// golang.org/x/image, for example by the transformers in x/image/draw.
func (aff Affine) Aff3() f64.Aff3 {
	return f64.Aff3{
		aff.N0, aff.N2, aff.N4,
		aff.N1, aff.N3, aff.N5,
	}
}

// AffineFromAff3 is the inverse of [Affine.Aff3].
func AffineFromAff3(m f64.Aff3) Affine {
	return Affine{m[0], m[3], m[1], m[4], m[2], m[5]}
}

func (aff Affine) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", aff.N0, aff.N1, aff.N2, aff.N3, aff.N4, aff.N5)
}

// LogValue implements [slog.LogValuer].
func (aff Affine) LogValue() slog.Value {
	return slog.StringValue(aff.String())
}

// Mul returns aff * o, the transform that applies o and then aff.
func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		aff.N0*o.N0 + aff.N2*o.N1,
		aff.N1*o.N0 + aff.N3*o.N1,
		aff.N0*o.N2 + aff.N2*o.N3,
		aff.N1*o.N2 + aff.N3*o.N3,
		aff.N0*o.N4 + aff.N2*o.N5 + aff.N4,
		aff.N1*o.N4 + aff.N3*o.N5 + aff.N5,
	}
}

// Compose returns the transform that applies b and then a. It is equivalent to
// a.Mul(b).
func Compose(a, b Affine) Affine {
	return a.Mul(b)
}

// ThenRotate creates aff followed by a rotation of th.
//
// Equivalent to "Rotate(th) * aff"
func (aff Affine) ThenRotate(th float64) Affine {
	return Rotate(th).Mul(aff)
}

// PreTranslate creates a translation of v followed by aff.
//
// Equivalent to "aff * Translate(v)"
func (aff Affine) PreTranslate(v Vec2) Affine {
	return aff.Mul(Translate(v))
}

// ThenTranslate creates aff followed by a translation of v.
//
// Equivalent to "Translate(v) * aff"
func (aff Affine) ThenTranslate(v Vec2) Affine {
	aff.N4 += v.X
	aff.N5 += v.Y
	return aff
}

// Determinant computes the determinant.
func (aff Affine) Determinant() float64 {
	return aff.N0*aff.N3 - aff.N1*aff.N2
}

// singularTolerance is the determinant threshold relative to the product of
// the column norms of the linear part.
const singularTolerance = 1e-12

// Invert computes the inverse transform.
//
// It returns an error wrapping [ErrSingular] if the determinant is zero
// relative to the magnitude of the linear part, or if the transform contains
// NaN or infinite coefficients.
func (aff Affine) Invert() (Affine, error) {
	det := aff.Determinant()
	norm := math.Hypot(aff.N0, aff.N1) * math.Hypot(aff.N2, aff.N3)
	// Written so that NaN fails the comparison.
	if !(math.Abs(det) > singularTolerance*norm) || math.IsInf(norm, 0) || aff.IsNaN() || aff.IsInf() {
		return Affine{}, fmt.Errorf("inverting %v (det %g): %w", aff, det, ErrSingular)
	}
	invDet := 1 / det
	return Affine{
		+invDet * aff.N3,
		-invDet * aff.N1,
		-invDet * aff.N2,
		+invDet * aff.N0,
		+invDet * (aff.N2*aff.N5 - aff.N3*aff.N4),
		+invDet * (aff.N1*aff.N4 - aff.N0*aff.N5),
	}, nil
}

// MapPoint applies the transform to a point.
func (aff Affine) MapPoint(pt Point) Point {
	return pt.Transform(aff)
}

// MapVector applies the linear part of the transform to a vector, ignoring
// the translation.
func (aff Affine) MapVector(v Vec2) Vec2 {
	return Vec2{
		X: aff.N0*v.X + aff.N2*v.Y,
		Y: aff.N1*v.X + aff.N3*v.Y,
	}
}

func (aff Affine) IsInf() bool {
	return math.IsInf(aff.N0, 0) ||
		math.IsInf(aff.N1, 0) ||
		math.IsInf(aff.N2, 0) ||
		math.IsInf(aff.N3, 0) ||
		math.IsInf(aff.N4, 0) ||
		math.IsInf(aff.N5, 0)
}

func (aff Affine) IsNaN() bool {
	return math.IsNaN(aff.N0) ||
		math.IsNaN(aff.N1) ||
		math.IsNaN(aff.N2) ||
		math.IsNaN(aff.N3) ||
		math.IsNaN(aff.N4) ||
		math.IsNaN(aff.N5)
}

// Decomposition is the result of [Affine.Decompose].
type Decomposition struct {
	Translation Vec2
	// Rotation in radians, in (-π, π].
	Rotation float64
	// Scale along the rotated x and y axes. Scale.Y is negative if the
	// transform contains a reflection.
	Scale Vec2
}

// Decompose splits the transform into translation, rotation and scale, such
// that aff == Translate(t) * Rotate(r) * Scale(sx, sy).
//
// The decomposition is exact only for transforms without shear; for sheared
// transforms the shear is folded into Scale.Y and the result is approximate.
// It is meant for user feedback, not for reconstructing transforms.
func (aff Affine) Decompose() Decomposition {
	d := Decomposition{Translation: aff.Translation()}
	sx := math.Hypot(aff.N0, aff.N1)
	if sx == 0 {
		d.Rotation = NormalizeAngle(math.Atan2(-aff.N2, aff.N3))
		d.Scale = Vec2{0, math.Hypot(aff.N2, aff.N3)}
		return d
	}
	d.Rotation = NormalizeAngle(math.Atan2(aff.N1, aff.N0))
	d.Scale = Vec2{sx, aff.Determinant() / sx}
	return d
}

// NormalizeAngle maps th into (-π, π]. Shapes keep their angle unnormalized;
// this is for display.
func NormalizeAngle(th float64) float64 {
	r := math.Remainder(th, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// svd computes the singular value decomposition of the linear part of aff,
// returning the scale and the angle of the first rotation. V^T is not
// computed; rotating a circle about its center yields the same circle.
//
// Returns NaNs if the linear map is singular.
func (aff Affine) svd() (scale Vec2, th float64) {
	a := aff.N0
	a2 := a * a
	b := aff.N1
	b2 := b * b
	c := aff.N2
	c2 := c * c
	d := aff.N3
	d2 := d * d
	ab := a * b
	cd := c * d
	th = math.Atan2(0.5*(2.0*(ab+cd)), a2-b2+c2-d2)
	s1 := a2 + b2 + c2 + d2
	s2 := math.Sqrt(math.Pow(a2-b2+c2-d2, 2) + 4.0*math.Pow(ab+cd, 2))
	return Vec2{
		X: math.Sqrt(0.5 * (s1 + s2)),
		Y: math.Sqrt(max(0, 0.5*(s1-s2))),
	}, th
}

// Translation returns the translation component of this affine transformation.
func (aff Affine) Translation() Vec2 {
	return Vec2{
		X: aff.N4,
		Y: aff.N5,
	}
}

// TransformRectBoundingBox computes the bounding box of a transformed rectangle.
//
// If the transform is axis-aligned, the bounding box is "tight", in other
// words the returned rectangle is the transformed rectangle. The returned
// rectangle always has non-negative width and height.
func (aff Affine) TransformRectBoundingBox(rect Rect) Rect {
	p00 := Pt(rect.X0, rect.Y0).Transform(aff)
	p01 := Pt(rect.X0, rect.Y1).Transform(aff)
	p10 := Pt(rect.X1, rect.Y0).Transform(aff)
	p11 := Pt(rect.X1, rect.Y1).Transform(aff)
	return NewRectFromPoints(p00, p01).Union(NewRectFromPoints(p10, p11))
}
