package roi

// PolygonWinding returns the winding number of pt with respect to the closed
// ring through vertices; the last vertex connects back to the first.
//
// The sign is consistent with [PolygonArea]: +1 inside a positive-area ring,
// -1 inside a negative-area ring. Points exactly on an edge may count as
// either inside or outside.
func PolygonWinding(vertices []Point, pt Point) int {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var w int
	for i, a := range vertices {
		b := vertices[(i+1)%n]
		side := b.Sub(a).Cross(pt.Sub(a))
		if a.Y <= pt.Y {
			if b.Y > pt.Y && side > 0 {
				w++
			}
		} else if b.Y <= pt.Y && side < 0 {
			w--
		}
	}
	return w
}

// PolygonContains reports whether pt is inside the closed ring through
// vertices, using the nonzero winding rule.
func PolygonContains(vertices []Point, pt Point) bool {
	return PolygonWinding(vertices, pt) != 0
}

// PolygonArea returns the signed area of the closed ring through vertices.
func PolygonArea(vertices []Point) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var a float64
	for i, p := range vertices {
		a += Line{p, vertices[(i+1)%n]}.SignedArea()
	}
	return a
}
