package roi

// EllipseROI is the ellipse inscribed in the rectangle (0, 0)-(w, h) of its
// local frame.
//
// A new EllipseROI has a rotate handle at (w, h/2) and a scale handle on the
// ellipse at 45°, both pivoting about the center.
type EllipseROI struct {
	sized
}

var _ Shape = (*EllipseROI)(nil)

func NewEllipseROI(pos Point, size Size, opts ...Option) (*EllipseROI, error) {
	e := &EllipseROI{}
	if err := e.init(e, pos, size, 0, opts); err != nil {
		return nil, err
	}
	e.handles.add(RoleRotate, Pt(1, 0.5), Pt(0.5, 0.5))
	e.handles.add(RoleScale, ellipseScaleAnchor, Pt(0.5, 0.5))
	return e, nil
}

func (e *EllipseROI) Kind() Kind { return KindEllipse }

// Ellipse returns the ellipse in the local frame.
func (e *EllipseROI) Ellipse() Ellipse {
	return NewEllipseFromRect(e.LocalBounds())
}

// BoundaryPath samples the ellipse with the configured number of segments.
func (e *EllipseROI) BoundaryPath() []Point {
	return e.Ellipse().Sample(e.opts.segments())
}

// ContainsLocal evaluates the ellipse's implicit equation. An ellipse with a
// collapsed axis contains nothing.
func (e *EllipseROI) ContainsLocal(pt Point) bool {
	rx, ry := e.size.Width/2, e.size.Height/2
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (pt.X - rx) / rx
	dy := (pt.Y - ry) / ry
	return dx*dx+dy*dy <= 1
}
