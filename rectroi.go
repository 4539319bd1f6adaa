package roi

// RectROI is a rectangular region. Its boundary runs through (0, 0), (w, 0),
// (w, h) and (0, h) in the local frame.
//
// A new RectROI has a scale handle on each of the corners (w, h) and (0, 0),
// each pinning the opposite corner, and a rotate handle at (w, 0) that turns
// the rectangle about its center.
type RectROI struct {
	sized
}

var _ Shape = (*RectROI)(nil)

func NewRectROI(pos Point, size Size, opts ...Option) (*RectROI, error) {
	r := &RectROI{}
	if err := r.init(r, pos, size, 0, opts); err != nil {
		return nil, err
	}
	r.handles.add(RoleScale, Pt(1, 1), Pt(0, 0))
	r.handles.add(RoleScale, Pt(0, 0), Pt(1, 1))
	r.handles.add(RoleRotate, Pt(1, 0), Pt(0.5, 0.5))
	return r, nil
}

func (r *RectROI) Kind() Kind { return KindRect }

func (r *RectROI) BoundaryPath() []Point {
	c := r.LocalBounds().Corners()
	return c[:]
}

// ContainsLocal uses the half-open box [0, w) × [0, h), so that adjacent
// rectangles never both claim a cell center on their shared edge.
func (r *RectROI) ContainsLocal(pt Point) bool {
	return r.LocalBounds().Contains(pt)
}
