package roi

import (
	"fmt"
	"math"
	"slices"
)

// PolyLine is a free-form region given by an ordered sequence of vertices in
// its local frame. If closed, the last vertex connects back to the first.
//
// Every vertex has a RoleVertex handle whose ID stays the same for as long as
// the vertex exists. Every segment has a RoleAddVertex handle at its
// midpoint; these are recreated whenever vertices are added or removed.
//
// The size of a polyline does not affect its boundary. It is kept so that
// snapshots round-trip.
type PolyLine struct {
	geometry
	points   []Point
	closed   bool
	vertices []HandleID
	segments []HandleID
	nextID   HandleID
}

var _ Shape = (*PolyLine)(nil)

func NewPolyLine(points []Point, closed bool, opts ...Option) (*PolyLine, error) {
	p := &PolyLine{closed: closed}
	if err := p.init(p, Point{}, Size{}, 0, opts); err != nil {
		return nil, err
	}
	if err := validPoints(points); err != nil {
		return nil, err
	}
	p.setPoints(points)
	return p, nil
}

func validPoints(pts []Point) error {
	for i, pt := range pts {
		if !pt.IsFinite() {
			return fmt.Errorf("point %d %v: %w", i, pt, ErrInvalidArgument)
		}
	}
	return nil
}

func (p *PolyLine) Kind() Kind { return KindPolyLine }

func (p *PolyLine) Closed() bool { return p.closed }

// SetClosed opens or closes the path.
func (p *PolyLine) SetClosed(closed bool) {
	if p.closed == closed {
		return
	}
	p.closed = closed
	p.rebuildSegments()
	p.notify()
}

// Len returns the number of vertices.
func (p *PolyLine) Len() int { return len(p.points) }

// Points returns a copy of the vertices.
func (p *PolyLine) Points() []Point {
	return slices.Clone(p.points)
}

// SetPoints replaces all vertices. All vertex handles are replaced as well.
func (p *PolyLine) SetPoints(pts []Point) error {
	if err := validPoints(pts); err != nil {
		return fmt.Errorf("SetPoints: %w", err)
	}
	p.EndDrag()
	p.setPoints(pts)
	p.notify()
	return nil
}

func (p *PolyLine) setPoints(pts []Point) {
	p.points = slices.Clone(pts)
	p.vertices = make([]HandleID, len(pts))
	for i := range p.vertices {
		p.vertices[i] = p.newID()
	}
	p.rebuildSegments()
}

// ClearPoints removes all vertices. A polyline without vertices is valid but
// has an empty boundary.
func (p *PolyLine) ClearPoints() {
	if len(p.points) == 0 {
		return
	}
	p.EndDrag()
	p.points = nil
	p.vertices = nil
	p.rebuildSegments()
	p.notify()
}

// InsertPoint inserts pt after the vertex at index after and returns the
// index of the new vertex. after may be -1 to insert at the front.
func (p *PolyLine) InsertPoint(after int, pt Point) (int, error) {
	if after < -1 || after >= len(p.points) {
		return 0, fmt.Errorf("InsertPoint(%d): index out of range [-1, %d): %w", after, len(p.points), ErrInvalidArgument)
	}
	if !pt.IsFinite() {
		return 0, fmt.Errorf("InsertPoint(%d, %v): %w", after, pt, ErrInvalidArgument)
	}
	i := p.insert(after+1, pt)
	p.notify()
	return i, nil
}

func (p *PolyLine) insert(i int, pt Point) int {
	p.points = slices.Insert(p.points, i, pt)
	p.vertices = slices.Insert(p.vertices, i, p.newID())
	p.rebuildSegments()
	return i
}

// AddPointOnSegment inserts pt into the segment nearest to it, keeping the
// vertex order along the path. With fewer than two vertices pt is appended.
// It returns the index of the new vertex.
func (p *PolyLine) AddPointOnSegment(pt Point) (int, error) {
	seg, _, ok := p.NearestSegment(pt)
	if !ok {
		return p.InsertPoint(len(p.points)-1, pt)
	}
	return p.InsertPoint(seg, pt)
}

// RemovePoint removes the vertex at index i together with its handle.
func (p *PolyLine) RemovePoint(i int) error {
	if i < 0 || i >= len(p.points) {
		return fmt.Errorf("RemovePoint(%d): index out of range [0, %d): %w", i, len(p.points), ErrInvalidArgument)
	}
	if p.drag.active && p.drag.handle.ID == p.vertices[i] {
		p.EndDrag()
	}
	p.points = slices.Delete(p.points, i, i+1)
	p.vertices = slices.Delete(p.vertices, i, i+1)
	p.rebuildSegments()
	p.notify()
	return nil
}

func (p *PolyLine) newID() HandleID {
	p.nextID++
	return p.nextID
}

func (p *PolyLine) segmentCount() int {
	n := len(p.points)
	switch {
	case n < 2:
		return 0
	case p.closed && n > 2:
		return n
	default:
		return n - 1
	}
}

func (p *PolyLine) rebuildSegments() {
	p.segments = p.segments[:0]
	for range p.segmentCount() {
		p.segments = append(p.segments, p.newID())
	}
}

// Segment returns segment i, which runs from vertex i to vertex i+1, or back
// to vertex 0 for the closing segment.
func (p *PolyLine) Segment(i int) (Line, bool) {
	if i < 0 || i >= p.segmentCount() {
		return Line{}, false
	}
	return Line{p.points[i], p.points[(i+1)%len(p.points)]}, true
}

// NearestSegment returns the index of the segment closest to pt, in the local
// frame, and the distance from pt to it. ok is false if the polyline has no
// segments.
func (p *PolyLine) NearestSegment(pt Point) (seg int, dist float64, ok bool) {
	best := math.Inf(1)
	seg = -1
	for i := range p.segmentCount() {
		l, _ := p.Segment(i)
		if d, _ := l.Nearest(pt); d < best {
			best = d
			seg = i
		}
	}
	if seg < 0 {
		return -1, 0, false
	}
	return seg, math.Sqrt(best), true
}

func (p *PolyLine) BoundaryPath() []Point {
	return slices.Clone(p.points)
}

// ContainsLocal applies the nonzero winding rule to the vertex ring. Open
// polylines are treated as closed, so that they mask the same cells.
func (p *PolyLine) ContainsLocal(pt Point) bool {
	return PolygonContains(p.points, pt)
}

func (p *PolyLine) LocalBounds() Rect {
	r, _ := BoundingBoxOf(p.points)
	return r
}

func (p *PolyLine) Handles() []Handle {
	out := make([]Handle, 0, len(p.vertices)+len(p.segments))
	for i, id := range p.vertices {
		out = append(out, p.vertexHandle(i, id))
	}
	for i, id := range p.segments {
		out = append(out, p.segmentHandle(i, id))
	}
	return out
}

func (p *PolyLine) vertexHandle(i int, id HandleID) Handle {
	return Handle{ID: id, Role: RoleVertex, Pos: p.points[i], Index: i}
}

func (p *PolyLine) segmentHandle(i int, id HandleID) Handle {
	l, _ := p.Segment(i)
	return Handle{ID: id, Role: RoleAddVertex, Pos: l.Midpoint(), Index: i}
}

func (p *PolyLine) Handle(id HandleID) (Handle, bool) {
	if i := slices.Index(p.vertices, id); i >= 0 {
		return p.vertexHandle(i, id), true
	}
	if i := slices.Index(p.segments, id); i >= 0 {
		return p.segmentHandle(i, id), true
	}
	return Handle{}, false
}

// BeginDrag starts dragging a vertex. Dragging an add-vertex handle first
// inserts a vertex at start and then drags that vertex.
func (p *PolyLine) BeginDrag(id HandleID, start Point) error {
	h, ok := p.Handle(id)
	if !ok {
		return fmt.Errorf("BeginDrag(%d): %w", id, ErrUnknownHandle)
	}
	if !start.IsFinite() {
		return fmt.Errorf("BeginDrag(%d, %v): %w", id, start, ErrInvalidArgument)
	}
	if h.Role == RoleAddVertex {
		toLocal, err := p.LocalToParent().Invert()
		if err != nil {
			return fmt.Errorf("BeginDrag(%d): %w", id, err)
		}
		i := p.insert(h.Index+1, toLocal.MapPoint(start))
		h = p.vertexHandle(i, p.vertices[i])
		p.notify()
	}
	if err := p.beginDrag(h, start); err != nil {
		return err
	}
	p.drag.vertex = h.Pos
	return nil
}

func (p *PolyLine) DragTo(pt Point) error {
	if err := p.checkDragTo(pt); err != nil {
		return err
	}
	if p.drag.repeated(pt) {
		return nil
	}
	i := slices.Index(p.vertices, p.drag.handle.ID)
	if i < 0 {
		return fmt.Errorf("DragTo: vertex %d: %w", p.drag.handle.ID, ErrUnknownHandle)
	}
	d := &p.drag
	delta := d.toLocal.MapPoint(pt).Sub(d.toLocal.MapPoint(d.start))
	v := d.vertex.Translate(delta)
	d.record(pt)
	if v == p.points[i] {
		return nil
	}
	p.points[i] = v
	p.notify()
	return nil
}

func (p *PolyLine) State() State {
	st := p.baseState()
	st.Points = append(make([]Point, 0, len(p.points)), p.points...)
	return st
}

// SetState restores a snapshot. The snapshot must carry points, possibly
// none. Vertex handles are replaced unless the snapshot matches the current
// state, in which case nothing happens.
func (p *PolyLine) SetState(st State) error {
	if err := validState(st); err != nil {
		return fmt.Errorf("SetState: %w", err)
	}
	if st.Points == nil {
		return fmt.Errorf("SetState: polyline state has no points: %w", ErrInvalidArgument)
	}
	if err := validPoints(st.Points); err != nil {
		return fmt.Errorf("SetState: %w", err)
	}
	if p.State().Equal(st) {
		return nil
	}
	p.EndDrag()
	p.pos, p.size, p.angle = st.Pos, st.Size, st.Angle
	p.setPoints(st.Points)
	p.notify()
	return nil
}
