package roi

import (
	"fmt"
	"math"
	"slices"
)

// Kind identifies the variant of a [Shape].
type Kind uint8

const (
	KindRect Kind = iota
	KindEllipse
	KindPolyLine
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	case KindPolyLine:
		return "polyline"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses the names returned by [Kind.String].
func ParseKind(s string) (Kind, error) {
	switch s {
	case "rect":
		return KindRect, nil
	case "ellipse":
		return KindEllipse, nil
	case "polyline":
		return KindPolyLine, nil
	default:
		return 0, fmt.Errorf("kind %q: %w", s, ErrInvalidArgument)
	}
}

// Shape is a region of interest: a position, size and rotation plus a
// kind-specific boundary in the shape's local frame. The set of
// implementations is closed: [*RectROI], [*EllipseROI] and [*PolyLine].
//
// The local frame is mapped to the parent (scene) frame by
// [Shape.LocalToParent], which is Translate(pos) * Rotate(angle). The size is
// not part of that transform; it scales the boundary instead, so that resizing
// and rotating stay independent.
//
// Positions passed to the drag methods are in the parent frame. Positions
// passed to and returned from everything else are in the local frame unless
// documented otherwise.
//
// Shapes are not safe for concurrent use. Mutating a shape from several
// goroutines requires external synchronization; concurrent extraction from
// a shape that nobody mutates is fine.
type Shape interface {
	Kind() Kind

	Pos() Point
	Size() Size
	// Angle returns the rotation in radians. It is not normalized; use
	// [NormalizeAngle] for display.
	Angle() float64

	// SetPos, SetSize and SetAngle reject NaN and infinite values (and
	// negative sizes) with an error wrapping [ErrInvalidArgument], leaving
	// the shape unchanged. On success, subscribers are notified if the
	// geometry changed.
	SetPos(x, y float64) error
	SetSize(w, h float64) error
	SetAngle(th float64) error

	// Rotate adds delta to the angle, adjusting the position so that pivot,
	// given in the local frame, stays fixed in the parent frame.
	Rotate(delta float64, pivot Point) error
	// Translate moves the whole shape by delta, in the parent frame.
	Translate(delta Vec2) error

	State() State
	SetState(st State) error

	// BoundaryPath returns the boundary in the local frame. For closed
	// shapes the last point implicitly connects to the first.
	BoundaryPath() []Point
	Closed() bool
	LocalToParent() Affine
	// ContainsLocal reports whether a local-frame point is inside the
	// region. Ellipses use their implicit equation rather than the sampled
	// boundary.
	ContainsLocal(pt Point) bool
	// LocalBounds returns the bounding box of the boundary in the local
	// frame.
	LocalBounds() Rect

	Handles() []Handle
	Handle(id HandleID) (Handle, bool)

	// BeginDrag starts dragging a handle from start, in the parent frame.
	BeginDrag(id HandleID, start Point) error
	// DragTo moves the dragged handle to pt, in the parent frame. The
	// resulting geometry depends only on the state at BeginDrag and pt, so
	// repeated calls with the same point are no-ops.
	DragTo(pt Point) error
	EndDrag()
	Dragging() bool

	// Subscribe registers fn to be called synchronously after every change
	// to the shape's geometry. The returned function removes fn again.
	Subscribe(fn func(Shape)) (unsubscribe func())

	geom() *geometry
}

// MinEllipseSegments is the minimum number of points used to sample an
// ellipse's boundary path.
const MinEllipseSegments = 64

type options struct {
	minSize         Size
	ellipseSegments int
}

func (o options) segments() int {
	return max(o.ellipseSegments, MinEllipseSegments)
}

// Option configures a shape at construction.
type Option func(*options)

// WithMinSize sets the size below which handle drags cannot shrink a shape.
// The default is zero, in which case a collapsed axis has size exactly 0.
func WithMinSize(sz Size) Option {
	return func(o *options) {
		o.minSize = sz
	}
}

// WithEllipseSegments sets the number of points of an ellipse's boundary
// path. Values below [MinEllipseSegments] are raised to it.
func WithEllipseSegments(n int) Option {
	return func(o *options) {
		o.ellipseSegments = n
	}
}

type observer struct {
	id int
	fn func(Shape)
}

// geometry is the state shared by all shape kinds.
type geometry struct {
	self  Shape
	pos   Point
	size  Size
	angle float64
	opts  options

	observers    []observer
	nextObserver int

	drag dragState
}

func (g *geometry) geom() *geometry { return g }

func (g *geometry) init(self Shape, pos Point, size Size, angle float64, opts []Option) error {
	for _, opt := range opts {
		opt(&g.opts)
	}
	if err := validSize(g.opts.minSize); err != nil {
		return fmt.Errorf("minimum size: %w", err)
	}
	if err := validPos(pos); err != nil {
		return err
	}
	if err := validSize(size); err != nil {
		return err
	}
	if !isFinite(angle) {
		return fmt.Errorf("angle %g: %w", angle, ErrInvalidArgument)
	}
	g.self = self
	g.pos = pos
	g.size = size
	g.angle = angle
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validPos(pt Point) error {
	if !pt.IsFinite() {
		return fmt.Errorf("position %v: %w", pt, ErrInvalidArgument)
	}
	return nil
}

func validSize(sz Size) error {
	if sz.IsNaN() || sz.IsInf() || sz.Width < 0 || sz.Height < 0 {
		return fmt.Errorf("size %v: %w", sz, ErrInvalidArgument)
	}
	return nil
}

func (g *geometry) Pos() Point     { return g.pos }
func (g *geometry) Size() Size     { return g.size }
func (g *geometry) Angle() float64 { return g.angle }

func (g *geometry) SetPos(x, y float64) error {
	pos := Pt(x, y)
	if err := validPos(pos); err != nil {
		return fmt.Errorf("SetPos: %w", err)
	}
	g.setGeometry(pos, g.size, g.angle)
	return nil
}

func (g *geometry) SetSize(w, h float64) error {
	size := Sz(w, h)
	if err := validSize(size); err != nil {
		return fmt.Errorf("SetSize: %w", err)
	}
	g.setGeometry(g.pos, size, g.angle)
	return nil
}

func (g *geometry) SetAngle(th float64) error {
	if !isFinite(th) {
		return fmt.Errorf("SetAngle(%g): %w", th, ErrInvalidArgument)
	}
	g.setGeometry(g.pos, g.size, th)
	return nil
}

func (g *geometry) Rotate(delta float64, pivot Point) error {
	if !isFinite(delta) || !pivot.IsFinite() {
		return fmt.Errorf("Rotate(%g, %v): %w", delta, pivot, ErrInvalidArgument)
	}
	fixed := g.LocalToParent().MapPoint(pivot)
	angle := g.angle + delta
	g.setGeometry(posForPivot(fixed, pivot, angle), g.size, angle)
	return nil
}

func (g *geometry) Translate(delta Vec2) error {
	if delta.IsNaN() || delta.IsInf() {
		return fmt.Errorf("Translate(%v): %w", delta, ErrInvalidArgument)
	}
	g.setGeometry(g.pos.Translate(delta), g.size, g.angle)
	return nil
}

func (g *geometry) LocalToParent() Affine {
	return Translate(Vec2(g.pos)).Mul(Rotate(g.angle))
}

// posForPivot returns the position at which the local point pivot maps to
// fixed in the parent frame, given the rotation angle.
func posForPivot(fixed, pivot Point, angle float64) Point {
	return fixed.Translate(Rotate(angle).MapVector(Vec2(pivot)).Negate())
}

// setGeometry updates the shape and notifies subscribers if anything
// changed.
func (g *geometry) setGeometry(pos Point, size Size, angle float64) bool {
	if pos == g.pos && size == g.size && angle == g.angle {
		return false
	}
	g.pos = pos
	g.size = size
	g.angle = angle
	g.notify()
	return true
}

func (g *geometry) notify() {
	// Subscribers may unsubscribe from within the callback.
	for _, o := range slices.Clone(g.observers) {
		o.fn(g.self)
	}
}

func (g *geometry) Subscribe(fn func(Shape)) func() {
	g.nextObserver++
	id := g.nextObserver
	g.observers = append(g.observers, observer{id: id, fn: fn})
	return func() {
		g.observers = slices.DeleteFunc(g.observers, func(o observer) bool {
			return o.id == id
		})
	}
}

func (g *geometry) baseState() State {
	return State{
		Pos:   g.pos,
		Size:  g.size,
		Angle: g.angle,
	}
}

func validState(st State) error {
	if err := validPos(st.Pos); err != nil {
		return err
	}
	if err := validSize(st.Size); err != nil {
		return err
	}
	if !isFinite(st.Angle) {
		return fmt.Errorf("angle %g: %w", st.Angle, ErrInvalidArgument)
	}
	return nil
}

// sized is the shared implementation of rectangles and ellipses, whose
// handles are placed at fractions of the size.
type sized struct {
	geometry
	handles handleTable
}

func (s *sized) Closed() bool { return true }

func (s *sized) LocalBounds() Rect {
	return Rect{0, 0, s.size.Width, s.size.Height}
}

func (s *sized) Handles() []Handle {
	return s.handles.resolved(s.size)
}

func (s *sized) Handle(id HandleID) (Handle, bool) {
	i, ok := s.handles.find(id)
	if !ok {
		return Handle{}, false
	}
	h := s.handles.handles[i]
	h.Pos = h.Anchor.Scale(s.size)
	return h, true
}

// AddHandle adds a handle at anchor that keeps pivot fixed while dragged.
// Both are fractions of the size, so (1, 1) is the corner opposite the
// origin. Only the scale, scale-rotate, rotate and translate roles are valid.
func (s *sized) AddHandle(role HandleRole, anchor, pivot Point) (HandleID, error) {
	if !validHandleRole(role) || !anchor.IsFinite() || !pivot.IsFinite() {
		return 0, fmt.Errorf("AddHandle(%v, %v, %v): %w", role, anchor, pivot, ErrInvalidArgument)
	}
	return s.handles.add(role, anchor, pivot), nil
}

// RemoveHandle removes a handle. It reports whether the handle existed.
func (s *sized) RemoveHandle(id HandleID) bool {
	if s.drag.active && s.drag.handle.ID == id {
		s.EndDrag()
	}
	return s.handles.remove(id)
}

func (s *sized) State() State {
	return s.baseState()
}

func (s *sized) SetState(st State) error {
	if err := validState(st); err != nil {
		return fmt.Errorf("SetState: %w", err)
	}
	if st.Points != nil {
		return fmt.Errorf("SetState: %v state has points: %w", s.self.Kind(), ErrInvalidArgument)
	}
	s.setGeometry(st.Pos, st.Size, st.Angle)
	return nil
}

func (s *sized) BeginDrag(id HandleID, start Point) error {
	h, ok := s.Handle(id)
	if !ok {
		return fmt.Errorf("BeginDrag(%d): %w", id, ErrUnknownHandle)
	}
	return s.beginDrag(h, start)
}

func (s *sized) DragTo(pt Point) error {
	if err := s.checkDragTo(pt); err != nil {
		return err
	}
	if s.drag.repeated(pt) {
		return nil
	}
	pos, size, angle := s.dragGeometry(pt)
	s.drag.record(pt)
	s.setGeometry(pos, size, angle)
	return nil
}
