package roi

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestShapes(t *testing.T) []Shape {
	t.Helper()
	r, err := NewRectROI(Pt(3, 4), Sz(10, 5))
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEllipseROI(Pt(-2, 1), Sz(6, 8))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPolyLine([]Point{{0, 0}, {10, 0}, {5, 8}}, true)
	if err != nil {
		t.Fatal(err)
	}
	return []Shape{r, e, p}
}

// parentBoundary returns the boundary of s in its parent frame.
func parentBoundary(s Shape) []Point {
	aff := s.LocalToParent()
	path := s.BoundaryPath()
	for i, pt := range path {
		path[i] = aff.MapPoint(pt)
	}
	return path
}

func TestShapeSettersRejectInvalid(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	for _, s := range newTestShapes(t) {
		before := s.State()
		calls := []struct {
			name string
			err  error
		}{
			{"SetPos(NaN, 0)", s.SetPos(nan, 0)},
			{"SetPos(0, Inf)", s.SetPos(0, inf)},
			{"SetSize(-1, 2)", s.SetSize(-1, 2)},
			{"SetSize(NaN, 2)", s.SetSize(nan, 2)},
			{"SetAngle(Inf)", s.SetAngle(inf)},
			{"Rotate(NaN)", s.Rotate(nan, Pt(0, 0))},
			{"Translate(Inf)", s.Translate(Vec(inf, 0))},
		}
		for _, c := range calls {
			if !errors.Is(c.err, ErrInvalidArgument) {
				t.Errorf("%v %s: got error %v, want ErrInvalidArgument", s.Kind(), c.name, c.err)
			}
		}
		if after := s.State(); !after.Equal(before) {
			t.Errorf("%v: rejected setters changed state from %+v to %+v", s.Kind(), before, after)
		}
	}
}

func TestNewShapeRejectsInvalid(t *testing.T) {
	if _, err := NewRectROI(Pt(math.NaN(), 0), Sz(1, 1)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	if _, err := NewEllipseROI(Pt(0, 0), Sz(-1, 1)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	if _, err := NewRectROI(Pt(0, 0), Sz(1, 1), WithMinSize(Sz(-1, 0))); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	if _, err := NewPolyLine([]Point{{0, 0}, {math.Inf(1), 0}}, false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
}

func TestShapeSetters(t *testing.T) {
	r, err := NewRectROI(Pt(0, 0), Sz(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetPos(5, 6); err != nil {
		t.Fatal(err)
	}
	if err := r.SetSize(0, 3); err != nil {
		t.Fatal(err)
	}
	if err := r.SetAngle(7); err != nil {
		t.Fatal(err)
	}
	diff(t, State{Pos: Pt(5, 6), Size: Sz(0, 3), Angle: 7}, r.State())
}

func TestShapeNotifies(t *testing.T) {
	r, err := NewRectROI(Pt(0, 0), Sz(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	var n int
	var got Shape
	unsubscribe := r.Subscribe(func(s Shape) {
		n++
		got = s
	})

	if err := r.SetPos(0, 0); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("setting the current position notified %d times", n)
	}
	if err := r.SetPos(1, 0); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got %d notifications, want 1", n)
	}
	if got != Shape(r) {
		t.Errorf("notified with %v, want the shape itself", got)
	}
	_ = r.SetPos(math.NaN(), 0)
	if n != 1 {
		t.Errorf("rejected setter notified")
	}

	unsubscribe()
	if err := r.SetAngle(1); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("notified after unsubscribing")
	}
}

func TestShapeUnsubscribeDuringNotify(t *testing.T) {
	r, err := NewRectROI(Pt(0, 0), Sz(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	var first, second int
	var unsubscribe func()
	unsubscribe = r.Subscribe(func(Shape) {
		first++
		unsubscribe()
	})
	r.Subscribe(func(Shape) { second++ })

	_ = r.SetPos(1, 1)
	_ = r.SetPos(2, 2)
	if first != 1 || second != 2 {
		t.Errorf("got %d and %d notifications, want 1 and 2", first, second)
	}
}

func TestLocalToParent(t *testing.T) {
	r, err := NewRectROI(Pt(2, 3), Sz(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetAngle(math.Pi / 2); err != nil {
		t.Fatal(err)
	}
	assertNear(t, r.LocalToParent().MapPoint(Pt(1, 0)), Pt(2, 4), 1e-12)

	// Size is not part of the transform.
	if err := r.SetSize(100, 100); err != nil {
		t.Fatal(err)
	}
	assertNear(t, r.LocalToParent().MapPoint(Pt(1, 0)), Pt(2, 4), 1e-12)
}

func TestRotateRoundTrip(t *testing.T) {
	opt := cmpopts.EquateApprox(1e-9, 1e-9)
	for _, s := range newTestShapes(t) {
		want := parentBoundary(s)
		lb := s.LocalBounds()
		pivot := lb.Center()
		if err := s.Rotate(0.7, pivot); err != nil {
			t.Fatal(err)
		}
		if err := s.Rotate(-0.7, pivot); err != nil {
			t.Fatal(err)
		}
		diff(t, want, parentBoundary(s), opt)
	}
}

func TestRotateKeepsPivot(t *testing.T) {
	r, err := NewRectROI(Pt(3, 4), Sz(10, 5))
	if err != nil {
		t.Fatal(err)
	}
	pivot := Pt(10, 5)
	want := r.LocalToParent().MapPoint(pivot)
	if err := r.Rotate(2.5, pivot); err != nil {
		t.Fatal(err)
	}
	assertNear(t, r.LocalToParent().MapPoint(pivot), want, 1e-12)
	if r.Angle() != 2.5 {
		t.Errorf("got angle %v, want 2.5", r.Angle())
	}
}

func TestShapeTranslate(t *testing.T) {
	for _, s := range newTestShapes(t) {
		pos := s.Pos()
		if err := s.Translate(Vec(1.5, -2)); err != nil {
			t.Fatal(err)
		}
		diff(t, pos.Translate(Vec(1.5, -2)), s.Pos())
	}
}

func TestRectBoundary(t *testing.T) {
	r, err := NewRectROI(Pt(3, 4), Sz(10, 5))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}}, r.BoundaryPath())
	if !r.Closed() {
		t.Error("rectangle is not closed")
	}
	if !r.ContainsLocal(Pt(0, 0)) || r.ContainsLocal(Pt(10, 2)) {
		t.Error("rectangle containment is not half-open")
	}
}

func TestEllipseBoundary(t *testing.T) {
	e, err := NewEllipseROI(Pt(0, 0), Sz(10, 6))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(e.BoundaryPath()); n != MinEllipseSegments {
		t.Errorf("got %d boundary points, want %d", n, MinEllipseSegments)
	}
	for _, pt := range e.BoundaryPath() {
		dx := (pt.X - 5) / 5
		dy := (pt.Y - 3) / 3
		if d := dx*dx + dy*dy; math.Abs(d-1) > 1e-9 {
			t.Fatalf("boundary point %v is not on the ellipse", pt)
		}
	}

	e, err = NewEllipseROI(Pt(0, 0), Sz(10, 6), WithEllipseSegments(200))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(e.BoundaryPath()); n != 200 {
		t.Errorf("got %d boundary points, want 200", n)
	}
	e, err = NewEllipseROI(Pt(0, 0), Sz(10, 6), WithEllipseSegments(8))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(e.BoundaryPath()); n != MinEllipseSegments {
		t.Errorf("got %d boundary points, want %d", n, MinEllipseSegments)
	}
}

func TestEllipseContainsLocal(t *testing.T) {
	e, err := NewEllipseROI(Pt(100, 100), Sz(10, 6))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		pt   Point
		want bool
	}{
		{Pt(5, 3), true},
		{Pt(0, 3), true},
		{Pt(5, 0), true},
		{Pt(0.5, 0.5), false},
		{Pt(9.9, 5.9), false},
	}
	for _, tt := range tests {
		if got := e.ContainsLocal(tt.pt); got != tt.want {
			t.Errorf("ContainsLocal(%v) = %t, want %t", tt.pt, got, tt.want)
		}
	}
	if err := e.SetSize(10, 0); err != nil {
		t.Fatal(err)
	}
	if e.ContainsLocal(Pt(5, 0)) {
		t.Error("collapsed ellipse contains a point")
	}
}

func TestDefaultHandles(t *testing.T) {
	r, err := NewRectROI(Pt(0, 0), Sz(10, 20))
	if err != nil {
		t.Fatal(err)
	}
	want := []Handle{
		{ID: 1, Role: RoleScale, Pos: Pt(10, 20), Anchor: Pt(1, 1), Pivot: Pt(0, 0), Index: -1},
		{ID: 2, Role: RoleScale, Pos: Pt(0, 0), Anchor: Pt(0, 0), Pivot: Pt(1, 1), Index: -1},
		{ID: 3, Role: RoleRotate, Pos: Pt(10, 0), Anchor: Pt(1, 0), Pivot: Pt(0.5, 0.5), Index: -1},
	}
	diff(t, want, r.Handles())

	e, err := NewEllipseROI(Pt(0, 0), Sz(10, 20))
	if err != nil {
		t.Fatal(err)
	}
	hs := e.Handles()
	if len(hs) != 2 || hs[0].Role != RoleRotate || hs[1].Role != RoleScale {
		t.Fatalf("unexpected ellipse handles %v", hs)
	}
	// The scale handle sits on the ellipse.
	if !e.ContainsLocal(hs[1].Pos.Lerp(Pt(5, 10), 1e-6)) || e.ContainsLocal(hs[1].Pos.Lerp(Pt(5, 10), -1e-6)) {
		t.Errorf("scale handle %v is not on the ellipse", hs[1].Pos)
	}
}

func TestAddRemoveHandle(t *testing.T) {
	r, err := NewRectROI(Pt(0, 0), Sz(10, 20))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddHandle(RoleVertex, Pt(0, 0), Pt(1, 1)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	id, err := r.AddHandle(RoleTranslate, Pt(0.5, 0.5), Pt(0.5, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	h, ok := r.Handle(id)
	if !ok {
		t.Fatal("new handle not found")
	}
	diff(t, Pt(5, 10), h.Pos)

	if !r.RemoveHandle(id) {
		t.Error("removing the handle failed")
	}
	if r.RemoveHandle(id) {
		t.Error("removed the handle twice")
	}
	if _, ok := r.Handle(id); ok {
		t.Error("removed handle still resolves")
	}

	// IDs are not reused.
	id2, err := r.AddHandle(RoleTranslate, Pt(0.5, 0.5), Pt(0.5, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if id2 == id {
		t.Errorf("handle ID %d was reused", id)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{KindRect: "rect", KindEllipse: "ellipse", KindPolyLine: "polyline"} {
		if got := k.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if got, err := ParseKind(want); err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", want, got, err)
		}
	}
	if _, err := ParseKind("circle"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
}
