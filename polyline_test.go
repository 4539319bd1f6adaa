package roi

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func countRoles(hs []Handle) (vertices, segments int) {
	for _, h := range hs {
		switch h.Role {
		case RoleVertex:
			vertices++
		case RoleAddVertex:
			segments++
		}
	}
	return vertices, segments
}

func TestPolyLineHandles(t *testing.T) {
	pts := []Point{{0, 0}, {10, 10}, {10, 30}}
	for _, closed := range []bool{true, false} {
		p, err := NewPolyLine(pts, closed)
		if err != nil {
			t.Fatal(err)
		}
		wantSegments := 2
		if closed {
			wantSegments = 3
		}
		if v, s := countRoles(p.Handles()); v != 3 || s != wantSegments {
			t.Errorf("closed=%t: got %d vertex and %d segment handles, want 3 and %d", closed, v, s, wantSegments)
		}
		if p.Closed() != closed {
			t.Errorf("got closed=%t, want %t", p.Closed(), closed)
		}

		for _, h := range p.Handles() {
			switch h.Role {
			case RoleVertex:
				diff(t, pts[h.Index], h.Pos)
			case RoleAddVertex:
				l, ok := p.Segment(h.Index)
				if !ok {
					t.Fatalf("segment %d does not exist", h.Index)
				}
				diff(t, l.Midpoint(), h.Pos)
			}
		}

		p.ClearPoints()
		if n := len(p.Handles()); n != 0 {
			t.Errorf("got %d handles after clearing, want 0", n)
		}
		if st := p.State(); st.Points == nil || len(st.Points) != 0 {
			t.Errorf("got points %#v after clearing, want an empty non-nil slice", st.Points)
		}

		if err := p.SetPoints(pts); err != nil {
			t.Fatal(err)
		}
		diff(t, pts, p.Points())
		if v, _ := countRoles(p.Handles()); v != 3 {
			t.Errorf("got %d vertex handles after restoring, want 3", v)
		}
	}
}

func TestPolyLineSetClosed(t *testing.T) {
	p, err := NewPolyLine([]Point{{0, 0}, {10, 0}, {10, 10}}, false)
	if err != nil {
		t.Fatal(err)
	}
	var n int
	p.Subscribe(func(Shape) { n++ })
	p.SetClosed(true)
	p.SetClosed(true)
	if _, s := countRoles(p.Handles()); s != 3 {
		t.Errorf("got %d segments, want 3", s)
	}
	if n != 1 {
		t.Errorf("got %d notifications, want 1", n)
	}
}

func TestPolyLineInsertRemove(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	p, err := NewPolyLine(pts, true)
	if err != nil {
		t.Fatal(err)
	}
	ids := func() []HandleID {
		var out []HandleID
		for _, h := range p.Handles() {
			if h.Role == RoleVertex {
				out = append(out, h.ID)
			}
		}
		return out
	}
	before := ids()

	for after := -1; after < len(pts); after++ {
		i, err := p.InsertPoint(after, Pt(3.3, 7.7))
		if err != nil {
			t.Fatal(err)
		}
		if i != after+1 {
			t.Errorf("inserted at %d, want %d", i, after+1)
		}
		if got := p.Points()[i]; got != Pt(3.3, 7.7) {
			t.Errorf("got %v at %d", got, i)
		}
		if err := p.RemovePoint(i); err != nil {
			t.Fatal(err)
		}
		diff(t, pts, p.Points())
		// Handles of untouched vertices keep their IDs.
		diff(t, before, ids())
	}
}

func TestPolyLineIndexErrors(t *testing.T) {
	p, err := NewPolyLine([]Point{{0, 0}, {10, 0}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.InsertPoint(-2, Pt(0, 0)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	if _, err := p.InsertPoint(2, Pt(0, 0)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	if _, err := p.InsertPoint(0, Pt(math.NaN(), 0)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	if err := p.RemovePoint(2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	if err := p.SetPoints([]Point{{math.Inf(1), 0}}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
	diff(t, []Point{{0, 0}, {10, 0}}, p.Points())
}

func TestPolyLineNearestSegment(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	closed, err := NewPolyLine(square, true)
	if err != nil {
		t.Fatal(err)
	}
	open, err := NewPolyLine(square, false)
	if err != nil {
		t.Fatal(err)
	}

	seg, dist, ok := closed.NearestSegment(Pt(5, -1))
	if !ok || seg != 0 || dist != 1 {
		t.Errorf("got (%d, %v, %t), want (0, 1, true)", seg, dist, ok)
	}
	// The closing segment only exists on closed paths.
	seg, dist, ok = closed.NearestSegment(Pt(-2, 5))
	if !ok || seg != 3 || dist != 2 {
		t.Errorf("got (%d, %v, %t), want (3, 2, true)", seg, dist, ok)
	}
	seg, dist, ok = open.NearestSegment(Pt(-2, 5))
	if !ok || seg == 3 {
		t.Errorf("got (%d, %v, %t) on an open path", seg, dist, ok)
	}

	single, err := NewPolyLine([]Point{{1, 1}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := single.NearestSegment(Pt(0, 0)); ok {
		t.Error("found a segment on a single point")
	}
}

func TestPolyLineAddPointOnSegment(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	p, err := NewPolyLine(square, true)
	if err != nil {
		t.Fatal(err)
	}
	i, err := p.AddPointOnSegment(Pt(5, -1))
	if err != nil {
		t.Fatal(err)
	}
	if i != 1 {
		t.Errorf("inserted at %d, want 1", i)
	}
	i, err = p.AddPointOnSegment(Pt(-1, 5))
	if err != nil {
		t.Fatal(err)
	}
	if i != 5 {
		t.Errorf("inserted at %d, want 5", i)
	}
	diff(t, []Point{{0, 0}, {5, -1}, {10, 0}, {10, 10}, {0, 10}, {-1, 5}}, p.Points())

	empty, err := NewPolyLine(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range []Point{{1, 2}, {3, 4}} {
		if _, err := empty.AddPointOnSegment(pt); err != nil {
			t.Fatal(err)
		}
	}
	diff(t, []Point{{1, 2}, {3, 4}}, empty.Points())
}

func TestPolyLineVertexDrag(t *testing.T) {
	p, err := NewPolyLine([]Point{{0, 0}, {10, 0}, {10, 10}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetPos(5, 5); err != nil {
		t.Fatal(err)
	}
	if err := p.SetAngle(math.Pi / 2); err != nil {
		t.Fatal(err)
	}

	var h Handle
	for _, hh := range p.Handles() {
		if hh.Role == RoleVertex && hh.Index == 1 {
			h = hh
		}
	}
	start := p.LocalToParent().MapPoint(h.Pos)
	drag(t, p, h.ID, start, start.Translate(Vec(0, 2)))

	// (0, 2) in the parent frame is (2, 0) in the rotated local frame.
	want := []Point{{0, 0}, {12, 0}, {10, 10}}
	diff(t, want, p.Points(), cmpopts.EquateApprox(0, 1e-9))
}

func TestPolyLineAddVertexDrag(t *testing.T) {
	p, err := NewPolyLine([]Point{{0, 0}, {10, 0}, {10, 10}}, true)
	if err != nil {
		t.Fatal(err)
	}
	var h Handle
	for _, hh := range p.Handles() {
		if hh.Role == RoleAddVertex && hh.Index == 0 {
			h = hh
		}
	}
	if err := p.BeginDrag(h.ID, h.Pos); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Fatalf("got %d vertices after starting the drag, want 4", p.Len())
	}
	if err := p.DragTo(Pt(5, -3)); err != nil {
		t.Fatal(err)
	}
	p.EndDrag()
	diff(t, []Point{{0, 0}, {5, -3}, {10, 0}, {10, 10}}, p.Points())
}

func TestPolyLineRemoveDraggedVertex(t *testing.T) {
	p, err := NewPolyLine([]Point{{0, 0}, {10, 0}, {10, 10}}, true)
	if err != nil {
		t.Fatal(err)
	}
	h := p.Handles()[0]
	if err := p.BeginDrag(h.ID, h.Pos); err != nil {
		t.Fatal(err)
	}
	if err := p.RemovePoint(0); err != nil {
		t.Fatal(err)
	}
	if err := p.DragTo(Pt(1, 1)); !errors.Is(err, ErrNoDrag) {
		t.Errorf("got error %v, want ErrNoDrag", err)
	}
	if !slices.Equal(p.Points(), []Point{{10, 0}, {10, 10}}) {
		t.Errorf("got points %v", p.Points())
	}
}

func TestPolyLineContainsLocal(t *testing.T) {
	tri := []Point{{0, 0}, {10, 0}, {0, 10}}
	for _, closed := range []bool{true, false} {
		p, err := NewPolyLine(tri, closed)
		if err != nil {
			t.Fatal(err)
		}
		// Open paths mask like closed ones.
		if !p.ContainsLocal(Pt(2, 2)) || p.ContainsLocal(Pt(8, 8)) {
			t.Errorf("closed=%t: wrong containment", closed)
		}
	}
	diff(t, Rect{0, 0, 10, 10}, mustPolyLine(t, tri).LocalBounds())
}

func mustPolyLine(t *testing.T, pts []Point) *PolyLine {
	t.Helper()
	p, err := NewPolyLine(pts, true)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
