package tui

import (
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"honnef.co/go/roi"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func synthetic(t *testing.T) *roi.Array {
	t.Helper()
	src, err := Synthetic(20, 10)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func newModel(t *testing.T) Model {
	t.Helper()
	m, err := New(synthetic(t), nil, roi.Extractor{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)
	return m
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNew(t *testing.T) {
	m := newModel(t)
	if d := cmp.Diff(roi.State{Pos: roi.Pt(5, 2), Size: roi.Sz(10, 5)}, m.Shape().State()); d != "" {
		t.Error(d)
	}
	rgn, err := m.Region()
	if err != nil {
		t.Fatal(err)
	}
	if rgn.Bounds != image.Rect(5, 2, 15, 7) {
		t.Errorf("got bounds %v", rgn.Bounds)
	}
	if _, err := New(nil, nil, roi.Extractor{}, nil); !errors.Is(err, roi.ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", err)
	}
}

func TestSyntheticRejectsBadSize(t *testing.T) {
	for _, sz := range [][2]int{{-1, 10}, {20, 0}} {
		if _, err := Synthetic(sz[0], sz[1]); !errors.Is(err, roi.ErrInvalidArgument) {
			t.Errorf("%v: got error %v, want ErrInvalidArgument", sz, err)
		}
	}
}

func TestNewShape(t *testing.T) {
	src := synthetic(t)
	for _, k := range []roi.Kind{roi.KindRect, roi.KindEllipse, roi.KindPolyLine} {
		sh, err := NewShape(src, k)
		if err != nil {
			t.Fatal(err)
		}
		if sh.Kind() != k {
			t.Errorf("got %v, want %v", sh.Kind(), k)
		}
		if d := cmp.Diff(roi.Rect{X0: 5, Y0: 2, X1: 15, Y1: 7}, sh.LocalBounds().Translate(roi.Vec2(sh.Pos()))); d != "" {
			t.Errorf("%v: %s", k, d)
		}
	}
}

func TestMoveReextracts(t *testing.T) {
	m := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.Shape().Pos(); got != roi.Pt(7, 1) {
		t.Errorf("got pos %v, want (7, 1)", got)
	}
	rgn, err := m.Region()
	if err != nil {
		t.Fatal(err)
	}
	if rgn.Bounds != image.Rect(7, 1, 17, 6) {
		t.Errorf("got bounds %v", rgn.Bounds)
	}

	// Moving the shape off the array is reported, not fatal.
	for range 20 {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if _, err := m.Region(); !errors.Is(err, roi.ErrOutOfBounds) {
		t.Errorf("got error %v, want ErrOutOfBounds", err)
	}
	m = press(t, m, runes("u"))
	if _, err := m.Region(); err != nil {
		t.Errorf("restoring: %s", err)
	}
}

func TestDragHandle(t *testing.T) {
	m := newModel(t)
	// The first handle of a rectangle scales from its far corner.
	h, ok := m.activeHandle()
	if !ok || h.Role != roi.RoleScale {
		t.Fatalf("got active handle %+v", h)
	}
	m = press(t, m, runes("l"), runes("j"))
	if got := m.Shape().Size(); got != roi.Sz(11, 6) {
		t.Errorf("got size %v, want 11×6", got)
	}
	if m.Shape().Dragging() {
		t.Error("drag left open")
	}
}

func TestRotate(t *testing.T) {
	m := newModel(t)
	center := m.Shape().LocalToParent().MapPoint(m.Shape().LocalBounds().Center())
	m = press(t, m, runes("r"), runes("r"), runes("R"))
	if d := math.Abs(m.Shape().Angle() - rotateStep); d > 1e-12 {
		t.Errorf("got angle %v, want %v", m.Shape().Angle(), rotateStep)
	}
	got := m.Shape().LocalToParent().MapPoint(m.Shape().LocalBounds().Center())
	if got.Sub(center).Hypot() > 1e-9 {
		t.Errorf("center moved from %v to %v", center, got)
	}
}

func TestCycleKind(t *testing.T) {
	m := newModel(t)
	want := []roi.Kind{roi.KindEllipse, roi.KindPolyLine, roi.KindRect}
	for _, k := range want {
		m = press(t, m, runes("s"))
		if m.Shape().Kind() != k {
			t.Fatalf("got %v, want %v", m.Shape().Kind(), k)
		}
		if _, err := m.Region(); err != nil {
			t.Errorf("%v: %s", k, err)
		}
	}

	m = press(t, m, runes("s"), runes("s"))
	p, ok := m.Shape().(*roi.PolyLine)
	if !ok {
		t.Fatalf("got %T", m.Shape())
	}
	if p.Pos() != roi.Pt(5, 2) || p.Len() != 4 {
		t.Errorf("got polyline at %v with %d points", p.Pos(), p.Len())
	}

	// Inserting on a vertex handle splits the following segment.
	m = press(t, m, runes("i"))
	if p.Len() != 5 {
		t.Errorf("got %d points after inserting, want 5", p.Len())
	}
	m = press(t, m, runes("x"), runes("x"))
	if p.Len() != 3 {
		t.Errorf("got %d points after removing two, want 3", p.Len())
	}
	m = press(t, m, runes("u"))
	if p.Len() != 4 {
		t.Errorf("got %d points after restoring, want 4", p.Len())
	}
}

func TestToggles(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("f"), runes("n"))
	if m.s.ex.Frame != roi.FrameShape || m.s.ex.Interpolation != roi.Nearest {
		t.Errorf("got extractor %+v", m.s.ex)
	}
	m = press(t, m, runes("?"))
	if !m.help.ShowAll {
		t.Error("full help not shown")
	}
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quitting returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quitting did not return tea.Quit")
	}
}

func TestView(t *testing.T) {
	m := newModel(t)
	if m.View() != "" {
		t.Error("rendered before knowing the window size")
	}
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	v := m.View()
	for _, s := range []string{"roiview", "rect", "bounds"} {
		if !strings.Contains(v, s) {
			t.Errorf("view does not contain %q", s)
		}
	}
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(5, 5)
	c.line(0, 0, 4, 4)
	c.line(4, 0, 4, 4)
	for i := range 5 {
		if c.marks[i][i] != markOutline || c.marks[i][4] != markOutline {
			t.Errorf("row %d not marked", i)
		}
	}
	if c.marks[0][1] != markNone {
		t.Error("marked a cell off the lines")
	}
	c.set(-1, 7, markHandle)
}
