// Package tui implements an interactive terminal viewer for regions of
// interest over a 2D array.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"honnef.co/go/roi"
)

var planeAxes = [2]int{0, 1}

// session holds the shape being edited and the region extracted from it.
// The region is recomputed whenever the shape notifies a change.
type session struct {
	src   *roi.Array
	ex    roi.Extractor
	opts  []roi.Option
	log   *slog.Logger
	saved roi.State

	shape       roi.Shape
	unsubscribe func()

	region *roi.Region
	err    error
}

func (s *session) setShape(sh roi.Shape) {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.shape = sh
	s.saved = sh.State()
	s.unsubscribe = sh.Subscribe(func(roi.Shape) { s.extract() })
	s.extract()
}

func (s *session) extract() {
	s.region, s.err = s.ex.Extract(s.src, planeAxes, roi.Identity, s.shape)
	if s.err != nil {
		s.log.Debug("extraction failed", "kind", s.shape.Kind().String(), "err", s.err)
	}
}

type Model struct {
	s *session

	keys keyMap
	help help.Model

	width  int
	height int

	// active indexes the shape's handles.
	active int
	status string
}

// New returns a viewer for src, which must have shape (width, height) or
// (width, height, channels). A nil shape starts with a rectangle covering
// the middle of the array.
func New(src *roi.Array, shape roi.Shape, ex roi.Extractor, log *slog.Logger, opts ...roi.Option) (Model, error) {
	if src == nil || (src.Rank() != 2 && src.Rank() != 3) {
		return Model{}, fmt.Errorf("tui: need a 2D or 3D array: %w", roi.ErrInvalidArgument)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if shape == nil {
		var err error
		shape, err = NewShape(src, roi.KindRect, opts...)
		if err != nil {
			return Model{}, err
		}
	}
	m := Model{
		s: &session{
			src:  src,
			ex:   ex,
			opts: opts,
			log:  log,
		},
		keys:   defaultKeys(),
		help:   help.New(),
		status: "roiview ready",
	}
	m.s.setShape(shape)
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// NewShape returns a shape of the given kind covering the middle of src.
func NewShape(src *roi.Array, kind roi.Kind, opts ...roi.Option) (roi.Shape, error) {
	w, h := float64(src.Dim(0)), float64(src.Dim(1))
	r, err := roi.NewRectROI(roi.Pt(math.Floor(w/4), math.Floor(h/4)), roi.Sz(math.Ceil(w/2), math.Ceil(h/2)), opts...)
	if err != nil {
		return nil, err
	}
	if kind == roi.KindRect {
		return r, nil
	}
	return convert(r, kind, opts)
}

// Shape returns the shape being edited.
func (m Model) Shape() roi.Shape { return m.s.shape }

// Region returns the most recent extraction and its error.
func (m Model) Region() (*roi.Region, error) { return m.s.region, m.s.err }

// Close stops tracking the shape.
func (m Model) Close() {
	if m.s.unsubscribe != nil {
		m.s.unsubscribe()
		m.s.unsubscribe = nil
	}
}

func (m Model) activeHandle() (roi.Handle, bool) {
	hs := m.s.shape.Handles()
	if len(hs) == 0 {
		return roi.Handle{}, false
	}
	return hs[m.active%len(hs)], true
}

// Synthetic returns a w×h array of concentric rings, for viewing without an
// input image.
func Synthetic(w, h int) (*roi.Array, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("synthetic image of %d×%d cells: %w", w, h, roi.ErrInvalidArgument)
	}
	a, err := roi.NewArray(w, h)
	if err != nil {
		return nil, err
	}
	cx, cy := float64(w)/2, float64(h)/2
	for x := range w {
		for y := range h {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			a.Set(math.Cos(d/2)+float64(x)/float64(w), x, y)
		}
	}
	return a, nil
}

// convert rebuilds sh as a shape of another kind covering the same local
// bounds. Shapes without area become a small square.
func convert(sh roi.Shape, kind roi.Kind, opts []roi.Option) (roi.Shape, error) {
	lb := sh.LocalBounds()
	origin := sh.LocalToParent().MapPoint(lb.Origin())
	size := lb.Size()
	if size.Width <= 0 || size.Height <= 0 {
		size = roi.Sz(4, 4)
	}
	var (
		out roi.Shape
		err error
	)
	switch kind {
	case roi.KindRect:
		out, err = roi.NewRectROI(origin, size, opts...)
	case roi.KindEllipse:
		out, err = roi.NewEllipseROI(origin, size, opts...)
	case roi.KindPolyLine:
		corners := roi.NewRectFromOrigin(roi.Pt(0, 0), size).Corners()
		var p *roi.PolyLine
		p, err = roi.NewPolyLine(corners[:], true, opts...)
		if err == nil {
			err = p.SetPos(origin.X, origin.Y)
		}
		out = p
	default:
		return nil, fmt.Errorf("tui: unknown kind %v: %w", kind, roi.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	if err := out.SetAngle(sh.Angle()); err != nil {
		return nil, err
	}
	return out, nil
}

func nextKind(k roi.Kind) roi.Kind {
	switch k {
	case roi.KindRect:
		return roi.KindEllipse
	case roi.KindEllipse:
		return roi.KindPolyLine
	default:
		return roi.KindRect
	}
}

func isExpected(err error) bool {
	return errors.Is(err, roi.ErrDegenerateShape) || errors.Is(err, roi.ErrOutOfBounds)
}
