package roi

import (
	"fmt"
	"math"
)

// dragState is the snapshot taken at BeginDrag. Every DragTo recomputes the
// geometry from it, never from the previous DragTo.
type dragState struct {
	active bool
	handle Handle

	// start and last are in the parent frame.
	start Point
	last  Point
	moved bool

	pos   Point
	size  Size
	angle float64

	toLocal Affine
	// pivot and rest are the handle's pivot and position in the parent
	// frame.
	pivot Point
	rest  Point
	// turn is the unwrapped rotation of the previous DragTo.
	turn float64

	// vertex is the dragged polyline vertex in the local frame.
	vertex Point
}

func (d *dragState) repeated(pt Point) bool {
	return d.moved && pt == d.last
}

func (d *dragState) record(pt Point) {
	d.last = pt
	d.moved = true
}

func (g *geometry) beginDrag(h Handle, start Point) error {
	if !start.IsFinite() {
		return fmt.Errorf("BeginDrag(%d, %v): %w", h.ID, start, ErrInvalidArgument)
	}
	toParent := g.LocalToParent()
	toLocal, err := toParent.Invert()
	if err != nil {
		return fmt.Errorf("BeginDrag(%d): %w", h.ID, err)
	}
	g.drag = dragState{
		active:  true,
		handle:  h,
		start:   start,
		last:    start,
		pos:     g.pos,
		size:    g.size,
		angle:   g.angle,
		toLocal: toLocal,
		pivot:   toParent.MapPoint(h.Pivot.Scale(g.size)),
		rest:    toParent.MapPoint(h.Pos),
	}
	return nil
}

func (g *geometry) checkDragTo(pt Point) error {
	if !g.drag.active {
		return ErrNoDrag
	}
	if !pt.IsFinite() {
		return fmt.Errorf("DragTo(%v): %w", pt, ErrInvalidArgument)
	}
	return nil
}

func (g *geometry) EndDrag() {
	g.drag = dragState{}
}

func (g *geometry) Dragging() bool {
	return g.drag.active
}

// dragGeometry computes the geometry resulting from moving the dragged
// handle of a rectangle or ellipse to pt.
func (g *geometry) dragGeometry(pt Point) (Point, Size, float64) {
	d := &g.drag
	h := d.handle
	switch h.Role {
	case RoleTranslate:
		return d.pos.Translate(pt.Sub(d.start)), d.size, d.angle

	case RoleScale:
		local := d.toLocal.MapPoint(pt)
		pivot := h.Pivot.Scale(d.size)
		size := d.size
		if h.Anchor.X != h.Pivot.X {
			size.Width = max((local.X-pivot.X)/(h.Anchor.X-h.Pivot.X), g.opts.minSize.Width)
		}
		if h.Anchor.Y != h.Pivot.Y {
			size.Height = max((local.Y-pivot.Y)/(h.Anchor.Y-h.Pivot.Y), g.opts.minSize.Height)
		}
		return posForPivot(d.pivot, h.Pivot.Scale(size), d.angle), size, d.angle

	case RoleRotate:
		angle := d.angle + g.dragTurn(pt)
		return posForPivot(d.pivot, h.Pivot.Scale(d.size), angle), d.size, angle

	case RoleScaleRotate:
		angle := d.angle + g.dragTurn(pt)
		size := d.size
		if r := d.rest.Sub(d.pivot).Hypot(); r > 0 {
			f := pt.Sub(d.pivot).Hypot() / r
			size = Size{
				Width:  max(d.size.Width*f, g.opts.minSize.Width),
				Height: max(d.size.Height*f, g.opts.minSize.Height),
			}
		}
		return posForPivot(d.pivot, h.Pivot.Scale(size), angle), size, angle

	default:
		return g.pos, g.size, g.angle
	}
}

// dragTurn returns the rotation about the drag pivot that carries the
// handle's rest position towards pt. The result is unwrapped against the
// previous call, so dragging around the pivot several times accumulates
// whole turns instead of jumping back at ±π.
func (g *geometry) dragTurn(pt Point) float64 {
	d := &g.drag
	if pt == d.pivot {
		return d.turn
	}
	raw := pt.Sub(d.pivot).Angle() - d.rest.Sub(d.pivot).Angle()
	k := math.Round((d.turn - raw) / (2 * math.Pi))
	d.turn = raw + 2*math.Pi*k
	return d.turn
}
