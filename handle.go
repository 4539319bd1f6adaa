package roi

import (
	"fmt"
	"math"
)

// HandleID identifies a handle within its shape. IDs are never reused by a
// shape, so an ID held by a caller either resolves to the same handle or to
// nothing.
type HandleID int

// HandleRole determines what dragging a handle does to its shape.
type HandleRole uint8

const (
	// RoleScale resizes the shape, keeping the handle's pivot fixed.
	RoleScale HandleRole = iota
	// RoleScaleRotate scales uniformly and rotates about the pivot.
	RoleScaleRotate
	// RoleRotate rotates the shape about the pivot.
	RoleRotate
	// RoleTranslate moves the whole shape.
	RoleTranslate
	// RoleVertex moves one polyline vertex.
	RoleVertex
	// RoleAddVertex sits on a polyline segment; dragging it inserts a vertex.
	RoleAddVertex
)

func (r HandleRole) String() string {
	switch r {
	case RoleScale:
		return "scale"
	case RoleScaleRotate:
		return "scale-rotate"
	case RoleRotate:
		return "rotate"
	case RoleTranslate:
		return "translate"
	case RoleVertex:
		return "vertex"
	case RoleAddVertex:
		return "add-vertex"
	default:
		return fmt.Sprintf("HandleRole(%d)", uint8(r))
	}
}

// Handle is a control point of a shape. Handles are values owned by their
// shape's handle table; mutating a Handle value has no effect on the shape.
// Use the shape's drag methods instead.
type Handle struct {
	ID   HandleID
	Role HandleRole
	// Pos is the handle's current position in the shape's local frame.
	Pos Point
	// Anchor and Pivot are fractions of the shape's size for rectangles and
	// ellipses. Anchor is where the handle sits, Pivot is the point that
	// stays fixed while it is dragged.
	Anchor Point
	Pivot  Point
	// Index is the vertex index of RoleVertex handles and the segment index
	// of RoleAddVertex handles. It is -1 for other roles.
	Index int
}

// handleTable holds the handles of rectangles and ellipses.
type handleTable struct {
	next    HandleID
	handles []Handle
}

func (t *handleTable) newID() HandleID {
	t.next++
	return t.next
}

func (t *handleTable) add(role HandleRole, anchor, pivot Point) HandleID {
	id := t.newID()
	t.handles = append(t.handles, Handle{
		ID:     id,
		Role:   role,
		Anchor: anchor,
		Pivot:  pivot,
		Index:  -1,
	})
	return id
}

func (t *handleTable) find(id HandleID) (int, bool) {
	for i, h := range t.handles {
		if h.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (t *handleTable) remove(id HandleID) bool {
	i, ok := t.find(id)
	if !ok {
		return false
	}
	t.handles = append(t.handles[:i], t.handles[i+1:]...)
	return true
}

// resolved returns the table's handles with Pos computed for size.
func (t *handleTable) resolved(size Size) []Handle {
	out := make([]Handle, len(t.handles))
	for i, h := range t.handles {
		h.Pos = h.Anchor.Scale(size)
		out[i] = h
	}
	return out
}

func validHandleRole(role HandleRole) bool {
	switch role {
	case RoleScale, RoleScaleRotate, RoleRotate, RoleTranslate:
		return true
	}
	return false
}

// ellipseScaleAnchor places the ellipse's scale handle on the ellipse at 45°.
var ellipseScaleAnchor = Pt(0.5+0.5*math.Sqrt2/2, 0.5+0.5*math.Sqrt2/2)
