package roi

import (
	"encoding/json"
	"fmt"
)

// State is a snapshot of a shape's geometry. Restoring a snapshot with
// SetState reproduces the geometry exactly.
//
// Points is nil for rectangles and ellipses and non-nil, possibly empty, for
// polylines. The JSON encoding preserves that distinction: the "points" key
// is omitted for the former and always present for the latter.
type State struct {
	Pos    Point
	Size   Size
	Angle  float64
	Points []Point
}

type jsonState struct {
	Pos    [2]float64    `json:"pos"`
	Size   [2]float64    `json:"size"`
	Angle  float64       `json:"angle"`
	Points *[][2]float64 `json:"points,omitempty"`
}

func (st State) MarshalJSON() ([]byte, error) {
	js := jsonState{
		Pos:   [2]float64{st.Pos.X, st.Pos.Y},
		Size:  [2]float64{st.Size.Width, st.Size.Height},
		Angle: st.Angle,
	}
	if st.Points != nil {
		pts := make([][2]float64, len(st.Points))
		for i, pt := range st.Points {
			pts[i] = [2]float64{pt.X, pt.Y}
		}
		js.Points = &pts
	}
	return json.Marshal(js)
}

func (st *State) UnmarshalJSON(b []byte) error {
	var js jsonState
	if err := json.Unmarshal(b, &js); err != nil {
		return fmt.Errorf("decoding state: %w", err)
	}
	*st = State{
		Pos:   Pt(js.Pos[0], js.Pos[1]),
		Size:  Sz(js.Size[0], js.Size[1]),
		Angle: js.Angle,
	}
	if js.Points != nil {
		st.Points = make([]Point, len(*js.Points))
		for i, pt := range *js.Points {
			st.Points[i] = Pt(pt[0], pt[1])
		}
	}
	return nil
}

// Clone returns a deep copy of st.
func (st State) Clone() State {
	if st.Points != nil {
		st.Points = append(make([]Point, 0, len(st.Points)), st.Points...)
	}
	return st
}

// Equal reports whether two snapshots are identical, including whether they
// carry points.
func (st State) Equal(o State) bool {
	if st.Pos != o.Pos || st.Size != o.Size || st.Angle != o.Angle {
		return false
	}
	if (st.Points == nil) != (o.Points == nil) || len(st.Points) != len(o.Points) {
		return false
	}
	for i := range st.Points {
		if st.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}

// NewShapeFromState creates a shape of the given kind and restores st on it.
func NewShapeFromState(kind Kind, st State, opts ...Option) (Shape, error) {
	var s Shape
	var err error
	switch kind {
	case KindRect:
		s, err = NewRectROI(Point{}, Size{}, opts...)
	case KindEllipse:
		s, err = NewEllipseROI(Point{}, Size{}, opts...)
	case KindPolyLine:
		s, err = NewPolyLine(nil, true, opts...)
	default:
		return nil, fmt.Errorf("shape kind %v: %w", kind, ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	if err := s.SetState(st); err != nil {
		return nil, err
	}
	return s, nil
}
