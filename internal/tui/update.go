package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"honnef.co/go/roi"
)

const rotateStep = 15 * math.Pi / 180

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		sh := m.s.shape
		var err error
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			err = sh.Translate(roi.Vec(0, -1))
		case key.Matches(msg, m.keys.Down):
			err = sh.Translate(roi.Vec(0, 1))
		case key.Matches(msg, m.keys.Left):
			err = sh.Translate(roi.Vec(-1, 0))
		case key.Matches(msg, m.keys.Right):
			err = sh.Translate(roi.Vec(1, 0))
		case key.Matches(msg, m.keys.NextHandle):
			if n := len(sh.Handles()); n > 0 {
				m.active = (m.active + 1) % n
				h, _ := m.activeHandle()
				m.status = fmt.Sprintf("handle %d: %v", h.ID, h.Role)
			}
		case key.Matches(msg, m.keys.DragLeft):
			err = m.dragActive(roi.Vec(-1, 0))
		case key.Matches(msg, m.keys.DragDown):
			err = m.dragActive(roi.Vec(0, 1))
		case key.Matches(msg, m.keys.DragUp):
			err = m.dragActive(roi.Vec(0, -1))
		case key.Matches(msg, m.keys.DragRight):
			err = m.dragActive(roi.Vec(1, 0))
		case key.Matches(msg, m.keys.RotateCW):
			err = sh.Rotate(rotateStep, sh.LocalBounds().Center())
		case key.Matches(msg, m.keys.RotateCCW):
			err = sh.Rotate(-rotateStep, sh.LocalBounds().Center())
		case key.Matches(msg, m.keys.CycleKind):
			var next roi.Shape
			next, err = convert(sh, nextKind(sh.Kind()), m.s.opts)
			if err == nil {
				m.s.setShape(next)
				m.active = 0
				m.status = "shape: " + next.Kind().String()
			}
		case key.Matches(msg, m.keys.InsertVertex):
			err = m.insertVertex()
		case key.Matches(msg, m.keys.RemoveVertex):
			if p, ok := sh.(*roi.PolyLine); ok && p.Len() > 0 {
				err = p.RemovePoint(p.Len() - 1)
				m.status = fmt.Sprintf("%d vertices", p.Len())
			}
		case key.Matches(msg, m.keys.Restore):
			err = sh.SetState(m.s.saved)
			m.status = "restored"
		case key.Matches(msg, m.keys.Frame):
			m.s.ex.Frame = (m.s.ex.Frame + 1) % 2
			m.s.extract()
			m.status = "frame: " + m.s.ex.Frame.String()
		case key.Matches(msg, m.keys.Interp):
			m.s.ex.Interpolation = (m.s.ex.Interpolation + 1) % 2
			m.s.extract()
			m.status = "interpolation: " + m.s.ex.Interpolation.String()
		}
		if err != nil {
			m.status = err.Error()
		}
	}
	return m, nil
}

// dragActive drags the active handle by delta, in array cells, as a
// complete BeginDrag, DragTo, EndDrag sequence.
func (m *Model) dragActive(delta roi.Vec2) error {
	h, ok := m.activeHandle()
	if !ok {
		return nil
	}
	sh := m.s.shape
	start := sh.LocalToParent().MapPoint(h.Pos)
	if err := sh.BeginDrag(h.ID, start); err != nil {
		return err
	}
	defer sh.EndDrag()
	if err := sh.DragTo(start.Translate(delta)); err != nil {
		return err
	}
	m.status = fmt.Sprintf("%v %v", h.Role, sh.State().Pos)
	return nil
}

// insertVertex inserts a polyline vertex. On a vertex handle the new vertex
// splits the following segment, otherwise it goes on the segment nearest to
// the active handle.
func (m *Model) insertVertex() error {
	p, ok := m.s.shape.(*roi.PolyLine)
	if !ok {
		m.status = "not a polyline"
		return nil
	}
	h, ok := m.activeHandle()
	var (
		i   int
		err error
	)
	switch {
	case ok && h.Role == roi.RoleVertex:
		if l, ok := p.Segment(h.Index); ok {
			i, err = p.InsertPoint(h.Index, l.Midpoint())
		} else {
			i, err = p.AddPointOnSegment(h.Pos.Translate(roi.Vec(1, 1)))
		}
	case ok:
		i, err = p.AddPointOnSegment(h.Pos)
	default:
		i, err = p.AddPointOnSegment(roi.Pt(0, 0))
	}
	if err != nil {
		return err
	}
	m.status = fmt.Sprintf("inserted vertex %d", i)
	return nil
}
