package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"honnef.co/go/roi"
)

const panelWidth = 36

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight := 1
	footerHeight := 2
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)

	header := titleStyle.Render(" roiview ─ " + m.s.shape.Kind().String() + " ")
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	// Each cell is two characters wide.
	cw := min(m.s.src.Dim(0), max(1, (contentWidth-panelWidth-1)/2))
	ch := min(m.s.src.Dim(1), contentHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSource(cw, ch), " ", m.renderPanel(contentHeight))

	status := dimStyle.Render(" " + m.status + " ")
	footer := lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func planeValue(a *roi.Array, x, y int) float64 {
	if a.Rank() == 3 {
		return a.At(x, y, 0)
	}
	return a.At(x, y)
}

func cellOf(pt roi.Point) (int, int) {
	return int(math.Floor(pt.X)), int(math.Floor(pt.Y))
}

// renderSource draws the source array with the shape's outline and handles.
func (m Model) renderSource(w, h int) string {
	c := newCanvas(w, h)
	c.fill(func(x, y int) float64 { return planeValue(m.s.src, x, y) })

	sh := m.s.shape
	aff := sh.LocalToParent()
	path := sh.BoundaryPath()
	for i := range path {
		if i == len(path)-1 && !sh.Closed() {
			break
		}
		x0, y0 := cellOf(aff.MapPoint(path[i]))
		x1, y1 := cellOf(aff.MapPoint(path[(i+1)%len(path)]))
		c.line(x0, y0, x1, y1)
	}
	active, _ := m.activeHandle()
	for _, hd := range sh.Handles() {
		x, y := cellOf(aff.MapPoint(hd.Pos))
		if hd.ID == active.ID {
			c.set(x, y, markActive)
		} else {
			c.set(x, y, markHandle)
		}
	}
	return c.String()
}

// renderPanel draws the extracted region and the shape's state.
func (m Model) renderPanel(height int) string {
	sh := m.s.shape
	st := sh.State()
	lines := []string{
		titleStyle.Render("region"),
		fmt.Sprintf("pos    %v", st.Pos),
		fmt.Sprintf("size   %v", st.Size),
		fmt.Sprintf("angle  %.1f°", st.Angle*180/math.Pi),
		fmt.Sprintf("%s / %s", m.s.ex.Frame, m.s.ex.Interpolation),
	}
	if st.Points != nil {
		lines = append(lines, fmt.Sprintf("points %d", len(st.Points)))
	}

	rgn, err := m.s.region, m.s.err
	switch {
	case err != nil && isExpected(err):
		lines = append(lines, dimStyle.Render(err.Error()))
	case err != nil:
		lines = append(lines, errStyle.Render(err.Error()))
	default:
		lines = append(lines,
			fmt.Sprintf("bounds %v", rgn.Bounds),
			fmt.Sprintf("pad    %v %v", rgn.Padding.Before, rgn.Padding.After),
		)
		n0, n1 := rgn.Size()
		w := min(n0, (panelWidth-4)/2)
		h := min(n1, max(1, height-len(lines)-2))
		c := newCanvas(w, h)
		c.fill(func(x, y int) float64 { return planeValue(rgn.Data, x, y) })
		for x := range w {
			for y := range h {
				if !rgn.Inside(x, y) {
					c.set(x, y, markMasked)
				}
			}
		}
		lines = append(lines, c.String())
	}
	return boxStyle.Width(panelWidth).MaxHeight(height).Render(strings.Join(lines, "\n"))
}
