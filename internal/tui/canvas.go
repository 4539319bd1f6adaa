package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// shades maps normalized values to characters, darkest first.
const shades = " .:-=+*#%@"

type mark uint8

const (
	markNone mark = iota
	markOutline
	markHandle
	markActive
	markMasked
)

// canvas is a grid of array cells, each drawn two characters wide so that
// cells come out roughly square.
type canvas struct {
	w, h  int
	shade [][]byte
	marks [][]mark
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h}
	c.shade = make([][]byte, h)
	c.marks = make([][]mark, h)
	for y := range h {
		c.shade[y] = make([]byte, w)
		c.marks[y] = make([]mark, w)
		for x := range w {
			c.shade[y][x] = ' '
		}
	}
	return c
}

// fill shades every cell from at, stretched over the values' range.
func (c *canvas) fill(at func(x, y int) float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := range c.h {
		for x := range c.w {
			v := at(x, y)
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	if !(hi > lo) {
		return
	}
	n := float64(len(shades) - 1)
	for y := range c.h {
		for x := range c.w {
			i := int((at(x, y)-lo)/(hi-lo)*n + 0.5)
			c.shade[y][x] = shades[i]
		}
	}
}

func (c *canvas) set(x, y int, m mark) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	if m > c.marks[y][x] || c.marks[y][x] == markMasked {
		c.marks[y][x] = m
	}
}

// line marks the cells along a line using Bresenham.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0, markOutline)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) cell(x, y int) string {
	s := c.shade[y][x]
	switch c.marks[y][x] {
	case markOutline:
		return outlineStyle.Render(string([]byte{s, s}))
	case markHandle:
		return handleStyle.Render("<>")
	case markActive:
		return activeStyle.Render("<>")
	case markMasked:
		return "  "
	default:
		return string([]byte{s, s})
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	var sb strings.Builder
	for y := range c.h {
		sb.Reset()
		for x := range c.w {
			sb.WriteString(c.cell(x, y))
		}
		lines[y] = sb.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
