package roi

import (
	"fmt"
	"math"
)

// Interpolation selects how the extractor reads between array cells.
type Interpolation uint8

const (
	// Bilinear blends the four cells nearest to the sample position. Cells
	// outside the array contribute zero, so values fade towards the edge
	// instead of being clamped.
	Bilinear Interpolation = iota
	// Nearest reads the cell containing the sample position.
	Nearest
)

func (m Interpolation) String() string {
	switch m {
	case Bilinear:
		return "bilinear"
	case Nearest:
		return "nearest"
	default:
		return fmt.Sprintf("Interpolation(%d)", uint8(m))
	}
}

// ParseInterpolation parses the names returned by [Interpolation.String].
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "bilinear":
		return Bilinear, nil
	case "nearest":
		return Nearest, nil
	default:
		return 0, fmt.Errorf("interpolation %q: %w", s, ErrInvalidArgument)
	}
}

// tap is one source cell contributing to an output cell.
type tap struct {
	off int
	w   float64
}

// grid describes the spatial plane of the source array.
type grid struct {
	w, h   int
	sx, sy int
}

// samplePlan lists the taps of every output cell of a spatial plane. It is
// computed once and applied to every position along the other axes.
type samplePlan struct {
	start []int
	taps  []tap
}

func newSamplePlan(cells int) *samplePlan {
	return &samplePlan{
		start: make([]int, 1, cells+1),
		taps:  make([]tap, 0, cells),
	}
}

// skip adds an output cell without taps, which reads as zero.
func (pl *samplePlan) skip() {
	pl.start = append(pl.start, len(pl.taps))
}

// cell adds an output cell that reads a single source cell.
func (pl *samplePlan) cell(off int) {
	pl.taps = append(pl.taps, tap{off: off, w: 1})
	pl.start = append(pl.start, len(pl.taps))
}

// add adds an output cell that samples the array at p, a continuous
// position in index space where cell (i, j) covers [i, i+1) × [j, j+1).
func (pl *samplePlan) add(p Point, g grid, mode Interpolation) {
	switch mode {
	case Nearest:
		x, _ := splitCoord(p.X)
		y, _ := splitCoord(p.Y)
		if x >= 0 && x < g.w && y >= 0 && y < g.h {
			pl.taps = append(pl.taps, tap{off: x*g.sx + y*g.sy, w: 1})
		}
	default:
		// Cell values sit at cell centers.
		x0, tx := splitCoord(p.X - 0.5)
		y0, ty := splitCoord(p.Y - 0.5)
		wx := [2]float64{1 - tx, tx}
		wy := [2]float64{1 - ty, ty}
		for dx := range 2 {
			x := x0 + dx
			if wx[dx] == 0 || x < 0 || x >= g.w {
				continue
			}
			for dy := range 2 {
				y := y0 + dy
				if wy[dy] == 0 || y < 0 || y >= g.h {
					continue
				}
				pl.taps = append(pl.taps, tap{off: x*g.sx + y*g.sy, w: wx[dx] * wy[dy]})
			}
		}
	}
	pl.start = append(pl.start, len(pl.taps))
}

// sample evaluates output cell k against src, starting at offset base.
func (pl *samplePlan) sample(k int, src []float64, base int) float64 {
	taps := pl.taps[pl.start[k]:pl.start[k+1]]
	if len(taps) == 0 {
		return 0
	}
	v := taps[0].w * src[base+taps[0].off]
	for _, t := range taps[1:] {
		v += t.w * src[base+t.off]
	}
	return v
}

// splitCoord splits f into its floor and fractional part. Fractions within
// indexSnap of 0 or 1 are snapped, so that aligned sampling reads single
// cells exactly.
func splitCoord(f float64) (int, float64) {
	f = clampIndex(f)
	i := math.Floor(f)
	t := f - i
	switch {
	case t < indexSnap:
		t = 0
	case t > 1-indexSnap:
		i++
		t = 0
	}
	return int(i), t
}
