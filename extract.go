package roi

import (
	"fmt"
	"image"
)

// Frame selects the grid of the extracted region.
type Frame uint8

const (
	// FrameArray aligns output cells with the source array's cells. The
	// output covers the region's bounding box in index space, clipped to the
	// array, and reads cells without interpolation.
	FrameArray Frame = iota
	// FrameShape aligns output cells with the shape's own axes, one output
	// cell per array cell length along each axis. Rotated regions come out
	// upright. Samples are interpolated and zero beyond the array. The
	// output is cropped to the part of the shape that can reach the array.
	FrameShape
)

func (f Frame) String() string {
	switch f {
	case FrameArray:
		return "array"
	case FrameShape:
		return "shape"
	default:
		return fmt.Sprintf("Frame(%d)", uint8(f))
	}
}

// ParseFrame parses the names returned by [Frame.String].
func ParseFrame(s string) (Frame, error) {
	switch s {
	case "array":
		return FrameArray, nil
	case "shape":
		return FrameShape, nil
	default:
		return 0, fmt.Errorf("frame %q: %w", s, ErrInvalidArgument)
	}
}

// Padding is the number of rows and columns by which a region's bounds
// extend past the array, before and after the valid range, along each
// spatial axis.
type Padding struct {
	Before [2]int
	After  [2]int
}

// Region is the result of an extraction.
type Region struct {
	// Data has the rank of the source array. Its two spatial axes hold the
	// region; all other axes are copied from the source.
	Data *Array
	Axes [2]int

	// Bounds is the region's bounding box in array index space, rounded
	// outward. Clipped is Bounds intersected with the array.
	Bounds  image.Rectangle
	Clipped image.Rectangle
	Padding Padding

	// Mapping maps output index space to array index space. The center of
	// output cell (i, j) is sampled at Mapping applied to (i+0.5, j+0.5).
	Mapping Affine

	// Mask reports for every spatial output cell, at i*n1+j, whether the
	// cell lies inside the shape. Cells outside are zero.
	Mask []bool
}

// Empty reports whether the region holds no cells.
func (r *Region) Empty() bool {
	return r.Data == nil || r.Data.Len() == 0
}

// Size returns the lengths of the region's spatial axes.
func (r *Region) Size() (n0, n1 int) {
	if r.Data == nil {
		return 0, 0
	}
	return r.Data.Dim(r.Axes[0]), r.Data.Dim(r.Axes[1])
}

// Inside reports whether spatial output cell (i, j) lies inside the shape.
func (r *Region) Inside(i, j int) bool {
	_, n1 := r.Size()
	return r.Mask[i*n1+j]
}

// SamplePoint returns the array index position sampled for spatial output
// cell (i, j).
func (r *Region) SamplePoint(i, j int) Point {
	return r.Mapping.MapPoint(Pt(float64(i)+0.5, float64(j)+0.5))
}

// Extractor reads the part of an array covered by a shape. The zero value
// interpolates bilinearly in the array frame.
type Extractor struct {
	Interpolation Interpolation
	Frame         Frame
}

// Extract is shorthand for Extractor{}.Extract.
func Extract(src *Array, axes [2]int, arrayToScene Affine, shape Shape) (*Region, error) {
	return Extractor{}.Extract(src, axes, arrayToScene, shape)
}

// ExtractFrom is shorthand for Extractor{}.ExtractFrom.
func ExtractFrom(src DataSource, axes [2]int, shape Shape) (*Region, error) {
	return Extractor{}.ExtractFrom(src, axes, shape)
}

// ExtractFrom extracts from a data source, placed in the scene by its
// LocalToScene transform if it implements [SceneTransformer].
func (ex Extractor) ExtractFrom(src DataSource, axes [2]int, shape Shape) (*Region, error) {
	if src == nil {
		return nil, fmt.Errorf("nil data source: %w", ErrInvalidArgument)
	}
	aff := Identity
	if st, ok := src.(SceneTransformer); ok {
		aff = st.LocalToScene()
	}
	return ex.Extract(src.Array(), axes, aff, shape)
}

// Extract samples src inside shape. axes names the two axes of src that
// form the plane the shape lives in; the shape's x axis runs along axes[0].
// arrayToScene maps array index space, where cell (i, j) covers
// [i, i+1) × [j, j+1), to the scene that the shape is placed in.
//
// Cells outside the shape are zero. The source is never modified, and
// repeated calls with the same inputs produce identical output.
//
// Invalid arguments and singular transforms return a nil region. Shapes
// without area and regions that miss the array entirely return an empty
// region along with [ErrDegenerateShape] or [ErrOutOfBounds].
func (ex Extractor) Extract(src *Array, axes [2]int, arrayToScene Affine, shape Shape) (*Region, error) {
	if src == nil || shape == nil {
		return nil, fmt.Errorf("nil array or shape: %w", ErrInvalidArgument)
	}
	if err := checkAxes(src, axes); err != nil {
		return nil, err
	}
	if degenerate(shape) {
		Logger().Debug("degenerate shape", "kind", shape.Kind().String(), "size", shape.Size())
		return emptyRegion(src, axes, image.Rectangle{}),
			fmt.Errorf("extracting %v: %w", shape.Kind(), ErrDegenerateShape)
	}

	fromScene, err := arrayToScene.Invert()
	if err != nil {
		Logger().Warn("array transform is singular", "transform", arrayToScene)
		return nil, fmt.Errorf("extracting %v: %w", shape.Kind(), err)
	}
	toIndex := fromScene.Mul(shape.LocalToParent())
	toLocal, err := toIndex.Invert()
	if err != nil {
		Logger().Warn("region transform is singular", "transform", toIndex)
		return nil, fmt.Errorf("extracting %v: %w", shape.Kind(), err)
	}

	bounds := indexBoundingBox(shape, toIndex).IndexBounds()
	valid := image.Rect(0, 0, src.Dim(axes[0]), src.Dim(axes[1]))
	clipped := bounds.Intersect(valid)
	if clipped.Empty() {
		Logger().Debug("region outside array", "kind", shape.Kind().String(), "bounds", bounds, "array", valid)
		return emptyRegion(src, axes, bounds),
			fmt.Errorf("extracting %v at %v from %v: %w", shape.Kind(), bounds, valid.Size(), ErrOutOfBounds)
	}

	g := grid{
		w:  valid.Dx(),
		h:  valid.Dy(),
		sx: src.strides[axes[0]],
		sy: src.strides[axes[1]],
	}
	var (
		n0, n1  int
		mapping Affine
		plan    *samplePlan
		mask    []bool
	)
	switch ex.Frame {
	case FrameShape:
		n0, n1, mapping, err = shapeGrid(shape, toIndex, clipped)
		if err != nil {
			return nil, fmt.Errorf("extracting %v: %w", shape.Kind(), err)
		}
		if n0 == 0 || n1 == 0 {
			Logger().Debug("region outside array", "kind", shape.Kind().String(), "bounds", bounds, "array", valid)
			return emptyRegion(src, axes, bounds),
				fmt.Errorf("extracting %v at %v from %v: %w", shape.Kind(), bounds, valid.Size(), ErrOutOfBounds)
		}
		plan, mask = planShapeFrame(shape, n0, n1, toLocal.Mul(mapping), mapping, g, ex.Interpolation)
	default:
		n0, n1 = clipped.Dx(), clipped.Dy()
		mapping = Translate(Vec(float64(clipped.Min.X), float64(clipped.Min.Y)))
		plan, mask = planArrayFrame(shape, clipped, toLocal, g)
	}

	out, err := resample(src, axes, n0, n1, plan)
	if err != nil {
		return nil, err
	}
	return &Region{
		Data:    out,
		Axes:    axes,
		Bounds:  bounds,
		Clipped: clipped,
		Padding: Padding{
			Before: [2]int{clipped.Min.X - bounds.Min.X, clipped.Min.Y - bounds.Min.Y},
			After:  [2]int{bounds.Max.X - clipped.Max.X, bounds.Max.Y - clipped.Max.Y},
		},
		Mapping: mapping,
		Mask:    mask,
	}, nil
}

func checkAxes(src *Array, axes [2]int) error {
	r := src.Rank()
	if axes[0] == axes[1] || axes[0] < 0 || axes[1] < 0 || axes[0] >= r || axes[1] >= r {
		return fmt.Errorf("spatial axes %v for rank %d: %w", axes, r, ErrInvalidArgument)
	}
	return nil
}

func degenerate(shape Shape) bool {
	if p, ok := shape.(*PolyLine); ok {
		return p.Len() < 3 || collinear(p.points)
	}
	sz := shape.Size()
	return sz.Width <= 0 || sz.Height <= 0
}

// collinear reports whether all points lie on one line. Self-intersecting
// rings can have zero signed area and still enclose cells, so the area is no
// test for degeneracy.
func collinear(pts []Point) bool {
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[0])
		if d == (Vec2{}) {
			continue
		}
		for _, p := range pts[i+1:] {
			if d.Cross(p.Sub(pts[0])) != 0 {
				return false
			}
		}
		return true
	}
	return true
}

// indexBoundingBox returns the bounding box of the shape's boundary in
// array index space. Ellipses use their exact bounding box rather than that
// of the sampled boundary.
func indexBoundingBox(shape Shape, toIndex Affine) Rect {
	if e, ok := shape.(*EllipseROI); ok {
		return e.Ellipse().Transform(toIndex).BoundingBox()
	}
	path := shape.BoundaryPath()
	for i, pt := range path {
		path[i] = toIndex.MapPoint(pt)
	}
	r, _ := BoundingBoxOf(path)
	return r
}

func emptyRegion(src *Array, axes [2]int, bounds image.Rectangle) *Region {
	shape := src.Shape()
	shape[axes[0]] = 0
	shape[axes[1]] = 0
	data, _ := NewArray(shape...)
	return &Region{
		Data:    data,
		Axes:    axes,
		Bounds:  bounds,
		Mapping: Identity,
	}
}

// planArrayFrame reads every clipped cell at its own position and masks it
// by mapping its center back into the shape.
func planArrayFrame(shape Shape, clipped image.Rectangle, toLocal Affine, g grid) (*samplePlan, []bool) {
	n0, n1 := clipped.Dx(), clipped.Dy()
	plan := newSamplePlan(n0 * n1)
	mask := make([]bool, n0*n1)
	for i := range n0 {
		x := clipped.Min.X + i
		for j := range n1 {
			y := clipped.Min.Y + j
			center := Pt(float64(x)+0.5, float64(y)+0.5)
			if !shape.ContainsLocal(toLocal.MapPoint(center)) {
				plan.skip()
				continue
			}
			mask[i*n1+j] = true
			plan.cell(x*g.sx + y*g.sy)
		}
	}
	return plan, mask
}

// shapeGrid returns the output size in the shape frame and the mapping from
// output index space to array index space. Output cells are as long as one
// array cell along each of the shape's axes. The grid is cropped to the
// cells whose centers lie within half a cell of the clipped box, since no
// other cell can read a value from the array.
func shapeGrid(shape Shape, toIndex Affine, clipped image.Rectangle) (n0, n1 int, mapping Affine, err error) {
	lb := shape.LocalBounds()
	ux := toIndex.MapVector(Vec(1, 0)).Hypot()
	uy := toIndex.MapVector(Vec(0, 1)).Hypot()
	full := toIndex.
		Mul(Translate(Vec2(lb.Origin()))).
		Mul(Scale(1/ux, 1/uy))
	inv, err := full.Invert()
	if err != nil {
		return 0, 0, Identity, err
	}
	reach := Rect{
		float64(clipped.Min.X) - 0.5, float64(clipped.Min.Y) - 0.5,
		float64(clipped.Max.X) + 0.5, float64(clipped.Max.Y) + 0.5,
	}
	box := inv.TransformRectBoundingBox(reach)
	x0 := max(0, snapFloor(box.X0))
	y0 := max(0, snapFloor(box.Y0))
	x1 := min(snapCeil(lb.Width()*ux), snapCeil(box.X1-0.5))
	y1 := min(snapCeil(lb.Height()*uy), snapCeil(box.Y1-0.5))
	n0, n1 = max(0, x1-x0), max(0, y1-y0)
	return n0, n1, full.Mul(Translate(Vec(float64(x0), float64(y0)))), nil
}

// planShapeFrame samples every output cell at its mapped center. outToLocal
// maps output index space to the shape's local frame.
func planShapeFrame(shape Shape, n0, n1 int, outToLocal, mapping Affine, g grid, mode Interpolation) (*samplePlan, []bool) {
	plan := newSamplePlan(n0 * n1)
	mask := make([]bool, n0*n1)
	for i := range n0 {
		for j := range n1 {
			center := Pt(float64(i)+0.5, float64(j)+0.5)
			if !shape.ContainsLocal(outToLocal.MapPoint(center)) {
				plan.skip()
				continue
			}
			mask[i*n1+j] = true
			plan.add(mapping.MapPoint(center), g, mode)
		}
	}
	return plan, mask
}

// resample applies plan to every position along the non-spatial axes of src.
func resample(src *Array, axes [2]int, n0, n1 int, plan *samplePlan) (*Array, error) {
	shape := src.Shape()
	shape[axes[0]] = n0
	shape[axes[1]] = n1
	out, err := NewArray(shape...)
	if err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return out, nil
	}

	var outer, outerShape []int
	for i, d := range src.shape {
		if i != axes[0] && i != axes[1] {
			outer = append(outer, i)
			outerShape = append(outerShape, d)
		}
	}
	count := 1
	for _, d := range outerShape {
		count *= d
	}

	d0, d1 := out.strides[axes[0]], out.strides[axes[1]]
	idx := make([]int, len(outer))
	for range count {
		srcBase, dstBase := 0, 0
		for k, ax := range outer {
			srcBase += idx[k] * src.strides[ax]
			dstBase += idx[k] * out.strides[ax]
		}
		for i := range n0 {
			for j := range n1 {
				out.data[dstBase+i*d0+j*d1] = plan.sample(i*n1+j, src.data, srcBase)
			}
		}
		incIndex(idx, outerShape)
	}
	return out, nil
}
