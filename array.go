package roi

import (
	"fmt"
	"math"
	"slices"
)

// Array is a dense N-dimensional array of float64 in row-major order.
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

// NewArray returns a zeroed array of the given shape. Every dimension must
// be non-negative.
func NewArray(shape ...int) (*Array, error) {
	n, err := shapeLen(shape)
	if err != nil {
		return nil, err
	}
	return newArray(shape, make([]float64, n)), nil
}

// FromSlice wraps data in an array of the given shape without copying.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	n, err := shapeLen(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d elements, got %d: %w", shape, n, len(data), ErrInvalidArgument)
	}
	return newArray(shape, data), nil
}

func shapeLen(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("shape %v: %w", shape, ErrInvalidArgument)
		}
		if d == 0 {
			n = 0
		}
	}
	if n == 0 {
		return 0, nil
	}
	for _, d := range shape {
		if n > math.MaxInt/d {
			return 0, fmt.Errorf("shape %v is too large: %w", shape, ErrInvalidArgument)
		}
		n *= d
	}
	return n, nil
}

func newArray(shape []int, data []float64) *Array {
	a := &Array{
		shape:   slices.Clone(shape),
		strides: make([]int, len(shape)),
		data:    data,
	}
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		a.strides[i] = stride
		stride *= shape[i]
	}
	return a
}

// Shape returns a copy of the array's dimensions.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.data) }

// Dim returns the length of axis i.
func (a *Array) Dim(i int) int { return a.shape[i] }

// Data returns the backing slice in row-major order.
func (a *Array) Data() []float64 { return a.data }

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("roi: index %v has rank %d, array has rank %d", idx, len(idx), len(a.shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("roi: index %v out of range for shape %v", idx, a.shape))
		}
		off += x * a.strides[i]
	}
	return off
}

// At returns the element at idx. It panics if idx is out of range, like
// indexing a slice.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// Set stores v at idx. It panics if idx is out of range.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.offset(idx)] = v
}

// Slice copies the block [ranges[i][0], ranges[i][1]) along every axis into a
// new array. Missing trailing ranges select the whole axis.
func (a *Array) Slice(ranges ...[2]int) (*Array, error) {
	if len(ranges) > len(a.shape) {
		return nil, fmt.Errorf("%d ranges for rank %d: %w", len(ranges), len(a.shape), ErrInvalidArgument)
	}
	lo := make([]int, len(a.shape))
	shape := slices.Clone(a.shape)
	for i, r := range ranges {
		if r[0] < 0 || r[1] < r[0] || r[1] > a.shape[i] {
			return nil, fmt.Errorf("range %v on axis %d of length %d: %w", r, i, a.shape[i], ErrInvalidArgument)
		}
		lo[i] = r[0]
		shape[i] = r[1] - r[0]
	}
	out, err := NewArray(shape...)
	if err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return out, nil
	}
	idx := make([]int, len(shape))
	src := make([]int, len(shape))
	for k := range out.data {
		for i := range idx {
			src[i] = lo[i] + idx[i]
		}
		out.data[k] = a.data[a.offset(src)]
		incIndex(idx, shape)
	}
	return out, nil
}

// incIndex advances idx to the next multi-index in row-major order.
func incIndex(idx, shape []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}

// Equal reports whether two arrays have the same shape and elements.
func (a *Array) Equal(o *Array) bool {
	return slices.Equal(a.shape, o.shape) && slices.Equal(a.data, o.data)
}

// Clone returns a deep copy of a.
func (a *Array) Clone() *Array {
	return newArray(a.shape, slices.Clone(a.data))
}

// DataSource is a data object that can be sampled by the extractor.
type DataSource interface {
	Array() *Array
}

// SceneTransformer is implemented by data sources that are placed in the
// scene by a transform from array index space to scene coordinates.
// Sources that don't implement it are placed by the identity.
type SceneTransformer interface {
	LocalToScene() Affine
}

// DataItem is a [DataSource] placed in the scene by Transform.
type DataItem struct {
	Data      *Array
	Transform Affine
}

func (d DataItem) Array() *Array         { return d.Data }
func (d DataItem) LocalToScene() Affine { return d.Transform }
