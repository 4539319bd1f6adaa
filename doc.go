// Package roi provides regions of interest over N-dimensional sampled data:
// rectangles, ellipses and polylines that can be moved, resized and rotated
// through their handles, and an extractor that reads exactly the part of an
// array a region covers.
//
// # Frames
//
// Three coordinate frames are involved in every extraction.
//
// A shape's local frame is the one its boundary is described in. A rectangle
// of size (w, h) spans (0, 0)-(w, h) of it, independently of where the
// rectangle is placed or how it is rotated. [Shape.LocalToParent] maps the
// local frame to the scene: Translate(pos) * Rotate(angle).
//
// An array's index space has cell (i, j) of the two spatial axes covering
// [i, i+1) × [j, j+1), so cell centers are at half-integers. The data
// object's own transform maps index space to the scene. For an image shown
// with its pixels at unit size, that transform is [Identity].
//
// The extractor composes the inverse of the array's transform with the
// shape's local-to-parent transform to map the shape into index space, and
// the inverse of that to map array cells back into the shape.
//
// # Transforms
//
// [Affine] follows the usual column-vector convention: A.Mul(B) applies B
// first. [Affine.Invert] reports singular transforms as errors wrapping
// [ErrSingular] instead of returning garbage.
//
// # Handles
//
// Shapes own their handles. Callers refer to them by [HandleID] and drive
// them with [Shape.BeginDrag], [Shape.DragTo] and [Shape.EndDrag]. Every
// DragTo is computed from the state at BeginDrag, so replaying a position is
// harmless.
//
// # Extraction
//
// [Extract] returns a [Region] whose data has the rank of the source array.
// The two spatial axes are replaced by the region's extent; all other axes
// are copied. Cells outside the shape are zero. [Extractor] selects between
// the array-aligned output grid and one aligned with the shape's own axes,
// and between bilinear and nearest-neighbor sampling.
//
// # Logging
//
// The package is silent unless a logger is installed with [SetLogger].
package roi
