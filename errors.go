package roi

import "errors"

var (
	// ErrInvalidArgument is returned when geometry input is NaN, infinite, or
	// otherwise unusable. The receiver is left unchanged.
	ErrInvalidArgument = errors.New("roi: invalid argument")

	// ErrSingular is returned when a transform that has to be inverted has a
	// (numerically) zero determinant.
	ErrSingular = errors.New("roi: singular transform")

	// ErrOutOfBounds is returned by extraction when the region does not
	// intersect the array's valid index range. The accompanying [Region] is
	// empty.
	ErrOutOfBounds = errors.New("roi: region does not intersect array")

	// ErrDegenerateShape is returned by extraction for shapes without area,
	// such as polylines with fewer than three vertices or rectangles with a
	// collapsed axis. The accompanying [Region] is empty.
	ErrDegenerateShape = errors.New("roi: degenerate shape")

	// ErrUnknownHandle is returned when a handle ID does not belong to the
	// shape.
	ErrUnknownHandle = errors.New("roi: unknown handle")

	// ErrNoDrag is returned by DragTo when no drag is in progress.
	ErrNoDrag = errors.New("roi: no drag in progress")
)
