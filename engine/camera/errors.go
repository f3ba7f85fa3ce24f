package camera

import "errors"

var (
	// ErrDegenerateBasis is returned when a pose can not produce an orthonormal view basis:
	// the eye coincides with the target, or the up vector is zero or parallel to the view direction.
	ErrDegenerateBasis = errors.New("camera: degenerate view basis")

	// ErrInvalidProjection is returned for projections outside 0 < near < far, 0 < fovy < π, aspect > 0,
	// and for resizes to a non-positive width or height.
	ErrInvalidProjection = errors.New("camera: invalid projection")
)
