package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ClipCorrection remaps an OpenGL-style projection, whose clip depth spans [-w, w], to the WebGPU
// convention of [0, w]. Column-major; rows read 1 0 0 0 / 0 1 0 0 / 0 0 .5 .5 / 0 0 0 1.
var ClipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Projection holds the perspective parameters of a camera. FovY is in radians.
type Projection struct {
	Aspect float32
	FovY   float32
	Near   float32
	Far    float32
}

// DefaultProjection returns a square 45° projection with clip planes at 0.1 and 100.
func DefaultProjection() Projection {
	return Projection{
		Aspect: 1,
		FovY:   mgl32.DegToRad(45),
		Near:   0.1,
		Far:    100,
	}
}

// Matrix returns ClipCorrection × perspective(FovY, Aspect, Near, Far).
func (p Projection) Matrix() mgl32.Mat4 {
	return ClipCorrection.Mul4(mgl32.Perspective(p.FovY, p.Aspect, p.Near, p.Far))
}

// Resize sets Aspect to width/height. Non-positive sizes leave the projection untouched.
//
// Parameters:
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//
// Returns:
//   - error: ErrInvalidProjection if width or height is not positive
func (p *Projection) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidProjection, width, height)
	}
	p.Aspect = float32(width) / float32(height)
	return nil
}

// Validate checks 0 < Near < Far, 0 < FovY < π and Aspect > 0.
func (p Projection) Validate() error {
	switch {
	case !(p.Near > 0 && p.Near < p.Far):
		return fmt.Errorf("%w: near=%g far=%g", ErrInvalidProjection, p.Near, p.Far)
	case !(p.FovY > 0 && p.FovY < math.Pi):
		return fmt.Errorf("%w: fovy=%g", ErrInvalidProjection, p.FovY)
	case !(p.Aspect > 0):
		return fmt.Errorf("%w: aspect=%g", ErrInvalidProjection, p.Aspect)
	}
	return nil
}
