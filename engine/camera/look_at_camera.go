package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// basisEpsilon bounds how close to zero a direction or cross product may get before the view basis
// is considered degenerate.
const basisEpsilon = 1e-6

// LookAtCamera is a camera posed by eye, target and up.
type LookAtCamera interface {
	Camera

	// Target returns the point the camera looks at.
	Target() mgl32.Vec3

	// Up returns the up vector used to orient the view.
	Up() mgl32.Vec3

	// SetPose replaces eye, target and up. A degenerate pose is rejected and the previous pose kept.
	//
	// Parameters:
	//   - eye: the world-space eye position
	//   - target: the world-space point to look at
	//   - up: the up direction, not parallel to target - eye
	//
	// Returns:
	//   - error: ErrDegenerateBasis if the pose has no valid view basis
	SetPose(eye, target, up mgl32.Vec3) error
}

type lookAtCameraImpl struct {
	*cameraBase

	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3
}

var _ LookAtCamera = &lookAtCameraImpl{}

// NewLookAtCamera creates a camera looking from eye toward target.
//
// Parameters:
//   - eye: the world-space eye position
//   - target: the world-space point to look at
//   - up: the up direction
//   - options: projection options applied over DefaultProjection
//
// Returns:
//   - LookAtCamera: the new camera
//   - error: ErrDegenerateBasis or ErrInvalidProjection
func NewLookAtCamera(eye, target, up mgl32.Vec3, options ...CameraBuilderOption) (LookAtCamera, error) {
	if err := checkLookAtBasis(eye, target, up); err != nil {
		return nil, err
	}
	base, err := newCameraBase(options...)
	if err != nil {
		return nil, err
	}
	return &lookAtCameraImpl{
		cameraBase: base,
		eye:        eye,
		target:     target,
		up:         up,
	}, nil
}

// checkLookAtBasis rejects eye == target and up parallel to the view direction.
func checkLookAtBasis(eye, target, up mgl32.Vec3) error {
	dir := target.Sub(eye)
	if dir.Len() < basisEpsilon {
		return fmt.Errorf("%w: eye %v equals target", ErrDegenerateBasis, eye)
	}
	if up.Len() < basisEpsilon {
		return fmt.Errorf("%w: zero up vector", ErrDegenerateBasis)
	}
	if dir.Normalize().Cross(up.Normalize()).Len() < basisEpsilon {
		return fmt.Errorf("%w: up %v parallel to view direction %v", ErrDegenerateBasis, up, dir)
	}
	return nil
}

func (c *lookAtCameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *lookAtCameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *lookAtCameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *lookAtCameraImpl) SetPose(eye, target, up mgl32.Vec3) error {
	if err := checkLookAtBasis(eye, target, up); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye, c.target, c.up = eye, target, up
	return nil
}

func (c *lookAtCameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.LookAtV(c.eye, c.target, c.up)
}

func (c *lookAtCameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Matrix().Mul4(mgl32.LookAtV(c.eye, c.target, c.up))
}

func (c *lookAtCameraImpl) Uniform() GPUCameraUniform {
	return NewGPUCameraUniform(c.ViewProjectionMatrix())
}
