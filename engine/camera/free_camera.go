package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/exp/f32"

	"github.com/Carmen-Shannon/oxy-quad/common"
)

// MaxPitch is the largest pitch magnitude a FreeCamera accepts. Keeping it short of π/2 keeps the
// forward vector off the world up axis.
const MaxPitch = math.Pi/2 - 0.0001

// FreeCamera is a camera posed by position, yaw and pitch, looking along the derived forward
// vector with WorldUp as up. Yaw 0 faces +X; yaw -π/2 faces -Z.
type FreeCamera interface {
	Camera

	// Yaw returns the rotation around the world up axis in radians.
	Yaw() float32

	// Pitch returns the elevation angle in radians, always within ±MaxPitch.
	Pitch() float32

	// Forward returns (cos p·cos y, sin p, cos p·sin y).
	Forward() mgl32.Vec3

	// Right returns the horizontal unit vector to the right of Forward.
	Right() mgl32.Vec3

	// SetPosition moves the eye.
	SetPosition(position mgl32.Vec3)

	// SetOrientation sets yaw and pitch; pitch is clamped to ±MaxPitch.
	//
	// Parameters:
	//   - yaw: rotation around the up axis in radians
	//   - pitch: elevation in radians
	SetOrientation(yaw, pitch float32)

	// Translate adds delta to the position.
	Translate(delta mgl32.Vec3)

	// Rotate adds to yaw and pitch; the resulting pitch is clamped to ±MaxPitch.
	Rotate(deltaYaw, deltaPitch float32)
}

type freeCameraImpl struct {
	*cameraBase

	position mgl32.Vec3
	yaw      float32
	pitch    float32
}

var _ FreeCamera = &freeCameraImpl{}

// NewFreeCamera creates a free camera at position with the given orientation.
//
// Parameters:
//   - position: the world-space eye position
//   - yaw: rotation around the up axis in radians
//   - pitch: elevation in radians, clamped to ±MaxPitch
//   - options: projection options applied over DefaultProjection
//
// Returns:
//   - FreeCamera: the new camera
//   - error: ErrInvalidProjection if the projection options are invalid
func NewFreeCamera(position mgl32.Vec3, yaw, pitch float32, options ...CameraBuilderOption) (FreeCamera, error) {
	base, err := newCameraBase(options...)
	if err != nil {
		return nil, err
	}
	return &freeCameraImpl{
		cameraBase: base,
		position:   position,
		yaw:        yaw,
		pitch:      clampPitch(pitch),
	}, nil
}

func clampPitch(pitch float32) float32 {
	return common.Clamp(pitch, -MaxPitch, MaxPitch)
}

// forwardFrom derives the unit view direction from yaw and pitch.
func forwardFrom(yaw, pitch float32) mgl32.Vec3 {
	sinPitch, cosPitch := f32.Sin(pitch), f32.Cos(pitch)
	sinYaw, cosYaw := f32.Sin(yaw), f32.Cos(yaw)
	return mgl32.Vec3{cosPitch * cosYaw, sinPitch, cosPitch * sinYaw}
}

func (c *freeCameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *freeCameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *freeCameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *freeCameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return forwardFrom(c.yaw, c.pitch)
}

func (c *freeCameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return forwardFrom(c.yaw, c.pitch).Cross(WorldUp).Normalize()
}

func (c *freeCameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}

func (c *freeCameraImpl) SetOrientation(yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw = yaw
	c.pitch = clampPitch(pitch)
}

func (c *freeCameraImpl) Translate(delta mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(delta)
}

func (c *freeCameraImpl) Rotate(deltaYaw, deltaPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += deltaYaw
	c.pitch = clampPitch(c.pitch + deltaPitch)
}

// viewLocked is look-to(position, forward, WorldUp). Caller must hold the mutex.
func (c *freeCameraImpl) viewLocked() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(forwardFrom(c.yaw, c.pitch)), WorldUp)
}

func (c *freeCameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *freeCameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Matrix().Mul4(c.viewLocked())
}

func (c *freeCameraImpl) Uniform() GPUCameraUniform {
	return NewGPUCameraUniform(c.ViewProjectionMatrix())
}
