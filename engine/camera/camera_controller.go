package camera

import "time"

// FreeCameraController turns held keys into FreeCamera pose changes. It only tracks input; the
// run loop calls Update once per frame with the elapsed time.
//
// Bindings: W/S move along the horizontal forward axis, A/D strafe, Space/Shift move along the
// world up axis, and the arrow keys turn (left/right yaw, up/down pitch).
type FreeCameraController interface {
	// KeyDown records a key press.
	//
	// Parameters:
	//   - keyCode: the key code delivered by the window
	KeyDown(keyCode uint32)

	// KeyUp records a key release.
	//
	// Parameters:
	//   - keyCode: the key code delivered by the window
	KeyUp(keyCode uint32)

	// Update applies the held keys to the camera for a frame of length dt.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - dt: the time since the previous update
	//
	// Returns:
	//   - bool: true if the pose changed
	Update(cam FreeCamera, dt time.Duration) bool

	// Speed returns the movement speed in world units per second.
	Speed() float32

	// TurnRate returns the turn rate in radians per second.
	TurnRate() float32
}
