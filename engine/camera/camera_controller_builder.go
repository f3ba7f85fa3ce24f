package camera

// CameraControllerOption is a functional option for configuring a FreeCameraController.
type CameraControllerOption func(*freeCameraControllerImpl)

// WithSpeed sets the movement speed.
//
// Parameters:
//   - speed: world units per second
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *freeCameraControllerImpl) {
		cc.speed = speed
	}
}

// WithTurnRate sets the turn rate.
//
// Parameters:
//   - rate: radians per second
//
// Returns:
//   - CameraControllerOption: functional option to set the turn rate
func WithTurnRate(rate float32) CameraControllerOption {
	return func(cc *freeCameraControllerImpl) {
		cc.turnRate = rate
	}
}
