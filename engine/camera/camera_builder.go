package camera

// CameraBuilderOption is a functional option applied to either camera variant before its
// projection is validated.
type CameraBuilderOption func(*cameraBase)

// WithProjection replaces the whole projection.
//
// Parameters:
//   - p: the projection to use
//
// Returns:
//   - CameraBuilderOption: functional option to set the projection
func WithProjection(p Projection) CameraBuilderOption {
	return func(b *cameraBase) {
		b.projection = p
	}
}

// WithFovY sets the vertical field of view in radians.
func WithFovY(fovy float32) CameraBuilderOption {
	return func(b *cameraBase) {
		b.projection.FovY = fovy
	}
}

// WithAspect sets the aspect ratio (width / height).
func WithAspect(aspect float32) CameraBuilderOption {
	return func(b *cameraBase) {
		b.projection.Aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance, > 0
//   - far: far plane distance, > near
//
// Returns:
//   - CameraBuilderOption: functional option to set both planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(b *cameraBase) {
		b.projection.Near = near
		b.projection.Far = far
	}
}
