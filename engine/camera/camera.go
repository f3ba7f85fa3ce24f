package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the up axis shared by every camera variant.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Camera computes the combined view-projection transform uploaded once per frame.
// Poses and projections may change between frames; matrix getters never mutate state.
type Camera interface {
	// Projection returns a copy of the current projection.
	//
	// Returns:
	//   - Projection: the current projection parameters
	Projection() Projection

	// SetProjection replaces the projection after validating it.
	//
	// Parameters:
	//   - p: the new projection
	//
	// Returns:
	//   - error: ErrInvalidProjection if p fails Validate
	SetProjection(p Projection) error

	// Resize updates the projection aspect to width/height.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: ErrInvalidProjection for non-positive sizes
	Resize(width, height int) error

	// Position returns the world-space eye position.
	Position() mgl32.Vec3

	// ViewMatrix returns the world-to-view transform.
	ViewMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns ClipCorrection × perspective × view.
	ViewProjectionMatrix() mgl32.Mat4

	// Uniform returns the GPU representation of ViewProjectionMatrix.
	Uniform() GPUCameraUniform
}

// cameraBase holds the state common to both camera variants. Variants lock mu around pose access.
type cameraBase struct {
	mu         *sync.Mutex
	projection Projection
}

func newCameraBase(options ...CameraBuilderOption) (*cameraBase, error) {
	b := &cameraBase{
		mu:         &sync.Mutex{},
		projection: DefaultProjection(),
	}
	for _, opt := range options {
		opt(b)
	}
	if err := b.projection.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *cameraBase) Projection() Projection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projection
}

func (b *cameraBase) SetProjection(p Projection) error {
	if err := p.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projection = p
	return nil
}

func (b *cameraBase) Resize(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projection.Resize(width, height)
}
