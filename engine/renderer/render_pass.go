package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/assets"
	"github.com/Carmen-Shannon/oxy-quad/engine/camera"
	"github.com/Carmen-Shannon/oxy-quad/engine/geometry"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-quad/engine/texture"
)

const (
	// TextureGroup is the bind group index of the texture and sampler.
	TextureGroup = 0

	// CameraGroup is the bind group index of the camera uniform.
	CameraGroup = 1

	// cameraBinding is the binding of the uniform inside CameraGroup.
	cameraBinding = 0
)

// DefaultClearColor is the background behind the quad.
var DefaultClearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// RenderPass draws one textured quad per frame: it owns the pipeline, the quad geometry, the
// texture and the camera uniform with its bind group.
type RenderPass struct {
	mu *sync.Mutex

	ctx *GraphicsContext

	pipeline       pipeline.Pipeline
	geometry       *geometry.GeometryBuffer
	texture        *texture.TextureResource
	camera         camera.Camera
	cameraProvider bind_group_provider.BindGroupProvider

	clearColor  wgpu.Color
	lastSkipped bool
	released    bool

	// build inputs, consumed by NewRenderPass
	vertexShader   shader.Shader
	fragmentShader shader.Shader
	textureBytes   []byte
	textureStaging *common.TextureStagingData
}

// NewRenderPass uploads the quad, builds the texture and camera bind groups, checks that the
// shaders agree with the host layouts and compiles the pipeline against the surface format.
//
// Parameters:
//   - ctx: the configured graphics context
//   - options: functional options
//
// Returns:
//   - *RenderPass: the render pass
//   - error: ErrLayoutMismatch, a texture.ErrDecode, a camera error or a GPU error
func NewRenderPass(ctx *GraphicsContext, options ...RenderPassOption) (*RenderPass, error) {
	rp := &RenderPass{
		mu:         &sync.Mutex{},
		ctx:        ctx,
		clearColor: DefaultClearColor,
	}
	for _, opt := range options {
		opt(rp)
	}

	slog.Info("creating render pass")
	if err := rp.build(); err != nil {
		rp.releaseLocked()
		return nil, err
	}
	slog.Info("render pass created", slog.Int("indices", rp.geometry.IndexCount()))

	return rp, nil
}

func (rp *RenderPass) build() error {
	backend := rp.ctx.Backend()
	cfg := rp.ctx.Config()

	if err := rp.resolveShaders(); err != nil {
		return err
	}

	var err error
	rp.geometry, err = geometry.NewGeometryBuffer(backend, "Quad", geometry.QuadVertices(), geometry.QuadIndices())
	if err != nil {
		return err
	}

	switch {
	case rp.textureStaging != nil:
		rp.texture, err = texture.NewTextureResourceFromStaging(backend, "Crate Texture", *rp.textureStaging)
	case len(rp.textureBytes) > 0:
		rp.texture, err = texture.NewTextureResource(backend, "Crate Texture", rp.textureBytes)
	default:
		rp.texture, err = texture.NewTextureResource(backend, "Crate Texture", assets.CrateTexture)
	}
	if err != nil {
		return err
	}

	if rp.camera == nil {
		rp.camera, err = camera.NewLookAtCamera(
			mgl32.Vec3{0, 0, 2},
			mgl32.Vec3{0, 0, 0},
			camera.WorldUp,
			camera.WithAspect(cfg.Aspect()),
		)
		if err != nil {
			return err
		}
	} else if err := rp.camera.Resize(int(cfg.Width), int(cfg.Height)); err != nil {
		return err
	}

	rp.cameraProvider = bind_group_provider.NewBindGroupProvider("Camera")
	if err := backend.InitBindGroup(rp.cameraProvider, camera.BindGroupLayoutDescriptor()); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}
	backend.WriteBuffers([]bind_group_provider.BufferWrite{rp.cameraWrite()})

	if err := rp.checkLayouts(); err != nil {
		return err
	}

	rp.pipeline = pipeline.NewPipeline("Quad",
		pipeline.WithVertexShader(rp.vertexShader),
		pipeline.WithFragmentShader(rp.fragmentShader),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithWriteMask(wgpu.ColorWriteMaskAll),
		pipeline.WithSampleCount(1),
	)
	if err := backend.RegisterRenderPipeline(rp.pipeline, cfg.Format); err != nil {
		return fmt.Errorf("quad pipeline: %w", err)
	}
	return nil
}

// resolveShaders parses the embedded quad shaders when none were supplied.
func (rp *RenderPass) resolveShaders() error {
	var err error
	if rp.vertexShader == nil {
		rp.vertexShader, err = shader.NewShader(assets.QuadVertexKey, shader.ShaderTypeVertex, assets.QuadVertexShader)
		if err != nil {
			return err
		}
	}
	if rp.fragmentShader == nil {
		rp.fragmentShader, err = shader.NewShader(assets.QuadFragmentKey, shader.ShaderTypeFragment, assets.QuadFragmentShader)
		if err != nil {
			return err
		}
	}
	return nil
}

// checkLayouts compares what the shaders declare against the geometry table and the texture and
// camera bind group layouts the host builds.
func (rp *RenderPass) checkLayouts() error {
	if err := rp.checkDeclarations(); err != nil {
		return err
	}

	reflected := rp.vertexShader.VertexLayouts()
	if len(reflected) != 1 {
		return fmt.Errorf("%w: shader declares %d vertex buffers, want 1", ErrLayoutMismatch, len(reflected))
	}
	if err := shader.CompareVertexLayout(0, reflected[0], rp.geometry.Layout()); err != nil {
		return err
	}

	groups, err := shader.MergeBindGroupLayouts(rp.vertexShader, rp.fragmentShader)
	if err != nil {
		return err
	}
	host := map[int]wgpu.BindGroupLayoutDescriptor{
		TextureGroup: texture.BindGroupLayoutDescriptor(),
		CameraGroup:  camera.BindGroupLayoutDescriptor(),
	}
	if len(groups) != len(host) {
		return fmt.Errorf("%w: shaders declare %d bind groups, want %d", ErrLayoutMismatch, len(groups), len(host))
	}
	for group, want := range host {
		got, ok := groups[group]
		if !ok {
			return fmt.Errorf("%w: shaders do not declare @group(%d)", ErrLayoutMismatch, group)
		}
		if err := shader.CompareBindGroupLayout(group, got, want); err != nil {
			return err
		}
	}
	return nil
}

// checkDeclarations verifies that annotated bindings name the group their host resource is bound
// at. Unannotated shaders declare nothing and pass.
func (rp *RenderPass) checkDeclarations() error {
	providerGroups := map[shader.AnnotationArg]int{
		shader.AnnotationArgTexture: TextureGroup,
		shader.AnnotationArgCamera:  CameraGroup,
	}
	for _, s := range []shader.Shader{rp.vertexShader, rp.fragmentShader} {
		for _, d := range s.Declarations() {
			want, ok := providerGroups[d.Provider()]
			if ok && *d.Group != want {
				return fmt.Errorf("%w: %s line %d binds %s at @group(%d), want @group(%d)",
					ErrLayoutMismatch, s.Key(), d.Line, d.Provider(), *d.Group, want)
			}
		}
	}
	return nil
}

func (rp *RenderPass) cameraWrite() bind_group_provider.BufferWrite {
	u := rp.camera.Uniform()
	return bind_group_provider.BufferWrite{
		Provider: rp.cameraProvider,
		Binding:  cameraBinding,
		Offset:   0,
		Data:     u.Marshal(),
	}
}

// Draw renders one frame. An outdated or lost surface is reconfigured and a timed out acquire is
// dropped; both skip the frame and return nil. Skipped reports whether this happened.
//
// Returns:
//   - error: ErrDeviceLost when rendering can not continue, ErrReleased, or a submission error
func (rp *RenderPass) Draw() error {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.released {
		return ErrReleased
	}
	rp.lastSkipped = false
	backend := rp.ctx.Backend()

	if err := backend.BeginFrame(rp.clearColor); err != nil {
		return rp.handleAcquireError(err)
	}

	backend.WriteBuffers([]bind_group_provider.BufferWrite{rp.cameraWrite()})
	backend.DrawCall(rp.pipeline, rp.geometry.Provider(), 1, []bind_group_provider.BindGroupProvider{
		TextureGroup: rp.texture.Provider(),
		CameraGroup:  rp.cameraProvider,
	})
	if err := backend.EndFrame(); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	backend.Present()
	return nil
}

func (rp *RenderPass) handleAcquireError(err error) error {
	switch {
	case errors.Is(err, ErrDeviceLost):
		return err
	case errors.Is(err, ErrSurfaceOutdated), errors.Is(err, ErrSurfaceLost):
		rp.lastSkipped = true
		slog.Debug("surface needs reconfiguration, skipping frame", slog.Any("error", err))
		if rerr := rp.ctx.Reconfigure(); rerr != nil {
			if errors.Is(rerr, ErrDeviceLost) {
				return rerr
			}
			slog.Warn("surface reconfiguration failed", slog.Any("error", rerr))
		}
		return nil
	case errors.Is(err, ErrSurfaceTimeout):
		rp.lastSkipped = true
		slog.Debug("surface acquire timed out, skipping frame")
		return nil
	default:
		return fmt.Errorf("begin frame: %w", err)
	}
}

// Skipped reports whether the last Draw skipped its frame.
func (rp *RenderPass) Skipped() bool {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.lastSkipped
}

// Resize updates the camera aspect ratio for a new surface size. Degenerate sizes are rejected.
//
// Parameters:
//   - width: the new width in pixels
//   - height: the new height in pixels
//
// Returns:
//   - error: ErrInvalidDimensions for a zero or negative side
func (rp *RenderPass) Resize(width, height int) error {
	if !common.Positive(width, height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.camera.Resize(width, height)
}

// Camera returns the camera whose transform is uploaded each frame. Pose changes made between
// frames are picked up by the next Draw.
func (rp *RenderPass) Camera() camera.Camera {
	return rp.camera
}

// IndexCount returns the number of indices drawn per frame.
func (rp *RenderPass) IndexCount() int {
	return rp.geometry.IndexCount()
}

// Release frees the pipeline, geometry, texture and camera resources. Safe to call more than once.
func (rp *RenderPass) Release() {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.releaseLocked()
}

func (rp *RenderPass) releaseLocked() {
	if rp.released {
		return
	}
	rp.released = true

	if rp.pipeline != nil {
		rp.pipeline.Release()
	}
	if rp.geometry != nil {
		rp.geometry.Release()
	}
	if rp.texture != nil {
		rp.texture.Release()
	}
	if rp.cameraProvider != nil {
		rp.cameraProvider.Release()
	}
}
