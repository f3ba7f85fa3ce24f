package renderer

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
)

// PresentMode is the preferred way frames are delivered to the display.
type PresentMode int

const (
	// PresentModeAuto uses the first present mode the surface reports.
	PresentModeAuto PresentMode = iota

	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync

	// PresentModeUncapped presents immediately. May tear.
	PresentModeUncapped

	// PresentModeMailbox replaces the queued frame with the newest one without tearing.
	PresentModeMailbox
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeAuto:
		return "auto"
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	case PresentModeMailbox:
		return "mailbox"
	default:
		return fmt.Sprintf("PresentMode(%d)", int(m))
	}
}

// ParsePresentMode parses a present mode name as written by String. The empty string is auto.
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PresentModeAuto, nil
	case "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	case "mailbox":
		return PresentModeMailbox, nil
	default:
		return PresentModeAuto, fmt.Errorf("renderer: unknown present mode %q", s)
	}
}

// wgpuPresentMode returns the wgpu present mode for m. Auto has no fixed mapping.
func (m PresentMode) wgpuPresentMode() (wgpu.PresentMode, bool) {
	switch m {
	case PresentModeVSync:
		return wgpu.PresentModeFifo, true
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate, true
	case PresentModeMailbox:
		return wgpu.PresentModeMailbox, true
	default:
		return 0, false
	}
}

// SurfaceCapabilities lists what the surface supports on the selected adapter.
type SurfaceCapabilities struct {
	Formats      []wgpu.TextureFormat
	PresentModes []wgpu.PresentMode
	AlphaModes   []wgpu.CompositeAlphaMode
}

// SurfaceConfig is the surface configuration last applied by the GraphicsContext.
type SurfaceConfig struct {
	Format      wgpu.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode wgpu.PresentMode
	AlphaMode   wgpu.CompositeAlphaMode
}

// Aspect returns width over height.
func (c SurfaceConfig) Aspect() float32 {
	if c.Height == 0 {
		return 0
	}
	return float32(c.Width) / float32(c.Height)
}

// RendererBackend is every GPU call the GraphicsContext and RenderPass make. The wgpu backend
// implements it against a real device. Keeping the device behind this interface lets the frame
// logic run without a GPU.
type RendererBackend interface {
	// SurfaceCapabilities queries the formats, present modes and alpha modes of the surface.
	SurfaceCapabilities() SurfaceCapabilities

	// ConfigureSurface applies cfg to the surface. Existing surface textures become invalid.
	//
	// Parameters:
	//   - cfg: the surface configuration to apply
	//
	// Returns:
	//   - error: an error if the surface could not be configured
	ConfigureSurface(cfg SurfaceConfig) error

	// MaxTextureDimension2D returns the largest 2D texture side the device accepts.
	MaxTextureDimension2D() uint32

	// RegisterRenderPipeline creates the shader modules, pipeline layout and render pipeline for p
	// and stores the result on p.
	//
	// Parameters:
	//   - p: the pipeline description holding both shaders
	//   - format: the color target format
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline, format wgpu.TextureFormat) error

	// InitMeshBuffers uploads vertex and index data into new GPU buffers on provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error

	// InitBindGroup creates the layout and bind group for descriptor. Buffer bindings without a
	// buffer get a new one sized by MinBindingSize. Texture and sampler bindings must already be
	// set on the provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView creates an RGBA8UnormSrgb texture from data and stores it with its view at binding.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates or reuses a cached sampler and stores it at binding.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error

	// WriteBuffers queues every write. Writes to bindings without a buffer are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and begins a render pass that clears it.
	//
	// Parameters:
	//   - clear: the clear color
	//
	// Returns:
	//   - error: ErrSurfaceOutdated, ErrSurfaceLost, ErrSurfaceTimeout or ErrDeviceLost on
	//     acquisition failure, or the encoder error
	BeginFrame(clear wgpu.Color) error

	// DrawCall binds p, the bind groups in order starting at group 0 and the mesh buffers, then
	// issues one draw. Indexed meshes draw IndexCount indices.
	DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame() error

	// Present shows the submitted frame and releases the surface texture.
	Present()

	// Release frees every object the backend owns in reverse creation order.
	Release()
}
