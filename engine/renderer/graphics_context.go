package renderer

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-quad/common"
)

// SurfaceSource is the window a GraphicsContext renders into. The window owns the native handle;
// the surface borrows it for the window's lifetime.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform surface descriptor of the window.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// GraphicsContext owns the device, queue and surface and keeps the surface configuration in step
// with the window size.
type GraphicsContext struct {
	mu *sync.Mutex

	backend RendererBackend
	config  SurfaceConfig

	presentMode          PresentMode
	forceFallbackAdapter bool
	released             bool
}

// NewGraphicsContext creates the GPU objects for the window and configures the surface at the
// window's current size. It blocks until the device is ready and must be called on the main
// thread before the event loop starts.
//
// Parameters:
//   - surface: the window to render into
//   - options: functional options
//
// Returns:
//   - *GraphicsContext: the configured context
//   - error: ErrNoAdapter, a device error, or the initial Configure error
func NewGraphicsContext(surface SurfaceSource, options ...GraphicsContextOption) (*GraphicsContext, error) {
	g := &GraphicsContext{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(g)
	}

	if g.backend == nil {
		backend, err := newWGPURendererBackend(surface.SurfaceDescriptor(), g.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		g.backend = backend
	}

	if err := g.Configure(surface.Width(), surface.Height()); err != nil {
		g.backend.Release()
		return nil, fmt.Errorf("initial surface configuration: %w", err)
	}

	slog.Info("graphics context ready",
		slog.Any("format", g.config.Format),
		slog.Any("presentMode", g.config.PresentMode),
		slog.Int("width", int(g.config.Width)),
		slog.Int("height", int(g.config.Height)))

	return g, nil
}

// Configure selects the surface format, present mode and alpha mode and configures the surface at
// width x height. A degenerate size leaves the surface untouched.
//
// Parameters:
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//
// Returns:
//   - error: ErrInvalidDimensions, ErrUnsupportedSurface, ErrReleased or the backend error
func (g *GraphicsContext) Configure(width, height int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.configureLocked(width, height)
}

func (g *GraphicsContext) configureLocked(width, height int) error {
	if g.released {
		return ErrReleased
	}
	if !common.Positive(width, height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	caps := g.backend.SurfaceCapabilities()
	if len(caps.Formats) == 0 {
		return ErrUnsupportedSurface
	}

	cfg := SurfaceConfig{
		Format:      selectSurfaceFormat(caps.Formats),
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: selectPresentMode(g.presentMode, caps.PresentModes),
		AlphaMode:   wgpu.CompositeAlphaModeAuto,
	}
	if len(caps.AlphaModes) > 0 {
		cfg.AlphaMode = caps.AlphaModes[0]
	}

	if err := g.backend.ConfigureSurface(cfg); err != nil {
		return err
	}
	g.config = cfg
	return nil
}

// Resize reconfigures the surface for a new window size. Degenerate sizes, as reported while the
// window is minimized, are rejected and the previous configuration stays in place.
//
// Parameters:
//   - width: the new width in pixels
//   - height: the new height in pixels
//
// Returns:
//   - error: ErrInvalidDimensions for a zero or negative side, or the Configure error
func (g *GraphicsContext) Resize(width, height int) error {
	return g.Configure(width, height)
}

// Reconfigure configures the surface again at the last accepted size. Used to recover from an
// outdated or lost surface.
func (g *GraphicsContext) Reconfigure() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.configureLocked(int(g.config.Width), int(g.config.Height))
}

// Config returns the surface configuration currently applied.
func (g *GraphicsContext) Config() SurfaceConfig {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.config
}

// MaxTextureDimension2D returns the largest 2D texture side the device accepts.
func (g *GraphicsContext) MaxTextureDimension2D() uint32 {
	return g.backend.MaxTextureDimension2D()
}

// Backend returns the backend used for resource creation and frame submission.
func (g *GraphicsContext) Backend() RendererBackend {
	return g.backend
}

// Release frees the queue, device, adapter and surface. Safe to call more than once.
func (g *GraphicsContext) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return
	}
	g.released = true
	g.backend.Release()
}

// selectSurfaceFormat returns the first sRGB format, else the first reported format.
// formats must not be empty.
func selectSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if isSRGB(f) {
			return f
		}
	}
	return formats[0]
}

func isSRGB(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}

// selectPresentMode returns the preferred mode when the surface supports it, otherwise the first
// supported mode. Fifo is always valid when the surface reports nothing.
func selectPresentMode(preferred PresentMode, supported []wgpu.PresentMode) wgpu.PresentMode {
	if len(supported) == 0 {
		return wgpu.PresentModeFifo
	}
	if mode, ok := preferred.wgpuPresentMode(); ok && slices.Contains(supported, mode) {
		return mode
	}
	if preferred != PresentModeAuto {
		slog.Warn("present mode not supported by surface, using first supported",
			slog.String("preferred", preferred.String()),
			slog.Any("using", supported[0]))
	}
	return supported[0]
}
