package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-quad/config"
	"github.com/Carmen-Shannon/oxy-quad/engine/assets"
	"github.com/Carmen-Shannon/oxy-quad/engine/camera"
	"github.com/Carmen-Shannon/oxy-quad/engine/profiler"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerOptions passes options through to the frame profiler.
func WithProfilerOptions(options ...profiler.ProfilerOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilerOptions = append(e.profilerOptions, options...)
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithGraphicsOptions passes options through to renderer.NewGraphicsContext.
func WithGraphicsOptions(options ...renderer.GraphicsContextOption) EngineBuilderOption {
	return func(e *engine) {
		e.graphicsOptions = append(e.graphicsOptions, options...)
	}
}

// WithRenderPassOptions passes options through to renderer.NewRenderPass. They are applied
// after the prepared shaders and texture, so they can replace them.
func WithRenderPassOptions(options ...renderer.RenderPassOption) EngineBuilderOption {
	return func(e *engine) {
		e.renderPassOptions = append(e.renderPassOptions, options...)
	}
}

// WithAssetSources replaces the embedded shaders and texture handed to assets.Prepare.
//
// Parameters:
//   - sources: the shader sources and encoded texture
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAssetSources(sources assets.Sources) EngineBuilderOption {
	return func(e *engine) {
		e.sources = sources
	}
}

// WithFreeCamera renders through cam and moves it with controller on every engine tick.
// The window's key events are forwarded to the controller.
//
// Parameters:
//   - cam: the free camera to render through
//   - controller: the controller that moves it, or nil for a static camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFreeCamera(cam camera.FreeCamera, controller camera.FreeCameraController) EngineBuilderOption {
	return func(e *engine) {
		e.freeCamera = cam
		e.controller = controller
	}
}

// WithLogger sends engine and profiler logs to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithClock replaces time.Now for uptime, frame limiting and profiling.
func WithClock(clock func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.clock = clock
	}
}

// OptionsFromConfig translates a validated configuration into engine options.
//
// Parameters:
//   - cfg: the application configuration
//
// Returns:
//   - []EngineBuilderOption: the options, to be passed to NewEngine
//   - error: error if the present mode or camera settings are invalid
func OptionsFromConfig(cfg config.Config) ([]EngineBuilderOption, error) {
	presentMode, err := renderer.ParsePresentMode(cfg.Renderer.PresentMode)
	if err != nil {
		return nil, err
	}

	c := cfg.Renderer.ClearColor
	options := []EngineBuilderOption{
		WithTickRate(cfg.TickRate),
		WithProfiling(cfg.Profiler.Enabled),
		WithProfilerOptions(profiler.WithInterval(cfg.Profiler.Interval.Duration())),
		WithGraphicsOptions(
			renderer.WithPresentMode(presentMode),
			renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceFallbackAdapter),
		),
		WithRenderPassOptions(renderer.WithClearColor(wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]})),
	}

	switch cfg.Camera.Mode {
	case config.CameraFree:
		cam, err := camera.NewFreeCamera(
			mgl32.Vec3(cfg.Camera.Eye),
			mgl32.DegToRad(cfg.Camera.Yaw),
			mgl32.DegToRad(cfg.Camera.Pitch),
			projectionOptions(cfg.Camera)...,
		)
		if err != nil {
			return nil, fmt.Errorf("free camera: %w", err)
		}
		controller := camera.NewFreeCameraController(
			camera.WithSpeed(cfg.Camera.Speed),
			camera.WithTurnRate(mgl32.DegToRad(cfg.Camera.TurnRate)),
		)
		options = append(options, WithFreeCamera(cam, controller))
	default:
		cam, err := camera.NewLookAtCamera(
			mgl32.Vec3(cfg.Camera.Eye),
			mgl32.Vec3(cfg.Camera.Target),
			mgl32.Vec3(cfg.Camera.Up),
			projectionOptions(cfg.Camera)...,
		)
		if err != nil {
			return nil, fmt.Errorf("look-at camera: %w", err)
		}
		options = append(options, WithRenderPassOptions(renderer.WithCamera(cam)))
	}

	return options, nil
}

func projectionOptions(c config.CameraConfig) []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithFovY(mgl32.DegToRad(c.FovY)),
		camera.WithClipPlanes(c.Near, c.Far),
	}
}
