package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/assets"
	"github.com/Carmen-Shannon/oxy-quad/engine/camera"
	"github.com/Carmen-Shannon/oxy-quad/engine/profiler"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer"
	"github.com/Carmen-Shannon/oxy-quad/engine/window"
)

// engine implements the Engine interface.
// Coordinates the main-thread redraw loop and the tick goroutine.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	mu      *sync.Mutex
	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window     window.Window
	context    *renderer.GraphicsContext
	renderPass *renderer.RenderPass

	profiler         *profiler.Profiler
	profilerOptions  []profiler.ProfilerOption
	profilingEnabled bool

	graphicsOptions   []renderer.GraphicsContextOption
	renderPassOptions []renderer.RenderPassOption
	sources           assets.Sources

	controller camera.FreeCameraController
	freeCamera camera.FreeCamera

	logger *slog.Logger
	clock  func() time.Time
	start  time.Time

	engineTickRate   time.Duration
	tickCallback     func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time

	// fatal is the error that stopped the redraw loop
	fatal error
}

// Engine is the main entry point for the engine.
// It owns the graphics context and render pass of a window and drives them from the window's
// message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Context returns the graphics context bound to the window.
	Context() *renderer.GraphicsContext

	// RenderPass returns the quad render pass.
	RenderPass() *renderer.RenderPass

	// Profiler returns the frame profiler.
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The camera controller and tick callback are updated at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Uptime returns the time since the engine was created.
	Uptime() time.Duration

	// Run drives the window message loop until the window closes or the device is lost, then
	// releases the GPU resources. Must be called on the main thread.
	//
	// Returns:
	//   - error: renderer.ErrDeviceLost if rendering had to stop, nil on a normal close
	Run() error

	// Quit asks the message loop to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates the graphics context for w, prepares the assets on the worker pool and
// builds the render pass. It blocks until the device is ready and must be called on the main
// thread.
//
// Parameters:
//   - w: the window to render into
//   - options: functional options for engine configuration (profiling, tick rate, camera, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: a startup error from the graphics context, asset preparation or render pass
func NewEngine(w window.Window, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		mu:              &sync.Mutex{},
		window:          w,
		sources:         assets.DefaultSources(),
		logger:          slog.Default(),
		clock:           time.Now,
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	e.start = e.clock()
	e.lastRender = e.start
	e.profiler = profiler.NewProfiler(append([]profiler.ProfilerOption{
		profiler.WithClock(e.clock),
		profiler.WithLogger(e.logger),
	}, e.profilerOptions...)...)

	ctx, err := renderer.NewGraphicsContext(w, e.graphicsOptions...)
	if err != nil {
		return nil, fmt.Errorf("graphics context: %w", err)
	}
	e.context = ctx

	prepared, err := assets.Prepare(e.sources, ctx.MaxTextureDimension2D())
	if err != nil {
		ctx.Release()
		return nil, err
	}

	rpOptions := append([]renderer.RenderPassOption{
		renderer.WithShaders(prepared.VertexShader, prepared.FragmentShader),
		renderer.WithTextureStaging(prepared.Texture),
	}, e.renderPassOptions...)
	if e.freeCamera != nil {
		rpOptions = append(rpOptions, renderer.WithCamera(e.freeCamera))
	}
	rp, err := renderer.NewRenderPass(ctx, rpOptions...)
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("render pass: %w", err)
	}
	e.renderPass = rp

	w.SetResizeCallback(e.onResize)
	w.SetRedrawCallback(e.onRedraw)
	w.SetKeyDownCallback(e.onKeyDown)
	w.SetKeyUpCallback(e.onKeyUp)

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Context() *renderer.GraphicsContext {
	return e.context
}

func (e *engine) RenderPass() *renderer.RenderPass {
	return e.renderPass
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Uptime() time.Duration {
	return e.clock().Sub(e.start)
}

func (e *engine) Run() error {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.handleEngine()

	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()

	if e.fatal != nil {
		// the device is gone, skip the release calls
		return e.fatal
	}
	e.renderPass.Release()
	e.context.Release()
	return nil
}

// Quit signals the tick goroutine to stop and asks the window to close.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	e.window.RequestClose()
}

// signalQuit closes the quit channel to signal the tick goroutine to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Updates the camera controller and fires the tick callback at the configured tick rate, and
// listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.Lock()
	ticker := time.NewTicker(e.engineTickRate)
	e.mu.Unlock()
	defer ticker.Stop()

	lastTick := e.clock()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := e.clock()
			e.update(now.Sub(lastTick))
			lastTick = now
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// update advances everything that moves with time by dt.
func (e *engine) update(dt time.Duration) {
	if e.controller != nil && e.freeCamera != nil {
		e.controller.Update(e.freeCamera, dt)
	}
	if e.tickCallback != nil {
		e.tickCallback(float32(dt.Seconds()))
	}
}

// onResize reconfigures the surface and camera for a new framebuffer size. Zero sizes, reported
// while the window is minimized, are ignored so the last good configuration stays in place.
func (e *engine) onResize(width, height int) {
	if !common.Positive(width, height) {
		e.logger.Debug("ignoring degenerate resize", slog.Int("width", width), slog.Int("height", height))
		return
	}
	if err := e.context.Resize(width, height); err != nil {
		e.logger.Warn("surface resize failed", slog.Int("width", width), slog.Int("height", height), slog.Any("error", err))
		return
	}
	if err := e.renderPass.Resize(width, height); err != nil {
		e.logger.Warn("camera resize failed", slog.Any("error", err))
	}
}

// onRedraw draws one frame. A lost device stops the loop; Run then returns the error.
func (e *engine) onRedraw() {
	if e.fatal != nil {
		return
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.clock().Sub(e.lastRender); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	e.lastRender = e.clock()

	if err := e.renderPass.Draw(); err != nil {
		if errors.Is(err, renderer.ErrDeviceLost) {
			e.logger.Error("device lost, stopping", slog.Any("error", err))
			e.fatal = err
			e.Quit()
			return
		}
		e.logger.Warn("frame failed", slog.Any("error", err))
	}

	if e.profilingEnabled {
		e.profiler.Tick(e.renderPass.Skipped())
	}
}

func (e *engine) onKeyDown(keyCode uint32) {
	if keyCode == common.KeyT {
		e.logger.Info("uptime", slog.Duration("uptime", e.Uptime()))
	}
	if e.controller != nil {
		e.controller.KeyDown(keyCode)
	}
}

func (e *engine) onKeyUp(keyCode uint32) {
	if e.controller != nil {
		e.controller.KeyUp(keyCode)
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()

	if !running {
		return
	}
	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
