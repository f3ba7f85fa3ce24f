package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-quad/common"
)

// ErrNotInitialized is returned by operations on a window whose platform window was never created
// or has already been closed.
var ErrNotInitialized = errors.New("window is not initialized")

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetRedrawCallback sets the function called each message loop iteration, after pending
	// events were processed.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetRedrawCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	// A minimized window reports a zero size.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window. The window keeps
	// ownership of the native handle; the surface borrows it until Close.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	// The window stays valid until Close.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: ErrNotInitialized if the window was never created or is already closed
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the redraw callback each iteration.
	ProcessMessages()

	// Title returns the title shown in the title bar.
	Title() string

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// size limits applied while the user resizes; 0 leaves a side unconstrained
	minWidth, minHeight int
	maxWidth, maxHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// closeOnEscape closes the window when Escape is pressed.
	closeOnEscape bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onRedraw  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// newEngineWindow applies the defaults and options without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) (*engineWindow, error) {
	w := &engineWindow{
		title:         "Hello Land!",
		width:         1600,
		height:        1200,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if !common.Positive(w.width, w.height) {
		return nil, fmt.Errorf("invalid window size %dx%d", w.width, w.height)
	}
	if (w.maxWidth > 0 && w.maxWidth < w.minWidth) || (w.maxHeight > 0 && w.maxHeight < w.minHeight) {
		return nil, fmt.Errorf("window size limits min %dx%d exceed max %dx%d", w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	}
	return w, nil
}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. Must be called from the main
// goroutine; the calling goroutine is locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the options are invalid or the platform window can not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w, err := newEngineWindow(options...)
	if err != nil {
		return nil, err
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetRedrawCallback(callback func()) {
	w.onRedraw = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onRedraw != nil {
			w.onRedraw()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// keyAction is a platform-independent key transition.
type keyAction int

const (
	keyPress keyAction = iota
	keyRepeat
	keyRelease
)

// handleKey routes a key event. Escape closes the window when enabled and is not forwarded.
// Auto-repeats are dropped so every physical press reaches onKeyDown once.
// Reports whether the window should close.
func (w *engineWindow) handleKey(keyCode uint32, action keyAction) bool {
	switch action {
	case keyPress:
		if w.closeOnEscape && keyCode == common.KeyEsc {
			return true
		}
		if w.onKeyDown != nil {
			w.onKeyDown(keyCode)
		}
	case keyRelease:
		if w.onKeyUp != nil {
			w.onKeyUp(keyCode)
		}
	}
	return false
}

// handleFramebufferSize records the new framebuffer size and forwards it.
func (w *engineWindow) handleFramebufferSize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
