package renderer

// GraphicsContextOption is a functional option applied to a GraphicsContext during construction
// via NewGraphicsContext.
type GraphicsContextOption func(*GraphicsContext)

// WithPresentMode sets the preferred present mode. Surfaces that do not support it fall back to
// their first reported mode.
//
// Parameters:
//   - mode: the preferred PresentMode
//
// Returns:
//   - GraphicsContextOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) GraphicsContextOption {
	return func(g *GraphicsContext) {
		g.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - GraphicsContextOption: a function that applies the force software renderer option
func WithForceSoftwareRenderer(force bool) GraphicsContextOption {
	return func(g *GraphicsContext) {
		g.forceFallbackAdapter = force
	}
}

// WithBackend uses backend instead of creating a wgpu device. The surface descriptor of the
// window is not used.
//
// Parameters:
//   - backend: the backend to render through
//
// Returns:
//   - GraphicsContextOption: a function that applies the backend option
func WithBackend(backend RendererBackend) GraphicsContextOption {
	return func(g *GraphicsContext) {
		g.backend = backend
	}
}
