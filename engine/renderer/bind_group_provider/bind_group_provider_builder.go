package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroupLayout seeds the provider with an existing layout so InitBindGroup reuses it
// instead of creating a new one.
//
// Parameters:
//   - bgl: the bind group layout to reuse
//
// Returns:
//   - BindGroupProviderOption: a function that sets the layout on the provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer pre-binds a buffer at the given binding so InitBindGroup does not allocate one.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to bind
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer on the provider
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithIndexFormat sets the index element format recorded for mesh providers.
//
// Parameters:
//   - format: wgpu.IndexFormatUint16 or wgpu.IndexFormatUint32
//
// Returns:
//   - BindGroupProviderOption: a function that sets the index format on the provider
func WithIndexFormat(format wgpu.IndexFormat) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexFormat = format
	}
}
