package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the implementation of the BindGroupProvider interface.
type bindGroupProvider struct {
	label string

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout

	buffers      map[int]*wgpu.Buffer
	textures     map[int]*wgpu.Texture
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	vertexBuffer *wgpu.Buffer
	vertexCount  int
	indexBuffer  *wgpu.Buffer
	indexCount   int
	indexFormat  wgpu.IndexFormat
}

// BindGroupProvider owns the GPU objects behind one bind group or one mesh: the bind group and its
// layout, per-binding buffers, textures, views and samplers, and vertex/index buffers with their counts.
// Backends populate a provider through the setters; draw code reads it back through the getters.
type BindGroupProvider interface {
	// Release releases every GPU object owned by this provider.
	// Samplers are not released here because they are shared through the backend's sampler cache.
	Release()

	// Label returns the debug label used as a prefix for every GPU object created for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group built for this provider, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created against.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index within the bind group
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer, or nil if none is bound
	Buffer(binding int) *wgpu.Buffer

	// Texture returns the texture backing the view at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index within the bind group
	//
	// Returns:
	//   - *wgpu.Texture: the texture, or nil if none is bound
	Texture(binding int) *wgpu.Texture

	// TextureView returns the texture view bound at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index within the bind group
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view, or nil if none is bound
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler bound at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index within the bind group
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler, or nil if none is bound
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the mesh vertex buffer.
	VertexBuffer() *wgpu.Buffer

	// VertexCount returns the number of vertices stored in the vertex buffer.
	VertexCount() int

	// IndexBuffer returns the mesh index buffer, or nil for non-indexed meshes.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices stored in the index buffer.
	IndexCount() int

	// IndexFormat returns the element format of the index buffer.
	IndexFormat() wgpu.IndexFormat

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTexture(binding int, tex *wgpu.Texture)
	SetTextureView(binding int, tv *wgpu.TextureView)
	SetSampler(binding int, s *wgpu.Sampler)
	SetVertexBuffer(buf *wgpu.Buffer, count int)
	SetIndexBuffer(buf *wgpu.Buffer, count int, format wgpu.IndexFormat)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider with the given debug label.
//
// Parameters:
//   - label: the debug label used for GPU objects created for this provider
//   - options: functional options applied after the defaults
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		indexFormat:  wgpu.IndexFormatUint16,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Texture(binding int) *wgpu.Texture {
	return p.textures[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) VertexCount() int {
	return p.vertexCount
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) IndexFormat() wgpu.IndexFormat {
	return p.indexFormat
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture) {
	p.textures[binding] = tex
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer, count int) {
	p.vertexBuffer = buf
	p.vertexCount = count
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer, count int, format wgpu.IndexFormat) {
	p.indexBuffer = buf
	p.indexCount = count
	p.indexFormat = format
}

func (p *bindGroupProvider) Release() {
	// bind group first, it references the views and buffers below
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}

	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, tex := range p.textures {
		if tex != nil {
			tex.Release()
		}
		delete(p.textures, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	clear(p.samplers)

	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.vertexCount = 0
	p.indexCount = 0
}
