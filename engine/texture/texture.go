// Package texture builds the sampled texture bound at group 0 of the quad pipeline.
package texture

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/bind_group_provider"
)

const (
	// ViewBinding is the binding index of the texture view.
	ViewBinding = 0

	// SamplerBinding is the binding index of the sampler.
	SamplerBinding = 1
)

// Uploader creates the GPU objects behind a TextureResource. The renderer backend implements it.
type Uploader interface {
	// MaxTextureDimension2D returns the largest 2D texture side the device supports.
	MaxTextureDimension2D() uint32

	// InitTextureView creates an RGBA8UnormSrgb texture from staging data, uploads the pixels and
	// stores the texture and its view on the provider at binding.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates or reuses a sampler and stores it on the provider at binding.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error

	// InitBindGroup creates the layout and bind group for descriptor from the objects already on the provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
}

// LinearSampler clamps to the edge and filters linearly at every stage.
func LinearSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// BindGroupLayoutDescriptor returns the fixed two-binding layout: a filterable 2D float texture
// view at binding 0 and a filtering sampler at binding 1, both fragment-visible.
func BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    ViewBinding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// TextureResource is a GPU image with its sampler and bind group.
type TextureResource struct {
	label    string
	width    uint32
	height   uint32
	provider bind_group_provider.BindGroupProvider
}

// TextureOption configures NewTextureResource.
type TextureOption func(*textureConfig)

type textureConfig struct {
	sampler common.SamplerStagingData
}

// WithSampler replaces the default LinearSampler.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - TextureOption: functional option to set the sampler
func WithSampler(s common.SamplerStagingData) TextureOption {
	return func(c *textureConfig) {
		c.sampler = s
	}
}

// NewTextureResource decodes encoded, uploads it as an sRGB texture, attaches a sampler and
// builds the bind group against BindGroupLayoutDescriptor.
//
// Parameters:
//   - uploader: creates the GPU objects
//   - label: the debug label for the GPU objects
//   - encoded: the encoded image bytes
//   - options: functional options
//
// Returns:
//   - *TextureResource: the uploaded texture
//   - error: ErrDecode, or the GPU error wrapped with the label
func NewTextureResource(uploader Uploader, label string, encoded []byte, options ...TextureOption) (*TextureResource, error) {
	staging, err := Decode(encoded, uploader.MaxTextureDimension2D())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return NewTextureResourceFromStaging(uploader, label, staging, options...)
}

// NewTextureResourceFromStaging uploads already decoded pixels. Decoding can then happen off
// the render thread.
//
// Parameters:
//   - uploader: creates the GPU objects
//   - label: the debug label for the GPU objects
//   - staging: decoded RGBA8 pixels
//   - options: functional options
//
// Returns:
//   - *TextureResource: the uploaded texture
//   - error: ErrDecode for invalid staging data, or the GPU error wrapped with the label
func NewTextureResourceFromStaging(uploader Uploader, label string, staging common.TextureStagingData, options ...TextureOption) (*TextureResource, error) {
	cfg := textureConfig{sampler: LinearSampler()}
	for _, opt := range options {
		opt(&cfg)
	}

	if !staging.Valid() {
		return nil, fmt.Errorf("%s: %w: %dx%d with %d bytes", label, ErrDecode, staging.Width, staging.Height, len(staging.Pixels))
	}
	if limit := uploader.MaxTextureDimension2D(); limit > 0 && (staging.Width > limit || staging.Height > limit) {
		return nil, fmt.Errorf("%s: %dx%d exceeds device limit %d", label, staging.Width, staging.Height, limit)
	}

	provider := bind_group_provider.NewBindGroupProvider(label)
	fail := func(step string, err error) (*TextureResource, error) {
		provider.Release()
		return nil, fmt.Errorf("%s: %s: %w", label, step, err)
	}

	if err := uploader.InitTextureView(provider, ViewBinding, staging); err != nil {
		return fail("texture", err)
	}
	if err := uploader.InitSampler(provider, SamplerBinding, cfg.sampler); err != nil {
		return fail("sampler", err)
	}
	if err := uploader.InitBindGroup(provider, BindGroupLayoutDescriptor()); err != nil {
		return fail("bind group", err)
	}

	return &TextureResource{
		label:    label,
		width:    staging.Width,
		height:   staging.Height,
		provider: provider,
	}, nil
}

// Label returns the debug label.
func (t *TextureResource) Label() string {
	return t.label
}

// Width returns the uploaded width in pixels.
func (t *TextureResource) Width() uint32 {
	return t.width
}

// Height returns the uploaded height in pixels.
func (t *TextureResource) Height() uint32 {
	return t.height
}

// Provider returns the provider holding the texture, view, sampler and bind group.
func (t *TextureResource) Provider() bind_group_provider.BindGroupProvider {
	return t.provider
}

// BindGroup returns the bind group to set at group 0.
func (t *TextureResource) BindGroup() *wgpu.BindGroup {
	return t.provider.BindGroup()
}

// Release frees the texture, view and bind group. The sampler is owned by the backend cache.
func (t *TextureResource) Release() {
	if t.provider != nil {
		t.provider.Release()
	}
}
