// Package common holds the plain data types and small helpers shared across the engine packages.
// Nothing in here talks to the GPU directly.
package common

import "github.com/cogentcore/webgpu/wgpu"

// TextureStagingData holds tightly packed RGBA8 pixel rows waiting to be uploaded to a GPU texture.
type TextureStagingData struct {
	// Pixels is Width*Height*4 bytes, row-major, top row first.
	Pixels []byte
	// Width of the image in pixels.
	Width uint32
	// Height of the image in pixels.
	Height uint32
}

// BytesPerRow is the stride of one pixel row.
func (t TextureStagingData) BytesPerRow() uint32 {
	return t.Width * 4
}

// Valid reports whether the staging data describes a non-empty image whose pixel buffer
// matches its dimensions.
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) == int(t.Width*t.Height*4)
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero fields fall back to linear filtering with repeat addressing when the sampler is created.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW control sampling outside [0, 1].
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter select magnification and minification filtering.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter selects filtering between mip levels.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the sampled level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the anisotropic filtering limit, 1 disables it.
	MaxAnisotropy uint16
}
