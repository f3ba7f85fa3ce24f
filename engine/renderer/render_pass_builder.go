package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/camera"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
)

// RenderPassOption is a functional option applied to a RenderPass during construction via NewRenderPass.
type RenderPassOption func(*RenderPass)

// WithShaders uses already parsed shaders instead of the embedded quad shaders.
//
// Parameters:
//   - vertex: the vertex stage shader
//   - fragment: the fragment stage shader
//
// Returns:
//   - RenderPassOption: a function that applies the shaders option
func WithShaders(vertex, fragment shader.Shader) RenderPassOption {
	return func(rp *RenderPass) {
		rp.vertexShader = vertex
		rp.fragmentShader = fragment
	}
}

// WithTextureBytes decodes encoded instead of the embedded crate texture.
//
// Parameters:
//   - encoded: PNG, JPEG, WebP or BMP bytes
//
// Returns:
//   - RenderPassOption: a function that applies the texture option
func WithTextureBytes(encoded []byte) RenderPassOption {
	return func(rp *RenderPass) {
		rp.textureBytes = encoded
	}
}

// WithTextureStaging uploads pixels that were decoded ahead of time.
//
// Parameters:
//   - staging: decoded RGBA8 pixels
//
// Returns:
//   - RenderPassOption: a function that applies the staging option
func WithTextureStaging(staging common.TextureStagingData) RenderPassOption {
	return func(rp *RenderPass) {
		rp.textureStaging = &staging
	}
}

// WithCamera replaces the default look-at camera. Its aspect is reset to the surface size.
//
// Parameters:
//   - cam: the camera to upload each frame
//
// Returns:
//   - RenderPassOption: a function that applies the camera option
func WithCamera(cam camera.Camera) RenderPassOption {
	return func(rp *RenderPass) {
		rp.camera = cam
	}
}

// WithClearColor sets the background color.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RenderPassOption: a function that applies the clear color option
func WithClearColor(c wgpu.Color) RenderPassOption {
	return func(rp *RenderPass) {
		rp.clearColor = c
	}
}
