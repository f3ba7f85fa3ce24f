package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the WGSL declaration matching GPUCameraUniform.
const GPUCameraUniformSource = `struct CameraUniform {
    view_proj: mat4x4<f32>,
};`

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Size: 64 bytes, a single column-major mat4x4<f32>.
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset 0: combined view-projection matrix
}

// NewGPUCameraUniform packs a view-projection matrix for upload.
func NewGPUCameraUniform(viewProj mgl32.Mat4) GPUCameraUniform {
	return GPUCameraUniform{ViewProj: viewProj}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into little-endian bytes suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}

// BindGroupLayoutDescriptor returns the camera bind group layout: one uniform buffer at binding 0,
// visible to the vertex stage only.
func BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(GPUCameraUniform{})),
				},
			},
		},
	}
}
