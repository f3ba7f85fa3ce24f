// Package geometry holds the vertex record types, their buffer layouts, and the GPU-resident
// buffers built from them.
package geometry

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnknownShape is returned by Layout for a shape tag with no table entry.
var ErrUnknownShape = errors.New("geometry: unknown vertex shape")

// Shape tags the in-memory record layout of a vertex.
type Shape int

const (
	// ShapeColor is a ColorVertex: position followed by an RGB color.
	ShapeColor Shape = iota

	// ShapeTexture is a TextureVertex: position followed by a texture coordinate.
	ShapeTexture
)

func (s Shape) String() string {
	switch s {
	case ShapeColor:
		return "color"
	case ShapeTexture:
		return "texture"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ColorVertex is a position with a per-vertex RGB color.
type ColorVertex struct {
	Position [3]float32
	Color    [3]float32
}

// TextureVertex is a position with a texture coordinate. UV (0,0) is the top-left texel.
type TextureVertex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// Vertex is the set of vertex records a GeometryBuffer can hold.
type Vertex interface {
	ColorVertex | TextureVertex

	// Shape returns the tag under which the record's layout is registered.
	Shape() Shape
}

func (ColorVertex) Shape() Shape { return ShapeColor }

func (TextureVertex) Shape() Shape { return ShapeTexture }

// layouts is the vertex layout table. Strides and offsets come from the Go records themselves so
// the table can not drift from the data uploaded.
var layouts = map[Shape]wgpu.VertexBufferLayout{
	ShapeColor: {
		ArrayStride: uint64(unsafe.Sizeof(ColorVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(ColorVertex{}.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(ColorVertex{}.Color)), ShaderLocation: 1},
		},
	},
	ShapeTexture: {
		ArrayStride: uint64(unsafe.Sizeof(TextureVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(TextureVertex{}.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(TextureVertex{}.TexCoords)), ShaderLocation: 1},
		},
	},
}

// Layout returns the vertex buffer layout registered for shape. The attribute slice is a copy.
//
// Parameters:
//   - shape: the vertex shape tag
//
// Returns:
//   - wgpu.VertexBufferLayout: stride, step mode and attributes of the shape
//   - error: ErrUnknownShape if the tag is not registered
func Layout(shape Shape) (wgpu.VertexBufferLayout, error) {
	l, ok := layouts[shape]
	if !ok {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("%w: %v", ErrUnknownShape, shape)
	}
	l.Attributes = append([]wgpu.VertexAttribute(nil), l.Attributes...)
	return l, nil
}
