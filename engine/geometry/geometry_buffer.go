package geometry

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/bind_group_provider"
)

// ErrEmptyGeometry is returned when a GeometryBuffer is built without vertices.
var ErrEmptyGeometry = errors.New("geometry: no vertices")

// MeshUploader creates GPU vertex and index buffers and stores them on a provider.
// The renderer backend implements it.
type MeshUploader interface {
	// InitMeshBuffers uploads vertex and index data into new GPU buffers.
	//
	// Parameters:
	//   - provider: receives the buffers and their counts
	//   - vertexData: raw vertex bytes
	//   - vertexCount: the number of vertex records in vertexData
	//   - indexData: raw index bytes, empty for non-indexed meshes
	//   - indexCount: the number of indices in indexData
	//   - indexFormat: the element format of indexData
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error
}

// GeometryBuffer is GPU-resident vertex data with an optional uint16 index buffer and the layout
// describing the vertex records. It has no update operation.
type GeometryBuffer struct {
	shape    Shape
	layout   wgpu.VertexBufferLayout
	provider bind_group_provider.BindGroupProvider
}

// NewGeometryBuffer uploads vertices and indices once.
//
// Parameters:
//   - uploader: creates the GPU buffers
//   - label: the debug label for the buffers
//   - vertices: the vertex records, at least one
//   - indices: the uint16 indices, or nil to draw vertices in order
//
// Returns:
//   - *GeometryBuffer: the uploaded geometry
//   - error: ErrEmptyGeometry, ErrUnknownShape or the upload error
func NewGeometryBuffer[V Vertex](uploader MeshUploader, label string, vertices []V, indices []uint16) (*GeometryBuffer, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%s: %w", label, ErrEmptyGeometry)
	}
	shape := vertices[0].Shape()
	layout, err := Layout(shape)
	if err != nil {
		return nil, err
	}

	provider := bind_group_provider.NewBindGroupProvider(label)
	err = uploader.InitMeshBuffers(provider,
		common.SliceToBytes(vertices), len(vertices),
		common.SliceToBytes(indices), len(indices),
		wgpu.IndexFormatUint16,
	)
	if err != nil {
		provider.Release()
		return nil, fmt.Errorf("%s: upload: %w", label, err)
	}

	return &GeometryBuffer{
		shape:    shape,
		layout:   layout,
		provider: provider,
	}, nil
}

// Shape returns the vertex shape tag.
func (g *GeometryBuffer) Shape() Shape {
	return g.shape
}

// Layout returns the vertex buffer layout the pipeline must be compiled against.
func (g *GeometryBuffer) Layout() wgpu.VertexBufferLayout {
	return g.layout
}

// Provider returns the provider holding the vertex and index buffers.
func (g *GeometryBuffer) Provider() bind_group_provider.BindGroupProvider {
	return g.provider
}

// VertexCount returns the number of uploaded vertex records.
func (g *GeometryBuffer) VertexCount() int {
	return g.provider.VertexCount()
}

// IndexCount returns the number of uploaded indices, 0 for non-indexed geometry.
func (g *GeometryBuffer) IndexCount() int {
	return g.provider.IndexCount()
}

// Indexed reports whether the geometry has an index buffer.
func (g *GeometryBuffer) Indexed() bool {
	return g.provider.IndexCount() > 0
}

// Release frees the GPU buffers.
func (g *GeometryBuffer) Release() {
	if g.provider != nil {
		g.provider.Release()
	}
}
