package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a vertex format with its byte size for offset accumulation.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout is the byte size and alignment of a WGSL type in the uniform/storage address spaces.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one struct member.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is one struct declaration.
type parsedStruct struct {
	name   string
	fields []parsedField
}
