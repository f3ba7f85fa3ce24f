package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader source is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is a shader source containing a @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a shader source containing a @fragment entry point.
	ShaderTypeFragment
)

// String returns the stage name used in labels and log lines.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Visibility returns the wgpu stage flag resources declared by this shader are visible to.
func (t ShaderType) Visibility() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

// ErrMissingEntryPoint is returned when a source has no entry point for the requested stage.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

// shader is the implementation of the Shader interface.
type shader struct {
	key             string
	source          string
	shaderType      ShaderType
	entryPoint      string
	bindGroups      map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames map[int]map[int]string
	vertexLayouts   []wgpu.VertexBufferLayout
	declarations    []Annotation
	module          *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL source for one pipeline stage. Parsing happens once at construction and
// yields the entry point, the bind group layouts the stage declares, and for vertex shaders the
// vertex buffer layouts implied by the vertex input struct.
type Shader interface {
	// Key returns the unique identifier of this shader, also used as the module label.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source returns the WGSL source code after annotation expansion.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// ShaderType returns the stage this shader was parsed for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage entry function, e.g. "vs_main".
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// BindGroupLayoutDescriptors returns the layouts of every @group declared in the source,
	// keyed by group index, with entries sorted by binding and visible to this shader's stage.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable name declared at group/binding, or "" if none.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the declared variable name
	BindGroupVarName(group, binding int) string

	// VertexLayouts returns the vertex buffer layouts derived from the vertex input structs,
	// in declaration order. Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex input struct
	VertexLayouts() []wgpu.VertexBufferLayout

	// Declarations returns the @oxy:group and @oxy:provider annotations of the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the WGSL module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader expands the @oxy: annotations of source and parses the result for the given stage.
//
// Parameters:
//   - key: a unique identifier for the shader, used as its module label
//   - shaderType: the stage whose entry point and resource visibility apply
//   - source: the WGSL source code, optionally annotated
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrAnnotation for a malformed annotation, ErrMissingEntryPoint if the stage entry
//     point is absent, or a reflection error for resource declarations that can not be mapped
//     to a layout entry
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	source, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       source,
		shaderType:   shaderType,
		declarations: pp.Declarations(),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}

	s.entryPoint = parseEntryPoint(source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("%s: %w for %s stage", key, ErrMissingEntryPoint, shaderType)
	}

	s.bindGroups, s.bindingVarNames, err = parseBindGroupLayouts(source, shaderType.Visibility())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	if shaderType == ShaderTypeVertex {
		s.vertexLayouts, err = parseVertexLayouts(source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroups
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
