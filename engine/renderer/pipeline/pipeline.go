package pipeline

import (
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, also used as the GPU object label
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until a backend compiles this description
	renderPipeline *wgpu.RenderPipeline

	// The following properties are used to configure the pipeline during creation and can be toggled/set with the builder options.

	cullMode    wgpu.CullMode
	topology    wgpu.PrimitiveTopology
	frontFace   wgpu.FrontFace
	writeMask   wgpu.ColorWriteMask
	blendState  *wgpu.BlendState
	sampleCount uint32
}

// Pipeline describes one render pipeline: the vertex and fragment shaders plus the fixed-function
// state (topology, culling, winding, blending, write mask, sample count). A backend compiles the
// description and stores the result back through SetRenderPipeline.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified stage if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the stage of shader to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for that stage, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the compiled pipeline, or nil before compilation.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the winding order that counts as front facing.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask of the single color target.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state of the single color target.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, defaults to straight replace
	BlendState() *wgpu.BlendState

	// SampleCount returns the multisample count.
	SampleCount() uint32

	// SetRenderPipeline stores the compiled pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release releases the compiled pipeline if one was set.
	Release()
}

var _ Pipeline = &pipeline{}

// ReplaceBlendState writes source color and alpha over the target unchanged.
var ReplaceBlendState = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

// NewPipeline is the entry point to create a new Pipeline description.
// Defaults are a triangle list with CCW front faces, back-face culling, replace blending,
// all channels written and a single sample.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	blend := ReplaceBlendState
	p := &pipeline{
		pipelineKey: pipelineKey,
		cullMode:    wgpu.CullModeBack,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
		blendState:  &blend,
		sampleCount: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
