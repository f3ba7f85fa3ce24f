package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("quad")

	if p.PipelineKey() != "quad" {
		t.Errorf("PipelineKey() = %q, want quad", p.PipelineKey())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("Topology() = %v, want triangle list", p.Topology())
	}
	if p.CullMode() != wgpu.CullModeBack {
		t.Errorf("CullMode() = %v, want back", p.CullMode())
	}
	if p.FrontFace() != wgpu.FrontFaceCCW {
		t.Errorf("FrontFace() = %v, want CCW", p.FrontFace())
	}
	if p.WriteMask() != wgpu.ColorWriteMaskAll {
		t.Errorf("WriteMask() = %v, want all", p.WriteMask())
	}
	if p.SampleCount() != 1 {
		t.Errorf("SampleCount() = %d, want 1", p.SampleCount())
	}
	if bs := p.BlendState(); bs == nil || *bs != ReplaceBlendState {
		t.Errorf("BlendState() = %+v, want replace", bs)
	}
	if p.RenderPipeline() != nil {
		t.Error("RenderPipeline() should be nil before compilation")
	}
}

func TestPipelineOptions(t *testing.T) {
	vs, err := shader.NewShader("vs", shader.ShaderTypeVertex, "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}

	p := NewPipeline("opts",
		WithVertexShader(vs),
		WithCullMode(wgpu.CullModeNone),
		WithFrontFace(wgpu.FrontFaceCW),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithBlendState(nil),
		WithSampleCount(0),
	)

	if p.Shader(shader.ShaderTypeVertex) != vs {
		t.Error("vertex shader not stored")
	}
	if p.Shader(shader.ShaderTypeFragment) != nil {
		t.Error("fragment shader should be nil")
	}
	if p.CullMode() != wgpu.CullModeNone || p.FrontFace() != wgpu.FrontFaceCW {
		t.Error("cull/front face options not applied")
	}
	if p.Topology() != wgpu.PrimitiveTopologyLineList || p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Error("topology/write mask options not applied")
	}
	if p.BlendState() != nil {
		t.Error("WithBlendState(nil) should disable blending")
	}
	if p.SampleCount() != 1 {
		t.Errorf("WithSampleCount(0) gave %d, want 1", p.SampleCount())
	}

	// nil-safe without a compiled pipeline
	p.Release()
}
