package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testVertexSource = `
struct CameraUniform {
    view_proj: mat4x4<f32>,
};
@group(1) @binding(0)
var<uniform> camera: CameraUniform;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) tex_coords: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) tex_coords: vec2<f32>,
};

// @vertex fn commented_out() {}
@vertex
fn vs_main(model: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.tex_coords = model.tex_coords;
    out.clip_position = camera.view_proj * vec4<f32>(model.position, 1.0);
    return out;
}
`

const testFragmentSource = `
/* group 0: the diffuse texture */
@group(0) @binding(0)
var t_diffuse: texture_2d<f32>;
@group(0) @binding(1)
var s_diffuse: sampler;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) tex_coords: vec2<f32>,
};

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(t_diffuse, s_diffuse, in.tex_coords);
}
`

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("quad.vert", ShaderTypeVertex, testVertexSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}

	if s.EntryPoint() != "vs_main" {
		t.Errorf("EntryPoint() = %q, want vs_main", s.EntryPoint())
	}
	if s.Module().Label != "quad.vert" || s.Module().WGSLDescriptor.Code != testVertexSource {
		t.Error("module descriptor does not carry key and source")
	}

	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("VertexLayouts() len = %d, want 1", len(layouts))
	}
	want := wgpu.VertexBufferLayout{
		ArrayStride: 20,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
	if err := CompareVertexLayout(0, layouts[0], want); err != nil {
		t.Errorf("vertex layout: %v", err)
	}

	groups := s.BindGroupLayoutDescriptors()
	cam, ok := groups[1]
	if !ok || len(cam.Entries) != 1 {
		t.Fatalf("group 1 = %+v, want one entry", cam)
	}
	e := cam.Entries[0]
	if e.Buffer.Type != wgpu.BufferBindingTypeUniform || e.Buffer.MinBindingSize != 64 || e.Visibility != wgpu.ShaderStageVertex {
		t.Errorf("camera entry = %+v", e)
	}
	if s.BindGroupVarName(1, 0) != "camera" {
		t.Errorf("BindGroupVarName(1,0) = %q", s.BindGroupVarName(1, 0))
	}
}

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("quad.frag", ShaderTypeFragment, testFragmentSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.EntryPoint() != "fs_main" {
		t.Errorf("EntryPoint() = %q, want fs_main", s.EntryPoint())
	}
	if s.VertexLayouts() != nil {
		t.Error("fragment shader should have no vertex layouts")
	}

	g0 := s.BindGroupLayoutDescriptors()[0]
	if len(g0.Entries) != 2 {
		t.Fatalf("group 0 entries = %d, want 2", len(g0.Entries))
	}
	tex, samp := g0.Entries[0], g0.Entries[1]
	if tex.Binding != 0 || tex.Texture.SampleType != wgpu.TextureSampleTypeFloat || tex.Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Errorf("texture entry = %+v", tex)
	}
	if samp.Binding != 1 || samp.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("sampler entry = %+v", samp)
	}
	for _, e := range g0.Entries {
		if e.Visibility != wgpu.ShaderStageFragment {
			t.Errorf("binding %d visibility = %v, want fragment", e.Binding, e.Visibility)
		}
	}
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		stage   ShaderType
		source  string
		wantErr error
	}{
		{
			name:    "missing entry point",
			stage:   ShaderTypeFragment,
			source:  testVertexSource,
			wantErr: ErrMissingEntryPoint,
		},
		{
			name:  "unsupported resource",
			stage: ShaderTypeFragment,
			source: `@group(0) @binding(0) var img: texture_storage_2d<rgba8unorm, write>;
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(); }`,
			wantErr: ErrUnsupportedType,
		},
		{
			name:  "unsupported vertex input",
			stage: ShaderTypeVertex,
			source: `struct In { @location(0) m: mat2x2<f32>, };
@vertex fn vs_main(in: In) -> @builtin(position) vec4<f32> { return vec4<f32>(); }`,
			wantErr: ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("bad", tt.stage, tt.source)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveTypeLayout(t *testing.T) {
	known := computeStructSizes(parseStructBlocks(`
struct Inner { a: vec3<f32>, b: f32, }
struct Outer { inner: Inner, m: mat4x4<f32>, arr: array<vec4<f32>, 4>, }
`))

	tests := []struct {
		typeName string
		size     uint64
		align    uint64
		ok       bool
	}{
		{"f32", 4, 4, true},
		{"vec3<f32>", 12, 16, true},
		{"Inner", 16, 16, true},
		{"array<f32, 3>", 12, 4, true},
		{"Outer", 16 + 64 + 64, 16, true},
		{"array<f32>", 0, 0, false},
		{"Missing", 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := resolveTypeLayout(tt.typeName, known)
		if ok != tt.ok || got.size != tt.size || got.align != tt.align {
			t.Errorf("resolveTypeLayout(%q) = %+v, %v; want {%d %d}, %v", tt.typeName, got, ok, tt.size, tt.align, tt.ok)
		}
	}
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* nested */ c */ d // e\nf"
	got := stripComments(src)
	if got != "a  d \nf\n" {
		t.Errorf("stripComments = %q", got)
	}
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	got := splitAtTopLevelCommas("a: f32, b: array<f32, 4>, c: vec2<f32>")
	if len(got) != 3 || got[1] != " b: array<f32, 4>" {
		t.Errorf("splitAtTopLevelCommas = %q", got)
	}
}
