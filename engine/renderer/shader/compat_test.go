package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestMergeBindGroupLayouts(t *testing.T) {
	vs, err := NewShader("vs", ShaderTypeVertex, testVertexSource)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := NewShader("fs", ShaderTypeFragment, testFragmentSource)
	if err != nil {
		t.Fatal(err)
	}

	merged, err := MergeBindGroupLayouts(vs, fs)
	if err != nil {
		t.Fatalf("MergeBindGroupLayouts: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("merged groups = %d, want 2", len(merged))
	}
	if merged[1].Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Error("camera group should stay vertex-only")
	}
	if merged[0].Entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Error("texture group should stay fragment-only")
	}
}

func TestMergeBindGroupLayoutsSharedBinding(t *testing.T) {
	shared := `@group(0) @binding(0) var<uniform> u: mat4x4<f32>;`
	vs, err := NewShader("vs", ShaderTypeVertex, shared+"\n@vertex fn vs_main() -> @builtin(position) vec4<f32> { return u[0]; }")
	if err != nil {
		t.Fatal(err)
	}
	fs, err := NewShader("fs", ShaderTypeFragment, shared+"\n@fragment fn fs_main() -> @location(0) vec4<f32> { return u[0]; }")
	if err != nil {
		t.Fatal(err)
	}

	merged, err := MergeBindGroupLayouts(vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	if got := merged[0].Entries[0].Visibility; got != want {
		t.Errorf("visibility = %v, want %v", got, want)
	}

	conflict, err := NewShader("fs2", ShaderTypeFragment, "@group(0) @binding(0) var s: sampler;\n@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(); }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := MergeBindGroupLayouts(vs, conflict); !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("conflicting bindings err = %v, want ErrLayoutMismatch", err)
	}
}

func TestCompareBindGroupLayout(t *testing.T) {
	reflected := wgpu.BindGroupLayoutDescriptor{Entries: []wgpu.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 64},
	}}}

	tests := []struct {
		name    string
		host    wgpu.BindGroupLayoutDescriptor
		wantErr bool
	}{
		{"identical", reflected, false},
		{"host size unset", wgpu.BindGroupLayoutDescriptor{Label: "cam", Entries: []wgpu.BindGroupLayoutEntry{{
			Binding: 0, Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}}}, false},
		{"wrong visibility", wgpu.BindGroupLayoutDescriptor{Entries: []wgpu.BindGroupLayoutEntry{{
			Binding: 0, Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 64},
		}}}, true},
		{"wrong size", wgpu.BindGroupLayoutDescriptor{Entries: []wgpu.BindGroupLayoutEntry{{
			Binding: 0, Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 128},
		}}}, true},
		{"wrong binding", wgpu.BindGroupLayoutDescriptor{Entries: []wgpu.BindGroupLayoutEntry{{
			Binding: 1, Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 64},
		}}}, true},
		{"extra binding", wgpu.BindGroupLayoutDescriptor{Entries: append(append([]wgpu.BindGroupLayoutEntry{}, reflected.Entries...), wgpu.BindGroupLayoutEntry{
			Binding: 1, Visibility: wgpu.ShaderStageVertex,
			Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		})}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareBindGroupLayout(1, reflected, tt.host)
			if tt.wantErr && !errors.Is(err, ErrLayoutMismatch) {
				t.Errorf("err = %v, want ErrLayoutMismatch", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected err: %v", err)
			}
		})
	}
}

func TestCompareVertexLayout(t *testing.T) {
	base := wgpu.VertexBufferLayout{
		ArrayStride: 20,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
	if err := CompareVertexLayout(0, base, base); err != nil {
		t.Errorf("identical layouts: %v", err)
	}

	color := wgpu.VertexBufferLayout{
		ArrayStride: 24,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
	if err := CompareVertexLayout(0, base, color); !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("stride mismatch err = %v", err)
	}

	shifted := base
	shifted.Attributes = []wgpu.VertexAttribute{base.Attributes[0], {Format: wgpu.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1}}
	if err := CompareVertexLayout(0, base, shifted); !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("offset mismatch err = %v", err)
	}
}
