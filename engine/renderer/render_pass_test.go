package renderer

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-quad/engine/assets"
	"github.com/Carmen-Shannon/oxy-quad/engine/camera"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
)

func newTestRenderPass(t *testing.T, backend *fakeBackend, options ...RenderPassOption) (*GraphicsContext, *RenderPass) {
	t.Helper()
	ctx := newTestContext(t, backend, 800, 600)
	rp, err := NewRenderPass(ctx, options...)
	if err != nil {
		t.Fatalf("NewRenderPass: %v", err)
	}
	return ctx, rp
}

func TestNewRenderPassBuildsResources(t *testing.T) {
	backend := newFakeBackend()
	_, rp := newTestRenderPass(t, backend)

	if !slices.Equal(backend.pipelines, []string{"Quad"}) {
		t.Errorf("pipelines = %v, want [Quad]", backend.pipelines)
	}
	if backend.pipelineFormat != wgpu.TextureFormatBGRA8UnormSrgb {
		t.Errorf("pipeline format = %v, want surface format", backend.pipelineFormat)
	}
	if rp.IndexCount() != 6 {
		t.Errorf("IndexCount() = %d, want 6", rp.IndexCount())
	}
	if len(backend.textures) != 1 {
		t.Fatalf("uploaded %d textures, want 1", len(backend.textures))
	}
	if tex := backend.textures[0]; tex.Width != 64 || tex.Height != 64 {
		t.Errorf("texture = %dx%d, want 64x64", tex.Width, tex.Height)
	}
	if len(backend.samplers) != 1 {
		t.Errorf("created %d samplers, want 1", len(backend.samplers))
	}
	for _, label := range []string{"Crate Texture", "Camera"} {
		if _, ok := backend.layouts[label]; !ok {
			t.Errorf("no bind group built for %q", label)
		}
	}
	if got := len(backend.writes["Camera"]); got != 64 {
		t.Errorf("camera upload = %d bytes, want 64", got)
	}
	if backend.frames != 0 {
		t.Errorf("building began %d frames", backend.frames)
	}
}

func TestRenderPassDraw(t *testing.T) {
	backend := newFakeBackend()
	_, rp := newTestRenderPass(t, backend)

	if err := rp.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if rp.Skipped() {
		t.Error("Skipped() = true after a successful frame")
	}
	if len(backend.draws) != 1 {
		t.Fatalf("issued %d draws, want 1", len(backend.draws))
	}
	d := backend.draws[0]
	if d.pipelineKey != "Quad" || d.indexCount != 6 || d.instanceCount != 1 {
		t.Errorf("draw = %+v, want Quad with 6 indices and 1 instance", d)
	}
	if d.indexFormat != wgpu.IndexFormatUint16 {
		t.Errorf("index format = %v, want uint16", d.indexFormat)
	}
	if !slices.Equal(d.bindGroups, []string{"Crate Texture", "Camera"}) {
		t.Errorf("bind groups = %v, want [Crate Texture Camera]", d.bindGroups)
	}
	if len(backend.clearColors) != 1 || backend.clearColors[0] != DefaultClearColor {
		t.Errorf("clear colors = %v, want [%v]", backend.clearColors, DefaultClearColor)
	}
	if backend.ended != 1 || backend.presented != 1 {
		t.Errorf("ended %d presented %d, want 1 and 1", backend.ended, backend.presented)
	}
}

func TestRenderPassClearColorOption(t *testing.T) {
	backend := newFakeBackend()
	red := wgpu.Color{R: 1, A: 1}
	_, rp := newTestRenderPass(t, backend, WithClearColor(red))

	if err := rp.Draw(); err != nil {
		t.Fatal(err)
	}
	if backend.clearColors[0] != red {
		t.Errorf("clear color = %v, want %v", backend.clearColors[0], red)
	}
}

func TestRenderPassAcquireFailures(t *testing.T) {
	tests := []struct {
		status          string
		wantErr         error
		wantReconfigure int
		wantSkipped     bool
	}{
		{"Outdated", nil, 1, true},
		{"Lost", nil, 1, true},
		{"Timeout", nil, 0, true},
		{"DeviceLost", ErrDeviceLost, 0, false},
		{"OutOfMemory", ErrDeviceLost, 0, false},
		{"wgpu.(*Surface).GetCurrentTexture(): Parent device is lost", ErrDeviceLost, 0, false},
		{"Validation Error: Device is lost", ErrDeviceLost, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			backend := newFakeBackend()
			_, rp := newTestRenderPass(t, backend)
			configured := len(backend.configs)
			backend.beginErrs = []error{acquireErr(tt.status)}

			err := rp.Draw()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Draw() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Draw() error = %v, want %v", err, tt.wantErr)
			}
			if got := len(backend.configs) - configured; got != tt.wantReconfigure {
				t.Errorf("reconfigured %d times, want %d", got, tt.wantReconfigure)
			}
			if rp.Skipped() != tt.wantSkipped {
				t.Errorf("Skipped() = %v, want %v", rp.Skipped(), tt.wantSkipped)
			}
			if len(backend.draws) != 0 || backend.presented != 0 {
				t.Errorf("failed acquire drew %d and presented %d", len(backend.draws), backend.presented)
			}
		})
	}
}

func TestRenderPassRecoversAfterSkippedFrame(t *testing.T) {
	backend := newFakeBackend()
	ctx, rp := newTestRenderPass(t, backend)
	if err := ctx.Resize(1024, 768); err != nil {
		t.Fatal(err)
	}
	backend.beginErrs = []error{acquireErr("Outdated"), nil}

	if err := rp.Draw(); err != nil {
		t.Fatal(err)
	}
	last := backend.configs[len(backend.configs)-1]
	if last.Width != 1024 || last.Height != 768 {
		t.Errorf("reconfigured at %dx%d, want 1024x768", last.Width, last.Height)
	}

	if err := rp.Draw(); err != nil {
		t.Fatal(err)
	}
	if rp.Skipped() {
		t.Error("second frame was skipped")
	}
	if len(backend.draws) != 1 || backend.presented != 1 {
		t.Errorf("drew %d presented %d, want 1 and 1", len(backend.draws), backend.presented)
	}
}

func TestRenderPassUploadsCameraPose(t *testing.T) {
	backend := newFakeBackend()
	_, rp := newTestRenderPass(t, backend)

	if err := rp.Draw(); err != nil {
		t.Fatal(err)
	}
	before := backend.writes["Camera"]

	cam, ok := rp.Camera().(camera.LookAtCamera)
	if !ok {
		t.Fatalf("default camera is %T, want LookAtCamera", rp.Camera())
	}
	if err := cam.SetPose(mgl32.Vec3{1, 1, 3}, mgl32.Vec3{}, camera.WorldUp); err != nil {
		t.Fatal(err)
	}
	if err := rp.Draw(); err != nil {
		t.Fatal(err)
	}

	after := backend.writes["Camera"]
	if bytes.Equal(before, after) {
		t.Error("camera upload did not change after SetPose")
	}
	u := cam.Uniform()
	if !bytes.Equal(after, u.Marshal()) {
		t.Error("camera upload does not match the camera uniform")
	}
}

func TestRenderPassResize(t *testing.T) {
	backend := newFakeBackend()
	_, rp := newTestRenderPass(t, backend)

	if err := rp.Resize(1000, 500); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got := rp.Camera().Projection().Aspect; got != 2 {
		t.Errorf("aspect = %v, want 2", got)
	}

	for _, s := range [][2]int{{0, 500}, {1000, 0}, {0, 0}} {
		if err := rp.Resize(s[0], s[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Resize(%d, %d) error = %v, want ErrInvalidDimensions", s[0], s[1], err)
		}
	}
	if got := rp.Camera().Projection().Aspect; got != 2 {
		t.Errorf("aspect after degenerate resize = %v, want 2", got)
	}
}

func TestRenderPassSuppliedCameraTakesSurfaceAspect(t *testing.T) {
	cam, err := camera.NewFreeCamera(mgl32.Vec3{0, 0, 2}, -math.Pi/2, 0)
	if err != nil {
		t.Fatal(err)
	}
	backend := newFakeBackend()
	_, rp := newTestRenderPass(t, backend, WithCamera(cam))

	if rp.Camera() != cam {
		t.Error("supplied camera was not used")
	}
	if got := cam.Projection().Aspect; got != float32(800)/float32(600) {
		t.Errorf("aspect = %v, want 800/600", got)
	}
}

const mismatchedVertexShader = `
struct CameraUniform {
    view_proj: mat4x4<f32>,
};
@group(1) @binding(0)
var<uniform> camera: CameraUniform;

struct VertexInput {
    @location(0) position: vec4<f32>,
    @location(1) tex_coords: vec2<f32>,
};

@vertex
fn vs_main(model: VertexInput) -> @builtin(position) vec4<f32> {
    return camera.view_proj * model.position;
}
`

func TestNewRenderPassLayoutMismatch(t *testing.T) {
	vs, err := shader.NewShader("mismatched.vert", shader.ShaderTypeVertex, mismatchedVertexShader)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	fs, err := shader.NewShader(assets.QuadFragmentKey, shader.ShaderTypeFragment, assets.QuadFragmentShader)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}

	backend := newFakeBackend()
	ctx := newTestContext(t, backend, 800, 600)
	_, err = NewRenderPass(ctx, WithShaders(vs, fs))
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("NewRenderPass error = %v, want ErrLayoutMismatch", err)
	}
	if len(backend.pipelines) != 0 {
		t.Errorf("registered pipelines %v after a mismatch", backend.pipelines)
	}
}

const misplacedCameraVertexShader = `
//@oxy:include camera
//@oxy:group 2 0 storage_uniform camera camera

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) tex_coords: vec2<f32>,
};

@vertex
fn vs_main(model: VertexInput) -> @builtin(position) vec4<f32> {
    return camera.view_proj * vec4<f32>(model.position, 1.0);
}
`

func TestNewRenderPassAnnotatedGroups(t *testing.T) {
	backend := newFakeBackend()
	_, rp := newTestRenderPass(t, backend)
	decls := slices.Concat(rp.vertexShader.Declarations(), rp.fragmentShader.Declarations())
	if len(decls) != 3 {
		t.Fatalf("embedded quad shaders make %d declarations, want 3", len(decls))
	}

	vs, err := shader.NewShader("misplaced.vert", shader.ShaderTypeVertex, misplacedCameraVertexShader)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	fs, err := shader.NewShader(assets.QuadFragmentKey, shader.ShaderTypeFragment, assets.QuadFragmentShader)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	ctx := newTestContext(t, newFakeBackend(), 800, 600)
	_, err = NewRenderPass(ctx, WithShaders(vs, fs))
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("NewRenderPass error = %v, want ErrLayoutMismatch", err)
	}
	if !strings.Contains(err.Error(), "binds camera at @group(2)") {
		t.Errorf("error %q does not name the misplaced camera binding", err)
	}
}

func TestNewRenderPassTextureErrors(t *testing.T) {
	backend := newFakeBackend()
	ctx := newTestContext(t, backend, 800, 600)

	if _, err := NewRenderPass(ctx, WithTextureBytes([]byte("not an image"))); err == nil {
		t.Fatal("NewRenderPass accepted undecodable texture bytes")
	}
}

func TestRenderPassRelease(t *testing.T) {
	backend := newFakeBackend()
	_, rp := newTestRenderPass(t, backend)

	rp.Release()
	rp.Release()
	if err := rp.Draw(); !errors.Is(err, ErrReleased) {
		t.Errorf("Draw after Release error = %v, want ErrReleased", err)
	}
	if backend.frames != 0 {
		t.Errorf("began %d frames after Release", backend.frames)
	}
}
