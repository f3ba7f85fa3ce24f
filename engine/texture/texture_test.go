package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/bmp"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/bind_group_provider"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeUploader struct {
	maxDim     uint32
	staging    common.TextureStagingData
	sampler    common.SamplerStagingData
	descriptor wgpu.BindGroupLayoutDescriptor
	steps      []string
	failAt     string
}

func (f *fakeUploader) MaxTextureDimension2D() uint32 { return f.maxDim }

func (f *fakeUploader) step(name string) error {
	f.steps = append(f.steps, name)
	if f.failAt == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeUploader) InitTextureView(_ bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	f.staging = data
	if binding != ViewBinding {
		return errors.New("wrong view binding")
	}
	return f.step("texture")
}

func (f *fakeUploader) InitSampler(_ bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error {
	f.sampler = data
	if binding != SamplerBinding {
		return errors.New("wrong sampler binding")
	}
	return f.step("sampler")
}

func (f *fakeUploader) InitBindGroup(_ bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.descriptor = descriptor
	return f.step("bind group")
}

func TestDecodePNG(t *testing.T) {
	data, err := Decode(encodePNG(t, 4, 3), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if data.Width != 4 || data.Height != 3 || !data.Valid() {
		t.Fatalf("decoded %dx%d, %d bytes", data.Width, data.Height, len(data.Pixels))
	}
	// pixel (3, 2)
	off := (2*4 + 3) * 4
	if got := data.Pixels[off : off+4]; !bytes.Equal(got, []byte{3, 2, 200, 255}) {
		t.Errorf("pixel (3,2) = %v", got)
	}
}

func TestDecodeBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.Set(x, y, color.White)
		}
	}
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	data, err := Decode(buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	off := (1*2 + 1) * 4
	if got := data.Pixels[off : off+4]; !bytes.Equal(got, []byte{10, 20, 30, 255}) {
		t.Errorf("pixel (1,1) = %v", got)
	}
}

func TestDecodeDownscale(t *testing.T) {
	tests := []struct {
		w, h, limit   int
		wantW, wantH uint32
	}{
		{64, 32, 16, 16, 8},
		{32, 64, 16, 8, 16},
		{100, 1, 10, 10, 1},
		{8, 8, 16, 8, 8},
	}
	for _, tt := range tests {
		data, err := Decode(encodePNG(t, tt.w, tt.h), uint32(tt.limit))
		if err != nil {
			t.Fatal(err)
		}
		if data.Width != tt.wantW || data.Height != tt.wantH || !data.Valid() {
			t.Errorf("%dx%d limit %d -> %dx%d, want %dx%d", tt.w, tt.h, tt.limit, data.Width, data.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	for name, input := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("definitely not an image"),
		"truncated": encodePNG(t, 8, 8)[:40],
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(input, 0); !errors.Is(err, ErrDecode) {
				t.Errorf("err = %v, want ErrDecode", err)
			}
		})
	}
}

func TestNewTextureResource(t *testing.T) {
	up := &fakeUploader{maxDim: 8192}
	tex, err := NewTextureResource(up, "crate", encodePNG(t, 16, 8))
	if err != nil {
		t.Fatalf("NewTextureResource: %v", err)
	}
	if tex.Width() != 16 || tex.Height() != 8 || tex.Label() != "crate" {
		t.Errorf("texture = %dx%d %q", tex.Width(), tex.Height(), tex.Label())
	}
	if len(up.steps) != 3 || up.steps[0] != "texture" || up.steps[2] != "bind group" {
		t.Errorf("steps = %v", up.steps)
	}
	if up.sampler != LinearSampler() {
		t.Errorf("sampler = %+v, want LinearSampler", up.sampler)
	}
	if up.sampler.AddressModeU != wgpu.AddressModeClampToEdge || up.sampler.MinFilter != wgpu.FilterModeLinear {
		t.Error("default sampler is not clamp-to-edge linear")
	}
	if len(up.descriptor.Entries) != 2 {
		t.Fatalf("bind group entries = %d", len(up.descriptor.Entries))
	}
	tex.Release()
}

func TestNewTextureResourceOptionsAndFailures(t *testing.T) {
	nearest := LinearSampler()
	nearest.MagFilter = wgpu.FilterModeNearest
	up := &fakeUploader{}
	if _, err := NewTextureResource(up, "px", encodePNG(t, 2, 2), WithSampler(nearest)); err != nil {
		t.Fatal(err)
	}
	if up.sampler.MagFilter != wgpu.FilterModeNearest {
		t.Error("WithSampler not applied")
	}

	if _, err := NewTextureResource(&fakeUploader{}, "bad", []byte{1, 2, 3}); !errors.Is(err, ErrDecode) {
		t.Errorf("decode err = %v", err)
	}

	failing := &fakeUploader{failAt: "sampler"}
	if _, err := NewTextureResource(failing, "crate", encodePNG(t, 2, 2)); err == nil {
		t.Error("expected sampler failure to propagate")
	}
	if len(failing.steps) != 2 {
		t.Errorf("steps after failure = %v", failing.steps)
	}

	if _, err := NewTextureResourceFromStaging(&fakeUploader{}, "short", common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 3)}); !errors.Is(err, ErrDecode) {
		t.Errorf("invalid staging err = %v", err)
	}
	if _, err := NewTextureResourceFromStaging(&fakeUploader{maxDim: 1}, "big", common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 16)}); err == nil {
		t.Error("expected oversize staging data to be rejected")
	}
}

func TestBindGroupLayoutDescriptor(t *testing.T) {
	d := BindGroupLayoutDescriptor()
	view, samp := d.Entries[0], d.Entries[1]
	if view.Binding != 0 || view.Visibility != wgpu.ShaderStageFragment ||
		view.Texture.SampleType != wgpu.TextureSampleTypeFloat || view.Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Errorf("view entry = %+v", view)
	}
	if samp.Binding != 1 || samp.Visibility != wgpu.ShaderStageFragment || samp.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("sampler entry = %+v", samp)
	}
}
