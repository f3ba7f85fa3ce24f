package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
)

type fakeDraw struct {
	pipelineKey   string
	indexCount    int
	vertexCount   int
	indexFormat   wgpu.IndexFormat
	instanceCount uint32
	bindGroups    []string
}

// fakeBackend records every call and hands out nil GPU handles. Counts and formats still flow
// through the providers so draw logic can be checked without a device.
type fakeBackend struct {
	caps         SurfaceCapabilities
	maxDimension uint32

	configs      []SurfaceConfig
	configureErr error

	// beginErrs is consumed one entry per BeginFrame; nil entries succeed
	beginErrs []error
	endErr    error

	pipelines      []string
	pipelineFormat wgpu.TextureFormat
	layouts        map[string]wgpu.BindGroupLayoutDescriptor
	textures       []common.TextureStagingData
	samplers       []common.SamplerStagingData
	writes         map[string][]byte
	writeCount     int

	frames      int
	clearColors []wgpu.Color
	draws       []fakeDraw
	ended       int
	presented   int
	released    int
}

var _ RendererBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		caps: SurfaceCapabilities{
			Formats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
			PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeImmediate},
			AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
		},
		maxDimension: 8192,
		layouts:      make(map[string]wgpu.BindGroupLayoutDescriptor),
		writes:       make(map[string][]byte),
	}
}

func (f *fakeBackend) SurfaceCapabilities() SurfaceCapabilities {
	return f.caps
}

func (f *fakeBackend) ConfigureSurface(cfg SurfaceConfig) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configs = append(f.configs, cfg)
	return nil
}

func (f *fakeBackend) MaxTextureDimension2D() uint32 {
	return f.maxDimension
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline, format wgpu.TextureFormat) error {
	f.pipelines = append(f.pipelines, p.PipelineKey())
	f.pipelineFormat = format
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error {
	provider.SetVertexBuffer(nil, vertexCount)
	if len(indexData) > 0 {
		provider.SetIndexBuffer(nil, indexCount, indexFormat)
	}
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.layouts[provider.Label()] = descriptor
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	f.textures = append(f.textures, data)
	return nil
}

func (f *fakeBackend) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error {
	f.samplers = append(f.samplers, data)
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		f.writes[w.Provider.Label()] = append([]byte(nil), w.Data...)
		f.writeCount++
	}
}

func (f *fakeBackend) BeginFrame(clear wgpu.Color) error {
	f.frames++
	if len(f.beginErrs) > 0 {
		err := f.beginErrs[0]
		f.beginErrs = f.beginErrs[1:]
		if err != nil {
			return err
		}
	}
	f.clearColors = append(f.clearColors, clear)
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	d := fakeDraw{
		pipelineKey:   p.PipelineKey(),
		indexCount:    mesh.IndexCount(),
		vertexCount:   mesh.VertexCount(),
		indexFormat:   mesh.IndexFormat(),
		instanceCount: instanceCount,
	}
	for _, bg := range bindGroups {
		d.bindGroups = append(d.bindGroups, bg.Label())
	}
	f.draws = append(f.draws, d)
}

func (f *fakeBackend) EndFrame() error {
	f.ended++
	return f.endErr
}

func (f *fakeBackend) Present() {
	f.presented++
}

func (f *fakeBackend) Release() {
	f.released++
}

type fakeSurface struct {
	width, height int
}

func (s fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fakeSurface) Width() int                                 { return s.width }
func (s fakeSurface) Height() int                                { return s.height }

// acquireErr classifies the error text a binding that reports the native acquisition status
// would return.
func acquireErr(status string) error {
	return classifyAcquireError(errors.New(status))
}
