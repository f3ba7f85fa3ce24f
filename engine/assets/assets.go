// Package assets embeds the quad shaders and texture and prepares them before the window loop.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-quad/engine/texture"
)

//go:embed shaders/quad.vert.wgsl
var QuadVertexShader string

//go:embed shaders/quad.frag.wgsl
var QuadFragmentShader string

//go:embed shaders/triangle.vert.wgsl
var TriangleVertexShader string

//go:embed shaders/triangle.frag.wgsl
var TriangleFragmentShader string

//go:embed textures/crate.png
var CrateTexture []byte

const (
	// QuadVertexKey labels the quad vertex shader module.
	QuadVertexKey = "quad.vert"

	// QuadFragmentKey labels the quad fragment shader module.
	QuadFragmentKey = "quad.frag"
)

// Sources is the raw input to Prepare.
type Sources struct {
	VertexShader   string
	FragmentShader string
	Texture        []byte
}

// DefaultSources returns the embedded quad shaders and crate texture.
func DefaultSources() Sources {
	return Sources{
		VertexShader:   QuadVertexShader,
		FragmentShader: QuadFragmentShader,
		Texture:        CrateTexture,
	}
}

// Prepared holds decoded and reflected assets ready for GPU upload.
type Prepared struct {
	Texture        common.TextureStagingData
	VertexShader   shader.Shader
	FragmentShader shader.Shader
}

// Prepare decodes the texture and parses and validates both shaders in parallel on a worker pool.
// Validator feature gaps are logged and ignored since the driver compiles the source again.
//
// Parameters:
//   - src: the shader sources and encoded texture
//   - maxTextureDimension: the device's largest 2D texture side, 0 for no limit
//
// Returns:
//   - *Prepared: the prepared assets
//   - error: every task failure joined together
func Prepare(src Sources, maxTextureDimension uint32) (*Prepared, error) {
	pool := worker.NewDynamicWorkerPool(min(runtime.NumCPU(), 3), 8, 1*time.Second)
	defer pool.Stop()

	var (
		wg       sync.WaitGroup
		prepared Prepared
		errs     [3]error
	)

	wg.Add(1)
	pool.SubmitTask(worker.Task{
		ID: 0,
		Do: func() (any, error) {
			defer wg.Done()
			prepared.Texture, errs[0] = texture.Decode(src.Texture, maxTextureDimension)
			return nil, errs[0]
		},
	})

	wg.Add(1)
	pool.SubmitTask(worker.Task{
		ID: 1,
		Do: func() (any, error) {
			defer wg.Done()
			prepared.VertexShader, errs[1] = prepareShader(QuadVertexKey, shader.ShaderTypeVertex, src.VertexShader)
			return nil, errs[1]
		},
	})

	wg.Add(1)
	pool.SubmitTask(worker.Task{
		ID: 2,
		Do: func() (any, error) {
			defer wg.Done()
			prepared.FragmentShader, errs[2] = prepareShader(QuadFragmentKey, shader.ShaderTypeFragment, src.FragmentShader)
			return nil, errs[2]
		},
	})

	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return nil, fmt.Errorf("prepare assets: %w", err)
	}
	return &prepared, nil
}

func prepareShader(key string, shaderType shader.ShaderType, source string) (shader.Shader, error) {
	s, err := shader.NewShader(key, shaderType, source)
	if err != nil {
		return nil, err
	}
	if err := shader.Validate(key, s.Source()); err != nil {
		if !errors.Is(err, shader.ErrValidatorUnsupported) {
			return nil, err
		}
		slog.Warn("offline shader validation skipped", slog.String("shader", key), slog.Any("error", err))
	}
	return s, nil
}
