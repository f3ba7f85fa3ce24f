package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

var (
	// ErrShaderCompile is returned when WGSL source fails offline compilation.
	ErrShaderCompile = errors.New("shader: compile failed")

	// ErrValidatorUnsupported is returned when the offline compiler does not implement a feature
	// the source uses. The source may still be valid for the GPU driver.
	ErrValidatorUnsupported = errors.New("shader: validator does not support source")
)

// Validate compiles WGSL source to SPIR-V offline and checks the output header, so shader errors
// surface before any device exists.
//
// Parameters:
//   - key: the shader key, used in error messages
//   - source: the WGSL source code
//
// Returns:
//   - error: ErrValidatorUnsupported for compiler feature gaps, ErrShaderCompile for everything else
func Validate(key, source string) error {
	spirv, err := naga.Compile(source)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
			return fmt.Errorf("%s: %w: %v", key, ErrValidatorUnsupported, err)
		}
		return fmt.Errorf("%s: %w: %v", key, ErrShaderCompile, err)
	}

	if len(spirv) < 4 || len(spirv)%4 != 0 {
		return fmt.Errorf("%s: %w: SPIR-V output is %d bytes", key, ErrShaderCompile, len(spirv))
	}
	if magic := binary.LittleEndian.Uint32(spirv); magic != spirvMagic {
		return fmt.Errorf("%s: %w: bad SPIR-V magic 0x%08X", key, ErrShaderCompile, magic)
	}
	return nil
}
