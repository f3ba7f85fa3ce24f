package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
)

var (
	// ErrNoAdapter is returned when no adapter compatible with the surface exists.
	ErrNoAdapter = errors.New("renderer: no compatible adapter")

	// ErrUnsupportedSurface is returned when the surface reports no usable texture format.
	ErrUnsupportedSurface = errors.New("renderer: surface reports no formats")

	// ErrInvalidDimensions is returned when a surface size has a zero or negative side.
	ErrInvalidDimensions = errors.New("renderer: invalid surface dimensions")

	// ErrDeviceLost is returned when the device is gone. Rendering can not continue.
	ErrDeviceLost = errors.New("renderer: device lost")

	// ErrSurfaceOutdated is returned when the surface no longer matches the window and must be
	// reconfigured.
	ErrSurfaceOutdated = errors.New("renderer: surface outdated")

	// ErrSurfaceLost is returned when the surface was lost and must be reconfigured.
	ErrSurfaceLost = errors.New("renderer: surface lost")

	// ErrSurfaceTimeout is returned when no surface texture became available in time.
	ErrSurfaceTimeout = errors.New("renderer: surface acquire timeout")

	// ErrReleased is returned by operations on a released GraphicsContext or RenderPass.
	ErrReleased = errors.New("renderer: released")

	// ErrLayoutMismatch is returned when shader reflection disagrees with the host layouts.
	ErrLayoutMismatch = shader.ErrLayoutMismatch
)

// classifyAcquireError maps a surface texture acquisition failure onto the acquisition sentinels.
// The binding reports the native status only as error text. Unrecognized failures are treated as
// outdated so the caller reconfigures and tries again next frame.
func classifyAcquireError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(strings.NewReplacer(" ", "", "_", "").Replace(err.Error()))

	var sentinel error
	switch {
	case strings.Contains(msg, "timeout"):
		sentinel = ErrSurfaceTimeout
	case strings.Contains(msg, "device") && strings.Contains(msg, "lost"),
		strings.Contains(msg, "outofmemory"):
		sentinel = ErrDeviceLost
	case strings.Contains(msg, "outdated"):
		sentinel = ErrSurfaceOutdated
	case strings.Contains(msg, "lost"):
		sentinel = ErrSurfaceLost
	default:
		sentinel = ErrSurfaceOutdated
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
