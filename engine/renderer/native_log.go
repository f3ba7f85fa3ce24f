package renderer

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// parseNativeLogLevel maps a WGPU_LOG_LEVEL style name to the wgpu-native log level.
// An empty name reports ok == false and leaves the native default in place.
func parseNativeLogLevel(name string) (level wgpu.LogLevel, ok bool, err error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "":
		return 0, false, nil
	case "OFF":
		return wgpu.LogLevelOff, true, nil
	case "ERROR":
		return wgpu.LogLevelError, true, nil
	case "WARN":
		return wgpu.LogLevelWarn, true, nil
	case "INFO":
		return wgpu.LogLevelInfo, true, nil
	case "DEBUG":
		return wgpu.LogLevelDebug, true, nil
	case "TRACE":
		return wgpu.LogLevelTrace, true, nil
	default:
		return 0, false, fmt.Errorf("renderer: unknown native log level %q", name)
	}
}

// SetNativeLogLevel sets how much wgpu-native logs on its own. Accepts off, error, warn, info,
// debug and trace; an empty name keeps the library default.
//
// Parameters:
//   - name: the level name, case insensitive
//
// Returns:
//   - error: error if the name is not a known level
func SetNativeLogLevel(name string) error {
	level, ok, err := parseNativeLogLevel(name)
	if err != nil || !ok {
		return err
	}
	wgpu.SetLogLevel(level)
	return nil
}
