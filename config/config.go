package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-quad/common"
)

var (
	// ErrInvalidSize is returned when a W,H window size can not be parsed or is not positive.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidConfig is returned when a loaded configuration fails validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// Camera modes.
const (
	CameraLookAt = "look_at"
	CameraFree   = "free"
)

// maxConfigSize bounds the configuration files Load accepts.
const maxConfigSize = 1024 * 1024

// Config is the complete application configuration. Default returns the built-in values,
// Load overlays a YAML file on top of them and ApplyEnv applies the environment.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Camera   CameraConfig   `yaml:"camera"`
	Profiler ProfilerConfig `yaml:"profiler"`

	// LogLevel is the slog level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// TickRate is the number of camera controller updates per second.
	TickRate float64 `yaml:"tick_rate"`
}

// WindowConfig describes the window the quad is rendered into.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RendererConfig holds the surface and device preferences.
type RendererConfig struct {
	// PresentMode is auto, vsync, uncapped or mailbox.
	PresentMode string `yaml:"present_mode"`

	// ForceFallbackAdapter requests a software adapter.
	ForceFallbackAdapter bool `yaml:"force_fallback_adapter"`

	// NativeLogLevel is the wgpu-native log level: off, error, warn, info, debug or trace.
	NativeLogLevel string `yaml:"native_log_level"`

	// ClearColor is the RGBA background color.
	ClearColor [4]float64 `yaml:"clear_color"`
}

// CameraConfig selects and places the camera. Angles are in degrees.
type CameraConfig struct {
	Mode string `yaml:"mode"`

	// look-at pose
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	Up     [3]float32 `yaml:"up"`

	// free pose, starting at Eye
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`

	FovY float32 `yaml:"fovy"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	// free camera controller
	Speed    float32 `yaml:"speed"`
	TurnRate float32 `yaml:"turn_rate"`
}

// ProfilerConfig controls the periodic frame statistics log.
type ProfilerConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval"`
}

// Duration wraps time.Duration for YAML unmarshaling from strings like "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration: a 1600x1200 "Hello Land!" window, a dark blue
// background and a look-at camera two units in front of the quad.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Hello Land!",
			Width:  1600,
			Height: 1200,
		},
		Renderer: RendererConfig{
			PresentMode: "auto",
			ClearColor:  [4]float64{0.1, 0.2, 0.3, 1.0},
		},
		Camera: CameraConfig{
			Mode:     CameraLookAt,
			Eye:      [3]float32{0, 0, 2},
			Target:   [3]float32{0, 0, 0},
			Up:       [3]float32{0, 1, 0},
			Yaw:      -90,
			Pitch:    0,
			FovY:     45,
			Near:     0.1,
			Far:      100,
			Speed:    4,
			TurnRate: 90,
		},
		Profiler: ProfilerConfig{
			Interval: Duration(time.Second),
		},
		LogLevel: "info",
		TickRate: 60,
	}
}

// Parse overlays YAML data on top of Default and validates the result. Keys missing from data
// keep their default value.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the merged configuration
//   - error: the YAML error, or ErrInvalidConfig
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML configuration file. An empty path returns Default.
//
// Parameters:
//   - path: the file to read, or ""
//
// Returns:
//   - Config: the merged configuration
//   - error: a read or parse error, or ErrInvalidConfig
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("load config: %s is %d bytes, limit is %d", path, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("loaded config", slog.String("path", path), slog.Int64("size", info.Size()))
	return cfg, nil
}

// ApplyEnv applies WGPU_FORCE_FALLBACK_ADAPTER and WGPU_LOG_LEVEL.
//
// Parameters:
//   - getenv: looks up a variable, usually os.Getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("WGPU_FORCE_FALLBACK_ADAPTER"); v != "" {
		if force, err := strconv.ParseBool(v); err == nil {
			c.Renderer.ForceFallbackAdapter = force
		} else {
			slog.Warn("ignoring WGPU_FORCE_FALLBACK_ADAPTER", slog.String("value", v))
		}
	}
	if v := getenv("WGPU_LOG_LEVEL"); v != "" {
		c.Renderer.NativeLogLevel = v
	}
}

// Validate checks the values no later stage can recover from.
//
// Returns:
//   - error: ErrInvalidConfig describing the first bad field
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Camera.Mode != CameraLookAt && c.Camera.Mode != CameraFree {
		return fmt.Errorf("%w: camera mode %q, want %q or %q", ErrInvalidConfig, c.Camera.Mode, CameraLookAt, CameraFree)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("%w: camera fovy %g", ErrInvalidConfig, c.Camera.FovY)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera clip planes near %g far %g", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.TickRate < 0 {
		return fmt.Errorf("%w: tick rate %g", ErrInvalidConfig, c.TickRate)
	}
	if c.Profiler.Interval < 0 {
		return fmt.Errorf("%w: profiler interval %v", ErrInvalidConfig, c.Profiler.Interval.Duration())
	}
	return nil
}

// ParseSize parses a "W,H" window size. Both sides must be positive integers.
//
// Parameters:
//   - s: the size, e.g. "1600,1200"
//
// Returns:
//   - int: the width
//   - int: the height
//   - error: ErrInvalidSize
func ParseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q, want W,H", ErrInvalidSize, s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: width %q", ErrInvalidSize, ws)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: height %q", ErrInvalidSize, hs)
	}
	if !common.Positive(w, h) {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return w, h, nil
}

// ParseLogLevel maps debug, info, warn and error to their slog levels.
//
// Parameters:
//   - s: the level name, case insensitive
//
// Returns:
//   - slog.Level: the level
//   - error: error if the name is unknown
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
