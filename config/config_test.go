package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if cfg.Window.Title != "Hello Land!" || cfg.Window.Width != 1600 || cfg.Window.Height != 1200 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Renderer.ClearColor != [4]float64{0.1, 0.2, 0.3, 1.0} {
		t.Errorf("clear color = %v", cfg.Renderer.ClearColor)
	}
	if cfg.Camera.Mode != CameraLookAt || cfg.Camera.Eye != [3]float32{0, 0, 2} {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Profiler.Interval.Duration() != time.Second {
		t.Errorf("profiler interval = %v", cfg.Profiler.Interval.Duration())
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
window:
  width: 800
renderer:
  present_mode: vsync
camera:
  mode: free
  yaw: 45
profiler:
  enabled: true
  interval: 250ms
log_level: debug
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 1200 || cfg.Window.Title != "Hello Land!" {
		t.Errorf("window = %+v, want width overridden only", cfg.Window)
	}
	if cfg.Renderer.PresentMode != "vsync" {
		t.Errorf("present mode = %q", cfg.Renderer.PresentMode)
	}
	if cfg.Camera.Mode != CameraFree || cfg.Camera.Yaw != 45 || cfg.Camera.FovY != 45 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if !cfg.Profiler.Enabled || cfg.Profiler.Interval.Duration() != 250*time.Millisecond {
		t.Errorf("profiler = %+v", cfg.Profiler)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"bad width", "window:\n  width: 0\n", ErrInvalidConfig},
		{"bad camera mode", "camera:\n  mode: orbit\n", ErrInvalidConfig},
		{"bad fovy", "camera:\n  fovy: 180\n", ErrInvalidConfig},
		{"far before near", "camera:\n  near: 10\n  far: 1\n", ErrInvalidConfig},
		{"bad log level", "log_level: loud\n", ErrInvalidConfig},
		{"negative tick rate", "tick_rate: -1\n", ErrInvalidConfig},
		{"bad duration", "profiler:\n  interval: soon\n", nil},
		{"not yaml", "window: [", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() succeeded")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg != Default() {
		t.Errorf("Load(\"\") = %+v, %v, want Default()", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "oxy-quad.yaml")
	if err := os.WriteFile(path, []byte("window:\n  title: Crate\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Title != "Crate" {
		t.Errorf("title = %q, want Crate", cfg.Window.Title)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		wantFallback  bool
		wantNativeLog string
	}{
		{"unset", nil, false, ""},
		{"fallback", map[string]string{"WGPU_FORCE_FALLBACK_ADAPTER": "1"}, true, ""},
		{"fallback garbage", map[string]string{"WGPU_FORCE_FALLBACK_ADAPTER": "maybe"}, false, ""},
		{"log level", map[string]string{"WGPU_LOG_LEVEL": "WARN"}, false, "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ApplyEnv(func(k string) string { return tt.env[k] })
			if cfg.Renderer.ForceFallbackAdapter != tt.wantFallback {
				t.Errorf("ForceFallbackAdapter = %v, want %v", cfg.Renderer.ForceFallbackAdapter, tt.wantFallback)
			}
			if cfg.Renderer.NativeLogLevel != tt.wantNativeLog {
				t.Errorf("NativeLogLevel = %q, want %q", cfg.Renderer.NativeLogLevel, tt.wantNativeLog)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"1600,1200", 1600, 1200, false},
		{"800, 600", 800, 600, false},
		{"1,1", 1, 1, false},
		{"", 0, 0, true},
		{"800", 0, 0, true},
		{"800x600", 0, 0, true},
		{"0,600", 0, 0, true},
		{"800,-1", 0, 0, true},
		{"a,b", 0, 0, true},
		{"800,600,1", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseSize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSize) {
					t.Errorf("ParseSize(%q) error = %v, want ErrInvalidSize", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q): %v", tt.in, err)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("ParseSize(%q) = %d, %d, want %d, %d", tt.in, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
