package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-quad/config"
)

func TestParseFlagsSize(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		w, h    int
		set     bool
		wantErr bool
	}{
		{"absent", nil, 0, 0, false, false},
		{"valid", []string{"--size", "800,600"}, 800, 600, true, false},
		{"equals form", []string{"--size=1024,768"}, 1024, 768, true, false},
		{"missing value", []string{"--size"}, 0, 0, false, true},
		{"one side", []string{"--size", "800"}, 0, 0, false, true},
		{"zero", []string{"--size", "0,600"}, 0, 0, false, true},
		{"not numbers", []string{"--size", "wide,tall"}, 0, 0, false, true},
		{"stray argument", []string{"quad"}, 0, 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if opts.size.set != tt.set || opts.size.width != tt.w || opts.size.height != tt.h {
				t.Errorf("size = %+v, want %dx%d set=%v", opts.size, tt.w, tt.h, tt.set)
			}
		})
	}
}

func TestRunRejectsBadSize(t *testing.T) {
	stderr := os.Stderr
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer devNull.Close()
	os.Stderr = devNull
	defer func() { os.Stderr = stderr }()

	for _, args := range [][]string{{"--size", "0,0"}, {"--size", "abc"}, {"--size"}} {
		if code := run(args); code != 2 {
			t.Errorf("run(%v) = %d, want 2", args, code)
		}
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "window:\n  width: 640\n  height: 480\nlog_level: warn\nrenderer:\n  present_mode: vsync\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	opts, err := parseFlags([]string{"--config", path, "--size", "320,200", "--log-level", "debug", "--profile-frames"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	env := map[string]string{"WGPU_FORCE_FALLBACK_ADAPTER": "true"}
	cfg, err := loadConfig(opts, func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Window.Width != 320 || cfg.Window.Height != 200 {
		t.Errorf("size = %dx%d, want the flag value 320x200", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want the flag value", cfg.LogLevel)
	}
	if cfg.Renderer.PresentMode != "vsync" {
		t.Errorf("present mode = %q, want the file value", cfg.Renderer.PresentMode)
	}
	if !cfg.Renderer.ForceFallbackAdapter || !cfg.Profiler.Enabled {
		t.Errorf("renderer %+v profiler %+v", cfg.Renderer, cfg.Profiler)
	}
}

func TestLoadConfigInvalidLogLevel(t *testing.T) {
	opts, err := parseFlags([]string{"--log-level", "chatty"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(opts, func(string) string { return "" }); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("loadConfig error = %v, want ErrInvalidConfig", err)
	}
}
