// Command oxy-quad opens a window and renders a textured quad through WebGPU.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/pkg/profile"

	"github.com/Carmen-Shannon/oxy-quad/config"
	"github.com/Carmen-Shannon/oxy-quad/engine"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer"
	"github.com/Carmen-Shannon/oxy-quad/engine/window"
)

func init() {
	// GLFW and the surface must stay on the main thread
	runtime.LockOSThread()
}

// sizeFlag is a --size W,H value.
type sizeFlag struct {
	width, height int
	set           bool
}

func (s *sizeFlag) String() string {
	if !s.set {
		return ""
	}
	return fmt.Sprintf("%d,%d", s.width, s.height)
}

func (s *sizeFlag) Set(v string) error {
	w, h, err := config.ParseSize(v)
	if err != nil {
		return err
	}
	s.width, s.height, s.set = w, h, true
	return nil
}

// options are the parsed command line flags.
type options struct {
	size          sizeFlag
	configPath    string
	cpuProfileDir string
	logLevel      string
	presentMode   string
	profileFrames bool
}

// parseFlags parses args, excluding the program name.
func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("oxy-quad", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Var(&opts.size, "size", "window size as `W,H` in pixels")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration `file`")
	fs.StringVar(&opts.cpuProfileDir, "cpuprofile", "", "write a CPU profile into `dir`")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&opts.presentMode, "present-mode", "", "present mode: auto, vsync, uncapped or mailbox")
	fs.BoolVar(&opts.profileFrames, "profile-frames", false, "log frame rate and memory statistics every interval")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(output, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return options{}, errors.New("unexpected arguments")
	}
	return opts, nil
}

// loadConfig builds the configuration: defaults, then the file, then the environment, then flags.
func loadConfig(opts options, getenv func(string) string) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(getenv)

	if opts.size.set {
		cfg.Window.Width = opts.size.width
		cfg.Window.Height = opts.size.height
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.presentMode != "" {
		cfg.Renderer.PresentMode = opts.presentMode
	}
	if opts.profileFrames {
		cfg.Profiler.Enabled = true
	}
	return cfg, cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(opts, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oxy-quad: %v\n", err)
		return 2
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := renderer.SetNativeLogLevel(cfg.Renderer.NativeLogLevel); err != nil {
		slog.Warn("ignoring native log level", slog.Any("error", err))
	}

	if opts.cpuProfileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuProfileDir), profile.NoShutdownHook).Stop()
	}

	engineOptions, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		return 1
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		slog.Error("failed to create window", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := win.Close(); err != nil {
			slog.Warn("failed to close window", slog.Any("error", err))
		}
	}()

	eng, err := engine.NewEngine(win, engineOptions...)
	if err != nil {
		slog.Error("failed to start renderer", slog.Any("error", err))
		return 1
	}

	if err := eng.Run(); err != nil {
		slog.Error("renderer stopped", slog.Any("error", err))
		return 1
	}
	slog.Info("shut down", slog.Duration("uptime", eng.Uptime()))
	return 0
}
