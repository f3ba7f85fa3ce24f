package profiler

import (
	"log/slog"
	"time"
)

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are logged. Values <= 0 keep the 1 second default.
//
// Parameters:
//   - d: the logging interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now as the time source.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(clock func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLogger sends stats to logger instead of slog.Default().
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithMemStats enables or disables the runtime memory statistics in each report.
//
// Parameters:
//   - enabled: false to log frame counts only
//
// Returns:
//   - ProfilerOption: option function to apply
func WithMemStats(enabled bool) ProfilerOption {
	return func(p *Profiler) {
		p.readMemStats = enabled
	}
}
