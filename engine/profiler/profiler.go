package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Stats is a snapshot of the frame counters since the profiler was created.
type Stats struct {
	// Drawn is the number of frames that were submitted and presented.
	Drawn uint64

	// Skipped is the number of frames dropped because the surface was outdated, lost or timed out.
	Skipped uint64
}

// Profiler tracks frame rate, skipped frames and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	clock          func() time.Time
	updateInterval time.Duration
	logger         *slog.Logger
	readMemStats   bool

	// per interval
	drawn    int
	skipped  int
	lastTime time.Time

	total Stats

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		clock:          time.Now,
		updateInterval: time.Second,
		readMemStats:   true,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.lastTime = p.clock()
	return p
}

// Tick should be called once per redraw to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, skipped frames, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - skipped: true if the redraw did not present a frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(skipped bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if skipped {
		p.skipped++
		p.total.Skipped++
	} else {
		p.drawn++
		p.total.Drawn++
	}

	now := p.clock()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	attrs := []any{
		slog.Float64("fps", float64(p.drawn)/elapsed.Seconds()),
		slog.Int("skipped", p.skipped),
	}
	if p.readMemStats {
		attrs = append(attrs, p.memAttrs(elapsed)...)
	}
	p.logger.Info("profiler", attrs...)

	p.drawn = 0
	p.skipped = 0
	p.lastTime = now
	return true
}

// memAttrs reads the runtime memory statistics and returns them as log attributes.
// Caller must hold the mutex.
func (p *Profiler) memAttrs(elapsed time.Duration) []any {
	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap bytes. TotalAlloc: cumulative heap bytes. Sys: bytes obtained from the OS.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc

	return []any{
		slog.Float64("heapMB", allocMB),
		slog.Float64("allocRateMBs", allocRateMB),
		slog.Uint64("gc", uint64(gcCount)),
		slog.Uint64("gcLastPauseUs", lastPauseUs),
		slog.Uint64("gcMaxPauseUs", maxPauseUs),
		slog.Float64("sysMB", sysMB),
	}
}

// Stats returns the drawn and skipped frame totals.
func (p *Profiler) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}
