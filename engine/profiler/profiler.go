package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS         float64
	FrameMin    time.Duration
	FrameMax    time.Duration
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPause   time.Duration
	MaxPause    time.Duration
	SysMB       float64
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// Profiler tracks frame rate, frame time spread and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	label          string
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	minFrame       time.Duration
	maxFrame       time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	now            func() time.Time
	quiet          bool
}

// WithInterval sets how often statistics are reported. The default is one second.
//
// Parameters:
//   - d: the reporting interval
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

// WithLabel prefixes log lines so several profiled loops can be told apart.
//
// Parameters:
//   - label: the label, e.g. the host name
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLabel(label string) ProfilerOption {
	return func(p *Profiler) {
		p.label = label
	}
}

// WithClock replaces time.Now, mainly for tests.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithQuiet disables logging; Tick still returns the statistics.
//
// Parameters:
//   - quiet: true to suppress log output
//
// Returns:
//   - ProfilerOption: option function to apply
func WithQuiet(quiet bool) ProfilerOption {
	return func(p *Profiler) {
		p.quiet = quiet
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	return p
}

// Tick should be called once per frame to track frame timing.
// When the update interval has elapsed it computes and logs the window's statistics:
// FPS, frame time spread, heap usage, allocation rate, GC count and pause times, total memory.
//
// Returns:
//   - Stats: the statistics for the window that just closed, zero if none closed
//   - bool: true if a window closed on this tick
func (p *Profiler) Tick() (Stats, bool) {
	currentTime := p.now()
	frame := currentTime.Sub(p.lastFrame)
	p.lastFrame = currentTime
	if p.frameCount == 0 || frame < p.minFrame {
		p.minFrame = frame
	}
	p.maxFrame = max(p.maxFrame, frame)
	p.frameCount++

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		FrameMin: p.minFrame,
		FrameMax: p.maxFrame,
		HeapMB:   float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:    float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:  p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	stats.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		stats.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxPause = max(stats.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	if !p.quiet {
		prefix := "[Profiler]"
		if p.label != "" {
			prefix = "[Profiler] " + p.label
		}
		log.Printf("%s FPS: %.2f | Frame: %v..%v | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			prefix, stats.FPS, stats.FrameMin, stats.FrameMax, stats.HeapMB, stats.AllocRateMB,
			stats.GCCount, stats.LastPause.Microseconds(), stats.MaxPause.Microseconds(), stats.SysMB)
	}

	p.frameCount = 0
	p.maxFrame = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats, true
}
