package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ring/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ring/engine/window"
)

// FrameHandle identifies a pending frame request. The zero handle is never issued.
type FrameHandle uint64

// FrameScheduler is the animation-frame contract components drive themselves through.
// Requests are one-shot: a callback that wants to keep animating requests the next frame.
type FrameScheduler interface {
	// RequestFrame schedules cb to run once on the next frame.
	//
	// Parameters:
	//   - cb: the frame callback, receiving the seconds elapsed since the previous frame
	//
	// Returns:
	//   - FrameHandle: the handle to pass to CancelFrame
	RequestFrame(cb func(dt float32)) FrameHandle

	// CancelFrame removes a pending request. Unknown or already-run handles are ignored.
	//
	// Parameters:
	//   - h: the handle returned by RequestFrame
	CancelFrame(h FrameHandle)
}

type frameRequest struct {
	handle FrameHandle
	cb     func(dt float32)
}

// engine implements the Engine interface.
// Coordinates the tick goroutine, the frame goroutine and the window message loop.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	wake            chan struct{}

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	frames     []frameRequest
	posted     []func()
	nextHandle FrameHandle
	lastFrame  time.Time

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It runs a fixed-rate tick loop and an on-demand frame loop: frames are produced only while
// some component has a frame request pending, so an idle scene costs nothing.
type Engine interface {
	FrameScheduler

	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Post queues fn to run on the frame goroutine before the next batch of frame callbacks.
	//
	// Parameters:
	//   - fn: the function to run
	Post(fn func())

	// Step runs one frame synchronously on the calling goroutine: posted functions first, then
	// every frame callback pending when Step began. Headless hosts and tests drive time with it.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	//
	// Returns:
	//   - int: the number of frame callbacks that ran
	Step(dt float32) int

	// Pending reports how many frame requests are waiting.
	//
	// Returns:
	//   - int: the pending request count
	Pending() int

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the frame loop.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the engine goroutines. With a window it runs the message loop on the calling
	// goroutine and returns when the window closes; headless it blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed once Quit has been called.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// The frame loop defaults to a 60 FPS cap and the tick loop to 60 Hz.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		tickRateChannel:  make(chan time.Duration, 1),
		wake:             make(chan struct{}, 1),
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		renderFrameLimit: time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) RequestFrame(cb func(dt float32)) FrameHandle {
	if cb == nil {
		return 0
	}
	e.mu.Lock()
	e.nextHandle++
	h := e.nextHandle
	e.frames = append(e.frames, frameRequest{handle: h, cb: cb})
	e.mu.Unlock()
	e.signal()
	return h
}

func (e *engine) CancelFrame(h FrameHandle) {
	if h == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, req := range e.frames {
		if req.handle == h {
			e.frames = append(e.frames[:i], e.frames[i+1:]...)
			return
		}
	}
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.posted = append(e.posted, fn)
	e.mu.Unlock()
	e.signal()
}

func (e *engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.frames)
}

// signal wakes the frame goroutine without blocking.
func (e *engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *engine) Step(dt float32) int {
	e.mu.Lock()
	posted := e.posted
	frames := e.frames
	e.posted = nil
	e.frames = nil
	e.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
	for _, req := range frames {
		req.cb(dt)
	}
	return len(frames)
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	e.handle()

	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and frame goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleFrames()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.mu.Lock()
			cb := e.tickCallback
			e.mu.Unlock()
			if cb != nil {
				cb(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleFrames runs the on-demand frame loop in its own goroutine. It sleeps until a frame is
// requested or a function is posted, runs one Step, then honors the frame limit.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	// Recover from panics inside the frame goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-e.wake:
		}

		start := time.Now()
		e.mu.Lock()
		if e.lastFrame.IsZero() {
			e.lastFrame = start.Add(-e.frameInterval())
		}
		dt := float32(start.Sub(e.lastFrame).Seconds())
		e.lastFrame = start
		limit := e.renderFrameLimit
		profiling := e.profilingEnabled
		e.mu.Unlock()

		e.Step(dt)

		if profiling && e.profiler != nil {
			e.profiler.Tick()
		}

		// Frame rate limiting
		if limit > 0 {
			if remaining := limit - time.Since(start); remaining > 0 {
				select {
				case <-e.quitChannel:
					return
				case <-time.After(remaining):
				}
			}
		}

		// keep going while callbacks re-requested frames during Step
		if e.Pending() > 0 {
			e.signal()
		}
	}
}

// frameInterval is the nominal frame duration used for the very first delta. Callers hold e.mu.
func (e *engine) frameInterval() time.Duration {
	if e.renderFrameLimit > 0 {
		return e.renderFrameLimit
	}
	return time.Second / 60
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the frame loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
