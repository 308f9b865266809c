package window

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotInitialized is returned by operations that need the platform window before it exists.
var ErrNotInitialized = errors.New("window is not initialized")

// wheelPixelsPerLine converts GLFW scroll offsets (lines) into pixel deltas. Positive DeltaY
// scrolls down, matching browser wheel events.
const wheelPixelsPerLine = 100

// Window provides platform windowing and input event handling.
// It is the host container for a controller: it reports its size, shows the requested cursor
// and delivers pointer, wheel, key and resize events to a single subscribed input.Handler.
type Window interface {
	// Size returns the client area size in pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// SetCursor requests a cursor style. It is applied on the message loop goroutine.
	//
	// Parameters:
	//   - style: the cursor to show
	SetCursor(style input.CursorStyle)

	// Cursor returns the most recently requested cursor style.
	//
	// Returns:
	//   - input.CursorStyle: the requested style
	Cursor() input.CursorStyle

	// Subscribe installs the handler that receives every input event, replacing any previous one.
	//
	// Parameters:
	//   - h: the handler
	//
	// Returns:
	//   - func(): removes the handler; idempotent
	Subscribe(h input.Handler) func()

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized, after the
	// subscribed handler has been told.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: ErrNotInitialized if there is no platform window
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, the platform handle, and the event routing state.
type engineWindow struct {
	mu *sync.Mutex

	title     string
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int
	width     int
	height    int

	closeOnEscape bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	hub input.Hub

	cursor        atomic.Int32
	appliedCursor input.CursorStyle
	applyCursor   func(style input.CursorStyle)

	pointerDown bool
	lastX       float32
	lastY       float32

	onUpdate func()
	onResize func(width, height int)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options and opens the platform window.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "oxy-ring",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	w.width = max(w.minWidth, min(w.width, w.maxWidth))
	w.height = max(w.minHeight, min(w.height, w.maxHeight))
	return w
}

func (w *engineWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) SetCursor(style input.CursorStyle) {
	w.cursor.Store(int32(style))
}

func (w *engineWindow) Cursor() input.CursorStyle {
	return input.CursorStyle(w.cursor.Load())
}

func (w *engineWindow) Subscribe(h input.Handler) func() {
	return w.hub.Subscribe(h)
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
		w.syncCursor()

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// syncCursor applies the most recently requested cursor. Must run on the message loop goroutine.
func (w *engineWindow) syncCursor() {
	want := w.Cursor()
	if want == w.appliedCursor || w.applyCursor == nil {
		return
	}
	w.applyCursor(want)
	w.appliedCursor = want
}

func (w *engineWindow) pointerButton(pressed bool, x, y float32) {
	h := w.hub.Active()
	w.lastX, w.lastY = x, y
	e := input.PointerEvent{X: x, Y: y}
	if pressed {
		w.pointerDown = true
		if h != nil {
			h.OnPointerDown(e)
		}
		return
	}
	w.pointerDown = false
	if h != nil {
		h.OnPointerUp(e)
	}
}

func (w *engineWindow) pointerMove(x, y float32) {
	w.lastX, w.lastY = x, y
	if h := w.hub.Active(); h != nil {
		h.OnPointerMove(input.PointerEvent{X: x, Y: y})
	}
}

func (w *engineWindow) pointerLeave() {
	w.pointerDown = false
	if h := w.hub.Active(); h != nil {
		h.OnPointerLeave(input.PointerEvent{X: w.lastX, Y: w.lastY})
	}
}

// focusLost cancels an in-progress press; the release will never arrive.
func (w *engineWindow) focusLost() {
	if !w.pointerDown {
		return
	}
	w.pointerDown = false
	if h := w.hub.Active(); h != nil {
		h.OnPointerCancel(input.PointerEvent{X: w.lastX, Y: w.lastY})
	}
}

// scroll delivers a wheel event and reports whether the handler consumed it.
func (w *engineWindow) scroll(xoff, yoff float64) bool {
	h := w.hub.Active()
	if h == nil {
		return false
	}
	e := &input.WheelEvent{
		DeltaX: float32(-xoff * wheelPixelsPerLine),
		DeltaY: float32(-yoff * wheelPixelsPerLine),
	}
	h.OnWheel(e)
	return e.DefaultPrevented()
}

// key delivers a key press and reports whether the window should close.
func (w *engineWindow) key(code int) bool {
	if h := w.hub.Active(); h != nil {
		h.OnKey(input.KeyEvent{Key: code})
	}
	return w.closeOnEscape && code == common.KeyEsc
}

func (w *engineWindow) resize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	if h := w.hub.Active(); h != nil {
		h.OnResize(width, height)
	}
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
