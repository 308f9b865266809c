// Package input defines host-neutral pointer, wheel and keyboard events together with the single
// subscription point through which a container delivers them.
package input

import "sync"

// CursorStyle is the pointer affordance a container should display.
type CursorStyle int

const (
	// CursorDefault is the platform arrow.
	CursorDefault CursorStyle = iota
	// CursorGrab signals that the surface can be dragged.
	CursorGrab
	// CursorGrabbing signals that a drag is in progress.
	CursorGrabbing
	// CursorPointer signals that the item under the pointer is clickable.
	CursorPointer
)

func (c CursorStyle) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorPointer:
		return "pointer"
	default:
		return "default"
	}
}

// PointerEvent carries a pointer position in container pixels, origin top-left.
type PointerEvent struct {
	X, Y float32
	// Touch is true when the event originates from a touch contact rather than a mouse.
	Touch bool
}

// WheelEvent carries a scroll delta in pixels. Handlers call PreventDefault when they consume it
// so the host can suppress its own scrolling.
type WheelEvent struct {
	DeltaX, DeltaY float32
	prevented      bool
}

// PreventDefault marks the wheel event as consumed.
func (w *WheelEvent) PreventDefault() { w.prevented = true }

// DefaultPrevented reports whether a handler consumed the event.
func (w *WheelEvent) DefaultPrevented() bool { return w.prevented }

// KeyEvent carries a key press using the virtual key codes in the common package.
type KeyEvent struct {
	Key int
}

// Handler receives every event a container produces. A container delivers events to at most one
// handler at a time.
type Handler interface {
	OnPointerDown(e PointerEvent)
	OnPointerMove(e PointerEvent)
	OnPointerUp(e PointerEvent)
	OnPointerLeave(e PointerEvent)
	OnPointerCancel(e PointerEvent)
	OnWheel(e *WheelEvent)
	OnKey(e KeyEvent)
	OnResize(width, height int)
}

// Hub is the single subscription slot shared by container implementations.
// The zero value is ready to use.
type Hub struct {
	mu      sync.Mutex
	handler Handler
	serial  uint64
}

// Subscribe installs h as the active handler, replacing any previous one, and returns the
// function that removes it. The returned function is idempotent and only removes the handler it
// installed.
func (b *Hub) Subscribe(h Handler) func() {
	b.mu.Lock()
	b.serial++
	id := b.serial
	b.handler = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.serial == id {
				b.handler = nil
			}
		})
	}
}

// Active returns the installed handler, or nil.
func (b *Hub) Active() Handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handler
}

// Subscribed reports whether a handler is installed.
func (b *Hub) Subscribed() bool {
	return b.Active() != nil
}
