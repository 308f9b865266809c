package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/input"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	events  []string
	last    input.PointerEvent
	wheel   input.WheelEvent
	keys    []int
	consume bool
}

func (r *recordingHandler) OnPointerDown(e input.PointerEvent) {
	r.events = append(r.events, "down")
	r.last = e
}
func (r *recordingHandler) OnPointerMove(e input.PointerEvent) {
	r.events = append(r.events, "move")
	r.last = e
}
func (r *recordingHandler) OnPointerUp(e input.PointerEvent) {
	r.events = append(r.events, "up")
	r.last = e
}
func (r *recordingHandler) OnPointerLeave(e input.PointerEvent) {
	r.events = append(r.events, "leave")
	r.last = e
}
func (r *recordingHandler) OnPointerCancel(e input.PointerEvent) {
	r.events = append(r.events, "cancel")
	r.last = e
}
func (r *recordingHandler) OnWheel(e *input.WheelEvent) {
	r.events = append(r.events, "wheel")
	r.wheel = *e
	if r.consume {
		e.PreventDefault()
	}
}
func (r *recordingHandler) OnKey(e input.KeyEvent) { r.keys = append(r.keys, e.Key) }
func (r *recordingHandler) OnResize(int, int)      { r.events = append(r.events, "resize") }

func TestDefaultsAndSizeClamp(t *testing.T) {
	w := newEngineWindow(WithWidth(10_000), WithHeight(10), WithTitle("ring"))
	width, height := w.Size()
	assert.Equal(t, 3840, width)
	assert.Equal(t, 240, height)
	assert.Equal(t, "ring", w.title)
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)
}

func TestPointerRouting(t *testing.T) {
	w := newEngineWindow()
	h := &recordingHandler{}
	unsubscribe := w.Subscribe(h)

	w.pointerMove(10, 20)
	w.pointerButton(true, 11, 21)
	w.focusLost()
	w.focusLost()
	w.pointerButton(true, 12, 22)
	w.pointerButton(false, 13, 23)
	w.pointerLeave()

	assert.Equal(t, []string{"move", "down", "cancel", "down", "up", "leave"}, h.events)
	assert.Equal(t, input.PointerEvent{X: 13, Y: 23}, h.last)

	unsubscribe()
	w.pointerMove(1, 1)
	assert.Len(t, h.events, 6)
}

func TestWheelAndKeys(t *testing.T) {
	w := newEngineWindow(WithCloseOnEscape(true))
	assert.False(t, w.scroll(0, 1), "no handler")

	h := &recordingHandler{consume: true}
	w.Subscribe(h)
	assert.True(t, w.scroll(0, 1))
	assert.Equal(t, float32(-100), h.wheel.DeltaY)

	assert.False(t, w.key(common.KeyLeft))
	assert.True(t, w.key(common.KeyEsc))
	assert.Equal(t, []int{common.KeyLeft, common.KeyEsc}, h.keys)
}

func TestResizeNotifiesHandlerThenCallback(t *testing.T) {
	w := newEngineWindow()
	h := &recordingHandler{}
	w.Subscribe(h)
	var got [2]int
	w.SetResizeCallback(func(width, height int) {
		got = [2]int{width, height}
		h.events = append(h.events, "callback")
	})

	w.resize(800, 600)
	assert.Equal(t, []string{"resize", "callback"}, h.events)
	assert.Equal(t, [2]int{800, 600}, got)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestCursorAppliedOnSync(t *testing.T) {
	w := newEngineWindow()
	var applied []input.CursorStyle
	w.applyCursor = func(style input.CursorStyle) { applied = append(applied, style) }

	w.SetCursor(input.CursorGrab)
	w.SetCursor(input.CursorGrabbing)
	assert.Equal(t, input.CursorGrabbing, w.Cursor())
	assert.Empty(t, applied)

	w.syncCursor()
	w.syncCursor()
	assert.Equal(t, []input.CursorStyle{input.CursorGrabbing}, applied)
}
