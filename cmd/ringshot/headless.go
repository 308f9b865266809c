package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ring/engine/input"
	"github.com/Carmen-Shannon/oxy-ring/engine/loader"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-ring/ring"
)

// headless is an offscreen container. Input is scripted through the installed handler.
type headless struct {
	input.Hub
	width, height int
	cursor        input.CursorStyle
}

var _ ring.Container = &headless{}

func (h *headless) Size() (int, int) { return h.width, h.height }

func (h *headless) SetCursor(style input.CursorStyle) { h.cursor = style }

// click moves the pointer to (x, y) and presses it there. It returns false when nothing is
// subscribed.
func (h *headless) click(x, y float32) bool {
	hd := h.Active()
	if hd == nil {
		return false
	}
	e := input.PointerEvent{X: x, Y: y}
	hd.OnPointerMove(e)
	hd.OnPointerDown(e)
	hd.OnPointerUp(e)
	return true
}

// tracker counts loads still in flight so the capture waits for the images.
type tracker struct {
	inner   ring.TextureLoader
	mu      sync.Mutex
	pending int
	idle    *sync.Cond
}

func newTracker(inner ring.TextureLoader) *tracker {
	t := &tracker{inner: inner}
	t.idle = sync.NewCond(&t.mu)
	return t
}

func (t *tracker) Load(ref string, done loader.DoneFunc) loader.CancelFunc {
	t.mu.Lock()
	t.pending++
	t.mu.Unlock()

	var once sync.Once
	finish := func() {
		once.Do(func() {
			t.mu.Lock()
			t.pending--
			t.mu.Unlock()
			t.idle.Broadcast()
		})
	}
	cancel := t.inner.Load(ref, func(tex texture.Texture, err error) {
		done(tex, err)
		finish()
	})
	return func() {
		if cancel != nil {
			cancel()
		}
		finish()
	}
}

// wait blocks until no load is pending or the timeout passes. It reports whether every load
// finished.
func (t *tracker) wait(timeout time.Duration) bool {
	timer := time.AfterFunc(timeout, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.idle.Broadcast()
	})
	defer timer.Stop()
	deadline := time.Now().Add(timeout)

	t.mu.Lock()
	defer t.mu.Unlock()
	for t.pending > 0 {
		if !time.Now().Before(deadline) {
			return false
		}
		t.idle.Wait()
	}
	return true
}

// parsePoint reads "x,y" in pixels.
func parsePoint(s string) (float32, float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	return float32(x), float32(y), nil
}
