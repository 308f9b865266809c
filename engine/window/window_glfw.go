package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-ring/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	cursors map[input.CursorStyle]*glfw.Cursor
	running bool
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	// GLFW has no grab cursors; the hand stands in for both grab states.
	arrow := glfw.CreateStandardCursor(glfw.ArrowCursor)
	hand := glfw.CreateStandardCursor(glfw.HandCursor)
	gw := &glfwWindow{
		parent: w,
		window: win,
		cursors: map[input.CursorStyle]*glfw.Cursor{
			input.CursorDefault:  arrow,
			input.CursorGrab:     hand,
			input.CursorGrabbing: hand,
			input.CursorPointer:  hand,
		},
		running: true,
	}
	w.internalWindow = gw
	w.applyCursor = func(style input.CursorStyle) {
		win.SetCursor(gw.cursors[style])
	}

	// Cursor positions arrive in screen coordinates; events are reported in framebuffer pixels
	// so they line up with Size on high-DPI displays.
	toPixels := func(xpos, ypos float64) (float32, float32) {
		ww, wh := win.GetSize()
		fw, fh := win.GetFramebufferSize()
		sx, sy := 1.0, 1.0
		if ww > 0 && wh > 0 {
			sx, sy = float64(fw)/float64(ww), float64(fh)/float64(wh)
		}
		return float32(xpos * sx), float32(ypos * sy)
	}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		if w.key(int(key)) {
			gw.running = false
			win.SetShouldClose(true)
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.scroll(xoff, yoff)
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := toPixels(win.GetCursorPos())
		w.pointerButton(action == glfw.Press, x, y)
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		x, y := toPixels(xpos, ypos)
		w.pointerMove(x, y)
	})

	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			w.pointerLeave()
		}
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			w.focusLost()
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if width > 0 && height > 0 {
			w.resize(width, height)
		}
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.mu.Lock()
	w.width, w.height = fbWidth, fbHeight
	w.mu.Unlock()

	return nil
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return false
	}
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the cursors and the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return ErrNotInitialized
	}
	w.internalWindow = nil
	gw.running = false
	gw.window.SetShouldClose(true)
	destroyed := make(map[*glfw.Cursor]bool)
	for _, c := range gw.cursors {
		if !destroyed[c] {
			c.Destroy()
			destroyed[c] = true
		}
	}
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
