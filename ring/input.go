package ring

import (
	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/input"
	"github.com/Carmen-Shannon/oxy-ring/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// locked runs fn under mu when the controller is alive, then flushes host effects.
func (c *controller) locked(fn func()) {
	if !c.alive.Load() {
		return
	}
	c.mu.Lock()
	if !c.alive.Load() {
		c.mu.Unlock()
		return
	}
	fn()
	c.mu.Unlock()
	c.flush()
}

func (c *controller) OnPointerDown(e input.PointerEvent) {
	c.locked(func() {
		c.trackPointer(e)
		c.drag.down = true
		c.drag.startX, c.drag.startY = e.X, e.Y
		if c.focused >= 0 {
			return
		}
		c.drag.active = true
		c.drag.lastX = e.X
		c.drag.velocity = 0
		c.coasting = 0
	})
}

func (c *controller) OnPointerMove(e input.PointerEvent) {
	c.locked(func() {
		c.trackPointer(e)
		if c.focused >= 0 {
			c.overFocused = c.pick(e.X, e.Y) == c.focused
			return
		}
		if c.drag.active {
			dx := e.X - c.drag.lastX
			c.spin += dx * c.cfg.Interaction.DragSensitivity
			c.drag.velocity = dx
			c.drag.lastX = e.X
			if c.hovered >= 0 && c.travel(e) >= c.cfg.Interaction.ClickThreshold {
				c.hovered = -1
			}
			return
		}
		c.updateHover()
	})
}

func (c *controller) OnPointerUp(e input.PointerEvent) {
	c.locked(func() {
		c.trackPointer(e)
		c.release(e)
	})
}

func (c *controller) OnPointerLeave(e input.PointerEvent) {
	c.locked(func() {
		c.release(e)
		c.pointerInside = false
		c.overFocused = false
		c.hovered = -1
	})
}

func (c *controller) OnPointerCancel(e input.PointerEvent) {
	c.locked(func() {
		c.release(e)
	})
}

func (c *controller) OnWheel(e *input.WheelEvent) {
	c.locked(func() {
		if !c.cfg.Interaction.EnableScroll || c.focused >= 0 {
			return
		}
		c.coasting += e.DeltaY * c.cfg.Interaction.ScrollSensitivity
		e.PreventDefault()
	})
}

func (c *controller) OnKey(e input.KeyEvent) {
	c.locked(func() {
		nudge := c.cfg.Interaction.KeyboardNudge
		switch e.Key {
		case common.KeyEsc:
			c.unfocus()
		case common.KeyEnter:
			switch {
			case c.focused >= 0:
				c.activate(c.focused)
			case c.hovered >= 0:
				c.focus(c.hovered)
			}
		case common.KeyLeft:
			if c.focused < 0 {
				c.coasting -= nudge
			}
		case common.KeyRight:
			if c.focused < 0 {
				c.coasting += nudge
			}
		}
	})
}

func (c *controller) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.locked(func() {
		c.width, c.height = width, height
		c.cam.SetAspect(float32(width) / float32(height))
		if err := c.renderer.Resize(width, height); err != nil {
			c.reportRenderError("resize", err)
		}
		c.responsive = c.responsiveScale()
	})
}

// trackPointer records the pointer in normalized device coordinates, y up. Callers hold mu.
func (c *controller) trackPointer(e input.PointerEvent) {
	c.pointerInside = true
	c.pointer = mgl32.Vec2{
		mgl32.Clamp(2*e.X/float32(c.width)-1, -1, 1),
		mgl32.Clamp(1-2*e.Y/float32(c.height), -1, 1),
	}
}

func (c *controller) travel(e input.PointerEvent) float32 {
	return math32.Hypot(e.X-c.drag.startX, e.Y-c.drag.startY)
}

// release ends a press. A short press is a click; a drag hands its last velocity to coasting.
func (c *controller) release(e input.PointerEvent) {
	if !c.drag.down {
		return
	}
	wasDragging := c.drag.active
	c.drag.down, c.drag.active = false, false
	if c.travel(e) < c.cfg.Interaction.ClickThreshold {
		c.click(e)
		return
	}
	if wasDragging {
		c.coasting = c.drag.velocity * c.cfg.Interaction.FlickSensitivity
	}
}

// click resolves the state machine: while focused any click leaves focus, activating the card's
// link when the click lands on it; otherwise a click on a card focuses it.
func (c *controller) click(e input.PointerEvent) {
	if c.focused >= 0 {
		if c.pick(e.X, e.Y) == c.focused {
			c.activate(c.focused)
			return
		}
		c.unfocus()
		return
	}
	target := c.hovered
	if target < 0 {
		target = c.pick(e.X, e.Y)
	}
	if target >= 0 {
		c.focus(target)
	}
}

func (c *controller) focus(i int) {
	if i < 0 || i >= len(c.cards) {
		return
	}
	c.focused = i
	c.hovered = -1
	c.coasting = 0
	c.drag.active = false
	c.overFocused = true
	c.spinTarget = c.focusSpin(i)
	for j, card := range c.cards {
		card.TargetOpacity, card.TargetGlow = c.cardTargets(j)
	}
}

func (c *controller) unfocus() {
	if c.focused < 0 {
		return
	}
	c.focused = -1
	c.overFocused = false
	for j, card := range c.cards {
		card.TargetOpacity, card.TargetGlow = c.cardTargets(j)
	}
}

// activate queues navigation to card i's link, if it has a real one, and leaves focus.
func (c *controller) activate(i int) {
	if i >= 0 && i < len(c.cards) {
		it := c.cards[i].Item
		if IsNavigable(it.Link) {
			c.navigation = &pendingNavigation{url: it.Link, newTab: it.NewTab()}
		}
	}
	c.unfocus()
}

// updateHover casts the pointer ray into the cards and makes the nearest hit the hovered card.
func (c *controller) updateHover() {
	if !c.pointerInside || !c.cfg.Interaction.EnableHover || c.cfg.Platform.IsTouchPrimary {
		c.hovered = -1
		return
	}
	px := (c.pointer[0] + 1) / 2 * float32(c.width)
	py := (1 - c.pointer[1]) / 2 * float32(c.height)
	c.hovered = c.pick(px, py)
}

// pick returns the index of the nearest card under a container pixel, or -1.
func (c *controller) pick(px, py float32) int {
	if len(c.nodes) == 0 || c.width <= 0 || c.height <= 0 {
		return -1
	}
	ray := c.cam.ScreenRay(2*px/float32(c.width)-1, 1-2*py/float32(c.height))
	for _, hit := range scene.IntersectObjects(c.nodes, ray.Origin, ray.Direction, false) {
		if i, ok := c.nodeIndex[hit.Node.ID()]; ok {
			return i
		}
	}
	return -1
}
