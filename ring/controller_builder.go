package ring

import (
	"github.com/Carmen-Shannon/oxy-ring/engine"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
// Use the With* functions to create options that are applied directly to the controller instance.
type ControllerBuilderOption func(*controller)

// WithScheduler drives the controller from an existing frame scheduler, usually the host's engine.
// Without it the controller runs a private headless engine.
//
// Parameters:
//   - s: the frame scheduler
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithScheduler(s engine.FrameScheduler) ControllerBuilderOption {
	return func(c *controller) {
		c.scheduler = s
	}
}

// WithRendererFactory sets how the controller creates its renderer once it knows the container
// size. The default creates an off-screen software renderer.
//
// Parameters:
//   - f: the factory
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithRendererFactory(f RendererFactory) ControllerBuilderOption {
	return func(c *controller) {
		c.newRenderer = f
	}
}

// WithTextureLoader shares a texture loader. A shared loader is not closed by Destroy.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithTextureLoader(l TextureLoader) ControllerBuilderOption {
	return func(c *controller) {
		c.loader = l
	}
}

// WithNavigator replaces the system browser navigator.
//
// Parameters:
//   - n: the navigator
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithNavigator(n Navigator) ControllerBuilderOption {
	return func(c *controller) {
		c.navigator = n
	}
}

// WithOnOverlay registers the callback that receives overlay state changes. It runs outside the
// controller's lock, so it may call back into the controller.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithOnOverlay(fn func(OverlayState)) ControllerBuilderOption {
	return func(c *controller) {
		c.onOverlay = fn
	}
}

// WithOnRenderError registers a callback for render failures, which are otherwise only logged.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithOnRenderError(fn func(error)) ControllerBuilderOption {
	return func(c *controller) {
		c.onRenderError = fn
	}
}
