package scene

import (
	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial nodes under the root.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(nodes ...Node) SceneBuilderOption {
	return func(s *scene) {
		s.root.Add(nodes...)
	}
}

// WithLights registers initial lights.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}

// WithBackground sets the initial clear color.
//
// Parameters:
//   - c: straight-alpha RGBA color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c mgl32.Vec4) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
	}
}

// WithLightingEnabled sets whether lit materials are shaded by the scene lights.
//
// Parameters:
//   - enabled: true to enable lighting
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLightingEnabled(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.lightingEnabled = enabled
	}
}
