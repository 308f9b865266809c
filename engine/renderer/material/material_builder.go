package material

import (
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the straight-alpha RGBA color of the material.
//
// Parameters:
//   - color: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithMap is an option builder that binds an initial image map.
//
// Parameters:
//   - t: the map texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the map option to a material
func WithMap(t texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.colorMap = t
	}
}

// WithTransparent is an option builder that enables alpha blending and sets the initial opacity.
//
// Parameters:
//   - opacity: the initial opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparent(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = true
		m.opacity = mgl32.Clamp(opacity, 0, 1)
	}
}

// WithEmissive is an option builder that sets the emissive color and initial intensity.
//
// Parameters:
//   - color: the emissive color
//   - intensity: the initial intensity
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color mgl32.Vec3, intensity float32) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = color
		m.emissiveIntensity = max(intensity, 0)
	}
}

// WithCornerMask is an option builder that rounds the corners of the map in UV space.
//
// Parameters:
//   - radius: the corner radius as a fraction of the shorter side, clamped to [0, 0.5]
//   - aspect: the width/height ratio of the surface the map covers
//
// Returns:
//   - MaterialBuilderOption: a function that applies the corner mask option to a material
func WithCornerMask(radius, aspect float32) MaterialBuilderOption {
	return func(m *material) {
		m.cornerRadius = mgl32.Clamp(radius, 0, 0.5)
		if aspect > 0 {
			m.cornerAspect = aspect
		}
	}
}

// WithLit is an option builder that toggles whether scene lights shade the material.
//
// Parameters:
//   - lit: true to apply lighting
//
// Returns:
//   - MaterialBuilderOption: a function that applies the lit option to a material
func WithLit(lit bool) MaterialBuilderOption {
	return func(m *material) {
		m.lit = lit
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}
