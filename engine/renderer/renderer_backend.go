package renderer

import (
	"image"

	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/pipeline"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend. It needs a window surface.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeSoftware selects the CPU rasterizer. It renders off-screen and supports Snapshot.
	BackendTypeSoftware
)

// String returns the backend name.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4. The software backend maps the count to a
// supersampling factor (4 samples = 2×2).
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// rendererBackend is what a concrete graphics API provides to the Renderer.
type rendererBackend interface {
	// ConfigureSurface (re)creates the render targets for a new size.
	ConfigureSurface(width, height int) error

	// SetPresentMode stores the present mode applied on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the GPU objects for a pipeline description.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// RenderFrame draws one frame and presents it.
	RenderFrame(f *Frame) error

	// Snapshot returns a copy of the last presented frame, or nil if the backend cannot read back.
	Snapshot() *image.RGBA

	// Release frees every backend resource.
	Release()
}
