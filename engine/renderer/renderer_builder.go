package renderer

import (
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/postprocess"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSurfaceDescriptor sets the window surface the WGPU backend presents to.
// It is required for BackendTypeWGPU and ignored by the software backend.
//
// Parameters:
//   - desc: the platform surface descriptor, usually from window.Window.SurfaceDescriptor
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurfaceDescriptor(desc *wgpu.SurfaceDescriptor) RendererBuilderOption {
	return func(r *renderer) {
		r.surfaceDescriptor = desc
	}
}

// WithSize sets the initial surface size in pixels. The default is 640x480.
//
// Parameters:
//   - width: the surface width
//   - height: the surface height
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}

// WithPipeline registers an additional Pipeline alongside the built-in card pipelines.
// Materials select it through their pipeline key.
//
// Parameters:
//   - p: the Pipeline to register
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.extraPipelines = append(r.extraPipelines, p)
	}
}

// WithPostProcess sets the initial post-processing chain.
//
// Parameters:
//   - passes: the passes to apply after every frame, in order
//
// Returns:
//   - RendererBuilderOption: a function that applies the post-process option to a renderer
func WithPostProcess(passes ...postprocess.Pass) RendererBuilderOption {
	return func(r *renderer) {
		r.post = postprocess.Chain(passes)
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceFallbackAdapter forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback adapter option to a renderer
func WithForceFallbackAdapter(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
