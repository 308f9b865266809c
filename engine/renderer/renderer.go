package renderer

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/oxy-ring/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoSurface is returned when the WGPU backend is requested without a surface descriptor.
var ErrNoSurface = errors.New("wgpu backend needs a surface descriptor")

// ErrRendererDisposed is returned by Render and Resize after Dispose.
var ErrRendererDisposed = errors.New("renderer is disposed")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	common.DisposeTracker
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     rendererBackend
	post        postprocess.Chain

	width  int
	height int

	// Pre-creation config collected from builder options
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	extraPipelines       []pipeline.Pipeline
}

// Renderer defines the interface for the rendering system.
//
// A Renderer turns a scene graph into pixels. It owns the pipeline cache and a backend: WGPU for
// on-screen output or the software rasterizer for off-screen frames and snapshots. Disposing the
// Renderer releases every GPU object the backend created.
type Renderer interface {
	common.Disposable

	// Render draws the scene once and presents it.
	//
	// Parameters:
	//   - s: the scene to draw
	//
	// Returns:
	//   - error: an error if the backend failed to draw or the renderer is disposed
	Render(s scene.Scene) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: ErrInvalidSize for a non-positive size, or a backend error
	Resize(width, height int) error

	// Size returns the current surface size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// SetPresentMode changes how frames are delivered to the display. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetPostProcess replaces the post-processing chain applied after every frame.
	// Passes run in order; an empty call disables post-processing.
	//
	// Parameters:
	//   - passes: the passes to apply
	SetPostProcess(passes ...postprocess.Pass)

	// Snapshot returns a copy of the last rendered frame.
	//
	// Returns:
	//   - *image.RGBA: the frame, or nil if nothing was rendered yet or the backend cannot read back
	Snapshot() *image.RGBA

	// BackendType reports which backend this renderer drives.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects via the backend, then caching them by key.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the requested backend, configures its surface and
// registers the built-in card pipelines.
//
// Parameters:
//   - backendType: the backend to drive
//   - options: variadic list of RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: a new Renderer instance
//   - error: ErrNoSurface if a WGPU renderer has no surface, or an error if device or pipeline creation fails
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		width:         640,
		height:        480,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeSoftware:
		r.backend = newSoftwareRendererBackend(msaa)
	case BackendTypeWGPU:
		b, err := newWGPURendererBackend(r.surfaceDescriptor, r.forceFallbackAdapter, msaa)
		if err != nil {
			return nil, err
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("unknown renderer backend %d", backendType)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		r.backend.Release()
		return nil, err
	}

	cards, err := CardPipelines()
	if err != nil {
		r.backend.Release()
		return nil, err
	}
	if err := r.RegisterPipelines(append(cards, r.extraPipelines...)...); err != nil {
		r.backend.Release()
		return nil, err
	}

	r.OnDispose(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.backend.Release()
		r.pipelineCache = make(map[string]pipeline.Pipeline)
		log.Printf("[Renderer] %s backend released", r.backendType)
	})
	return r, nil
}

func (r *renderer) Render(s scene.Scene) error {
	if r.Disposed() {
		return ErrRendererDisposed
	}
	r.mu.Lock()
	f := buildFrame(s, r.resolvePipeline)
	f.Post = r.post
	r.mu.Unlock()
	return r.backend.RenderFrame(f)
}

// resolvePipeline picks a material's pipeline: its own key when registered, otherwise the card
// pipeline matching its transparency. Callers hold r.mu.
func (r *renderer) resolvePipeline(m material.Material) pipeline.Pipeline {
	if key := m.PipelineKey(); key != "" {
		if p, ok := r.pipelineCache[key]; ok {
			return p
		}
	}
	if m.Transparent() {
		return r.pipelineCache[PipelineCardTransparent]
	}
	return r.pipelineCache[PipelineCardOpaque]
}

func (r *renderer) Resize(width, height int) error {
	if r.Disposed() {
		return ErrRendererDisposed
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetPostProcess(passes ...postprocess.Pass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.post = postprocess.Chain(passes)
}

func (r *renderer) Snapshot() *image.RGBA {
	return r.backend.Snapshot()
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		if p == nil {
			continue
		}
		r.mu.Lock()
		_, exists := r.pipelineCache[p.Key()]
		r.mu.Unlock()
		if exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %s: %w", p.Key(), err)
		}
		r.mu.Lock()
		r.pipelineCache[p.Key()] = p
		r.mu.Unlock()
	}
	return nil
}
