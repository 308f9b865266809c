package renderer

import (
	"errors"
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/model"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// depthCorrection maps OpenGL clip-space depth [-1, 1] onto WebGPU's [0, 1].
var depthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// materialResources tracks the GPU copy of one material.
type materialResources struct {
	provider   bind_group_provider.BindGroupProvider
	layout     *wgpu.BindGroupLayout
	colorMap   texture.Texture
	mapVersion uint64
}

// uniformResources is a single-uniform bind group bound against a specific layout.
type uniformResources struct {
	provider bind_group_provider.BindGroupProvider
	layout   *wgpu.BindGroupLayout
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	msaaTexture   *wgpu.Texture
	msaaView      *wgpu.TextureView
	depthTexture  *wgpu.Texture
	depthView     *wgpu.TextureView

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	// bind group layouts are shared by every pipeline built from the same shader pair
	layouts   map[string]map[int]*wgpu.BindGroupLayout
	pipelines []pipeline.Pipeline

	frames    map[*wgpu.BindGroupLayout]bind_group_provider.BindGroupProvider
	models    []uniformResources
	meshes    map[model.Geometry]bind_group_provider.BindGroupProvider
	materials map[material.Material]*materialResources
	blank     texture.Texture

	// dispose hooks may fire from any goroutine; their work runs at the start of the next frame
	deferredMu *sync.Mutex
	deferred   []func()

	postWarned bool
}

var _ rendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (*wgpuRendererBackendImpl, error) {
	if surfaceDescriptor == nil {
		return nil, ErrNoSurface
	}
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		layouts:     make(map[string]map[int]*wgpu.BindGroupLayout),
		frames:      make(map[*wgpu.BindGroupLayout]bind_group_provider.BindGroupProvider),
		meshes:      make(map[model.Geometry]bind_group_provider.BindGroupProvider),
		materials:   make(map[material.Material]*materialResources),
		blank:       texture.NewTexture(nil, texture.WithName("blank")),
		deferredMu:  &sync.Mutex{},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()
	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no formats")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})

	b.releaseTargets()
	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if count > 1 {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return err
		}
		b.msaaTexture, b.msaaView = tex, view
	}

	// depth sample count must match the color attachment
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	b.depthTexture, b.depthView = tex, view
	return nil
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("vertex module %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("fragment module %s: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	layoutKey := vertexShader.Key() + "|" + fragmentShader.Key()
	groups, ok := b.layouts[layoutKey]
	if !ok {
		groups = make(map[int]*wgpu.BindGroupLayout)
		for g, desc := range p.MergedBindGroupLayouts() {
			layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
			if layoutErr != nil {
				return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
			}
			groups[g] = layout
		}
		b.layouts[layoutKey] = groups
	}
	maxGroup := -1
	for g := range groups {
		maxGroup = max(maxGroup, g)
	}
	ordered := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, l := range groups {
		ordered[g] = l
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Key(),
		BindGroupLayouts: ordered,
	})
	if err != nil {
		return err
	}

	target := wgpu.ColorTargetState{
		Format:    b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}
	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.Key() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		pipelineLayout.Release()
		return err
	}

	// layouts are owned by the backend cache, so the pipeline only holds references
	p.SetGPUObjects(created, pipelineLayout, nil)
	b.pipelines = append(b.pipelines, p)
	return nil
}

// layoutFor returns the bind group layout a pipeline uses for a group.
func (b *wgpuRendererBackendImpl) layoutFor(p pipeline.Pipeline, group int) *wgpu.BindGroupLayout {
	vs, fs := p.Shader(shader.ShaderTypeVertex), p.Shader(shader.ShaderTypeFragment)
	if vs == nil || fs == nil {
		return nil
	}
	return b.layouts[vs.Key()+"|"+fs.Key()][group]
}

func (b *wgpuRendererBackendImpl) RenderFrame(f *Frame) error {
	b.runDeferred()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depthView == nil {
		return ErrInvalidSize
	}
	if len(f.Post) > 0 && !b.postWarned {
		log.Printf("[Renderer] post-processing runs on the software backend only; skipping %d pass(es)", len(f.Post))
		b.postWarned = true
	}

	type preparedDraw struct {
		rp                      *wgpu.RenderPipeline
		frame, model, mat, mesh bind_group_provider.BindGroupProvider
		firstIndex, indexCount  uint32
	}

	viewProj := depthCorrection.Mul4(f.ViewProj)
	frameData := frameUniform(f, viewProj)
	frameBytes := frameData.Marshal()
	written := make(map[bind_group_provider.BindGroupProvider]bool)

	prepared := make([]preparedDraw, 0, len(f.Draws))
	for i, d := range f.Draws {
		rp := d.Pipeline.RenderPipeline()
		if rp == nil {
			continue
		}
		frameProvider, err := b.ensureFrame(d.Pipeline)
		if err != nil {
			return err
		}
		if !written[frameProvider] {
			b.queue.WriteBuffer(frameProvider.Buffer(0), 0, frameBytes)
			written[frameProvider] = true
		}
		modelProvider, err := b.ensureModel(i, d.Pipeline)
		if err != nil {
			return err
		}
		md := model.GPUModelData{Model: d.World}
		b.queue.WriteBuffer(modelProvider.Buffer(0), 0, md.Marshal())

		matProvider, err := b.ensureMaterial(d.Material, d.Pipeline)
		if err != nil {
			return err
		}
		meshProvider, err := b.ensureMesh(d.Geometry)
		if err != nil {
			return err
		}
		prepared = append(prepared, preparedDraw{
			rp:         rp,
			frame:      frameProvider,
			model:      modelProvider,
			mat:        matProvider,
			mesh:       meshProvider,
			firstIndex: uint32(d.Group.Start),
			indexCount: uint32(d.Group.Count),
		})
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	// with MSAA the pass draws into the multisampled target and resolves into the swapchain view
	color := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(f.ClearColor[0]),
			G: float64(f.ClearColor[1]),
			B: float64(f.ClearColor[2]),
			A: float64(f.ClearColor[3]),
		},
	}
	if b.msaaView != nil {
		color.View = b.msaaView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	for _, pd := range prepared {
		pass.SetPipeline(pd.rp)
		pass.SetBindGroup(groupFrame, pd.frame.BindGroup(), nil)
		pass.SetBindGroup(groupModel, pd.model.BindGroup(), nil)
		pass.SetBindGroup(groupMaterial, pd.mat.BindGroup(), nil)
		pass.SetVertexBuffer(0, pd.mesh.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(pd.mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(pd.indexCount, 1, pd.firstIndex, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.surface.Present()
	return nil
}

// ensureFrame returns the frame uniform bind group matching the pipeline's group 0 layout.
func (b *wgpuRendererBackendImpl) ensureFrame(p pipeline.Pipeline) (bind_group_provider.BindGroupProvider, error) {
	layout := b.layoutFor(p, groupFrame)
	if provider, ok := b.frames[layout]; ok {
		return provider, nil
	}
	var u GPUFrameUniform
	provider, err := b.uniformProvider("Frame", layout, uint64(u.Size()))
	if err != nil {
		return nil, err
	}
	b.frames[layout] = provider
	return provider, nil
}

// ensureModel returns the model uniform slot for the i-th draw of the frame. Every draw needs
// its own buffer because queued writes all land before the pass executes.
func (b *wgpuRendererBackendImpl) ensureModel(i int, p pipeline.Pipeline) (bind_group_provider.BindGroupProvider, error) {
	layout := b.layoutFor(p, groupModel)
	for len(b.models) <= i {
		b.models = append(b.models, uniformResources{})
	}
	slot := b.models[i]
	if slot.provider != nil && slot.layout == layout {
		return slot.provider, nil
	}
	if slot.provider != nil {
		slot.provider.Release()
	}
	var md model.GPUModelData
	provider, err := b.uniformProvider(fmt.Sprintf("Model %d", i), layout, uint64(md.Size()))
	if err != nil {
		return nil, err
	}
	b.models[i] = uniformResources{provider: provider, layout: layout}
	return provider, nil
}

func (b *wgpuRendererBackendImpl) uniformProvider(label string, layout *wgpu.BindGroupLayout, size uint64) (bind_group_provider.BindGroupProvider, error) {
	if layout == nil {
		return nil, fmt.Errorf("%s: pipeline has no bind group layout", label)
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	provider := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithBuffer(0, buf))
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label + " Bind Group",
		Layout:  layout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: wgpu.WholeSize}},
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetBindGroup(bg)
	return provider, nil
}

func (b *wgpuRendererBackendImpl) ensureMesh(geo model.Geometry) (bind_group_provider.BindGroupProvider, error) {
	if provider, ok := b.meshes[geo]; ok {
		return provider, nil
	}
	vertexData, indexData := geo.VertexData(), geo.IndexData()
	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: geo.Name() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: geo.Name() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)
	b.queue.WriteBuffer(ib, 0, indexData)

	provider := bind_group_provider.NewBindGroupProvider(geo.Name(), bind_group_provider.WithMesh(vb, ib, geo.IndexCount()))
	b.meshes[geo] = provider
	geo.OnDispose(func() {
		b.defer_(func() {
			delete(b.meshes, geo)
			provider.Release()
		})
	})
	return provider, nil
}

func (b *wgpuRendererBackendImpl) ensureMaterial(mat material.Material, p pipeline.Pipeline) (bind_group_provider.BindGroupProvider, error) {
	layout := b.layoutFor(p, groupMaterial)
	colorMap := mat.Map()
	source := colorMap
	if source == nil {
		source = b.blank
	}

	res, ok := b.materials[mat]
	stale := !ok || res.layout != layout || res.colorMap != colorMap || res.mapVersion != source.Version()
	if stale {
		provider, err := b.buildMaterial(mat.Name(), layout, source)
		if err != nil {
			return nil, err
		}
		if ok {
			res.provider.Release()
		} else {
			mat.OnDispose(func() {
				b.defer_(func() {
					if r, found := b.materials[mat]; found {
						r.provider.Release()
						delete(b.materials, mat)
					}
				})
			})
		}
		res = &materialResources{provider: provider, layout: layout, colorMap: colorMap, mapVersion: source.Version()}
		b.materials[mat] = res
		mat.SetBindGroupProvider(provider)
	}

	if v := mat.Version(); res.provider.Version() != v || stale {
		params := mat.GPUParams()
		b.queue.WriteBuffer(res.provider.Buffer(0), 0, params.Marshal())
		res.provider.SetVersion(v)
	}
	return res.provider, nil
}

func (b *wgpuRendererBackendImpl) buildMaterial(label string, layout *wgpu.BindGroupLayout, tex texture.Texture) (bind_group_provider.BindGroupProvider, error) {
	if layout == nil {
		return nil, fmt.Errorf("material %s: pipeline has no bind group layout", label)
	}
	var params material.GPUMaterialParams
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Material Buffer",
		Size:  uint64(params.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	provider := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithBuffer(0, buf))

	staging := straightAlphaStaging(tex.Image())
	gpuTex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: gpuTex, Aspect: wgpu.TextureAspectAll},
		staging.Pixels,
		&wgpu.TextureDataLayout{BytesPerRow: staging.Width * 4, RowsPerImage: staging.Height},
		&wgpu.Extent3D{Width: staging.Width, Height: staging.Height, DepthOrArrayLayers: 1},
	)
	view, err := gpuTex.CreateView(nil)
	if err != nil {
		gpuTex.Release()
		provider.Release()
		return nil, err
	}
	provider.SetTexture(1, gpuTex, view)

	sd := tex.SamplerData()
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(sd.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(sd.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(sd.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(sd.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(sd.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(sd.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   sd.LodMinClamp,
		LodMaxClamp:   common.Coalesce(sd.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(sd.MaxAnisotropy, 1),
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetSampler(2, samp)

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Material Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: samp},
		},
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetBindGroup(bg)
	return provider, nil
}

// straightAlphaStaging converts premultiplied pixels to the straight alpha the shaders expect.
func straightAlphaStaging(img *image.RGBA) common.TextureStagingData {
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	b := nrgba.Bounds()
	return common.TextureStagingData{Pixels: nrgba.Pix, Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

// defer_ queues work that touches the resource caches.
func (b *wgpuRendererBackendImpl) defer_(fn func()) {
	b.deferredMu.Lock()
	defer b.deferredMu.Unlock()
	b.deferred = append(b.deferred, fn)
}

func (b *wgpuRendererBackendImpl) runDeferred() {
	b.deferredMu.Lock()
	work := b.deferred
	b.deferred = nil
	b.deferredMu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, fn := range work {
		fn()
	}
}

func (b *wgpuRendererBackendImpl) Snapshot() *image.RGBA {
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.runDeferred()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.pipelines {
		p.Release()
	}
	b.pipelines = nil
	for key, groups := range b.layouts {
		for _, l := range groups {
			l.Release()
		}
		delete(b.layouts, key)
	}
	for layout, provider := range b.frames {
		provider.Release()
		delete(b.frames, layout)
	}
	for _, slot := range b.models {
		if slot.provider != nil {
			slot.provider.Release()
		}
	}
	b.models = nil
	for geo, provider := range b.meshes {
		provider.Release()
		delete(b.meshes, geo)
	}
	for mat, res := range b.materials {
		res.provider.Release()
		delete(b.materials, mat)
	}
	b.releaseTargets()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
