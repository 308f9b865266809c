package pipeline

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render state used at creation time and the GPU objects created from it.
type pipeline struct {
	mu  *sync.Mutex
	key string

	vertexShader, fragmentShader shader.Shader

	renderPipeline   *wgpu.RenderPipeline
	pipelineLayout   *wgpu.PipelineLayout
	bindGroupLayouts map[int]*wgpu.BindGroupLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: a vertex and fragment shader pair plus the depth, blend,
// cull and topology state it is created with. The GPU objects are attached lazily by the
// backend that first draws with it.
type Pipeline interface {
	// Key returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	Key() string

	// Shader retrieves the shader bound to the given stage.
	//
	// Parameters:
	//   - shaderType: the stage to look up
	//
	// Returns:
	//   - shader.Shader: the shader for the stage, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// MergedBindGroupLayouts combines the reflected bind group layouts of both stages. Entries
	// declared by both stages are merged into one entry whose visibility covers both.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	MergedBindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor

	// DepthTestEnabled reports whether fragments are depth tested.
	//
	// Returns:
	//   - bool: true if depth testing is enabled
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writing is enabled
	DepthWriteEnabled() bool

	// BlendEnabled reports whether the color target blends with the framebuffer.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state
	BlendState() *wgpu.BlendState

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the write mask
	WriteMask() wgpu.ColorWriteMask

	// RenderPipeline returns the GPU pipeline, or nil before the backend has created it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the GPU layout created for a bind group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout, or nil if not created
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// SetGPUObjects attaches the GPU objects created from this description.
	//
	// Parameters:
	//   - rp: the render pipeline
	//   - layout: the pipeline layout
	//   - groups: the bind group layouts keyed by group index
	SetGPUObjects(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout, groups map[int]*wgpu.BindGroupLayout)

	// Release frees the GPU objects. The description stays usable and can be created again.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. Depth test and write are on, blending is
// off with straight alpha-over as its state, and both faces are drawn.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance
func NewPipeline(key string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		mu:                &sync.Mutex{},
		key:               key,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) MergedBindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	byGroup := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
		if s == nil {
			continue
		}
		for g, desc := range s.BindGroupLayoutDescriptors() {
			if byGroup[g] == nil {
				byGroup[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				if prev, ok := byGroup[g][e.Binding]; ok {
					e.Visibility |= prev.Visibility
					if prev.Buffer.MinBindingSize > e.Buffer.MinBindingSize {
						e.Buffer.MinBindingSize = prev.Buffer.MinBindingSize
					}
				}
				byGroup[g][e.Binding] = e
			}
		}
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(byGroup))
	for g, entries := range byGroup {
		list := make([]wgpu.BindGroupLayoutEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, e)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Binding < list[j].Binding })
		out[g] = wgpu.BindGroupLayoutDescriptor{Label: p.key, Entries: list}
	}
	return out
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroupLayouts[group]
}

func (p *pipeline) SetGPUObjects(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout, groups map[int]*wgpu.BindGroupLayout) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderPipeline = rp
	p.pipelineLayout = layout
	p.bindGroupLayouts = groups
}

func (p *pipeline) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	for g, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
		delete(p.bindGroupLayouts, g)
	}
}
