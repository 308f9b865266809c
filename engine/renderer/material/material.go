package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// material is the implementation of the Material interface.
type material struct {
	common.DisposeTracker

	mu                *sync.Mutex
	name              string
	baseColor         mgl32.Vec4
	colorMap          texture.Texture
	opacity           float32
	transparent       bool
	emissive          mgl32.Vec3
	emissiveIntensity float32
	cornerRadius      float32
	cornerAspect      float32
	lit               bool
	version           uint64
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a surface description: a base color optionally replaced by
// an image map, an opacity, and an additive emissive glow.
//
// All setters bump Version so renderer backends know to refresh their uniforms. Disposing a
// material does not dispose its map; textures are owned separately.
type Material interface {
	common.Disposable

	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the straight-alpha RGBA color used where no map is bound.
	//
	// Returns:
	//   - mgl32.Vec4: the base color
	BaseColor() mgl32.Vec4

	// SetBaseColor replaces the base color.
	//
	// Parameters:
	//   - c: the new base color
	SetBaseColor(c mgl32.Vec4)

	// Map retrieves the image map, or nil if none is bound.
	//
	// Returns:
	//   - texture.Texture: the map, or nil
	Map() texture.Texture

	// SetMap binds an image map, replacing any previous one. The previous map is not disposed.
	//
	// Parameters:
	//   - t: the map to bind, or nil to unbind
	SetMap(t texture.Texture)

	// Opacity retrieves the multiplier applied to the final alpha.
	//
	// Returns:
	//   - float32: the opacity in [0, 1]
	Opacity() float32

	// SetOpacity sets the alpha multiplier, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// Transparent reports whether the material participates in blending.
	//
	// Returns:
	//   - bool: true if the material is blended
	Transparent() bool

	// Emissive retrieves the emissive color and intensity.
	//
	// Returns:
	//   - mgl32.Vec3: the emissive color
	//   - float32: the emissive intensity
	Emissive() (mgl32.Vec3, float32)

	// SetEmissiveIntensity sets the emissive intensity, clamped to be non-negative.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetEmissiveIntensity(intensity float32)

	// CornerMask retrieves the rounded-corner mask applied to the map in UV space.
	//
	// Returns:
	//   - float32: the corner radius as a fraction of the shorter UV side, 0 for none
	//   - float32: the width/height ratio of the surface the map covers
	CornerMask() (float32, float32)

	// Lit reports whether scene lights shade this material.
	//
	// Returns:
	//   - bool: true if lit
	Lit() bool

	// Version increases every time a visible property changes.
	//
	// Returns:
	//   - uint64: the current version
	Version() uint64

	// GPUParams packs the current state into the shader uniform layout.
	//
	// Returns:
	//   - GPUMaterialParams: the packed uniform
	GPUParams() GPUMaterialParams

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:           &sync.Mutex{},
		baseColor:    mgl32.Vec4{1, 1, 1, 1},
		opacity:      1,
		emissive:     mgl32.Vec3{1, 1, 1},
		cornerAspect: 1,
		lit:          true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() mgl32.Vec4 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseColor
}

func (m *material) SetBaseColor(c mgl32.Vec4) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseColor = c
	m.version++
}

func (m *material) Map() texture.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.colorMap
}

func (m *material) SetMap(t texture.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.colorMap = t
	m.version++
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = mgl32.Clamp(opacity, 0, 1)
	m.version++
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) Emissive() (mgl32.Vec3, float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emissive, m.emissiveIntensity
}

func (m *material) SetEmissiveIntensity(intensity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emissiveIntensity = max(intensity, 0)
	m.version++
}

func (m *material) CornerMask() (float32, float32) {
	return m.cornerRadius, m.cornerAspect
}

func (m *material) Lit() bool {
	return m.lit
}

func (m *material) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	version := m.version
	if m.colorMap != nil {
		version += m.colorMap.Version()
	}
	return version
}

func (m *material) GPUParams() GPUMaterialParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := GPUMaterialParams{
		BaseColor:   m.baseColor,
		Emissive:    [4]float32{m.emissive[0], m.emissive[1], m.emissive[2], m.emissiveIntensity},
		Surface:     [4]float32{m.opacity, 0, m.cornerRadius, m.cornerAspect},
		UVTransform: [4]float32{1, 1, 0, 0},
	}
	if m.lit {
		p.Flags[1] = 1
	}
	if m.colorMap != nil {
		repeat, offset := m.colorMap.Repeat(), m.colorMap.Offset()
		p.Surface[1] = 1
		p.UVTransform = [4]float32{repeat[0], repeat[1], offset[0], offset[1]}
		if m.colorMap.Wrap() == texture.WrapClampToBorder {
			p.Flags[0] = 1
		}
	}
	return p
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
