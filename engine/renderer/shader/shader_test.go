package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `
struct Light {
    position: vec4<f32>,
    color: vec4<f32>,
};

struct Frame {
    view_proj: mat4x4<f32>,
    camera_pos: vec4<f32>,
    ambient: vec4<f32>,
    lights: array<Light, 3>,
    flags: vec4<f32>,
};

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(0) @binding(0) var<uniform> frame: Frame;
// @group(0) @binding(1) var<uniform> ignored: Frame;
/* @group(3) @binding(0) var<uniform> gone: Frame; */

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = frame.view_proj * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}
`

const testFragmentSource = `
struct Params {
    color: vec4<f32>,
    extra: vec2<f32>,
};

@group(2) @binding(2) var color_sampler: sampler;
@group(2) @binding(0) var<uniform> params: Params;
@group(2) @binding(1) var color_map: texture_2d<f32>;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(color_map, color_sampler, uv) * params.color;
}
`

func TestNewShaderVertexReflection(t *testing.T) {
	s, err := NewShader("test.vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "test.vs", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, testVertexSource, s.Module().WGSLDescriptor.Code)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[0].Attributes[2].Format)
	assert.Equal(t, uint32(2), layouts[0].Attributes[2].ShaderLocation)

	descs := s.BindGroupLayoutDescriptors()
	require.Len(t, descs, 1, "commented declarations must not be reflected")
	entries := s.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, uint64(208), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, entries[0].Visibility)
	assert.Equal(t, "frame", s.BindGroupVarName(0, 0))
}

func TestNewShaderFragmentReflection(t *testing.T) {
	s, err := NewShader("test.fs", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Nil(t, s.VertexLayouts())

	entries := s.BindGroupLayoutDescriptor(2).Entries
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Binding, "entries are sorted by binding")
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
	assert.Equal(t, uint64(32), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[1].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[2].Sampler.Type)
	assert.Equal(t, "color_map", s.BindGroupVarName(2, 1))
	assert.Empty(t, s.BindGroupVarName(5, 0))
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("broken", ShaderTypeFragment, testVertexSource)
	assert.ErrorIs(t, err, ErrNoEntryPoint)
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* nested */ c */ d // tail\ne"
	assert.Equal(t, "a  d \ne", stripComments(src))
}

func TestTypeLayout(t *testing.T) {
	structs := structLayouts(parseStructs(stripComments(testVertexSource)))

	assert.Equal(t, typeLayoutInfo{32, 16}, structs["Light"])
	assert.Equal(t, typeLayoutInfo{208, 16}, structs["Frame"])

	arr, ok := typeLayout("array<vec3<f32>, 4>", structs)
	require.True(t, ok)
	assert.Equal(t, uint64(64), arr.size, "vec3 elements are padded to 16 bytes")

	_, ok = typeLayout("array<f32>", structs)
	assert.False(t, ok)
}
