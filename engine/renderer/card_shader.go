package renderer

import (
	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/Carmen-Shannon/oxy-ring/engine/model"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys used by the card renderer.
const (
	PipelineCardOpaque      = "card.opaque"
	PipelineCardTransparent = "card.transparent"
)

// Bind group indices shared by both card shaders.
const (
	groupFrame    = 0
	groupModel    = 1
	groupMaterial = 2
)

const cardVertexBody = `
@group(0) @binding(0) var<uniform> frame: Frame;
@group(1) @binding(0) var<uniform> draw: ModelData;

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) world_pos: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let world = draw.model * vec4<f32>(in.position, 1.0);
    out.clip = frame.view_proj * world;
    out.world_pos = world.xyz;
    out.normal = (draw.model * vec4<f32>(in.normal, 0.0)).xyz;
    out.uv = in.uv;
    return out;
}
`

const cardFragmentBody = `
@group(0) @binding(0) var<uniform> frame: Frame;
@group(2) @binding(0) var<uniform> material: MaterialParams;
@group(2) @binding(1) var color_map: texture_2d<f32>;
@group(2) @binding(2) var color_sampler: sampler;

struct FragmentInput {
    @location(0) world_pos: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

// 1 inside the rounded rectangle, 0 outside. radius is a fraction of the shorter side.
fn rounded_mask(uv: vec2<f32>, radius: f32, aspect: f32) -> f32 {
    if (radius <= 0.0) {
        return 1.0;
    }
    var size = vec2<f32>(aspect, 1.0);
    if (aspect < 1.0) {
        size = vec2<f32>(1.0, 1.0 / aspect);
    }
    let p = abs((uv - vec2<f32>(0.5)) * size) - (size * 0.5 - vec2<f32>(radius));
    let d = length(max(p, vec2<f32>(0.0))) - radius;
    return select(1.0, 0.0, d > 0.0);
}

@fragment
fn fs_main(in: FragmentInput) -> @location(0) vec4<f32> {
    let uv = in.uv * material.uv_transform.xy + material.uv_transform.zw;
    let texel = textureSample(color_map, color_sampler, uv);

    var color = material.base_color;
    if (material.surface.y > 0.5) {
        var inside = 1.0;
        if (material.flags.x > 0.5 && (any(uv < vec2<f32>(0.0)) || any(uv > vec2<f32>(1.0)))) {
            inside = 0.0;
        }
        let mask = rounded_mask(in.uv, material.surface.z, material.surface.w);
        color = mix(material.base_color, texel * material.base_color, inside * mask);
    }

    var rgb = color.rgb;
    if (frame.flags.x > 0.5 && material.flags.y > 0.5) {
        var lit = frame.ambient.rgb;
        let n = normalize(in.normal);
        for (var i = 0u; i < 3u; i = i + 1u) {
            let l = frame.lights[i];
            if (l.color.a <= 0.0) {
                continue;
            }
            var dir = l.position.xyz - in.world_pos;
            if (l.position.w > 1.5) {
                dir = -l.position.xyz;
            }
            if (length(dir) < 1e-8) {
                continue;
            }
            lit = lit + l.color.rgb * abs(dot(n, normalize(dir))) * l.color.a;
        }
        rgb = rgb * lit;
    }
    rgb = rgb + material.emissive.rgb * material.emissive.a;
    return vec4<f32>(rgb, color.a * material.surface.x);
}
`

// CardVertexSource is the complete WGSL vertex module for card meshes.
const CardVertexSource = light.GPULightSource + GPUFrameSource + GPUModelSource + model.GPUVertexSource + cardVertexBody

// CardFragmentSource is the complete WGSL fragment module for card meshes.
const CardFragmentSource = light.GPULightSource + GPUFrameSource + material.GPUMaterialParamsSource + cardFragmentBody

// CardPipelines builds the opaque and transparent card pipeline descriptions. Transparent cards
// blend over the framebuffer and leave depth untouched so faded cards behind them stay visible.
//
// Returns:
//   - []pipeline.Pipeline: the opaque pipeline followed by the transparent one
//   - error: an error if either shader fails reflection
func CardPipelines() ([]pipeline.Pipeline, error) {
	vs, err := shader.NewShader("card.vs", shader.ShaderTypeVertex, CardVertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader("card.fs", shader.ShaderTypeFragment, CardFragmentSource)
	if err != nil {
		return nil, err
	}
	opaque := pipeline.NewPipeline(PipelineCardOpaque,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
	transparent := pipeline.NewPipeline(PipelineCardTransparent,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithBlendEnabled(true),
		pipeline.WithDepthWriteEnabled(false),
	)
	return []pipeline.Pipeline{opaque, transparent}, nil
}
