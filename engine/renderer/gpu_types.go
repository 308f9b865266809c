package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-ring/engine/light"
)

// GPUFrameSource is the canonical WGSL definition of the per-frame uniform. It references the
// Light struct from light.GPULightSource, which must precede it in a module.
// Matches GPUFrameUniform layout exactly (208 bytes).
const GPUFrameSource = `
struct Frame {
    view_proj: mat4x4<f32>,
    camera_pos: vec4<f32>,
    ambient: vec4<f32>,
    lights: array<Light, 3>,
    flags: vec4<f32>,
};
`

// GPUModelSource is the canonical WGSL definition of the per-draw uniform.
// Matches model.GPUModelData (64 bytes).
const GPUModelSource = `
struct ModelData {
    model: mat4x4<f32>,
};
`

// GPUFrameUniform is the GPU-aligned representation of everything a frame shares across draws.
// Size: 208 bytes.
type GPUFrameUniform struct {
	ViewProj  [16]float32                        // offset   0: projection * view
	CameraPos [4]float32                         // offset  64: eye position, w unused
	Ambient   [4]float32                         // offset  80: summed ambient rgb, w unused
	Lights    [light.MaxGPULights]light.GPULight // offset  96: positional lights
	Flags     [4]float32                         // offset 192: x = lighting enabled
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 208-byte buffer ready for GPU upload.
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, 0, 208)
	put := func(vs ...float32) {
		for _, v := range vs {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	put(g.ViewProj[:]...)
	put(g.CameraPos[:]...)
	put(g.Ambient[:]...)
	for i := range g.Lights {
		buf = append(buf, g.Lights[i].Marshal()...)
	}
	put(g.Flags[:]...)
	return buf
}

// frameUniform packs a Frame into its GPU form. viewProj is passed separately so the WebGPU
// backend can apply its clip-space depth correction.
func frameUniform(f *Frame, viewProj [16]float32) GPUFrameUniform {
	u := GPUFrameUniform{
		ViewProj:  viewProj,
		CameraPos: [4]float32{f.CameraPos[0], f.CameraPos[1], f.CameraPos[2], 1},
		Ambient:   [4]float32{f.Ambient[0], f.Ambient[1], f.Ambient[2], 0},
		Lights:    f.Lights,
	}
	if f.LightingEnabled {
		u.Flags[0] = 1
	}
	return u
}
