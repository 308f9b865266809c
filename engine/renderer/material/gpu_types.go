package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParamsSource is the canonical WGSL definition of the MaterialParams struct.
// Matches GPUMaterialParams layout exactly (80 bytes).
const GPUMaterialParamsSource = `
struct MaterialParams {
    base_color: vec4<f32>,
    emissive: vec4<f32>,
    surface: vec4<f32>,
    uv_transform: vec4<f32>,
    flags: vec4<f32>,
};
`

// GPUMaterialParams is the GPU-aligned uniform consumed by the card fragment shader.
// Matches the WGSL MaterialParams struct layout exactly (see GPUMaterialParamsSource).
// Size: 80 bytes (five vec4<f32>).
type GPUMaterialParams struct {
	BaseColor   [4]float32 // offset  0: straight-alpha base color
	Emissive    [4]float32 // offset 16: emissive rgb + intensity
	Surface     [4]float32 // offset 32: opacity, has map, corner radius, aspect
	UVTransform [4]float32 // offset 48: repeat.xy, offset.xy
	Flags       [4]float32 // offset 64: clamp to border, lit, unused, unused
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 80)
	rows := [5][4]float32{g.BaseColor, g.Emissive, g.Surface, g.UVTransform, g.Flags}
	for r, row := range rows {
		for c, f := range row {
			off := (r*4 + c) * 4
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
		}
	}
	return buf
}
