package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights is the number of positional lights the frame uniform carries.
// Ambient lights are folded into a single term and do not count against it.
const MaxGPULights = 3

// GPULightSource is the canonical WGSL definition of the Light struct.
// Matches GPULight layout exactly (32 bytes).
const GPULightSource = `
struct Light {
    position: vec4<f32>,
    color: vec4<f32>,
};
`

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly (see GPULightSource).
// Size: 32 bytes.
type GPULight struct {
	Position [4]float32 // offset  0: position or direction, w = LightType
	Color    [4]float32 // offset 16: RGB color, a = intensity
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 32)
	for i, f := range g.Position {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	for i, f := range g.Color {
		binary.LittleEndian.PutUint32(buf[16+i*4:20+i*4], math.Float32bits(f))
	}
	return buf
}

// ToGPULight converts a Light interface into its GPU-aligned representation.
//
// Parameters:
//   - l: the Light to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light) GPULight {
	p := l.Position()
	c := l.Color()
	return GPULight{
		Position: [4]float32{p[0], p[1], p[2], float32(l.Type())},
		Color:    [4]float32{c[0], c[1], c[2], l.Intensity()},
	}
}

// Pack splits the enabled lights into the summed ambient term and up to MaxGPULights
// positional lights, in list order. Unused slots have zero intensity.
//
// Parameters:
//   - lights: every light in the scene
//
// Returns:
//   - mgl32.Vec3: the summed ambient color * intensity
//   - [MaxGPULights]GPULight: the positional lights
//   - int: how many positional slots are used
func Pack(lights []Light) (mgl32.Vec3, [MaxGPULights]GPULight, int) {
	var ambient mgl32.Vec3
	var out [MaxGPULights]GPULight
	n := 0
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		if l.Type() == LightTypeAmbient {
			ambient = ambient.Add(l.Color().Mul(l.Intensity()))
			continue
		}
		if n >= MaxGPULights {
			continue
		}
		out[n] = ToGPULight(l)
		n++
	}
	return ambient, out, n
}

// Shade evaluates the same lighting model as the card fragment shader for one surface point:
// ambient plus Lambert diffuse from every positional light.
//
// Parameters:
//   - ambient: the summed ambient term from Pack
//   - lights: the positional lights from Pack
//   - pos: world-space surface position
//   - normal: world-space unit normal
//
// Returns:
//   - mgl32.Vec3: the light multiplier applied to the surface color
func Shade(ambient mgl32.Vec3, lights [MaxGPULights]GPULight, pos, normal mgl32.Vec3) mgl32.Vec3 {
	out := ambient
	for _, gl := range lights {
		intensity := gl.Color[3]
		if intensity <= 0 {
			continue
		}
		var dir mgl32.Vec3
		lp := mgl32.Vec3{gl.Position[0], gl.Position[1], gl.Position[2]}
		if LightType(gl.Position[3]) == LightTypeDirectional {
			dir = lp.Mul(-1)
		} else {
			dir = lp.Sub(pos)
		}
		if dir.Len() < 1e-8 {
			continue
		}
		// cards are two-sided, so light either face
		ndl := absf(normal.Dot(dir.Normalize()))
		col := mgl32.Vec3{gl.Color[0], gl.Color[1], gl.Color[2]}
		out = out.Add(col.Mul(ndl * intensity))
	}
	return out
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
