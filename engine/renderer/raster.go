package renderer

import (
	"image"

	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// frameBuffer holds premultiplied RGBA color and NDC depth as flat slices.
type frameBuffer struct {
	width, height int
	color         []float32
	depth         []float32
}

func newFrameBuffer(w, h int) *frameBuffer {
	return &frameBuffer{
		width:  w,
		height: h,
		color:  make([]float32, w*h*4),
		depth:  make([]float32, w*h),
	}
}

// clear fills color with the straight-alpha clear color and resets depth to the far plane.
func (fb *frameBuffer) clear(c mgl32.Vec4) {
	pr, pg, pb := c[0]*c[3], c[1]*c[3], c[2]*c[3]
	for i := 0; i < len(fb.color); i += 4 {
		fb.color[i], fb.color[i+1], fb.color[i+2], fb.color[i+3] = pr, pg, pb, c[3]
	}
	for i := range fb.depth {
		fb.depth[i] = 1
	}
}

// image converts the buffer to 8-bit premultiplied RGBA.
func (fb *frameBuffer) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for i, v := range fb.color {
		img.Pix[i] = uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return img
}

// rasterVertex is a vertex after the vertex stage: screen position, NDC depth, 1/w and the
// perspective-divided varyings.
type rasterVertex struct {
	sx, sy, z, invW float32
	world           mgl32.Vec3
	normal          mgl32.Vec3
	uv              mgl32.Vec2
}

// drawState is what the fragment stage needs for one draw.
type drawState struct {
	params   material.GPUMaterialParams
	colorMap texture.Texture
	blend    bool
	depthW   bool
	depthT   bool
	ambient  mgl32.Vec3
	lights   [light.MaxGPULights]light.GPULight
	lit      bool
}

// rasterizeDraw runs one Draw through the vertex stage and rasterizes its triangles.
// Triangles with any vertex behind the eye are dropped rather than clipped.
func rasterizeDraw(fb *frameBuffer, f *Frame, d Draw) {
	verts := d.Geometry.Vertices()
	indices := d.Geometry.Indices()
	st := drawState{
		params:   d.Material.GPUParams(),
		colorMap: d.Material.Map(),
		blend:    d.Pipeline.BlendEnabled(),
		depthW:   d.Pipeline.DepthWriteEnabled(),
		depthT:   d.Pipeline.DepthTestEnabled(),
		ambient:  f.Ambient,
		lights:   f.Lights,
		lit:      f.LightingEnabled,
	}
	mvp := f.ViewProj.Mul4(d.World)
	w, h := float32(fb.width), float32(fb.height)

	project := func(i uint32) (rasterVertex, bool) {
		v := verts[i]
		p := mgl32.Vec3(v.Position)
		clip := mvp.Mul4x1(p.Vec4(1))
		if clip[3] <= 1e-6 {
			return rasterVertex{}, false
		}
		inv := 1 / clip[3]
		return rasterVertex{
			sx:     (clip[0]*inv*0.5 + 0.5) * w,
			sy:     (1 - (clip[1]*inv*0.5 + 0.5)) * h,
			z:      clip[2] * inv,
			invW:   inv,
			world:  d.World.Mul4x1(p.Vec4(1)).Vec3().Mul(inv),
			normal: d.World.Mul4x1(mgl32.Vec3(v.Normal).Vec4(0)).Vec3().Mul(inv),
			uv:     mgl32.Vec2(v.TexCoord).Mul(inv),
		}, true
	}

	end := min(d.Group.Start+d.Group.Count, len(indices))
	for i := d.Group.Start; i+2 < end; i += 3 {
		a, okA := project(indices[i])
		b, okB := project(indices[i+1])
		c, okC := project(indices[i+2])
		if !okA || !okB || !okC {
			continue
		}
		rasterizeTriangle(fb, &st, a, b, c)
	}
}

func rasterizeTriangle(fb *frameBuffer, st *drawState, a, b, c rasterVertex) {
	area := (b.sx-a.sx)*(c.sy-a.sy) - (b.sy-a.sy)*(c.sx-a.sx)
	if math32.Abs(area) < 1e-8 {
		return
	}
	invArea := 1 / area

	minX := max(int(math32.Floor(min(a.sx, b.sx, c.sx))), 0)
	maxX := min(int(math32.Ceil(max(a.sx, b.sx, c.sx))), fb.width-1)
	minY := max(int(math32.Floor(min(a.sy, b.sy, c.sy))), 0)
	maxY := min(int(math32.Ceil(max(a.sy, b.sy, c.sy))), fb.height-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := ((b.sx-px)*(c.sy-py) - (b.sy-py)*(c.sx-px)) * invArea
			w1 := ((c.sx-px)*(a.sy-py) - (c.sy-py)*(a.sx-px)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			if z < -1 || z > 1 {
				continue
			}
			idx := y*fb.width + x
			if st.depthT && z >= fb.depth[idx] {
				continue
			}

			invW := w0*a.invW + w1*b.invW + w2*c.invW
			persp := 1 / invW
			world := a.world.Mul(w0).Add(b.world.Mul(w1)).Add(c.world.Mul(w2)).Mul(persp)
			normal := a.normal.Mul(w0).Add(b.normal.Mul(w1)).Add(c.normal.Mul(w2)).Mul(persp)
			uv := a.uv.Mul(w0).Add(b.uv.Mul(w1)).Add(c.uv.Mul(w2)).Mul(persp)

			out := shadeFragment(st, world, normal, uv)
			if out[3] <= 0 && st.blend {
				continue
			}
			if st.depthW {
				fb.depth[idx] = z
			}
			writePixel(fb.color[idx*4:idx*4+4:idx*4+4], out, st.blend)
		}
	}
}

// writePixel stores a straight-alpha fragment into a premultiplied pixel, blending with
// src-alpha over when enabled.
func writePixel(dst []float32, src mgl32.Vec4, blend bool) {
	r, g, b, a := src[0]*src[3], src[1]*src[3], src[2]*src[3], src[3]
	if !blend {
		dst[0], dst[1], dst[2], dst[3] = r, g, b, a
		return
	}
	inv := 1 - a
	dst[0] = r + dst[0]*inv
	dst[1] = g + dst[1]*inv
	dst[2] = b + dst[2]*inv
	dst[3] = a + dst[3]*inv
}

// shadeFragment is the CPU twin of the card fragment shader.
func shadeFragment(st *drawState, world, normal mgl32.Vec3, uv mgl32.Vec2) mgl32.Vec4 {
	p := st.params
	base := mgl32.Vec4(p.BaseColor)
	color := base
	if p.Surface[1] > 0.5 && st.colorMap != nil {
		tu := uv[0]*p.UVTransform[0] + p.UVTransform[2]
		tv := uv[1]*p.UVTransform[1] + p.UVTransform[3]
		inside := float32(1)
		if p.Flags[0] > 0.5 && (tu < 0 || tu > 1 || tv < 0 || tv > 1) {
			inside = 0
		}
		inside *= roundedMask(uv, p.Surface[2], p.Surface[3])
		// Sample applies the map's own repeat and offset
		texel := st.colorMap.Sample(uv[0], uv[1])
		tinted := mgl32.Vec4{texel[0] * base[0], texel[1] * base[1], texel[2] * base[2], texel[3] * base[3]}
		color = base.Mul(1 - inside).Add(tinted.Mul(inside))
	}

	rgb := color.Vec3()
	if st.lit && p.Flags[1] > 0.5 {
		n := normal
		if n.Len() > 1e-8 {
			n = n.Normalize()
		}
		shade := light.Shade(st.ambient, st.lights, world, n)
		rgb = mgl32.Vec3{rgb[0] * shade[0], rgb[1] * shade[1], rgb[2] * shade[2]}
	}
	rgb = rgb.Add(mgl32.Vec3{p.Emissive[0], p.Emissive[1], p.Emissive[2]}.Mul(p.Emissive[3]))
	return mgl32.Vec4{
		mgl32.Clamp(rgb[0], 0, 1),
		mgl32.Clamp(rgb[1], 0, 1),
		mgl32.Clamp(rgb[2], 0, 1),
		mgl32.Clamp(color[3]*p.Surface[0], 0, 1),
	}
}

// roundedMask returns 1 inside a rounded rectangle spanning the unit UV square, 0 outside.
// radius is a fraction of the shorter side.
func roundedMask(uv mgl32.Vec2, radius, aspect float32) float32 {
	if radius <= 0 {
		return 1
	}
	if aspect <= 0 {
		aspect = 1
	}
	size := mgl32.Vec2{aspect, 1}
	if aspect < 1 {
		size = mgl32.Vec2{1, 1 / aspect}
	}
	qx := math32.Abs((uv[0]-0.5)*size[0]) - (size[0]*0.5 - radius)
	qy := math32.Abs((uv[1]-0.5)*size[1]) - (size[1]*0.5 - radius)
	d := mgl32.Vec2{max(qx, 0), max(qy, 0)}.Len() - radius
	if d > 0 {
		return 0
	}
	return 1
}
