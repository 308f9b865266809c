package renderer

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/Carmen-Shannon/oxy-ring/engine/model"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/oxy-ring/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one geometry group drawn with one material.
type Draw struct {
	Geometry model.Geometry
	Group    model.Group
	Material material.Material
	Pipeline pipeline.Pipeline
	World    mgl32.Mat4
	// Depth is the squared distance from the camera to the node origin, used to sort transparent draws.
	Depth float32
}

// Frame is a backend-neutral snapshot of everything needed to draw a scene once.
type Frame struct {
	ClearColor      mgl32.Vec4
	ViewProj        mgl32.Mat4
	CameraPos       mgl32.Vec3
	Ambient         mgl32.Vec3
	Lights          [light.MaxGPULights]light.GPULight
	LightingEnabled bool
	Draws           []Draw
	Post            postprocess.Chain
}

// buildFrame flattens the scene into draws. Opaque draws come first in traversal order, then
// transparent draws from farthest to nearest. resolve maps a material to its pipeline.
func buildFrame(s scene.Scene, resolve func(material.Material) pipeline.Pipeline) *Frame {
	f := &Frame{
		ClearColor:      s.Background(),
		LightingEnabled: s.LightingEnabled(),
	}
	f.Ambient, f.Lights, _ = light.Pack(s.Lights())

	cam := s.Camera()
	if cam != nil {
		cam.Update()
		f.ViewProj = cam.ViewProjectionMatrix()
		f.CameraPos = cam.Position()
	} else {
		f.ViewProj = mgl32.Ident4()
	}

	var opaque, transparent []Draw
	for _, n := range s.Meshes() {
		geo := n.Geometry()
		if geo == nil || geo.Disposed() {
			continue
		}
		world := n.WorldMatrix()
		offset := world.Col(3).Vec3().Sub(f.CameraPos)
		depth := offset.Dot(offset)
		for _, g := range geo.Groups() {
			mat := scene.MaterialFor(n, g.MaterialIndex)
			if mat == nil || mat.Disposed() || g.Count == 0 {
				continue
			}
			p := resolve(mat)
			if p == nil {
				continue
			}
			d := Draw{Geometry: geo, Group: g, Material: mat, Pipeline: p, World: world, Depth: depth}
			if p.BlendEnabled() {
				transparent = append(transparent, d)
			} else {
				opaque = append(opaque, d)
			}
		}
	}
	sort.SliceStable(transparent, func(i, j int) bool { return transparent[i].Depth > transparent[j].Depth })
	f.Draws = append(opaque, transparent...)
	return f
}
