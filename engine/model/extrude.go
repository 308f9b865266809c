package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material slots produced by Extrude.
const (
	// GroupCaps covers the front and back faces.
	GroupCaps = 0
	// GroupSides covers the extruded rim.
	GroupSides = 1
)

// MeshData is generated triangle data ready to be wrapped by NewGeometry.
type MeshData struct {
	Vertices []GPUVertex
	Indices  []uint32
	Groups   []Group
}

// Extrude turns an outline in the XY plane into a closed slab of the given depth centered on z = 0.
// The front cap faces +Z and the back cap faces -Z; both land in material slot GroupCaps and carry
// UVs spanning the outline's bounding box. The back cap's U is mirrored so an image reads the
// right way round from behind. The rim lands in GroupSides. A zero depth yields only the caps.
//
// Parameters:
//   - outline: a convex counter-clockwise outline
//   - depth: the slab thickness, negative values are treated as zero
//
// Returns:
//   - MeshData: the generated vertices, indices and two material groups
func Extrude(outline Outline, depth float32) MeshData {
	pts := outline.Points
	if len(pts) < 3 {
		return MeshData{}
	}
	if depth < 0 {
		depth = 0
	}
	hd := depth / 2
	w, h := outline.Width, outline.Height
	uv := func(p mgl32.Vec2) (float32, float32) {
		var u, v float32 = 0.5, 0.5
		if w != 0 {
			u = (p[0] + w/2) / w
		}
		if h != 0 {
			v = 1 - (p[1]+h/2)/h
		}
		return u, v
	}

	var md MeshData
	n := uint32(len(pts))

	// Caps are fan-triangulated around the centroid, which is interior for a convex outline.
	for _, side := range []float32{1, -1} {
		base := uint32(len(md.Vertices))
		cu, cv := uv(mgl32.Vec2{})
		if side < 0 {
			cu = 1 - cu
		}
		md.Vertices = append(md.Vertices, GPUVertex{
			Position: [3]float32{0, 0, hd * side},
			Normal:   [3]float32{0, 0, side},
			TexCoord: [2]float32{cu, cv},
		})
		for _, p := range pts {
			u, v := uv(p)
			if side < 0 {
				u = 1 - u
			}
			md.Vertices = append(md.Vertices, GPUVertex{
				Position: [3]float32{p[0], p[1], hd * side},
				Normal:   [3]float32{0, 0, side},
				TexCoord: [2]float32{u, v},
			})
		}
		for i := uint32(0); i < n; i++ {
			a := base + 1 + i
			b := base + 1 + (i+1)%n
			if side > 0 {
				md.Indices = append(md.Indices, base, a, b)
			} else {
				md.Indices = append(md.Indices, base, b, a)
			}
		}
	}
	md.Groups = append(md.Groups, Group{Start: 0, Count: len(md.Indices), MaterialIndex: GroupCaps})

	if depth == 0 {
		return md
	}

	var perimeter float32
	for i := range pts {
		perimeter += pts[(i+1)%len(pts)].Sub(pts[i]).Len()
	}
	sideStart := len(md.Indices)
	var run float32
	for i := range pts {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		edge := p1.Sub(p0)
		length := edge.Len()
		if length == 0 {
			continue
		}
		normal := mgl32.Vec2{edge[1], -edge[0]}.Normalize()
		u0 := run / perimeter
		run += length
		u1 := run / perimeter

		base := uint32(len(md.Vertices))
		nrm := [3]float32{normal[0], normal[1], 0}
		md.Vertices = append(md.Vertices,
			GPUVertex{Position: [3]float32{p0[0], p0[1], hd}, Normal: nrm, TexCoord: [2]float32{u0, 0}},
			GPUVertex{Position: [3]float32{p1[0], p1[1], hd}, Normal: nrm, TexCoord: [2]float32{u1, 0}},
			GPUVertex{Position: [3]float32{p1[0], p1[1], -hd}, Normal: nrm, TexCoord: [2]float32{u1, 1}},
			GPUVertex{Position: [3]float32{p0[0], p0[1], -hd}, Normal: nrm, TexCoord: [2]float32{u0, 1}},
		)
		md.Indices = append(md.Indices, base, base+2, base+1, base, base+3, base+2)
	}
	md.Groups = append(md.Groups, Group{Start: sideStart, Count: len(md.Indices) - sideStart, MaterialIndex: GroupSides})
	return md
}

// Transform bakes an affine transform into the mesh data in place. Normals are transformed with
// the inverse-transpose of the upper 3x3 and renormalized.
//
// Parameters:
//   - m: the transform to apply
func (md *MeshData) Transform(m mgl32.Mat4) {
	nm := mgl32.Mat4Normal(m)
	for i := range md.Vertices {
		v := &md.Vertices[i]
		p := m.Mul4x1(mgl32.Vec3(v.Position).Vec4(1)).Vec3()
		n := nm.Mul3x1(mgl32.Vec3(v.Normal)).Normalize()
		v.Position = [3]float32(p)
		v.Normal = [3]float32(n)
	}
}
