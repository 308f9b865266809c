package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtrudeGroups(t *testing.T) {
	o := RoundedRect(1.2, 1.6, 0.1, 4)
	md := Extrude(o, 0.02)
	require.Len(t, md.Groups, 2)

	caps, sides := md.Groups[0], md.Groups[1]
	assert.Equal(t, GroupCaps, caps.MaterialIndex)
	assert.Equal(t, GroupSides, sides.MaterialIndex)
	assert.Equal(t, 0, caps.Start)
	assert.Equal(t, caps.Count, sides.Start)
	assert.Equal(t, len(md.Indices), caps.Count+sides.Count)
	assert.Equal(t, 2*3*len(o.Points), caps.Count)
	assert.Equal(t, 6*len(o.Points), sides.Count)
	for _, idx := range md.Indices {
		assert.Less(t, int(idx), len(md.Vertices))
	}
}

func TestExtrudeZeroDepthHasOnlyCaps(t *testing.T) {
	md := Extrude(RoundedRect(1, 1, 0.2, 2), 0)
	require.Len(t, md.Groups, 1)
	assert.Equal(t, GroupCaps, md.Groups[0].MaterialIndex)
}

func TestExtrudeCapUVsSpanUnitSquare(t *testing.T) {
	md := Extrude(RoundedRect(2, 1, 0, 1), 0.1)
	// Front cap corner (w/2, h/2) maps to the top-right of the image.
	found := false
	for _, v := range md.Vertices {
		if v.Normal == [3]float32{0, 0, 1} && v.Position == [3]float32{1, 0.5, 0.05} {
			assert.Equal(t, [2]float32{1, 0}, v.TexCoord)
			found = true
		}
		if v.Normal == [3]float32{0, 0, -1} && v.Position == [3]float32{1, 0.5, -0.05} {
			assert.Equal(t, [2]float32{0, 0}, v.TexCoord, "back cap is mirrored")
		}
	}
	assert.True(t, found)
}

func TestGeometryIntersectRay(t *testing.T) {
	g := NewGeometry(WithName("card"), WithMeshData(Extrude(RoundedRect(1, 1, 0.1, 4), 0.1)))
	assert.Greater(t, g.BoundingRadius(), float32(0.6))

	tHit, ok := g.IntersectRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.InDelta(t, 4.95, tHit, 1e-4)

	_, ok = g.IntersectRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1})
	assert.False(t, ok, "geometry behind the ray")

	_, ok = g.IntersectRay(mgl32.Vec3{0.49, 0.49, 5}, mgl32.Vec3{0, 0, -1})
	assert.False(t, ok, "rounded corner is cut away")
}

func TestMeshDataTransform(t *testing.T) {
	md := Extrude(RoundedRect(1, 1, 0, 1), 0)
	md.Transform(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	for _, v := range md.Vertices {
		if v.Normal[2] > 0.5 || v.Normal[2] < -0.5 {
			t.Fatalf("normal not rotated: %v", v.Normal)
		}
	}
	assert.InDelta(t, 1, md.Vertices[0].Normal[0], 1e-5)
}

func TestGeometryMarshalAndDispose(t *testing.T) {
	g := NewGeometry(WithMeshData(Extrude(RoundedRect(1, 1, 0, 1), 0)))
	assert.Len(t, g.VertexData(), len(g.Vertices())*32)
	assert.Len(t, g.IndexData(), g.IndexCount()*4)

	disposed := 0
	g.OnDispose(func() { disposed++ })
	g.Dispose()
	g.Dispose()
	assert.Equal(t, 1, disposed)
}
