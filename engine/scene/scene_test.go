package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/Carmen-Shannon/oxy-ring/engine/model"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuad() model.Geometry {
	return model.NewGeometry(model.WithMeshData(model.Extrude(model.RoundedRect(1, 1, 0, 1), 0)))
}

func TestWorldMatrixComposesParents(t *testing.T) {
	parent := NewGroup(WithPosition(mgl32.Vec3{1, 0, 0}), WithScale(mgl32.Vec3{2, 2, 2}))
	child := NewGroup(WithPosition(mgl32.Vec3{0, 1, 0}))
	parent.Add(child)

	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-6)
	assert.InDelta(t, 2, p.Y(), 1e-6)

	parent.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))
	p = child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -1, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
}

func TestAddReparentsAndRejectsCycles(t *testing.T) {
	a := NewGroup()
	b := NewGroup()
	c := NewGroup()
	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children())
	assert.Equal(t, b, c.Parent())

	c.Add(b)
	assert.Empty(t, c.Children())
	c.Add(c)
	assert.Empty(t, c.Children())
}

func TestSceneTraversalAndMeshes(t *testing.T) {
	s := NewScene("test", nil)
	group := NewGroup()
	visible := NewMesh(newQuad(), []material.Material{material.NewMaterial()})
	hidden := NewMesh(newQuad(), []material.Material{material.NewMaterial()})
	hiddenGroup := NewGroup(WithEnabled(false), WithChildren(hidden))
	group.Add(visible, hiddenGroup)
	s.Add(group)

	assert.Equal(t, 4, s.Count())
	assert.Equal(t, []Node{visible}, s.Meshes())
	assert.Equal(t, hidden, s.Get(hidden.ID()))
	assert.Nil(t, s.Get(0))

	assert.True(t, s.Remove(hiddenGroup))
	assert.False(t, s.Remove(hiddenGroup))
	assert.Equal(t, 2, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())
}

func TestSceneLights(t *testing.T) {
	key := light.NewLight(light.LightTypePoint)
	s := NewScene("lit", nil, WithLights(key))
	s.AddLight(key)
	require.Len(t, s.Lights(), 1)
	s.RemoveLight(key)
	assert.Empty(t, s.Lights())
}

func TestIntersectObjectsSortsNearestFirst(t *testing.T) {
	near := NewMesh(newQuad(), nil, WithPosition(mgl32.Vec3{0, 0, 1}))
	far := NewMesh(newQuad(), nil, WithPosition(mgl32.Vec3{0, 0, -2}))
	off := NewMesh(newQuad(), nil, WithPosition(mgl32.Vec3{5, 0, 0}))
	group := NewGroup(WithChildren(far, near, off))

	hits := IntersectObject(group, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}, true)
	require.Len(t, hits, 2)
	assert.Equal(t, near, hits[0].Node)
	assert.InDelta(t, 9, hits[0].Distance, 1e-4)
	assert.Equal(t, far, hits[1].Node)
	assert.InDelta(t, -2, hits[1].Point.Z(), 1e-4)

	assert.Empty(t, IntersectObject(group, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}, false))

	near.SetEnabled(false)
	hits = IntersectObject(group, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}, true)
	require.Len(t, hits, 1)
	assert.Equal(t, far, hits[0].Node)
}

func TestIntersectHonorsScaleAndRotation(t *testing.T) {
	card := NewMesh(newQuad(), nil,
		WithScale(mgl32.Vec3{4, 4, 4}),
		WithRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})),
	)
	// rotated quad faces +X and spans z in [-2, 2] after scaling
	hits := IntersectObject(card, mgl32.Vec3{10, 0, 1.5}, mgl32.Vec3{-1, 0, 0}, false)
	require.Len(t, hits, 1)
	assert.InDelta(t, 10, hits[0].Distance, 1e-4)
}

func TestDisposeTreeReleasesSharedResourcesOnce(t *testing.T) {
	geo := newQuad()
	tex := texture.NewTexture(nil)
	front := material.NewMaterial(material.WithMap(tex))
	side := material.NewMaterial()

	s := NewScene("dispose", nil)
	s.Add(
		NewMesh(geo, []material.Material{front, side}),
		NewMesh(geo, []material.Material{front, side}),
	)

	stats := s.Dispose()
	assert.Equal(t, DisposeStats{Geometries: 1, Materials: 2, Textures: 1}, stats)
	assert.True(t, geo.Disposed())
	assert.True(t, tex.Disposed())
	assert.Zero(t, s.Count())

	assert.Zero(t, s.Dispose().Total())
}
