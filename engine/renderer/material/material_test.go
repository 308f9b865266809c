package material

import (
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithName("front"))
	assert.Equal(t, "front", m.Name())
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, m.BaseColor())
	assert.Equal(t, float32(1), m.Opacity())
	assert.False(t, m.Transparent())
	assert.Nil(t, m.Map())
}

func TestMaterialSettersBumpVersion(t *testing.T) {
	m := NewMaterial(WithTransparent(0.5), WithEmissive(mgl32.Vec3{1, 0.5, 0}, 0))
	assert.True(t, m.Transparent())
	assert.Equal(t, float32(0.5), m.Opacity())

	v := m.Version()
	m.SetOpacity(2)
	assert.Equal(t, float32(1), m.Opacity())
	m.SetEmissiveIntensity(-1)
	_, intensity := m.Emissive()
	assert.Equal(t, float32(0), intensity)
	assert.Greater(t, m.Version(), v)

	v = m.Version()
	tex := texture.NewTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	m.SetMap(tex)
	assert.Greater(t, m.Version(), v)

	v = m.Version()
	tex.SetMapping(mgl32.Vec2{0.5, 1}, mgl32.Vec2{0.25, 0}, texture.WrapClampToBorder)
	assert.Greater(t, m.Version(), v, "map mapping changes are visible through the material")
}

func TestMaterialGPUParams(t *testing.T) {
	tex := texture.NewTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	tex.SetMapping(mgl32.Vec2{0.5, 1}, mgl32.Vec2{0.25, 0}, texture.WrapClampToBorder)
	m := NewMaterial(WithMap(tex), WithCornerMask(0.9, 0.75), WithLit(false))

	p := m.GPUParams()
	assert.Equal(t, [4]float32{1, 1, 0.5, 0.75}, p.Surface)
	assert.Equal(t, [4]float32{0.5, 1, 0.25, 0}, p.UVTransform)
	assert.Equal(t, [4]float32{1, 0, 0, 0}, p.Flags)
	assert.Len(t, p.Marshal(), p.Size())
}

func TestMaterialDisposeLeavesMapAlone(t *testing.T) {
	tex := texture.NewTexture(nil)
	m := NewMaterial(WithMap(tex))
	m.Dispose()
	m.Dispose()
	assert.True(t, m.Disposed())
	assert.False(t, tex.Disposed())
}
