package ring

import (
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestComputeFit(t *testing.T) {
	cases := []struct {
		name        string
		mode        ImageFit
		card, image float32
		repeat      mgl32.Vec2
		offset      mgl32.Vec2
	}{
		{"cover wide image crops sides", FitCover, 0.75, 1.5, mgl32.Vec2{0.5, 1}, mgl32.Vec2{0.25, 0}},
		{"cover tall image crops top and bottom", FitCover, 1, 0.5, mgl32.Vec2{1, 0.5}, mgl32.Vec2{0, 0.25}},
		{"fit wide image letterboxes", FitContain, 0.75, 1.5, mgl32.Vec2{1, 2}, mgl32.Vec2{0, -0.5}},
		{"fit tall image pillarboxes", FitContain, 1, 0.5, mgl32.Vec2{2, 1}, mgl32.Vec2{-0.5, 0}},
		{"fill stretches", FitFill, 0.75, 1.5, mgl32.Vec2{1, 1}, mgl32.Vec2{}},
		{"matching aspect is identity", FitCover, 0.75, 0.75, mgl32.Vec2{1, 1}, mgl32.Vec2{}},
		{"degenerate image", FitCover, 0.75, 0, mgl32.Vec2{1, 1}, mgl32.Vec2{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repeat, offset := ComputeFit(tc.mode, tc.card, tc.image)
			assert.True(t, repeat.ApproxEqualThreshold(tc.repeat, 1e-6), "repeat %v", repeat)
			assert.True(t, offset.ApproxEqualThreshold(tc.offset, 1e-6), "offset %v", offset)
		})
	}
}

func TestCoverKeepsCenterAndCardAspect(t *testing.T) {
	repeat, offset := ComputeFit(FitCover, 1.2/1.6, 16.0/9)
	// the sampled window is centered
	assert.InDelta(t, 0.5, 0.5*repeat[0]+offset[0], 1e-6)
	assert.InDelta(t, 0.5, 0.5*repeat[1]+offset[1], 1e-6)
	// and has the card's aspect in image space
	assert.InDelta(t, 1.2/1.6, repeat[0]*16/9/repeat[1], 1e-5)
}

func TestApplyFitWrapModes(t *testing.T) {
	tex := texture.NewTexture(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	applyFit(tex, FitContain, 0.75)
	assert.Equal(t, texture.WrapClampToBorder, tex.Wrap())

	applyFit(tex, FitCover, 0.75)
	assert.Equal(t, texture.WrapClampToEdge, tex.Wrap())
	assert.InDelta(t, 0.375, tex.Repeat()[0], 1e-6)
}
