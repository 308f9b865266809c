package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBrightPassThreshold(t *testing.T) {
	img := solid(4, 1, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	img.SetRGBA(2, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	bright := BrightPass(img, 0.5, 0.5)
	assert.Equal(t, color.RGBA{A: 255}, bright.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 127, G: 127, B: 127, A: 255}, bright.RGBAAt(2, 0))
}

func TestBloomSpreadsGlow(t *testing.T) {
	img := solid(21, 21, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	for y := 9; y <= 11; y++ {
		for x := 9; x <= 11; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	out := (&Bloom{Strength: 1, Radius: 3, Threshold: 0.8}).Apply(img)
	require.Equal(t, img.Bounds(), out.Bounds())

	near := out.RGBAAt(13, 10)
	assert.Greater(t, near.R, img.RGBAAt(13, 10).R, "pixels next to the bright block pick up glow")
	far := out.RGBAAt(0, 0)
	assert.InDelta(t, 10, int(far.R), 2, "distant pixels are unchanged")
	assert.Equal(t, uint8(255), out.RGBAAt(10, 10).R)
}

func TestBloomDisabled(t *testing.T) {
	img := solid(2, 2, color.RGBA{R: 255, A: 255})
	assert.Same(t, img, (&Bloom{Strength: 0, Radius: 4}).Apply(img))

	var nilBloom *Bloom
	assert.Same(t, img, nilBloom.Apply(img))
}

func TestBloomKeepsTransparentCoverage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 9, 9))
	img.SetRGBA(4, 4, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	out := (&Bloom{Strength: 1, Radius: 2, Threshold: 0.5}).Apply(img)
	assert.Equal(t, uint8(0), out.RGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), out.RGBAAt(4, 4).A)
}

func TestChainOrder(t *testing.T) {
	img := solid(1, 1, color.RGBA{A: 255})
	var seen []string
	chain := Chain{recordPass{"a", &seen}, nil, recordPass{"b", &seen}}

	assert.Same(t, img, chain.Apply(img))
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Same(t, img, Chain{}.Apply(img))
}

type recordPass struct {
	name string
	seen *[]string
}

func (r recordPass) Name() string { return r.name }

func (r recordPass) Apply(src *image.RGBA) *image.RGBA {
	*r.seen = append(*r.seen, r.name)
	return src
}
