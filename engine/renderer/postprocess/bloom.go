package postprocess

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
)

// Bloom adds a blurred copy of the frame's bright regions back onto the frame.
type Bloom struct {
	// Strength scales the glow before it is added, 0 disables the pass.
	Strength float64
	// Radius is the Gaussian blur radius in pixels.
	Radius float64
	// Threshold is the relative luminance in [0, 1] above which a pixel contributes.
	Threshold float64
}

var _ Pass = &Bloom{}

func (b *Bloom) Name() string {
	return "bloom"
}

func (b *Bloom) Apply(src *image.RGBA) *image.RGBA {
	if b == nil || src == nil || b.Strength <= 0 {
		return src
	}
	bright := BrightPass(src, b.Threshold, b.Strength)
	glow := bright
	if b.Radius > 0 {
		glow = blur.Gaussian(bright, b.Radius)
	}
	out := blend.Add(src, glow)
	// keep the frame's own coverage so transparent backgrounds stay transparent
	for i := 3; i < len(out.Pix); i += 4 {
		a := src.Pix[i]
		if a == 255 {
			continue
		}
		for c := i - 3; c < i; c++ {
			out.Pix[c] = min(out.Pix[c], a)
		}
		out.Pix[i] = a
	}
	return out
}

// BrightPass keeps pixels whose relative luminance reaches threshold, scaled by strength, and
// turns every other pixel opaque black so it adds nothing.
//
// Parameters:
//   - src: the source frame
//   - threshold: the luminance cutoff in [0, 1]
//   - strength: the multiplier applied to kept pixels
//
// Returns:
//   - *image.RGBA: the bright-pass image, same bounds as src
func BrightPass(src image.Image, threshold, strength float64) *image.RGBA {
	return adjust.Apply(clone.AsRGBA(src), func(c color.RGBA) color.RGBA {
		lum := (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
		if lum < threshold {
			return color.RGBA{A: 255}
		}
		scale := func(v uint8) uint8 {
			return uint8(min(float64(v)*strength, 255))
		}
		return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 255}
	})
}
