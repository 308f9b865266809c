package ring

import (
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// ComputeFit maps an image onto a card face. The returned repeat and offset transform card UVs
// into image UVs as uv*repeat + offset.
//
// Parameters:
//   - mode: the fit mode
//   - cardAspect: card width / height
//   - imageAspect: image width / height
//
// Returns:
//   - mgl32.Vec2: the UV repeat
//   - mgl32.Vec2: the UV offset
func ComputeFit(mode ImageFit, cardAspect, imageAspect float32) (mgl32.Vec2, mgl32.Vec2) {
	repeat, offset := mgl32.Vec2{1, 1}, mgl32.Vec2{}
	if cardAspect <= 0 || imageAspect <= 0 {
		return repeat, offset
	}
	wider := imageAspect > cardAspect
	switch mode {
	case FitCover:
		// sample a centered window of the image
		if wider {
			repeat[0] = cardAspect / imageAspect
			offset[0] = (1 - repeat[0]) / 2
		} else {
			repeat[1] = imageAspect / cardAspect
			offset[1] = (1 - repeat[1]) / 2
		}
	case FitContain:
		// stretch the UV range past the image so it shrinks into a centered band
		if wider {
			repeat[1] = imageAspect / cardAspect
			offset[1] = (1 - repeat[1]) / 2
		} else {
			repeat[0] = cardAspect / imageAspect
			offset[0] = (1 - repeat[0]) / 2
		}
	}
	return repeat, offset
}

// applyFit configures a loaded texture for a card face.
func applyFit(t texture.Texture, mode ImageFit, cardAspect float32) {
	repeat, offset := ComputeFit(mode, cardAspect, t.Aspect())
	wrap := texture.WrapClampToEdge
	if mode == FitContain {
		wrap = texture.WrapClampToBorder
	}
	t.SetMapping(repeat, offset, wrap)
}
