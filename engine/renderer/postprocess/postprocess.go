package postprocess

import "image"

// Pass is a full-frame image effect applied after the scene is drawn.
type Pass interface {
	// Name identifies the pass in logs.
	//
	// Returns:
	//   - string: the pass name
	Name() string

	// Apply runs the effect. The source must not be modified; the result may alias it when the
	// pass is a no-op.
	//
	// Parameters:
	//   - src: the rendered frame
	//
	// Returns:
	//   - *image.RGBA: the processed frame
	Apply(src *image.RGBA) *image.RGBA
}

// Chain runs passes in order, each consuming the previous result.
type Chain []Pass

// Apply runs every pass in the chain.
//
// Parameters:
//   - src: the rendered frame
//
// Returns:
//   - *image.RGBA: the output of the last pass, or src when the chain is empty
func (c Chain) Apply(src *image.RGBA) *image.RGBA {
	out := src
	for _, p := range c {
		if p == nil {
			continue
		}
		out = p.Apply(out)
	}
	return out
}
