package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Outline is a closed, counter-clockwise 2D polygon centered on the origin.
type Outline struct {
	// Points holds the polygon vertices without repeating the first point at the end.
	Points []mgl32.Vec2
	// Width and Height are the extents of the outline's bounding box.
	Width, Height float32
	// Radius is the corner radius actually used after clamping.
	Radius float32
}

// ClampRadius limits a requested corner radius to the range a w×h rectangle can hold.
//
// Parameters:
//   - w, h: the rectangle dimensions
//   - r: the requested radius
//
// Returns:
//   - float32: r clamped to [0, min(w, h)/2]
func ClampRadius(w, h, r float32) float32 {
	limit := math32.Min(math32.Abs(w), math32.Abs(h)) / 2
	return mgl32.Clamp(r, 0, limit)
}

// RoundedRect traces a w×h rectangle whose corners are quarter-circle arcs.
// The four straight edges are implied between consecutive arcs. The radius is clamped with
// ClampRadius, so a radius larger than the half-extent produces a stadium or circle rather than
// self-intersecting geometry.
//
// Parameters:
//   - w, h: the rectangle dimensions
//   - r: the requested corner radius
//   - segments: number of straight pieces per quarter arc, at least 1
//
// Returns:
//   - Outline: the traced outline
func RoundedRect(w, h, r float32, segments int) Outline {
	r = ClampRadius(w, h, r)
	if segments < 1 {
		segments = 1
	}
	hw, hh := w/2, h/2

	out := Outline{Width: w, Height: h, Radius: r}
	if r == 0 {
		out.Points = []mgl32.Vec2{{hw, -hh}, {hw, hh}, {-hw, hh}, {-hw, -hh}}
		return out
	}

	corners := [4]struct {
		center mgl32.Vec2
		start  float32
	}{
		{mgl32.Vec2{hw - r, -hh + r}, -math32.Pi / 2},
		{mgl32.Vec2{hw - r, hh - r}, 0},
		{mgl32.Vec2{-hw + r, hh - r}, math32.Pi / 2},
		{mgl32.Vec2{-hw + r, -hh + r}, math32.Pi},
	}
	for _, c := range corners {
		for s := 0; s <= segments; s++ {
			a := c.start + float32(s)/float32(segments)*math32.Pi/2
			sin, cos := math32.Sincos(a)
			out.Points = appendDistinct(out.Points, mgl32.Vec2{c.center[0] + cos*r, c.center[1] + sin*r})
		}
	}
	if n := len(out.Points); n > 1 && samePoint(out.Points[0], out.Points[n-1]) {
		out.Points = out.Points[:n-1]
	}
	return out
}

// MaxCornerRadius reports the largest distance from any arc point to its corner's arc center,
// which equals the clamped radius. It exists so callers can verify an outline independently.
func (o Outline) MaxCornerRadius() float32 {
	if o.Radius == 0 {
		return 0
	}
	hw, hh := o.Width/2, o.Height/2
	var maxR float32
	for _, p := range o.Points {
		cx := mgl32.Clamp(p[0], -hw+o.Radius, hw-o.Radius)
		cy := mgl32.Clamp(p[1], -hh+o.Radius, hh-o.Radius)
		if d := p.Sub(mgl32.Vec2{cx, cy}).Len(); d > maxR {
			maxR = d
		}
	}
	return maxR
}

func appendDistinct(points []mgl32.Vec2, p mgl32.Vec2) []mgl32.Vec2 {
	if n := len(points); n > 0 && samePoint(points[n-1], p) {
		return points
	}
	return append(points, p)
}

func samePoint(a, b mgl32.Vec2) bool {
	return a.Sub(b).Len() < 1e-5
}
