package ring

import (
	"github.com/Carmen-Shannon/oxy-ring/engine/loader"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Card is the controller's record for one item. Cards live in an index-addressable slice owned
// by the controller; Index always equals the card's position in that slice.
type Card struct {
	Index int
	Item  Item
	Node  scene.Node

	// RestAngle is the card's angle around the ring, in radians.
	RestAngle    float32
	RestPosition mgl32.Vec3
	RestRotation mgl32.Quat

	BendAngle    float32
	BendVelocity float32

	Opacity       float32
	Glow          float32
	TargetOpacity float32
	TargetGlow    float32

	Front material.Material
	Side  material.Material

	// generation identifies the build the card belongs to, so late texture loads can tell
	// whether their card still exists.
	generation uint64
	cancelLoad loader.CancelFunc
}

// resetBend puts the bend spring at rest.
func (c *Card) resetBend() {
	c.BendAngle = 0
	c.BendVelocity = 0
}

// setOpacity applies an opacity to both material zones.
func (c *Card) setOpacity(v float32) {
	c.Opacity = v
	c.Front.SetOpacity(v)
	c.Side.SetOpacity(v)
}

func (c *Card) setGlow(v float32) {
	c.Glow = v
	c.Front.SetEmissiveIntensity(v)
}
