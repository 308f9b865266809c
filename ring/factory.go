package ring

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/model"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ring/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// placeholderColor is shown on a card face until its image arrives, or forever if it never does.
var placeholderColor = common.MustParseColor("#2b2b30")

// RestAngle returns the angle of card i out of n around the ring.
//
// Parameters:
//   - i: the card index
//   - n: the number of cards
//
// Returns:
//   - float32: i/n of a full turn in radians, 0 when n is not positive
func RestAngle(i, n int) float32 {
	if n <= 0 {
		return 0
	}
	return float32(i) / float32(n) * common.TwoPi
}

// Placement computes the rest pose of card i out of n on a ring of the given radius. The card
// faces the ring's center: the orientation is a yaw of θ+π/2, then the tilt about the card's
// horizontal axis, then the per-card offset, each applied in the card's own frame. Placement is a
// pure function, so equal inputs give bit-identical results.
//
// Parameters:
//   - i: the card index
//   - n: the number of cards
//   - radius: the ring radius
//   - tilt: the lean about the card's horizontal axis, in degrees
//   - offset: the per-card rotation offset
//
// Returns:
//   - mgl32.Vec3: the position (sin θ·R, 0, cos θ·R)
//   - mgl32.Quat: the orientation
func Placement(i, n int, radius, tilt float32, offset RotationConfig) (mgl32.Vec3, mgl32.Quat) {
	theta := RestAngle(i, n)
	sin, cos := math32.Sincos(theta)
	pos := mgl32.Vec3{sin * radius, 0, cos * radius}

	yaw := mgl32.QuatRotate(theta+math32.Pi/2, mgl32.Vec3{0, 1, 0})
	lean := mgl32.QuatRotate(mgl32.DegToRad(tilt), mgl32.Vec3{0, 0, 1})
	off := common.EulerDegToQuat(offset.RotationX, offset.RotationY, offset.RotationZ)
	return pos, yaw.Mul(lean).Mul(off)
}

// newCardGeometry builds the panel shared by every card. The outline is extruded along Z and then
// turned so the image face points along local +X and the card's width runs along local Z.
func newCardGeometry(l LayoutConfig) model.Geometry {
	r := l.BorderRadius * math32.Min(l.CardWidth, l.CardHeight)
	md := model.Extrude(model.RoundedRect(l.CardWidth, l.CardHeight, r, l.CurveSegments), l.CardDepth)
	md.Transform(mgl32.HomogRotate3DY(math32.Pi / 2))
	return model.NewGeometry(model.WithName("card"), model.WithMeshData(md))
}

// newCard creates card i with both material zones and its scene node. The node starts at the rest
// pose with no image bound.
func newCard(i int, cfg *Config, geo model.Geometry, generation uint64) *Card {
	n := len(cfg.Items)
	pos, rot := Placement(i, n, cfg.Layout.WheelRadius, cfg.Layout.CardTilt, cfg.CardTransform)

	side, err := common.ParseColor(cfg.Appearance.SideColor)
	if err != nil {
		side = placeholderColor
	}
	imageRadius := common.Coalesce(cfg.Appearance.ImageBorderRadius, cfg.Layout.BorderRadius)

	front := material.NewMaterial(
		material.WithName(fmt.Sprintf("card-%d-front", i)),
		material.WithBaseColor(placeholderColor),
		material.WithTransparent(1),
		material.WithEmissive(mgl32.Vec3{1, 1, 1}, 0),
		material.WithCornerMask(imageRadius, cfg.Layout.CardWidth/cfg.Layout.CardHeight),
	)
	sideMat := material.NewMaterial(
		material.WithName(fmt.Sprintf("card-%d-side", i)),
		material.WithBaseColor(side),
		material.WithTransparent(1),
	)

	mats := make([]material.Material, 2)
	mats[model.GroupCaps] = front
	mats[model.GroupSides] = sideMat
	node := scene.NewMesh(geo, mats,
		scene.WithName(fmt.Sprintf("card-%d", i)),
		scene.WithPosition(pos),
		scene.WithRotation(rot),
	)

	return &Card{
		Index:         i,
		Item:          cfg.Items[i],
		Node:          node,
		RestAngle:     RestAngle(i, n),
		RestPosition:  pos,
		RestRotation:  rot,
		Opacity:       1,
		TargetOpacity: 1,
		Front:         front,
		Side:          sideMat,
		generation:    generation,
	}
}

// buildCards creates one card per item around a fresh shared geometry. An empty item list gives
// no cards and no geometry.
func buildCards(cfg *Config, generation uint64) []*Card {
	if len(cfg.Items) == 0 {
		return nil
	}
	geo := newCardGeometry(cfg.Layout)
	cards := make([]*Card, len(cfg.Items))
	for i := range cfg.Items {
		cards[i] = newCard(i, cfg, geo, generation)
	}
	return cards
}
