package ring

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCoastStopsWithinPredictedFrames(t *testing.T) {
	cases := []struct {
		name                     string
		speed, friction, epsilon float32
	}{
		{"flick", 0.05, 0.95, 1e-4},
		{"reverse flick", -0.3, 0.9, 1e-4},
		{"slow friction", 0.01, 0.99, 1e-5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := common.FrictionSteps(tc.speed, tc.epsilon, tc.friction)
			spin, speed := float32(0), tc.speed
			frames := 0
			for speed != 0 && frames < 10000 {
				spin, speed = coast(spin, speed, tc.friction, tc.epsilon)
				frames++
			}
			assert.Zero(t, speed)
			assert.InDelta(t, want, frames, 1)

			// the distance covered approaches the geometric series sum
			total := tc.speed / (1 - tc.friction)
			assert.InDelta(t, total, spin, float64(math32.Abs(total)*0.01))
		})
	}
}

func TestCoastBelowEpsilonDoesNotMove(t *testing.T) {
	spin, speed := coast(1, 5e-5, 0.95, 1e-4)
	assert.Equal(t, float32(1), spin)
	assert.Zero(t, speed)

	spin, speed = coast(1, 0.05, 0.95, 1e-4)
	assert.InDelta(t, 1.05, spin, 1e-6)
	assert.InDelta(t, 0.0475, speed, 1e-6)
}

func TestBendTargetOpposesVelocityAndClamps(t *testing.T) {
	limit := mgl32.DegToRad(20)
	assert.Less(t, bendTarget(1, 0.12, limit), float32(0))
	assert.Greater(t, bendTarget(-1, 0.12, limit), float32(0))
	assert.Zero(t, bendTarget(0, 0.12, limit))
	assert.Equal(t, -limit, bendTarget(100, 0.12, limit))
	assert.Equal(t, limit, bendTarget(-100, 0.12, limit))
	assert.Zero(t, bendTarget(3, 0, limit))
}

func TestBendSpringSettles(t *testing.T) {
	var s bendSpring
	card := &Card{}
	limit := mgl32.DegToRad(20)
	for i := 0; i < 600; i++ {
		s.step(card, 0.1, limit, 1.0/60, 7, 0.45)
		assert.LessOrEqual(t, math32.Abs(card.BendAngle), limit)
	}
	assert.InDelta(t, 0.1, card.BendAngle, 1e-3)
	assert.InDelta(t, 0, card.BendVelocity, 1e-3)

	for i := 0; i < 600; i++ {
		s.step(card, 0, limit, 1.0/60, 7, 0.45)
	}
	assert.InDelta(t, 0, card.BendAngle, 1e-3)
}

func TestBendSpringClampsAtLimit(t *testing.T) {
	var s bendSpring
	card := &Card{BendAngle: 0.3, BendVelocity: 50}
	s.step(card, 0.3, 0.3, 1.0/60, 7, 0.45)
	assert.Equal(t, float32(0.3), card.BendAngle)
	assert.Zero(t, card.BendVelocity)

	before := *card
	s.step(card, 1, 0.3, 0, 7, 0.45)
	assert.Equal(t, before, *card, "a zero delta is ignored")
}

func TestBendPoseKeepsPivotFixed(t *testing.T) {
	pos, rot := Placement(3, 8, 3.5, 0, RotationConfig{})
	for _, constraint := range []BendConstraint{BendCenter, BendLeft, BendRight} {
		pivot := bendPivot(constraint, 1.2)
		before := pos.Add(rot.Rotate(pivot))
		p2, r2 := bendPose(pos, rot, 0.25, pivot)
		after := p2.Add(r2.Rotate(pivot))
		assert.True(t, before.ApproxEqualThreshold(after, 1e-5), "%s pivot moved", constraint)
		assert.False(t, r2.ApproxEqualThreshold(rot, 1e-4))
	}

	p, r := bendPose(pos, rot, 0, bendPivot(BendLeft, 1.2))
	assert.Equal(t, pos, p)
	assert.Equal(t, rot, r)
}

func TestBendPivotEdges(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{}, bendPivot(BendCenter, 2))
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, bendPivot(BendLeft, 2))
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, bendPivot(BendRight, 2))
}
