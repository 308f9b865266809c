package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	const tol = 1e-5
	assert.InDelta(t, 0, NormalizeAngle(0), tol)
	assert.InDelta(t, math32.Pi, NormalizeAngle(math32.Pi), tol)
	assert.InDelta(t, math32.Pi, NormalizeAngle(-math32.Pi), tol)
	assert.InDelta(t, -math32.Pi/2, NormalizeAngle(3*math32.Pi/2), tol)
	assert.InDelta(t, 0.25, NormalizeAngle(0.25+10*TwoPi), 1e-3)
	assert.InDelta(t, -0.25, NormalizeAngle(-0.25-7*TwoPi), 1e-3)
}

func TestShortestAngleNeverExceedsHalfTurn(t *testing.T) {
	for _, n := range []int{1, 2, 3, 8, 13} {
		for k := 0; k < n; k++ {
			target := -float32(k) / float32(n) * TwoPi
			for from := float32(-40); from <= 40; from += 0.37 {
				d := ShortestAngle(from, target)
				assert.LessOrEqual(t, math32.Abs(d), math32.Pi+1e-5, "n=%d k=%d from=%f", n, k, from)
				assert.InDelta(t, 0, math32.Sin((from+d-target)/2), 1e-3)
			}
		}
	}
}

func TestSmoothingFactor(t *testing.T) {
	assert.Equal(t, float32(0.1), SmoothingFactor(0.1, 1.0/30, false))
	assert.InDelta(t, 0.1, SmoothingFactor(0.1, 1.0/60, true), 1e-5)
	// Two 60 Hz steps must converge as far as one 30 Hz step.
	one := SmoothingFactor(0.1, 1.0/30, true)
	two := 1 - (1-0.1)*(1-0.1)
	assert.InDelta(t, two, one, 1e-5)
	assert.Equal(t, float32(1), SmoothingFactor(3, 0, true))
}

func TestDampHelpers(t *testing.T) {
	assert.Equal(t, float32(5), Damp(0, 10, 0.5))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, DampVec3(mgl32.Vec3{}, mgl32.Vec3{2, 4, 6}, 0.5))

	target := mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})
	assert.True(t, DampQuat(mgl32.QuatIdent(), target, 1).ApproxEqual(target))
	half := DampQuat(mgl32.QuatIdent(), target, 0.5)
	assert.InDelta(t, 1, half.Len(), 1e-5)
}

func TestEulerDegToQuat(t *testing.T) {
	q := EulerDegToQuat(0, 90, 0)
	v := q.Rotate(mgl32.Vec3{0, 0, 1})
	assert.True(t, v.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5), "got %v", v)
	assert.True(t, EulerDegToQuat(0, 0, 0).ApproxEqual(mgl32.QuatIdent()))
}

func TestFrictionSteps(t *testing.T) {
	assert.Equal(t, 0, FrictionSteps(1e-5, 1e-4, 0.95))
	assert.Equal(t, 0, FrictionSteps(1, 1e-4, 1))

	n := FrictionSteps(0.05, 1e-4, 0.95)
	assert.Equal(t, int(math32.Ceil(math32.Log(1e-4/0.05)/math32.Log(0.95))), n)

	speed := float32(0.05)
	steps := 0
	for math32.Abs(speed) >= 1e-4 {
		speed *= 0.95
		steps++
	}
	assert.InDelta(t, n, steps, 1)
}

func TestClampOrAndCoalesce(t *testing.T) {
	assert.Equal(t, 0.5, ClampOr(0.5, 0, 1, 0.95))
	assert.Equal(t, 0.95, ClampOr(1.5, 0, 1, 0.95))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce[int]())
}
