package ring

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// bendSpring integrates the per-card bend angle. The harmonica spring bakes in its time step, so
// it is rebuilt only when the frame delta or the tuning changes.
type bendSpring struct {
	spring    harmonica.Spring
	dt        float32
	frequency float32
	damping   float32
	valid     bool
}

// step advances one card's bend angle toward target and clamps it to ±limit.
func (b *bendSpring) step(c *Card, target, limit, dt, frequency, damping float32) {
	if dt <= 0 {
		return
	}
	if !b.valid || b.dt != dt || b.frequency != frequency || b.damping != damping {
		b.spring = harmonica.NewSpring(float64(dt), float64(frequency), float64(damping))
		b.dt, b.frequency, b.damping, b.valid = dt, frequency, damping, true
	}
	pos, vel := b.spring.Update(float64(c.BendAngle), float64(c.BendVelocity), float64(target))
	c.BendAngle = mgl32.Clamp(float32(pos), -limit, limit)
	c.BendVelocity = float32(vel)
	if c.BendAngle == limit || c.BendAngle == -limit {
		c.BendVelocity = 0
	}
}

// bendTarget is the lean a card springs toward for a ring angular velocity in rad/s. Cards trail
// the motion, so the target opposes the velocity.
func bendTarget(omega, intensity, limit float32) float32 {
	return mgl32.Clamp(-omega*intensity, -limit, limit)
}

// bendPivot is the point in card space the bend rotates around.
func bendPivot(constraint BendConstraint, cardWidth float32) mgl32.Vec3 {
	switch constraint {
	case BendLeft:
		return mgl32.Vec3{0, 0, cardWidth / 2}
	case BendRight:
		return mgl32.Vec3{0, 0, -cardWidth / 2}
	default:
		return mgl32.Vec3{}
	}
}

// bendPose composes a bend of angle about the card's vertical axis through pivot onto a pose.
func bendPose(pos mgl32.Vec3, rot mgl32.Quat, angle float32, pivot mgl32.Vec3) (mgl32.Vec3, mgl32.Quat) {
	if angle == 0 {
		return pos, rot
	}
	bend := mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})
	shift := pivot.Sub(bend.Rotate(pivot))
	return pos.Add(rot.Rotate(shift)), rot.Mul(bend)
}

// coast applies one frame of coasting to spin and returns the decayed speed. A speed at or
// below epsilon snaps to zero without moving the ring.
func coast(spin, speed, friction, epsilon float32) (float32, float32) {
	if math32.Abs(speed) <= epsilon {
		return spin, 0
	}
	spin += speed
	speed *= friction
	if math32.Abs(speed) <= epsilon {
		speed = 0
	}
	return spin, speed
}
