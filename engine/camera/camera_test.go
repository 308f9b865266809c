package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera() Camera {
	rig := NewCameraController(WithRestPosition(mgl32.Vec3{0, 0, 10}))
	return NewCamera(WithFovDegrees(60), WithAspect(1), WithController(rig))
}

func TestScreenRayThroughCenterPointsAtTarget(t *testing.T) {
	cam := newTestCamera()
	ray := cam.ScreenRay(0, 0)

	assert.InDelta(t, 0, ray.Direction.X(), 1e-4)
	assert.InDelta(t, 0, ray.Direction.Y(), 1e-4)
	assert.InDelta(t, -1, ray.Direction.Z(), 1e-4)
	assert.InDelta(t, 10-cam.Near(), ray.Origin.Z(), 1e-3)
}

func TestScreenRayEdgesFollowFov(t *testing.T) {
	cam := newTestCamera()
	ray := cam.ScreenRay(0, 1)

	// 60 degree vertical fov puts the top edge 30 degrees above the axis.
	angle := mgl32.RadToDeg(math32.Acos(ray.Direction.Dot(mgl32.Vec3{0, 0, -1})))
	assert.InDelta(t, 30, angle, 0.05)
	assert.Greater(t, ray.Direction.Y(), float32(0))
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	cam := newTestCamera()
	cam.SetAspect(0)
	assert.Equal(t, float32(1), cam.Aspect())
	cam.SetAspect(2)
	assert.Equal(t, float32(2), cam.Aspect())
}

func TestForwardWithoutControllerDefaultsToNegativeZ(t *testing.T) {
	cam := NewCamera()
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, cam.Forward())
	assert.Equal(t, mgl32.Vec3{}, cam.Position())
}

func TestParallaxMovesOppositePointer(t *testing.T) {
	rig := NewCameraController(WithRestPosition(mgl32.Vec3{0, 0, 10}))
	rig.Parallax(mgl32.Vec2{1, 1}, 0.5, 1)

	pos := rig.Position()
	assert.InDelta(t, -0.5, pos.X(), 1e-5)
	assert.InDelta(t, -0.5, pos.Y(), 1e-5)
	assert.InDelta(t, 10, pos.Z(), 1e-5)

	rig.Recenter(1)
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, rig.Position())
}

func TestParallaxSmoothsTowardGoal(t *testing.T) {
	rig := NewCameraController(WithRestPosition(mgl32.Vec3{0, 0, 10}))
	rig.Parallax(mgl32.Vec2{-1, 0}, 1, 0.25)
	require.InDelta(t, 0.25, rig.Position().X(), 1e-5)
	rig.Parallax(mgl32.Vec2{-1, 0}, 1, 0.25)
	assert.InDelta(t, 0.4375, rig.Position().X(), 1e-5)
}

func TestUpdateFollowsController(t *testing.T) {
	cam := newTestCamera()
	cam.Controller().SetPosition(mgl32.Vec3{10, 0, 0})
	cam.Update()

	// the origin projects to the center of the screen from any eye position
	clip := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)
	assert.InDelta(t, -1, cam.Forward().X(), 1e-5)
}
