package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
// Parallax offsets are applied along the rig's own right and up axes so the effect reads the
// same from any rest position.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	rest     mgl32.Vec3
	worldUp  mgl32.Vec3
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new parallax camera rig.
// The live position starts at the rest position.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:      &sync.Mutex{},
		rest:    mgl32.Vec3{0, 0, 10},
		worldUp: mgl32.Vec3{0, 1, 0},
	}
	for _, option := range options {
		option(cc)
	}
	cc.position = cc.rest
	return cc
}

// screenAxes computes the rig's right and up axes from rest position to target,
// consistent with the LookAt matrix. Falls back to world axes when degenerate.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) screenAxes() (right, up mgl32.Vec3) {
	back := cc.rest.Sub(cc.target)
	if back.Len() < 1e-8 {
		return mgl32.Vec3{1, 0, 0}, cc.worldUp
	}
	back = back.Normalize()
	right = cc.worldUp.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{1, 0, 0}, cc.worldUp
	}
	right = right.Normalize()
	up = back.Cross(right)
	return right, up
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
}

func (cc *cameraControllerImpl) SetPosition(pos mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = pos
}

func (cc *cameraControllerImpl) Rest() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rest
}

func (cc *cameraControllerImpl) SetRest(pos mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rest = pos
}

func (cc *cameraControllerImpl) Parallax(pointer mgl32.Vec2, strength, factor float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, up := cc.screenAxes()
	goal := cc.rest.
		Add(right.Mul(-pointer.X() * strength)).
		Add(up.Mul(-pointer.Y() * strength))
	cc.position = common.DampVec3(cc.position, goal, factor)
}

func (cc *cameraControllerImpl) Recenter(factor float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = common.DampVec3(cc.position, cc.rest, factor)
}
