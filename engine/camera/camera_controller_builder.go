package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRestPosition sets the position the rig rests at and starts from.
//
// Parameters:
//   - pos: world-space rest position
//
// Returns:
//   - CameraControllerOption: functional option to set the rest position
func WithRestPosition(pos mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rest = pos
	}
}

// WithTarget sets the look-at point.
//
// Parameters:
//   - target: world-space target
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithWorldUp sets the world up axis used to derive the rig's screen plane.
//
// Parameters:
//   - up: the world up vector
//
// Returns:
//   - CameraControllerOption: functional option to set the world up axis
func WithWorldUp(up mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.worldUp = up
	}
}
