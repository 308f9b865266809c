package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the interface for camera control systems.
// Controllers own positional state (position, target). Camera reads from controller
// and computes view/projection matrices.
//
// The rig keeps a rest position and eases the live position around it: Parallax pushes the
// eye opposite the pointer, Recenter pulls it back. The target stays fixed unless moved.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// SetPosition moves the camera immediately, leaving the rest position untouched.
	//
	// Parameters:
	//   - pos: world-space coordinates
	SetPosition(pos mgl32.Vec3)

	// Rest returns the rest position the rig relaxes toward.
	//
	// Returns:
	//   - mgl32.Vec3: world-space rest position
	Rest() mgl32.Vec3

	// SetRest replaces the rest position. The live position follows on the next Parallax or
	// Recenter step.
	//
	// Parameters:
	//   - pos: world-space coordinates
	SetRest(pos mgl32.Vec3)

	// Parallax eases the camera toward the rest position displaced opposite the pointer.
	// The pointer is in normalized device coordinates (x right, y up, both in [-1, 1]); the
	// displacement is (-x*strength, -y*strength) in the rig's screen plane.
	//
	// Parameters:
	//   - pointer: normalized pointer position
	//   - strength: world units of displacement at the screen edge
	//   - factor: smoothing factor in [0, 1]
	Parallax(pointer mgl32.Vec2, strength, factor float32)

	// Recenter eases the camera back toward its rest position.
	//
	// Parameters:
	//   - factor: smoothing factor in [0, 1]
	Recenter(factor float32)
}
