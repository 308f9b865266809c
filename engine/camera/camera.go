package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix              mgl32.Mat4
	projectionMatrix        mgl32.Mat4
	viewProjectionMatrix    mgl32.Mat4
	inverseViewProjection   mgl32.Mat4
	inverseProjectionMatrix mgl32.Mat4

	controller CameraController
}

// Ray is a half-line in world space.
type Ray struct {
	// Origin is the point the ray starts from, on the near plane.
	Origin mgl32.Vec3
	// Direction is the unit direction of travel.
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the world-to-view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection matrix.
	// Clip-space depth follows the OpenGL [-1, 1] convention; backends remap as needed.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4

	// InverseProjectionMatrix returns the inverse of the projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse projection matrix
	InverseProjectionMatrix() mgl32.Mat4

	// SetUp sets the camera's up vector and recalculates matrices.
	//
	// Parameters:
	//   - up: up vector
	SetUp(up mgl32.Vec3)

	// SetFov sets the vertical field of view and recalculates matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio and recalculates matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio (width / height)
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane and recalculates matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane and recalculates matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Controller returns the attached camera controller.
	//
	// Returns:
	//   - CameraController: the attached controller, or nil if none is set
	Controller() CameraController

	// SetController attaches a camera controller.
	//
	// Parameters:
	//   - ctrl: the camera controller to attach
	SetController(ctrl CameraController)

	// Position returns the world-space eye position reported by the controller.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position, or the origin when no controller is attached
	Position() mgl32.Vec3

	// Forward returns the unit view direction from the eye toward the target.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector, or -Z when no controller is attached
	Forward() mgl32.Vec3

	// Update recomputes all matrices from the controller's position and target.
	// No-op when no controller is attached.
	Update()

	// ScreenRay builds a world-space ray through a point given in normalized device
	// coordinates, x right and y up, both in [-1, 1].
	//
	// Parameters:
	//   - ndcX: horizontal device coordinate
	//   - ndcY: vertical device coordinate
	//
	// Returns:
	//   - Ray: the ray from the near plane through the point
	ScreenRay(ndcX, ndcY float32) Ray
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera instance with the provided options.
// A controller must be attached via SetController or WithController option
// before position/target data is available.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                      &sync.Mutex{},
		up:                      mgl32.Vec3{0, 1, 0},
		fov:                     mgl32.DegToRad(45),
		aspect:                  1.0,
		near:                    0.1,
		far:                     100.0,
		viewMatrix:              mgl32.Ident4(),
		projectionMatrix:        mgl32.Ident4(),
		viewProjectionMatrix:    mgl32.Ident4(),
		inverseViewProjection:   mgl32.Ident4(),
		inverseProjectionMatrix: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return mgl32.Vec3{}
	}
	return c.controller.Position()
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return mgl32.Vec3{0, 0, -1}
	}
	d := c.controller.Target().Sub(c.controller.Position())
	if d.Len() < 1e-8 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) ScreenRay(ndcX, ndcY float32) Ray {
	c.mu.Lock()
	inv := c.inverseViewProjection
	c.mu.Unlock()

	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return Ray{Direction: mgl32.Vec3{0, 0, -1}}
	}
	origin := near.Vec3().Mul(1 / near.W())
	target := far.Vec3().Mul(1 / far.W())
	dir := target.Sub(origin)
	if dir.Len() < 1e-12 {
		return Ray{Origin: origin, Direction: mgl32.Vec3{0, 0, -1}}
	}
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// updateMatrices recalculates the view, projection, view-projection, and inverse matrices.
// The projection is rebuilt even without a controller so the frustum is always valid.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.inverseProjectionMatrix = c.projectionMatrix.Inv()

	if c.controller != nil {
		eye := c.controller.Position()
		target := c.controller.Target()
		if eye.Sub(target).Len() > 1e-8 {
			c.viewMatrix = mgl32.LookAtV(eye, target, c.up)
		}
	}

	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseViewProjection = c.viewProjectionMatrix.Inv()
}
