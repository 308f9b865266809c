package ring

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine"
	"github.com/Carmen-Shannon/oxy-ring/engine/camera"
	"github.com/Carmen-Shannon/oxy-ring/engine/input"
	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/Carmen-Shannon/oxy-ring/engine/loader"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-ring/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoGraphicsContext is returned by New when no renderer could be created for the container.
var ErrNoGraphicsContext = errors.New("ring: graphics context unavailable")

// Container is the host surface the ring lives in.
type Container interface {
	// Size returns the drawable size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// SetCursor shows the pointer affordance.
	//
	// Parameters:
	//   - style: the cursor style
	SetCursor(style input.CursorStyle)

	// Subscribe installs the single input handler and returns the function that removes it.
	//
	// Parameters:
	//   - h: the handler
	//
	// Returns:
	//   - func(): the unsubscribe function, safe to call more than once
	Subscribe(h input.Handler) func()
}

// Renderer is the part of the engine renderer the controller drives.
type Renderer interface {
	common.Disposable

	// Render draws the scene once.
	//
	// Parameters:
	//   - s: the scene
	//
	// Returns:
	//   - error: a backend error
	Render(s scene.Scene) error

	// Resize changes the output size.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: an error for an invalid size
	Resize(width, height int) error

	// SetPostProcess replaces the post-processing chain.
	//
	// Parameters:
	//   - passes: the passes, none to disable
	SetPostProcess(passes ...postprocess.Pass)
}

// RendererFactory creates the renderer for a container of the given size.
type RendererFactory func(width, height int) (Renderer, error)

// TextureLoader loads card images asynchronously. Load must return before done runs, and done
// may run on any goroutine.
type TextureLoader interface {
	// Load starts loading ref and reports the result to done.
	//
	// Parameters:
	//   - ref: the image reference
	//   - done: the completion callback
	//
	// Returns:
	//   - loader.CancelFunc: abandons the load
	Load(ref string, done loader.DoneFunc) loader.CancelFunc
}

// Controller owns one live ring presentation: its scene, its frame loop and its input handling.
type Controller interface {
	// Update applies a new configuration snapshot. Changes to the items or to anything that shapes
	// or places the cards rebuild every card; all other changes are animated in place.
	// No-op after Destroy.
	//
	// Parameters:
	//   - cfg: the new configuration
	Update(cfg Config)

	// Destroy cancels the frame loop, removes the input subscription and releases every geometry,
	// material, texture and the renderer. Safe to call more than once.
	Destroy()

	// State returns a snapshot of the runtime state.
	//
	// Returns:
	//   - State: the snapshot
	State() State

	// Config returns the applied configuration after normalization.
	//
	// Returns:
	//   - Config: a copy of the configuration
	Config() Config
}

type dragState struct {
	down     bool
	active   bool
	startX   float32
	startY   float32
	lastX    float32
	velocity float32
}

type pendingNavigation struct {
	url    string
	newTab bool
}

// controller implements Controller and input.Handler. Every entry point takes mu and checks the
// liveness flag; host callbacks run after mu is released.
type controller struct {
	mu          *sync.Mutex
	alive       atomic.Bool
	destroyOnce sync.Once

	container     Container
	scheduler     engine.FrameScheduler
	ownedEngine   engine.Engine
	newRenderer   RendererFactory
	renderer      Renderer
	loader        TextureLoader
	ownedLoader   loader.Loader
	navigator     Navigator
	onOverlay     func(OverlayState)
	onRenderError func(error)
	unsubscribe   func()
	frame         engine.FrameHandle

	cfg Config

	scene      scene.Scene
	cam        camera.Camera
	rig        camera.CameraController
	lights     *light.Rig
	sceneGroup scene.Node
	spinGroup  scene.Node

	cards      []*Card
	nodes      []scene.Node
	nodeIndex  map[uint64]int
	generation uint64

	position   mgl32.Vec3
	scale      float32
	rotation   mgl32.Quat
	background mgl32.Vec4
	responsive float32
	width      int
	height     int

	spin       float32
	lastSpin   float32
	spinTarget float32
	coasting   float32
	drag       dragState
	spring     bendSpring

	pointer       mgl32.Vec2
	pointerInside bool
	overFocused   bool
	hovered       int
	focused       int

	cursor        input.CursorStyle
	cursorSent    bool
	overlay       OverlayState
	overlaySent   bool
	navigation    *pendingNavigation
	loads         []*Card
	lastRenderErr string
}

var _ Controller = &controller{}
var _ input.Handler = &controller{}

// New builds the ring for cfg inside container and starts its frame loop. The configuration is
// copied and normalized first. When no renderer can be created New returns an error wrapping
// ErrNoGraphicsContext and leaves nothing subscribed or scheduled.
//
// Parameters:
//   - container: the host surface
//   - cfg: the initial configuration
//   - options: functional options for the collaborators
//
// Returns:
//   - Controller: the running controller
//   - error: an error wrapping ErrNoGraphicsContext if rendering is unavailable
func New(container Container, cfg Config, options ...ControllerBuilderOption) (Controller, error) {
	if container == nil {
		return nil, fmt.Errorf("%w: no container", ErrNoGraphicsContext)
	}
	c := &controller{
		mu:          &sync.Mutex{},
		container:   container,
		newRenderer: softwareRenderer,
		navigator:   browserNavigator{},
		nodeIndex:   make(map[uint64]int),
		hovered:     -1,
		focused:     -1,
		responsive:  1,
	}
	for _, opt := range options {
		opt(c)
	}
	c.cfg = cfg.Clone()
	c.cfg.Normalize()

	c.width, c.height = container.Size()
	c.width, c.height = max(c.width, 1), max(c.height, 1)

	r, err := c.newRenderer(c.width, c.height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGraphicsContext, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: renderer factory returned nothing", ErrNoGraphicsContext)
	}
	c.renderer = r

	if c.scheduler == nil {
		c.ownedEngine = engine.NewEngine()
		c.scheduler = c.ownedEngine
		go c.ownedEngine.Run()
	}
	if c.loader == nil {
		c.ownedLoader = loader.NewLoader()
		c.loader = c.ownedLoader
	}

	c.buildScene()
	c.alive.Store(true)

	c.mu.Lock()
	c.rebuildCards()
	c.unsubscribe = container.Subscribe(c)
	c.frame = c.scheduler.RequestFrame(c.onFrame)
	c.mu.Unlock()
	c.flush()

	log.Printf("[ring] started with %d cards at %dx%d", len(c.cfg.Items), c.width, c.height)
	return c, nil
}

func softwareRenderer(width, height int) (Renderer, error) {
	r, err := renderer.NewRenderer(renderer.BackendTypeSoftware, renderer.WithSize(width, height))
	if err != nil {
		return nil, err
	}
	return r, nil
}

// buildScene creates the camera, lights and the two ring groups. The scene group carries the
// configured transform and the spin group below it carries the ring rotation.
func (c *controller) buildScene() {
	cfg := &c.cfg
	c.rig = camera.NewCameraController(
		camera.WithRestPosition(mgl32.Vec3{0, cfg.Camera.Height, cfg.Camera.Distance}),
	)
	c.cam = camera.NewCamera(
		camera.WithFovDegrees(cfg.Camera.FOV),
		camera.WithAspect(float32(c.width)/float32(c.height)),
		camera.WithController(c.rig),
	)

	c.position = c.targetPosition()
	c.responsive = c.responsiveScale()
	c.scale = cfg.SceneTransform.Scale * c.responsive
	c.rotation = c.targetRotation()
	c.background = c.targetBackground()

	c.lights = light.NewRig(cfg.Lighting.RigSettings())
	c.spinGroup = scene.NewGroup(scene.WithName("spin"))
	c.sceneGroup = scene.NewGroup(
		scene.WithName("ring"),
		scene.WithPosition(c.position),
		scene.WithRotation(c.rotation),
		scene.WithScale(mgl32.Vec3{c.scale, c.scale, c.scale}),
		scene.WithChildren(c.spinGroup),
	)
	c.scene = scene.NewScene("ring", c.cam,
		scene.WithObjects(c.sceneGroup),
		scene.WithLights(c.lights.Lights()...),
		scene.WithBackground(c.background),
		scene.WithLightingEnabled(cfg.Lighting.EnableLighting),
	)
	c.rig.SetTarget(c.position)
	c.cam.Update()
	c.configurePostProcess()
}

func (c *controller) Update(cfg Config) {
	if !c.alive.Load() {
		return
	}
	next := cfg.Clone()
	next.Normalize()

	c.mu.Lock()
	if !c.alive.Load() {
		c.mu.Unlock()
		return
	}
	structural := c.cfg.Structural(next)
	c.cfg = next

	if structural {
		c.rebuildCards()
	}
	c.rig.SetRest(mgl32.Vec3{0, next.Camera.Height, next.Camera.Distance})
	c.cam.SetFov(mgl32.DegToRad(next.Camera.FOV))
	c.lights.Apply(next.Lighting.RigSettings())
	c.scene.SetLightingEnabled(next.Lighting.EnableLighting)
	c.responsive = c.responsiveScale()
	c.configurePostProcess()
	if c.focused >= 0 {
		c.spinTarget = c.focusSpin(c.focused)
	}
	c.mu.Unlock()
	c.flush()
}

func (c *controller) Destroy() {
	c.destroyOnce.Do(func() {
		c.mu.Lock()
		c.alive.Store(false)
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		if c.frame != 0 {
			c.scheduler.CancelFrame(c.frame)
			c.frame = 0
		}
		released := c.teardownCards()
		released += c.scene.Dispose().Total()
		c.renderer.Dispose()
		c.loads = nil
		c.navigation = nil
		c.mu.Unlock()

		if c.ownedLoader != nil {
			c.ownedLoader.Close()
		}
		if c.ownedEngine != nil {
			c.ownedEngine.Quit()
		}
		log.Printf("[ring] destroyed, released %d resources", released)
	})
}

func (c *controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Focus:        focusState(c.hovered, c.focused),
		Hovered:      c.hovered,
		FocusedIndex: c.focused,
		Spin:         c.spin,
		SpinTarget:   c.spinTarget,
		Coasting:     c.coasting,
		Dragging:     c.drag.active,
		Cards:        len(c.cards),
		Alive:        c.alive.Load(),
	}
}

func (c *controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Clone()
}

// rebuildCards replaces every card with fresh ones built from the current configuration. Hover,
// focus, drag and coasting state belongs to the old cards and is dropped with them. Caller holds mu.
func (c *controller) rebuildCards() {
	c.teardownCards()
	c.generation++
	c.cards = buildCards(&c.cfg, c.generation)
	c.nodes = make([]scene.Node, len(c.cards))
	for i, card := range c.cards {
		c.nodes[i] = card.Node
		c.nodeIndex[card.Node.ID()] = i
		c.spinGroup.Add(card.Node)
	}
	c.hovered, c.focused = -1, -1
	c.overFocused = false
	c.coasting = 0
	c.drag = dragState{}
	c.loads = append(c.loads[:0], c.cards...)
}

// teardownCards cancels pending loads, detaches every card and disposes its resources.
// Caller holds mu.
func (c *controller) teardownCards() int {
	if len(c.cards) == 0 {
		return 0
	}
	var stats scene.DisposeStats
	for _, card := range c.cards {
		if card.cancelLoad != nil {
			card.cancelLoad()
			card.cancelLoad = nil
		}
		c.spinGroup.Remove(card.Node)
		s := scene.DisposeTree(card.Node)
		stats.Geometries += s.Geometries
		stats.Materials += s.Materials
		stats.Textures += s.Textures
	}
	c.cards, c.nodes, c.loads = nil, nil, nil
	clear(c.nodeIndex)
	return stats.Total()
}

// startLoads issues the texture loads queued by a rebuild. It runs without mu so a loader that
// blocks on a full queue cannot deadlock against completions waiting for mu.
func (c *controller) startLoads(cards []*Card) {
	for _, card := range cards {
		ref := card.Item.Image
		if ref == "" {
			log.Printf("[ring] card %d has no image", card.Index)
			continue
		}
		gen, idx := card.generation, card.Index
		cancel := c.loader.Load(ref, func(tex texture.Texture, err error) {
			c.onTexture(gen, idx, ref, tex, err)
		})

		c.mu.Lock()
		current := c.alive.Load() && gen == c.generation
		if current {
			card.cancelLoad = cancel
		}
		c.mu.Unlock()
		if !current && cancel != nil {
			cancel()
		}
	}
}

// onTexture binds a loaded image to its card. Results for cards that no longer exist are
// released and dropped.
func (c *controller) onTexture(gen uint64, idx int, ref string, tex texture.Texture, err error) {
	if err != nil {
		log.Printf("[ring] image %q for card %d unavailable: %v", ref, idx, err)
		return
	}
	if tex == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive.Load() || gen != c.generation || idx >= len(c.cards) {
		tex.Dispose()
		return
	}
	card := c.cards[idx]
	card.cancelLoad = nil
	applyFit(tex, c.cfg.Appearance.ImageFit, c.cfg.Layout.CardWidth/c.cfg.Layout.CardHeight)
	old := card.Front.Map()
	card.Front.SetMap(tex)
	card.Front.SetBaseColor(mgl32.Vec4{1, 1, 1, 1})
	if old != nil && old != tex {
		old.Dispose()
	}
}

func (c *controller) onFrame(dt float32) {
	if !c.alive.Load() {
		return
	}
	c.mu.Lock()
	if !c.alive.Load() {
		c.mu.Unlock()
		return
	}
	c.frame = 0
	c.step(dt)
	c.render()
	c.frame = c.scheduler.RequestFrame(c.onFrame)
	c.mu.Unlock()
	c.flush()
}

// step runs one frame of animation in a fixed order: scene transform smoothing, ring rotation,
// camera, hover test, then per-card poses. Caller holds mu.
func (c *controller) step(dt float32) {
	if dt <= 0 {
		dt = 1.0 / 60
	}
	dt = min(dt, 0.1)
	ia := &c.cfg.Interaction
	f := common.SmoothingFactor(ia.Smoothing, dt, ia.FrameRateIndependent)

	c.smoothTransform(f)
	c.advanceSpin(dt)

	if c.focused < 0 {
		pointer := mgl32.Vec2{}
		if c.pointerInside {
			pointer = c.pointer
		}
		c.rig.Parallax(pointer, ia.ParallaxStrength, f)
	}
	c.rig.SetTarget(c.position)
	c.cam.Update()

	if !c.drag.active && c.focused < 0 {
		c.updateHover()
	}

	c.updateCards(dt, f)
	c.lastSpin = c.spin
}

func (c *controller) smoothTransform(f float32) {
	c.position = common.DampVec3(c.position, c.targetPosition(), f)
	c.scale = common.Damp(c.scale, c.cfg.SceneTransform.Scale*c.responsive, f)
	c.rotation = common.DampQuat(c.rotation, c.targetRotation(), f)
	c.background = common.DampVec4(c.background, c.targetBackground(), f)

	c.sceneGroup.SetPosition(c.position)
	c.sceneGroup.SetRotation(c.rotation)
	c.sceneGroup.SetScale(mgl32.Vec3{c.scale, c.scale, c.scale})
	c.scene.SetBackground(c.background)
}

// advanceSpin integrates the ring rotation. Focus eases along the shorter arc; otherwise a
// coasting speed decays under friction, and auto-rotate drives the ring once it has settled.
func (c *controller) advanceSpin(dt float32) {
	ia, an := &c.cfg.Interaction, &c.cfg.Animation
	switch {
	case c.focused >= 0:
		k := common.SmoothingFactor(ia.FocusSpeed, dt, ia.FrameRateIndependent)
		c.spin += common.ShortestAngle(c.spin, c.spinTarget) * k
	case c.coasting != 0:
		c.spin, c.coasting = coast(c.spin, c.coasting, ia.Friction, ia.StopEpsilon)
	case an.AutoRotate && !c.drag.active:
		dir := float32(-1)
		if an.AutoRotateDirection == CounterClockwise {
			dir = 1
		}
		c.spin += dir * mgl32.DegToRad(an.AutoRotateSpeed) * dt
	}
	c.spin = common.NormalizeAngle(c.spin)
	c.spinGroup.SetRotation(mgl32.QuatRotate(c.spin, mgl32.Vec3{0, 1, 0}))
}

func (c *controller) updateCards(dt, f float32) {
	if len(c.cards) == 0 {
		return
	}
	ia, an := &c.cfg.Interaction, &c.cfg.Animation
	limit := mgl32.DegToRad(an.BendRange)
	omega := common.ShortestAngle(c.lastSpin, c.spin) / dt
	target := bendTarget(omega, an.BendIntensity, limit)
	pivot := bendPivot(an.BendConstraint, c.cfg.Layout.CardWidth)
	focusK := common.SmoothingFactor(ia.FocusSpeed, dt, ia.FrameRateIndependent)

	var presentPos mgl32.Vec3
	var presentRot mgl32.Quat
	if c.focused >= 0 {
		presentPos, presentRot = c.presentedPose()
	}

	for i, card := range c.cards {
		var pos mgl32.Vec3
		var rot mgl32.Quat
		k := f
		if i == c.focused {
			pos, rot, k = presentPos, presentRot, focusK
			card.resetBend()
		} else {
			c.spring.step(card, target, limit, dt, an.BendStiffness, an.BendDamping)
			pos, rot = bendPose(card.RestPosition, card.RestRotation, card.BendAngle, pivot)
			if i == c.hovered {
				pos, rot = c.hoverPose(card, pos, rot)
			}
		}
		card.Node.SetPosition(common.DampVec3(card.Node.Position(), pos, k))
		card.Node.SetRotation(common.DampQuat(card.Node.Rotation(), rot, k))

		card.TargetOpacity, card.TargetGlow = c.cardTargets(i)
		if v := approach(card.Opacity, card.TargetOpacity, f); v != card.Opacity {
			card.setOpacity(v)
		}
		if v := approach(card.Glow, card.TargetGlow, f); v != card.Glow {
			card.setGlow(v)
		}
	}
}

// cardTargets returns the opacity and glow card i eases toward.
func (c *controller) cardTargets(i int) (float32, float32) {
	opacity := float32(1)
	if c.focused >= 0 && i != c.focused {
		opacity = c.cfg.Interaction.FadedOpacity
	}
	var glow float32
	if i == c.hovered || i == c.focused {
		glow = c.cfg.Interaction.HoverGlow
	}
	return opacity, glow
}

// hoverPose pushes a card outward along its radius, lifts it and leans it back.
func (c *controller) hoverPose(card *Card, pos mgl32.Vec3, rot mgl32.Quat) (mgl32.Vec3, mgl32.Quat) {
	ia := &c.cfg.Interaction
	radial := mgl32.Vec3{card.RestPosition.X(), 0, card.RestPosition.Z()}
	if r := radial.Len(); r > 1e-6 {
		pos = pos.Add(radial.Mul((r*(ia.HoverScale-1) + ia.HoverSlideOut) / r))
	}
	pos = pos.Add(mgl32.Vec3{0, ia.HoverOffsetY, 0})
	rot = rot.Mul(mgl32.QuatRotate(mgl32.DegToRad(ia.HoverTilt), mgl32.Vec3{0, 0, 1}))
	return pos, rot
}

// presentedPose is the focused card's pose in spin-group space: FocusDistance in front of the
// camera with its back face toward the camera, where the image reads the right way round.
func (c *controller) presentedPose() (mgl32.Vec3, mgl32.Quat) {
	fwd := c.cam.Forward()
	world := c.cam.Position().Add(fwd.Mul(c.cfg.Interaction.FocusDistance))
	local := c.spinGroup.WorldMatrix().Inv().Mul4x1(world.Vec4(1)).Vec3()

	face := mgl32.QuatBetweenVectors(mgl32.Vec3{-1, 0, 0}, fwd.Mul(-1))
	parent := c.sceneGroup.Rotation().Mul(c.spinGroup.Rotation())
	return local, parent.Inverse().Mul(face)
}

func (c *controller) render() {
	if err := c.renderer.Render(c.scene); err != nil {
		c.reportRenderError("render", err)
		return
	}
	c.lastRenderErr = ""
}

// reportRenderError logs each distinct backend error once and forwards every occurrence to the
// error callback.
func (c *controller) reportRenderError(op string, err error) {
	if msg := err.Error(); msg != c.lastRenderErr {
		c.lastRenderErr = msg
		log.Printf("[ring] %s failed: %v", op, err)
	}
	if c.onRenderError != nil {
		c.onRenderError(err)
	}
}

func (c *controller) configurePostProcess() {
	e := &c.cfg.Effects
	if !e.EnableBloom {
		c.renderer.SetPostProcess()
		return
	}
	c.renderer.SetPostProcess(&postprocess.Bloom{
		Strength:  float64(e.BloomStrength),
		Radius:    float64(e.BloomRadius),
		Threshold: float64(e.BloomThreshold),
	})
}

func (c *controller) targetPosition() mgl32.Vec3 {
	st := &c.cfg.SceneTransform
	return mgl32.Vec3{st.PositionX, st.PositionY, st.PositionZ}
}

func (c *controller) targetRotation() mgl32.Quat {
	st := &c.cfg.SceneTransform
	return common.EulerDegToQuat(st.RotationX, st.RotationY, st.RotationZ)
}

func (c *controller) targetBackground() mgl32.Vec4 {
	bg, err := common.ParseColor(c.cfg.Appearance.BackgroundColor)
	if err != nil {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	return bg
}

// responsiveScale shrinks the ring when the container's shorter edge is below the reference size.
func (c *controller) responsiveScale() float32 {
	r := &c.cfg.Responsive
	edge := float32(min(c.width, c.height))
	return mgl32.Clamp(edge/r.ReferenceSize, r.MinScale, 1)
}

// focusSpin is the spin that brings card i to the front of the ring, facing the camera.
func (c *controller) focusSpin(i int) float32 {
	if i < 0 || i >= len(c.cards) {
		return c.spin
	}
	// the ring angle whose radial direction leans furthest toward the camera under the full
	// scene rotation; a ring seen edge-on falls back to undoing the yaw
	q := c.targetRotation()
	x, z := q.Rotate(mgl32.Vec3{1, 0, 0}), q.Rotate(mgl32.Vec3{0, 0, 1})
	front := -mgl32.DegToRad(c.cfg.SceneTransform.RotationY)
	if math32.Abs(x[2])+math32.Abs(z[2]) > 1e-6 {
		front = math32.Atan2(x[2], z[2])
	}
	return common.NormalizeAngle(front - c.cards[i].RestAngle)
}

// approach eases cur toward target and snaps once the gap is imperceptible.
func approach(cur, target, f float32) float32 {
	next := common.Damp(cur, target, f)
	if math32.Abs(next-target) < 1e-3 {
		return target
	}
	return next
}

// flush delivers everything the last locked section queued for the host: texture loads, the
// cursor, overlay changes and navigation. It must run without mu.
func (c *controller) flush() {
	c.mu.Lock()
	alive := c.alive.Load()
	loads := c.loads
	c.loads = nil
	nav := c.navigation
	c.navigation = nil

	var cursor *input.CursorStyle
	var overlay *OverlayState
	if alive {
		want := c.cursorFor()
		if !c.cursorSent || want != c.cursor {
			c.cursor, c.cursorSent = want, true
			cursor = &want
		}
		st := overlayFor(c.cfg.Overlay, c.cfg.Items, c.hovered, c.focused)
		if !c.overlaySent || !st.equal(c.overlay) {
			c.overlay, c.overlaySent = st, true
			overlay = &st
		}
	}
	c.mu.Unlock()

	if !alive {
		return
	}
	if len(loads) > 0 {
		c.startLoads(loads)
	}
	if cursor != nil {
		c.container.SetCursor(*cursor)
	}
	if overlay != nil && c.onOverlay != nil {
		c.onOverlay(*overlay)
	}
	if nav != nil {
		if err := c.navigator.Open(nav.url, nav.newTab); err != nil {
			log.Printf("[ring] navigation to %s failed: %v", nav.url, err)
		}
	}
}

// cursorFor picks the affordance for the current state. Caller holds mu.
func (c *controller) cursorFor() input.CursorStyle {
	switch {
	case c.focused >= 0:
		if c.overFocused {
			return input.CursorPointer
		}
		return input.CursorDefault
	case c.drag.active:
		return input.CursorGrabbing
	case c.hovered >= 0:
		return input.CursorPointer
	default:
		return input.CursorGrab
	}
}
