package ring

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine"
	"github.com/Carmen-Shannon/oxy-ring/engine/input"
	"github.com/Carmen-Shannon/oxy-ring/engine/loader"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-ring/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = float32(1.0 / 60)

type fakeContainer struct {
	input.Hub
	mu      sync.Mutex
	w, h    int
	cursors []input.CursorStyle
	subs    int
}

func (f *fakeContainer) Size() (int, int) { return f.w, f.h }

func (f *fakeContainer) SetCursor(style input.CursorStyle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursors = append(f.cursors, style)
}

func (f *fakeContainer) Subscribe(h input.Handler) func() {
	f.mu.Lock()
	f.subs++
	f.mu.Unlock()
	return f.Hub.Subscribe(h)
}

func (f *fakeContainer) lastCursor() input.CursorStyle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cursors) == 0 {
		return -1
	}
	return f.cursors[len(f.cursors)-1]
}

type fakeRenderer struct {
	common.DisposeTracker
	renders   int
	resizes   [][2]int
	passes    []postprocess.Pass
	err       error
	resizeErr error
}

func (f *fakeRenderer) Render(scene.Scene) error {
	f.renders++
	return f.err
}

func (f *fakeRenderer) Resize(w, h int) error {
	f.resizes = append(f.resizes, [2]int{w, h})
	return f.resizeErr
}

func (f *fakeRenderer) SetPostProcess(passes ...postprocess.Pass) {
	f.passes = passes
}

type loadRequest struct {
	ref       string
	done      loader.DoneFunc
	cancelled bool
}

type fakeLoader struct {
	mu       sync.Mutex
	requests []*loadRequest
}

func (f *fakeLoader) Load(ref string, done loader.DoneFunc) loader.CancelFunc {
	req := &loadRequest{ref: ref, done: done}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		req.cancelled = true
	}
}

func (f *fakeLoader) request(i int) *loadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

func (f *fakeLoader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// complete finishes request i the way the real loader does, from outside any controller lock.
func (f *fakeLoader) complete(i int, tex texture.Texture, err error) {
	f.request(i).done(tex, err)
}

type navigation struct {
	url    string
	newTab bool
}

type fakeNavigator struct {
	opened []navigation
}

func (f *fakeNavigator) Open(url string, newTab bool) error {
	f.opened = append(f.opened, navigation{url, newTab})
	return nil
}

type harness struct {
	ctrl      *controller
	container *fakeContainer
	renderer  *fakeRenderer
	loader    *fakeLoader
	nav       *fakeNavigator
	eng       engine.Engine
	overlays  []OverlayState
}

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Image: fmt.Sprintf("img-%d.png", i),
			Label: fmt.Sprintf("Card %d", i),
			Link:  fmt.Sprintf("https://example.com/%d", i),
		}
	}
	return items
}

func testConfig(n int) Config {
	cfg := DefaultConfig()
	cfg.Items = testItems(n)
	return cfg
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		container: &fakeContainer{w: 800, h: 600},
		renderer:  &fakeRenderer{},
		loader:    &fakeLoader{},
		nav:       &fakeNavigator{},
		eng:       engine.NewEngine(),
	}
	ctrl, err := New(h.container, cfg,
		WithScheduler(h.eng),
		WithRendererFactory(func(int, int) (Renderer, error) { return h.renderer, nil }),
		WithTextureLoader(h.loader),
		WithNavigator(h.nav),
		WithOnOverlay(func(st OverlayState) { h.overlays = append(h.overlays, st) }),
	)
	require.NoError(t, err)
	h.ctrl = ctrl.(*controller)
	t.Cleanup(ctrl.Destroy)
	return h
}

func (h *harness) steps(n int) {
	for i := 0; i < n; i++ {
		h.eng.Step(frame)
	}
}

func (h *harness) click(x, y float32) {
	h.ctrl.OnPointerDown(input.PointerEvent{X: x, Y: y})
	h.ctrl.OnPointerUp(input.PointerEvent{X: x, Y: y})
}

// frontCard turns the ring so card i of n sits at the front, facing the camera, and settles
// one frame there.
func (h *harness) frontCard(i, n int) {
	h.ctrl.mu.Lock()
	h.ctrl.cfg.Animation.AutoRotate = false
	h.ctrl.spin = common.NormalizeAngle(-RestAngle(i, n))
	h.ctrl.lastSpin = h.ctrl.spin
	h.ctrl.mu.Unlock()
	h.steps(1)
}

func (h *harness) focusCard(i int) {
	h.ctrl.locked(func() { h.ctrl.focus(i) })
}

func texture2x1() texture.Texture {
	return texture.NewTexture(image.NewRGBA(image.Rect(0, 0, 200, 100)))
}

func TestNewStartsLoop(t *testing.T) {
	h := newHarness(t, testConfig(6))

	assert.True(t, h.container.Subscribed())
	assert.Equal(t, 1, h.container.subs)
	assert.Equal(t, 1, h.eng.Pending())
	require.Equal(t, 6, h.loader.count())
	for i := 0; i < 6; i++ {
		assert.Equal(t, fmt.Sprintf("img-%d.png", i), h.loader.request(i).ref)
	}
	assert.Equal(t, input.CursorGrab, h.container.lastCursor())

	st := h.ctrl.State()
	assert.Equal(t, Idle, st.Focus)
	assert.Equal(t, 6, st.Cards)
	assert.True(t, st.Alive)

	h.steps(3)
	assert.Equal(t, 3, h.renderer.renders)
	assert.Equal(t, 1, h.eng.Pending())
}

func TestNewWithoutGraphicsContext(t *testing.T) {
	container := &fakeContainer{w: 800, h: 600}
	eng := engine.NewEngine()
	l := &fakeLoader{}
	ctrl, err := New(container, testConfig(3),
		WithScheduler(eng),
		WithTextureLoader(l),
		WithRendererFactory(func(int, int) (Renderer, error) { return nil, errors.New("no adapter") }),
	)
	require.Error(t, err)
	assert.Nil(t, ctrl)
	assert.ErrorIs(t, err, ErrNoGraphicsContext)
	assert.False(t, container.Subscribed())
	assert.Zero(t, eng.Pending())
	assert.Zero(t, l.count())

	_, err = New(container, testConfig(3), WithScheduler(eng),
		WithRendererFactory(func(int, int) (Renderer, error) { return nil, nil }))
	assert.ErrorIs(t, err, ErrNoGraphicsContext)

	_, err = New(nil, testConfig(3))
	assert.ErrorIs(t, err, ErrNoGraphicsContext)
}

func TestNewCopiesConfig(t *testing.T) {
	cfg := testConfig(2)
	h := newHarness(t, cfg)
	cfg.Items[0].Image = "changed.png"
	cfg.Layout.WheelRadius = -4

	got := h.ctrl.Config()
	assert.Equal(t, "img-0.png", got.Items[0].Image)
	assert.Equal(t, float32(3.5), got.Layout.WheelRadius)
}

func TestEmptyRing(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	assert.Zero(t, h.ctrl.State().Cards)
	assert.Zero(t, h.loader.count())

	h.steps(5)
	h.click(400, 300)
	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyEnter})
	assert.Equal(t, Idle, h.ctrl.State().Focus)
	assert.Equal(t, 5, h.renderer.renders)
}

func TestDragAndFlick(t *testing.T) {
	h := newHarness(t, testConfig(8))

	h.ctrl.OnPointerDown(input.PointerEvent{X: 100, Y: 300})
	assert.True(t, h.ctrl.State().Dragging)
	assert.Equal(t, input.CursorGrabbing, h.container.lastCursor())

	h.ctrl.OnPointerMove(input.PointerEvent{X: 195, Y: 300})
	h.ctrl.OnPointerMove(input.PointerEvent{X: 200, Y: 300})
	h.ctrl.OnPointerUp(input.PointerEvent{X: 200, Y: 300})

	st := h.ctrl.State()
	assert.False(t, st.Dragging)
	assert.InDelta(t, 0.5, st.Spin, 1e-5)
	assert.InDelta(t, 0.05, st.Coasting, 1e-6)
	assert.Equal(t, Idle, st.Focus, "a drag is not a click")

	h.steps(1)
	st = h.ctrl.State()
	assert.InDelta(t, 0.0475, st.Coasting, 1e-6)
	assert.InDelta(t, 0.55, st.Spin, 1e-5)
}

func TestCoastingDecaysToRest(t *testing.T) {
	cfg := testConfig(8)
	cfg.Animation.AutoRotate = false
	h := newHarness(t, cfg)

	ev := &input.WheelEvent{DeltaY: 100}
	h.ctrl.OnWheel(ev)
	assert.True(t, ev.DefaultPrevented())
	assert.InDelta(t, 0.08, h.ctrl.State().Coasting, 1e-6)

	h.steps(1)
	assert.InDelta(t, 0.076, h.ctrl.State().Coasting, 1e-6)

	frames := common.FrictionSteps(0.076, cfg.Interaction.StopEpsilon, cfg.Interaction.Friction)
	h.steps(frames + 1)
	st := h.ctrl.State()
	assert.Zero(t, st.Coasting)

	// at rest with auto-rotate off the ring holds still
	h.steps(10)
	assert.Equal(t, st.Spin, h.ctrl.State().Spin)
}

func TestWheelIgnoredWhenScrollDisabled(t *testing.T) {
	cfg := testConfig(4)
	cfg.Interaction.EnableScroll = false
	h := newHarness(t, cfg)

	ev := &input.WheelEvent{DeltaY: 100}
	h.ctrl.OnWheel(ev)
	assert.False(t, ev.DefaultPrevented())
	assert.Zero(t, h.ctrl.State().Coasting)
}

func TestAutoRotateDirection(t *testing.T) {
	cfg := testConfig(4)
	h := newHarness(t, cfg)
	h.steps(1)
	assert.InDelta(t, -mgl32.DegToRad(8)*frame, h.ctrl.State().Spin, 1e-6)

	cfg.Animation.AutoRotateDirection = CounterClockwise
	h2 := newHarness(t, cfg)
	h2.steps(1)
	assert.InDelta(t, mgl32.DegToRad(8)*frame, h2.ctrl.State().Spin, 1e-6)
}

func TestHoverThenClickFocuses(t *testing.T) {
	cfg := testConfig(8)
	cfg.Overlay.Enabled = true
	h := newHarness(t, cfg)
	h.frontCard(2, 8)

	h.ctrl.OnPointerMove(input.PointerEvent{X: 400, Y: 300})
	st := h.ctrl.State()
	require.Equal(t, Hovering, st.Focus)
	require.Equal(t, 2, st.Hovered)
	assert.Equal(t, input.CursorPointer, h.container.lastCursor())
	require.NotEmpty(t, h.overlays)
	assert.Equal(t, OverlayHover, h.overlays[len(h.overlays)-1].Mode)
	assert.Equal(t, "Card 2", h.overlays[len(h.overlays)-1].Item.Label)

	h.click(400, 300)
	st = h.ctrl.State()
	assert.Equal(t, Focused, st.Focus)
	assert.Equal(t, 2, st.FocusedIndex)
	assert.Equal(t, -1, st.Hovered)
	assert.InDelta(t, -math32.Pi/2, st.SpinTarget, 1e-5)
	assert.Equal(t, OverlayFocus, h.overlays[len(h.overlays)-1].Mode)
	assert.Empty(t, h.nav.opened)

	for i, card := range h.ctrl.cards {
		if i == 2 {
			assert.Equal(t, float32(1), card.TargetOpacity)
			assert.Equal(t, cfg.Interaction.HoverGlow, card.TargetGlow)
			continue
		}
		assert.Equal(t, cfg.Interaction.FadedOpacity, card.TargetOpacity)
	}

	h.steps(120)
	for i, card := range h.ctrl.cards {
		if i != 2 {
			assert.Equal(t, cfg.Interaction.FadedOpacity, card.Opacity)
			assert.Equal(t, cfg.Interaction.FadedOpacity, card.Front.Opacity())
		}
	}
	assert.Zero(t, h.ctrl.cards[2].BendAngle)
}

func TestClickOnFocusedCardNavigates(t *testing.T) {
	h := newHarness(t, testConfig(8))
	h.frontCard(2, 8)
	h.ctrl.OnPointerMove(input.PointerEvent{X: 400, Y: 300})
	h.click(400, 300)
	require.Equal(t, Focused, h.ctrl.State().Focus)

	h.click(400, 300)
	assert.Equal(t, Idle, h.ctrl.State().Focus)
	require.Len(t, h.nav.opened, 1)
	assert.Equal(t, navigation{"https://example.com/2", true}, h.nav.opened[0])
}

func TestClickOutsideFocusedCardUnfocuses(t *testing.T) {
	h := newHarness(t, testConfig(8))
	h.frontCard(2, 8)
	h.focusCard(2)
	require.Equal(t, Focused, h.ctrl.State().Focus)

	h.click(5, 5)
	assert.Equal(t, Idle, h.ctrl.State().Focus)
	assert.Empty(t, h.nav.opened)
	for _, card := range h.ctrl.cards {
		assert.Equal(t, float32(1), card.TargetOpacity)
	}
}

func TestActivationRequiresRealLink(t *testing.T) {
	cfg := testConfig(3)
	cfg.Items[0].Link = ""
	cfg.Items[1].Link = "#"
	cfg.Items[2].OpenInNewTab = boolPtr(false)
	h := newHarness(t, cfg)

	for i := 0; i < 3; i++ {
		h.focusCard(i)
		require.Equal(t, Focused, h.ctrl.State().Focus)
		h.ctrl.OnKey(input.KeyEvent{Key: common.KeyEnter})
		assert.Equal(t, Idle, h.ctrl.State().Focus)
	}
	require.Len(t, h.nav.opened, 1)
	assert.Equal(t, navigation{"https://example.com/2", false}, h.nav.opened[0])
}

func TestFocusFacesCameraUnderSceneRotation(t *testing.T) {
	yawOnly := testConfig(8)
	yawOnly.SceneTransform.RotationY = 30
	h := newHarness(t, yawOnly)
	var got float32
	h.ctrl.locked(func() { got = h.ctrl.focusSpin(2) })
	want := common.NormalizeAngle(-(RestAngle(2, 8) + mgl32.DegToRad(30)))
	assert.InDelta(t, 0, common.ShortestAngle(got, want), 1e-5)

	cfg := testConfig(8)
	cfg.SceneTransform.RotationX = 20
	cfg.SceneTransform.RotationY = -15
	cfg.SceneTransform.RotationZ = 35
	h = newHarness(t, cfg)
	q := common.EulerDegToQuat(20, -15, 35)
	toward := func(spin float32) float32 {
		a := RestAngle(5, 8) + spin
		return q.Rotate(mgl32.Vec3{math32.Sin(a), 0, math32.Cos(a)})[2]
	}
	h.ctrl.locked(func() { got = h.ctrl.focusSpin(5) })
	for _, d := range []float32{-0.05, 0.05, math32.Pi} {
		assert.Greater(t, toward(got), toward(got+d), "offset %v", d)
	}
}

func TestFocusTakesShortestPath(t *testing.T) {
	h := newHarness(t, testConfig(8))
	h.ctrl.mu.Lock()
	h.ctrl.spin, h.ctrl.lastSpin = 3, 3
	h.ctrl.mu.Unlock()

	h.focusCard(3)
	target := h.ctrl.State().SpinTarget
	assert.InDelta(t, -3*math32.Pi/4, target, 1e-5)
	before := common.ShortestAngle(3, target)
	require.Positive(t, before)
	require.LessOrEqual(t, before, math32.Pi)

	h.steps(1)
	spin := h.ctrl.State().Spin
	assert.Positive(t, common.ShortestAngle(3, spin), "spin heads for the ±π seam")
	assert.Less(t, math32.Abs(common.ShortestAngle(spin, target)), before)

	h.steps(300)
	assert.InDelta(t, 0, common.ShortestAngle(h.ctrl.State().Spin, target), 1e-3)
}

func TestKeys(t *testing.T) {
	cfg := testConfig(8)
	cfg.Animation.AutoRotate = false
	h := newHarness(t, cfg)

	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyRight})
	assert.InDelta(t, 0.04, h.ctrl.State().Coasting, 1e-6)
	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyLeft})
	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyLeft})
	assert.InDelta(t, -0.04, h.ctrl.State().Coasting, 1e-6)

	h.focusCard(1)
	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyRight})
	assert.Zero(t, h.ctrl.State().Coasting)
	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyEsc})
	assert.Equal(t, Idle, h.ctrl.State().Focus)
	assert.Empty(t, h.nav.opened)

	h.frontCard(4, 8)
	h.ctrl.OnPointerMove(input.PointerEvent{X: 400, Y: 300})
	require.Equal(t, 4, h.ctrl.State().Hovered)
	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyEnter})
	assert.Equal(t, 4, h.ctrl.State().FocusedIndex)
}

func TestPointerLeaveClearsHover(t *testing.T) {
	h := newHarness(t, testConfig(8))
	h.frontCard(2, 8)
	h.ctrl.OnPointerMove(input.PointerEvent{X: 400, Y: 300})
	require.Equal(t, Hovering, h.ctrl.State().Focus)

	h.ctrl.OnPointerLeave(input.PointerEvent{X: 400, Y: 300})
	assert.Equal(t, Idle, h.ctrl.State().Focus)
	h.steps(1)
	assert.Equal(t, -1, h.ctrl.State().Hovered)
	assert.Equal(t, input.CursorGrab, h.container.lastCursor())
}

func TestTouchPrimarySkipsHover(t *testing.T) {
	cfg := testConfig(8)
	cfg.Platform.IsTouchPrimary = true
	h := newHarness(t, cfg)
	h.frontCard(2, 8)

	h.ctrl.OnPointerMove(input.PointerEvent{X: 400, Y: 300, Touch: true})
	assert.Equal(t, Idle, h.ctrl.State().Focus)

	// a tap still focuses through a direct pick
	h.ctrl.OnPointerDown(input.PointerEvent{X: 400, Y: 300, Touch: true})
	h.ctrl.OnPointerUp(input.PointerEvent{X: 400, Y: 300, Touch: true})
	assert.Equal(t, 2, h.ctrl.State().FocusedIndex)
}

func TestUpdateInPlaceKeepsCards(t *testing.T) {
	cfg := testConfig(6)
	h := newHarness(t, cfg)
	before := append([]*Card(nil), h.ctrl.cards...)

	cfg.SceneTransform.RotationY = 30
	cfg.Camera.FOV = 55
	cfg.Interaction.FadedOpacity = 0.4
	h.ctrl.Update(cfg)

	assert.Equal(t, before, h.ctrl.cards)
	assert.Equal(t, 6, h.loader.count(), "no new loads")
	for _, card := range before {
		assert.False(t, card.Front.Disposed())
	}

	h.steps(200)
	want := common.EulerDegToQuat(0, 30, 0)
	assert.True(t, h.ctrl.sceneGroup.Rotation().ApproxEqualThreshold(want, 1e-3))
	assert.Equal(t, float32(0.4), h.ctrl.Config().Interaction.FadedOpacity)
}

func TestUpdateStructuralRebuilds(t *testing.T) {
	cfg := testConfig(6)
	h := newHarness(t, cfg)
	old := append([]*Card(nil), h.ctrl.cards...)
	geo := old[0].Node.Geometry()
	h.focusCard(1)

	cfg.Layout.WheelRadius = 5
	h.ctrl.Update(cfg)

	st := h.ctrl.State()
	assert.Equal(t, 6, st.Cards)
	assert.Equal(t, Idle, st.Focus)
	assert.True(t, geo.Disposed())
	for i, card := range old {
		assert.NotSame(t, card, h.ctrl.cards[i])
		assert.True(t, card.Front.Disposed())
		assert.True(t, card.Side.Disposed())
		assert.True(t, h.loader.request(i).cancelled)
		assert.Nil(t, card.Node.Parent())
	}
	require.Equal(t, 12, h.loader.count())
	for i, card := range h.ctrl.cards {
		assert.InDelta(t, 5, card.RestPosition.Len(), 1e-5)
		assert.False(t, h.loader.request(6+i).cancelled)
	}
	assert.Len(t, h.ctrl.spinGroup.Children(), 6)
}

func TestTextureLoad(t *testing.T) {
	h := newHarness(t, testConfig(3))
	tex := texture2x1()
	h.loader.complete(0, tex, nil)

	card := h.ctrl.cards[0]
	assert.Same(t, tex, card.Front.Map())
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, card.Front.BaseColor())
	assert.Equal(t, texture.WrapClampToEdge, tex.Wrap())
	wantRepeat, wantOffset := ComputeFit(FitCover, 1.2/1.6, 2)
	assert.True(t, tex.Repeat().ApproxEqualThreshold(wantRepeat, 1e-6))
	assert.True(t, tex.Offset().ApproxEqualThreshold(wantOffset, 1e-6))

	h.loader.complete(1, nil, errors.New("404"))
	assert.Nil(t, h.ctrl.cards[1].Front.Map())
	assert.Equal(t, placeholderColor, h.ctrl.cards[1].Front.BaseColor())
}

func TestStaleTextureIsReleased(t *testing.T) {
	cfg := testConfig(2)
	h := newHarness(t, cfg)
	cfg.Layout.CardWidth = 1.5
	h.ctrl.Update(cfg)

	late := texture2x1()
	h.loader.complete(0, late, nil)
	assert.True(t, late.Disposed())
	for _, card := range h.ctrl.cards {
		assert.Nil(t, card.Front.Map())
	}
}

func TestDestroyReleasesEverythingOnce(t *testing.T) {
	h := newHarness(t, testConfig(4))
	tex := texture2x1()
	h.loader.complete(0, tex, nil)

	counts := map[string]int{}
	track := func(name string, d common.Disposable) {
		counts[name] = 0
		d.OnDispose(func() { counts[name]++ })
	}
	track("geometry", h.ctrl.cards[0].Node.Geometry())
	track("texture", tex)
	track("renderer", h.renderer)
	for i, card := range h.ctrl.cards {
		track(fmt.Sprintf("front-%d", i), card.Front)
		track(fmt.Sprintf("side-%d", i), card.Side)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ctrl.Destroy()
		}()
	}
	wg.Wait()
	h.ctrl.Destroy()

	for name, n := range counts {
		assert.Equal(t, 1, n, name)
	}
	assert.False(t, h.container.Subscribed())
	assert.Zero(t, h.eng.Pending())
	assert.False(t, h.loader.request(0).cancelled, "a finished load needs no cancel")
	for i := 1; i < 4; i++ {
		assert.True(t, h.loader.request(i).cancelled)
	}
	assert.False(t, h.ctrl.State().Alive)

	// everything after teardown is inert
	renders := h.renderer.renders
	h.ctrl.onFrame(frame)
	h.ctrl.OnPointerDown(input.PointerEvent{X: 400, Y: 300})
	h.ctrl.OnPointerUp(input.PointerEvent{X: 400, Y: 300})
	h.ctrl.OnWheel(&input.WheelEvent{DeltaY: 100})
	h.ctrl.OnKey(input.KeyEvent{Key: common.KeyRight})
	h.ctrl.OnResize(10, 10)
	cfg := testConfig(9)
	h.ctrl.Update(cfg)
	assert.Equal(t, renders, h.renderer.renders)
	assert.Zero(t, h.eng.Pending())
	assert.Zero(t, h.ctrl.State().Coasting)
	assert.Equal(t, 4, h.loader.count())
	assert.Len(t, h.ctrl.Config().Items, 4)
	assert.Empty(t, h.renderer.resizes)
}

func TestTextureAfterDestroyIsReleased(t *testing.T) {
	h := newHarness(t, testConfig(2))
	h.ctrl.Destroy()

	late := texture2x1()
	h.loader.complete(1, late, nil)
	assert.True(t, late.Disposed())
}

func TestResize(t *testing.T) {
	h := newHarness(t, testConfig(4))
	assert.InDelta(t, 600.0/900, h.ctrl.responsive, 1e-6)

	h.ctrl.OnResize(450, 300)
	assert.Equal(t, [][2]int{{450, 300}}, h.renderer.resizes)
	assert.InDelta(t, 0.45, h.ctrl.responsive, 1e-6)
	assert.InDelta(t, 1.5, h.ctrl.cam.Aspect(), 1e-6)

	h.steps(300)
	assert.InDelta(t, 0.45, h.ctrl.sceneGroup.Scale().X(), 1e-3)

	h.ctrl.OnResize(0, 300)
	assert.Len(t, h.renderer.resizes, 1)
}

func TestBloomPostProcess(t *testing.T) {
	cfg := testConfig(2)
	cfg.Effects.EnableBloom = true
	h := newHarness(t, cfg)
	require.Len(t, h.renderer.passes, 1)
	bloom, ok := h.renderer.passes[0].(*postprocess.Bloom)
	require.True(t, ok)
	assert.InDelta(t, 0.6, bloom.Strength, 1e-6)

	cfg.Effects.EnableBloom = false
	h.ctrl.Update(cfg)
	assert.Empty(t, h.renderer.passes)
}

func TestRenderErrorsReachCallback(t *testing.T) {
	container := &fakeContainer{w: 800, h: 600}
	eng := engine.NewEngine()
	r := &fakeRenderer{err: errors.New("device lost")}
	var got []error
	ctrl, err := New(container, testConfig(1),
		WithScheduler(eng),
		WithTextureLoader(&fakeLoader{}),
		WithRendererFactory(func(int, int) (Renderer, error) { return r, nil }),
		WithOnRenderError(func(err error) { got = append(got, err) }),
	)
	require.NoError(t, err)
	defer ctrl.Destroy()

	eng.Step(frame)
	eng.Step(frame)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, eng.Pending(), "the loop keeps running")
}

func TestResizeErrorsReachCallback(t *testing.T) {
	container := &fakeContainer{w: 800, h: 600}
	eng := engine.NewEngine()
	r := &fakeRenderer{resizeErr: errors.New("surface lost")}
	var got []error
	ctrl, err := New(container, testConfig(1),
		WithScheduler(eng),
		WithTextureLoader(&fakeLoader{}),
		WithRendererFactory(func(int, int) (Renderer, error) { return r, nil }),
		WithOnRenderError(func(err error) { got = append(got, err) }),
	)
	require.NoError(t, err)
	defer ctrl.Destroy()

	ctrl.(*controller).OnResize(1200, 600)
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "surface lost")
	assert.Equal(t, [][2]int{{1200, 600}}, r.resizes)

	c := ctrl.(*controller)
	c.mu.Lock()
	assert.Equal(t, 1200, c.width, "the new size is kept even when the backend fails")
	c.mu.Unlock()
}

func TestOverlayPreview(t *testing.T) {
	cfg := testConfig(3)
	cfg.Overlay.Enabled = true
	cfg.Overlay.Preview = true
	cfg.Overlay.Anchor = AnchorTopRight
	h := newHarness(t, cfg)

	require.Len(t, h.overlays, 1)
	assert.Equal(t, OverlayPreview, h.overlays[0].Mode)
	assert.Equal(t, AnchorTopRight, h.overlays[0].Anchor)

	h.steps(5)
	assert.Len(t, h.overlays, 1, "unchanged state is not re-sent")
}
