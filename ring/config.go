package ring

import (
	"log"
	"slices"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
)

// ImageFit selects how an image is reconciled with the card's aspect ratio.
type ImageFit string

const (
	// FitCover crops the image so it fills the card.
	FitCover ImageFit = "cover"
	// FitContain letterboxes or pillarboxes the image so all of it is visible.
	FitContain ImageFit = "fit"
	// FitFill stretches the image to the card.
	FitFill ImageFit = "fill"
)

// RotateDirection is the auto-rotate direction seen from above.
type RotateDirection string

const (
	Clockwise        RotateDirection = "cw"
	CounterClockwise RotateDirection = "ccw"
)

// BendConstraint picks the vertical edge a card pivots around when it bends.
type BendConstraint string

const (
	BendCenter BendConstraint = "center"
	BendLeft   BendConstraint = "left"
	BendRight  BendConstraint = "right"
)

// LayoutConfig sizes the ring and its cards. Lengths are in world units.
type LayoutConfig struct {
	WheelRadius float32 `yaml:"wheelRadius" toml:"wheelRadius" json:"wheelRadius"`
	CardWidth   float32 `yaml:"cardWidth" toml:"cardWidth" json:"cardWidth"`
	CardHeight  float32 `yaml:"cardHeight" toml:"cardHeight" json:"cardHeight"`
	CardDepth   float32 `yaml:"cardDepth" toml:"cardDepth" json:"cardDepth"`
	// BorderRadius is the panel corner radius as a fraction of min(CardWidth, CardHeight).
	BorderRadius  float32 `yaml:"borderRadius" toml:"borderRadius" json:"borderRadius"`
	CurveSegments int     `yaml:"curveSegments" toml:"curveSegments" json:"curveSegments"`
	// CardTilt leans every card about its horizontal axis, in degrees.
	CardTilt float32 `yaml:"cardTilt" toml:"cardTilt" json:"cardTilt"`
}

// TransformConfig places the whole ring. Rotations are in degrees; RotationX is the tilt.
type TransformConfig struct {
	Scale     float32 `yaml:"scale" toml:"scale" json:"scale"`
	PositionX float32 `yaml:"positionX" toml:"positionX" json:"positionX"`
	PositionY float32 `yaml:"positionY" toml:"positionY" json:"positionY"`
	PositionZ float32 `yaml:"positionZ" toml:"positionZ" json:"positionZ"`
	RotationX float32 `yaml:"rotationX" toml:"rotationX" json:"rotationX"`
	RotationY float32 `yaml:"rotationY" toml:"rotationY" json:"rotationY"`
	RotationZ float32 `yaml:"rotationZ" toml:"rotationZ" json:"rotationZ"`
}

// RotationConfig is a per-card rotation offset in degrees.
type RotationConfig struct {
	RotationX float32 `yaml:"rotationX" toml:"rotationX" json:"rotationX"`
	RotationY float32 `yaml:"rotationY" toml:"rotationY" json:"rotationY"`
	RotationZ float32 `yaml:"rotationZ" toml:"rotationZ" json:"rotationZ"`
}

// AppearanceConfig holds colors and image presentation.
type AppearanceConfig struct {
	BackgroundColor string   `yaml:"backgroundColor" toml:"backgroundColor" json:"backgroundColor"`
	ImageFit        ImageFit `yaml:"imageFit" toml:"imageFit" json:"imageFit"`
	// ImageBorderRadius overrides the image corner radius as a fraction; 0 uses the layout radius.
	ImageBorderRadius float32 `yaml:"imageBorderRadius" toml:"imageBorderRadius" json:"imageBorderRadius"`
	SideColor         string  `yaml:"sideColor" toml:"sideColor" json:"sideColor"`
}

// InteractionConfig tunes input response and the hover/focus animations.
type InteractionConfig struct {
	EnableScroll bool `yaml:"enableScroll" toml:"enableScroll" json:"enableScroll"`
	EnableHover  bool `yaml:"enableHover" toml:"enableHover" json:"enableHover"`
	// DragSensitivity is radians of spin per pixel of horizontal drag.
	DragSensitivity float32 `yaml:"dragSensitivity" toml:"dragSensitivity" json:"dragSensitivity"`
	// FlickSensitivity converts release velocity in pixels per event into radians per frame.
	FlickSensitivity  float32 `yaml:"flickSensitivity" toml:"flickSensitivity" json:"flickSensitivity"`
	ScrollSensitivity float32 `yaml:"scrollSensitivity" toml:"scrollSensitivity" json:"scrollSensitivity"`
	FocusSpeed        float32 `yaml:"focusSpeed" toml:"focusSpeed" json:"focusSpeed"`
	// HoverScale multiplies the hovered card's resting radial distance.
	HoverScale    float32 `yaml:"hoverScale" toml:"hoverScale" json:"hoverScale"`
	HoverOffsetY  float32 `yaml:"hoverOffsetY" toml:"hoverOffsetY" json:"hoverOffsetY"`
	HoverSlideOut float32 `yaml:"hoverSlideOut" toml:"hoverSlideOut" json:"hoverSlideOut"`
	// HoverTilt is in degrees.
	HoverTilt float32 `yaml:"hoverTilt" toml:"hoverTilt" json:"hoverTilt"`
	// ClickThreshold is the largest pointer travel in pixels that still counts as a click.
	ClickThreshold float32 `yaml:"clickThreshold" toml:"clickThreshold" json:"clickThreshold"`
	// Friction multiplies the coasting speed once per frame.
	Friction float32 `yaml:"friction" toml:"friction" json:"friction"`
	// StopEpsilon is the coasting speed in radians per frame below which the ring stops.
	StopEpsilon          float32 `yaml:"stopEpsilon" toml:"stopEpsilon" json:"stopEpsilon"`
	FadedOpacity         float32 `yaml:"fadedOpacity" toml:"fadedOpacity" json:"fadedOpacity"`
	HoverGlow            float32 `yaml:"hoverGlow" toml:"hoverGlow" json:"hoverGlow"`
	ParallaxStrength     float32 `yaml:"parallaxStrength" toml:"parallaxStrength" json:"parallaxStrength"`
	Smoothing            float32 `yaml:"smoothing" toml:"smoothing" json:"smoothing"`
	FrameRateIndependent bool    `yaml:"frameRateIndependent" toml:"frameRateIndependent" json:"frameRateIndependent"`
	// KeyboardNudge is the coasting speed in radians per frame added by an arrow key.
	KeyboardNudge float32 `yaml:"keyboardNudge" toml:"keyboardNudge" json:"keyboardNudge"`
	// FocusDistance is how far in front of the camera a focused card is presented.
	FocusDistance float32 `yaml:"focusDistance" toml:"focusDistance" json:"focusDistance"`
}

// AnimationConfig drives auto-rotation and card bending.
type AnimationConfig struct {
	AutoRotate          bool            `yaml:"autoRotate" toml:"autoRotate" json:"autoRotate"`
	AutoRotateDirection RotateDirection `yaml:"autoRotateDirection" toml:"autoRotateDirection" json:"autoRotateDirection"`
	// AutoRotateSpeed is in degrees per second.
	AutoRotateSpeed float32 `yaml:"autoRotateSpeed" toml:"autoRotateSpeed" json:"autoRotateSpeed"`
	// BendIntensity scales ring angular velocity in rad/s into the bend target angle.
	BendIntensity float32 `yaml:"bendIntensity" toml:"bendIntensity" json:"bendIntensity"`
	// BendRange caps the bend angle, in degrees.
	BendRange      float32        `yaml:"bendRange" toml:"bendRange" json:"bendRange"`
	BendConstraint BendConstraint `yaml:"bendConstraint" toml:"bendConstraint" json:"bendConstraint"`
	// BendStiffness is the spring's angular frequency.
	BendStiffness float32 `yaml:"bendStiffness" toml:"bendStiffness" json:"bendStiffness"`
	// BendDamping is the spring's damping ratio.
	BendDamping float32 `yaml:"bendDamping" toml:"bendDamping" json:"bendDamping"`
}

// EffectsConfig controls the bloom pass.
type EffectsConfig struct {
	EnableBloom    bool    `yaml:"enableBloom" toml:"enableBloom" json:"enableBloom"`
	BloomStrength  float32 `yaml:"bloomStrength" toml:"bloomStrength" json:"bloomStrength"`
	BloomRadius    float32 `yaml:"bloomRadius" toml:"bloomRadius" json:"bloomRadius"`
	BloomThreshold float32 `yaml:"bloomThreshold" toml:"bloomThreshold" json:"bloomThreshold"`
}

// LightConfig is one light of the three-point rig. Ambient ignores Position.
type LightConfig struct {
	Intensity float32    `yaml:"intensity" toml:"intensity" json:"intensity"`
	Color     string     `yaml:"color" toml:"color" json:"color"`
	Position  [3]float32 `yaml:"position" toml:"position" json:"position"`
}

// LightingConfig is the ambient term plus the key, fill and rim lights.
type LightingConfig struct {
	EnableLighting bool        `yaml:"enableLighting" toml:"enableLighting" json:"enableLighting"`
	Ambient        LightConfig `yaml:"ambient" toml:"ambient" json:"ambient"`
	Key            LightConfig `yaml:"key" toml:"key" json:"key"`
	Fill           LightConfig `yaml:"fill" toml:"fill" json:"fill"`
	Rim            LightConfig `yaml:"rim" toml:"rim" json:"rim"`
}

// CameraConfig places the camera relative to the ring center.
type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV      float32 `yaml:"fov" toml:"fov" json:"fov"`
	Distance float32 `yaml:"distance" toml:"distance" json:"distance"`
	Height   float32 `yaml:"height" toml:"height" json:"height"`
}

// PlatformConfig describes host capabilities.
type PlatformConfig struct {
	// IsTouchPrimary disables hover feedback on hosts whose primary pointer cannot hover.
	IsTouchPrimary bool `yaml:"isTouchPrimary" toml:"isTouchPrimary" json:"isTouchPrimary"`
}

// Padding is an inset in pixels.
type Padding struct {
	Top    float32 `yaml:"top" toml:"top" json:"top"`
	Right  float32 `yaml:"right" toml:"right" json:"right"`
	Bottom float32 `yaml:"bottom" toml:"bottom" json:"bottom"`
	Left   float32 `yaml:"left" toml:"left" json:"left"`
}

// OverlayConfig configures the label panel hosts draw next to the ring.
type OverlayConfig struct {
	Enabled bool    `yaml:"enabled" toml:"enabled" json:"enabled"`
	Anchor  Anchor  `yaml:"anchor" toml:"anchor" json:"anchor"`
	Padding Padding `yaml:"padding" toml:"padding" json:"padding"`
	// Preview keeps the panel visible with the first item, for design-time hosts.
	Preview bool `yaml:"preview" toml:"preview" json:"preview"`
}

// ResponsiveConfig shrinks the ring in small containers.
type ResponsiveConfig struct {
	// ReferenceSize is the container edge in pixels at which the ring is drawn at full scale.
	ReferenceSize float32 `yaml:"referenceSize" toml:"referenceSize" json:"referenceSize"`
	MinScale      float32 `yaml:"minScale" toml:"minScale" json:"minScale"`
}

// Config is a complete configuration snapshot for a Controller.
type Config struct {
	Items          []Item            `yaml:"items" toml:"items" json:"items"`
	Layout         LayoutConfig      `yaml:"layout" toml:"layout" json:"layout"`
	SceneTransform TransformConfig   `yaml:"sceneTransform" toml:"sceneTransform" json:"sceneTransform"`
	CardTransform  RotationConfig    `yaml:"cardTransform" toml:"cardTransform" json:"cardTransform"`
	Appearance     AppearanceConfig  `yaml:"appearance" toml:"appearance" json:"appearance"`
	Interaction    InteractionConfig `yaml:"interaction" toml:"interaction" json:"interaction"`
	Animation      AnimationConfig   `yaml:"animation" toml:"animation" json:"animation"`
	Effects        EffectsConfig     `yaml:"effects" toml:"effects" json:"effects"`
	Lighting       LightingConfig    `yaml:"lighting" toml:"lighting" json:"lighting"`
	Camera         CameraConfig      `yaml:"camera" toml:"camera" json:"camera"`
	Platform       PlatformConfig    `yaml:"platform" toml:"platform" json:"platform"`
	Overlay        OverlayConfig     `yaml:"overlay" toml:"overlay" json:"overlay"`
	Responsive     ResponsiveConfig  `yaml:"responsive" toml:"responsive" json:"responsive"`
}

// DefaultConfig returns the configuration every missing or invalid option falls back to.
//
// Returns:
//   - Config: the defaults, with no items
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			WheelRadius:   3.5,
			CardWidth:     1.2,
			CardHeight:    1.6,
			CardDepth:     0.02,
			BorderRadius:  0.06,
			CurveSegments: 8,
		},
		SceneTransform: TransformConfig{Scale: 1},
		Appearance: AppearanceConfig{
			BackgroundColor: "#0d0d12",
			ImageFit:        FitCover,
			SideColor:       "#1a1a1a",
		},
		Interaction: InteractionConfig{
			EnableScroll:         true,
			EnableHover:          true,
			DragSensitivity:      0.005,
			FlickSensitivity:     0.01,
			ScrollSensitivity:    0.0008,
			FocusSpeed:           0.1,
			HoverScale:           1.06,
			HoverOffsetY:         0.08,
			HoverSlideOut:        0.15,
			HoverTilt:            6,
			ClickThreshold:       6,
			Friction:             0.95,
			StopEpsilon:          1e-4,
			FadedOpacity:         0.15,
			HoverGlow:            0.4,
			ParallaxStrength:     0.35,
			Smoothing:            0.1,
			FrameRateIndependent: true,
			KeyboardNudge:        0.04,
			FocusDistance:        2.6,
		},
		Animation: AnimationConfig{
			AutoRotate:          true,
			AutoRotateDirection: Clockwise,
			AutoRotateSpeed:     8,
			BendIntensity:       0.12,
			BendRange:           20,
			BendConstraint:      BendCenter,
			BendStiffness:       7,
			BendDamping:         0.45,
		},
		Effects: EffectsConfig{
			BloomStrength:  0.6,
			BloomRadius:    6,
			BloomThreshold: 0.75,
		},
		Lighting: defaultLighting(),
		Camera: CameraConfig{
			FOV:      40,
			Distance: 9.5,
			Height:   0.6,
		},
		Overlay: OverlayConfig{
			Anchor:  AnchorBottomLeft,
			Padding: Padding{Top: 24, Right: 24, Bottom: 24, Left: 24},
		},
		Responsive: ResponsiveConfig{
			ReferenceSize: 900,
			MinScale:      0.45,
		},
	}
}

func defaultLighting() LightingConfig {
	rig := light.DefaultRigSettings()
	conv := func(s light.Settings) LightConfig {
		return LightConfig{
			Intensity: s.Intensity,
			Color:     hexColor(s.Color),
			Position:  [3]float32(s.Position),
		}
	}
	return LightingConfig{
		EnableLighting: true,
		Ambient:        conv(rig.Ambient),
		Key:            conv(rig.Key),
		Fill:           conv(rig.Fill),
		Rim:            conv(rig.Rim),
	}
}

// Normalize clamps every option into its valid range, replacing values that cannot be clamped
// with their defaults. It never fails; each replacement is logged.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Items == nil {
		c.Items = []Item{}
	}

	l := &c.Layout
	l.WheelRadius = atLeast(l.WheelRadius, 0, def.Layout.WheelRadius)
	l.CardWidth = positive(l.CardWidth, def.Layout.CardWidth)
	l.CardHeight = positive(l.CardHeight, def.Layout.CardHeight)
	l.CardDepth = atLeast(l.CardDepth, 0, def.Layout.CardDepth)
	l.BorderRadius = clampFinite(l.BorderRadius, 0, 0.5, def.Layout.BorderRadius)
	l.CurveSegments = common.ClampOr(l.CurveSegments, 1, 64, def.Layout.CurveSegments)
	l.CardTilt = clampFinite(l.CardTilt, -90, 90, 0)

	st := &c.SceneTransform
	st.Scale = positive(st.Scale, def.SceneTransform.Scale)
	st.PositionX = finite(st.PositionX, 0)
	st.PositionY = finite(st.PositionY, 0)
	st.PositionZ = finite(st.PositionZ, 0)
	st.RotationX = finite(st.RotationX, 0)
	st.RotationY = finite(st.RotationY, 0)
	st.RotationZ = finite(st.RotationZ, 0)

	ct := &c.CardTransform
	ct.RotationX = finite(ct.RotationX, 0)
	ct.RotationY = finite(ct.RotationY, 0)
	ct.RotationZ = finite(ct.RotationZ, 0)

	a := &c.Appearance
	a.BackgroundColor = validColor(a.BackgroundColor, def.Appearance.BackgroundColor)
	a.SideColor = validColor(a.SideColor, def.Appearance.SideColor)
	if !slices.Contains([]ImageFit{FitCover, FitContain, FitFill}, a.ImageFit) {
		if a.ImageFit != "" {
			log.Printf("[ring] unknown image fit %q, using %q", a.ImageFit, def.Appearance.ImageFit)
		}
		a.ImageFit = def.Appearance.ImageFit
	}
	a.ImageBorderRadius = clampFinite(a.ImageBorderRadius, 0, 0.5, 0)

	in, di := &c.Interaction, def.Interaction
	in.DragSensitivity = atLeast(in.DragSensitivity, 0, di.DragSensitivity)
	in.FlickSensitivity = atLeast(in.FlickSensitivity, 0, di.FlickSensitivity)
	in.ScrollSensitivity = atLeast(in.ScrollSensitivity, 0, di.ScrollSensitivity)
	in.FocusSpeed = clampFinite(in.FocusSpeed, 0.001, 1, di.FocusSpeed)
	in.HoverScale = positive(in.HoverScale, di.HoverScale)
	in.HoverOffsetY = finite(in.HoverOffsetY, di.HoverOffsetY)
	in.HoverSlideOut = finite(in.HoverSlideOut, di.HoverSlideOut)
	in.HoverTilt = clampFinite(in.HoverTilt, -90, 90, di.HoverTilt)
	in.ClickThreshold = atLeast(in.ClickThreshold, 0, di.ClickThreshold)
	if !(in.Friction > 0 && in.Friction < 1) {
		in.Friction = di.Friction
	}
	in.StopEpsilon = positive(in.StopEpsilon, di.StopEpsilon)
	in.FadedOpacity = clampFinite(in.FadedOpacity, 0, 1, di.FadedOpacity)
	in.HoverGlow = atLeast(in.HoverGlow, 0, di.HoverGlow)
	in.ParallaxStrength = atLeast(in.ParallaxStrength, 0, di.ParallaxStrength)
	in.Smoothing = clampFinite(in.Smoothing, 0.001, 1, di.Smoothing)
	in.KeyboardNudge = atLeast(in.KeyboardNudge, 0, di.KeyboardNudge)
	in.FocusDistance = positive(in.FocusDistance, di.FocusDistance)

	an, da := &c.Animation, def.Animation
	if an.AutoRotateDirection != Clockwise && an.AutoRotateDirection != CounterClockwise {
		an.AutoRotateDirection = da.AutoRotateDirection
	}
	an.AutoRotateSpeed = atLeast(an.AutoRotateSpeed, 0, da.AutoRotateSpeed)
	an.BendIntensity = atLeast(an.BendIntensity, 0, da.BendIntensity)
	an.BendRange = clampFinite(an.BendRange, 0, 90, da.BendRange)
	if !slices.Contains([]BendConstraint{BendCenter, BendLeft, BendRight}, an.BendConstraint) {
		an.BendConstraint = da.BendConstraint
	}
	an.BendStiffness = positive(an.BendStiffness, da.BendStiffness)
	an.BendDamping = atLeast(an.BendDamping, 0, da.BendDamping)

	e := &c.Effects
	e.BloomStrength = atLeast(e.BloomStrength, 0, def.Effects.BloomStrength)
	e.BloomRadius = atLeast(e.BloomRadius, 0, def.Effects.BloomRadius)
	e.BloomThreshold = clampFinite(e.BloomThreshold, 0, 1, def.Effects.BloomThreshold)

	lg, dl := &c.Lighting, def.Lighting
	normalizeLight(&lg.Ambient, dl.Ambient)
	normalizeLight(&lg.Key, dl.Key)
	normalizeLight(&lg.Fill, dl.Fill)
	normalizeLight(&lg.Rim, dl.Rim)

	cam := &c.Camera
	cam.FOV = clampFinite(cam.FOV, 10, 120, def.Camera.FOV)
	cam.Distance = positive(cam.Distance, def.Camera.Distance)
	cam.Height = finite(cam.Height, def.Camera.Height)

	o := &c.Overlay
	if !o.Anchor.Valid() {
		o.Anchor = def.Overlay.Anchor
	}
	o.Padding.Top = atLeast(o.Padding.Top, 0, 0)
	o.Padding.Right = atLeast(o.Padding.Right, 0, 0)
	o.Padding.Bottom = atLeast(o.Padding.Bottom, 0, 0)
	o.Padding.Left = atLeast(o.Padding.Left, 0, 0)

	r := &c.Responsive
	r.ReferenceSize = positive(r.ReferenceSize, def.Responsive.ReferenceSize)
	r.MinScale = clampFinite(r.MinScale, 0.01, 1, def.Responsive.MinScale)
}

func normalizeLight(l *LightConfig, def LightConfig) {
	l.Intensity = atLeast(l.Intensity, 0, def.Intensity)
	l.Color = validColor(l.Color, def.Color)
	for i := range l.Position {
		l.Position[i] = finite(l.Position[i], def.Position[i])
	}
}

// Clone returns a deep copy, so the caller's item slice and flags cannot alias the copy.
//
// Returns:
//   - Config: the copy
func (c Config) Clone() Config {
	var out Config
	if err := copier.CopyWithOption(&out, &c, copier.Option{DeepCopy: true}); err != nil {
		log.Printf("[ring] config copy failed, falling back to shallow copy: %v", err)
		out = c
		out.Items = slices.Clone(c.Items)
	}
	return out
}

// Structural reports whether switching from c to next changes the number, shape, placement,
// image fitting or bend axis of the cards. Such a change rebuilds every card; anything else is
// animated in place.
//
// Parameters:
//   - next: the incoming configuration
//
// Returns:
//   - bool: true if the cards must be rebuilt
func (c Config) Structural(next Config) bool {
	if len(c.Items) != len(next.Items) {
		return true
	}
	for i := range c.Items {
		if !sameItem(c.Items[i], next.Items[i]) {
			return true
		}
	}
	return c.Layout != next.Layout ||
		c.Appearance.ImageBorderRadius != next.Appearance.ImageBorderRadius ||
		c.Appearance.ImageFit != next.Appearance.ImageFit ||
		c.CardTransform != next.CardTransform ||
		c.Animation.BendConstraint != next.Animation.BendConstraint
}

// RigSettings converts the lighting options into light rig settings.
//
// Returns:
//   - light.RigSettings: the parsed settings
func (lc LightingConfig) RigSettings() light.RigSettings {
	conv := func(l LightConfig) light.Settings {
		col, err := common.ParseColor(l.Color)
		if err != nil {
			col = mgl32.Vec4{1, 1, 1, 1}
		}
		return light.Settings{Intensity: l.Intensity, Color: col.Vec3(), Position: mgl32.Vec3(l.Position)}
	}
	return light.RigSettings{
		Ambient: conv(lc.Ambient),
		Key:     conv(lc.Key),
		Fill:    conv(lc.Fill),
		Rim:     conv(lc.Rim),
	}
}

func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

func finite(v, def float32) float32 {
	if !isFinite(v) {
		return def
	}
	return v
}

func positive(v, def float32) float32 {
	if !isFinite(v) || v <= 0 {
		return def
	}
	return v
}

// atLeast clamps v up to lo; only non-finite values fall back to def.
func atLeast(v, lo, def float32) float32 {
	if !isFinite(v) {
		return def
	}
	return max(v, lo)
}

func clampFinite(v, lo, hi, def float32) float32 {
	if !isFinite(v) {
		return def
	}
	return mgl32.Clamp(v, lo, hi)
}

func validColor(s, def string) string {
	if _, err := common.ParseColor(s); err != nil {
		if s != "" {
			log.Printf("[ring] %v, using %q", err, def)
		}
		return def
	}
	return s
}

func hexColor(c mgl32.Vec3) string {
	rgba := common.ToNRGBA(c.Vec4(1))
	const digits = "0123456789abcdef"
	out := []byte{'#'}
	for _, b := range rgba[:3] {
		out = append(out, digits[b>>4], digits[b&0x0f])
	}
	return string(out)
}
