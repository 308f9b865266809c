package ring

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsStableUnderNormalize(t *testing.T) {
	def := DefaultConfig()
	def.Items = []Item{}
	cfg := DefaultConfig()
	cfg.Normalize()
	assert.Equal(t, def, cfg)
}

func TestNormalizeClampsAndReplaces(t *testing.T) {
	nan := math32.NaN()
	cfg := DefaultConfig()
	cfg.Layout.WheelRadius = -2
	cfg.Layout.CardWidth = 0
	cfg.Layout.BorderRadius = 0.9
	cfg.Layout.CurveSegments = 500
	cfg.Interaction.Friction = 1.5
	cfg.Interaction.FadedOpacity = nan
	cfg.Interaction.FocusSpeed = math32.Inf(1)
	cfg.Camera.FOV = 300
	cfg.Appearance.ImageFit = "zoom"
	cfg.Appearance.SideColor = "not-a-color"
	cfg.Animation.AutoRotateDirection = "sideways"
	cfg.Animation.BendConstraint = "top"
	cfg.Overlay.Anchor = "middle"
	cfg.Responsive.MinScale = -1
	cfg.Normalize()

	def := DefaultConfig()
	assert.Zero(t, cfg.Layout.WheelRadius)
	assert.Equal(t, def.Layout.CardWidth, cfg.Layout.CardWidth)
	assert.Equal(t, float32(0.5), cfg.Layout.BorderRadius)
	assert.Equal(t, 64, cfg.Layout.CurveSegments)
	assert.Equal(t, def.Interaction.Friction, cfg.Interaction.Friction)
	assert.Equal(t, def.Interaction.FadedOpacity, cfg.Interaction.FadedOpacity)
	assert.Equal(t, def.Interaction.FocusSpeed, cfg.Interaction.FocusSpeed)
	assert.Equal(t, float32(120), cfg.Camera.FOV)
	assert.Equal(t, FitCover, cfg.Appearance.ImageFit)
	assert.Equal(t, def.Appearance.SideColor, cfg.Appearance.SideColor)
	assert.Equal(t, Clockwise, cfg.Animation.AutoRotateDirection)
	assert.Equal(t, BendCenter, cfg.Animation.BendConstraint)
	assert.Equal(t, AnchorBottomLeft, cfg.Overlay.Anchor)
	assert.Equal(t, float32(0.01), cfg.Responsive.MinScale)
	assert.NotNil(t, cfg.Items)
}

func TestNormalizeKeepsValidValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Appearance.ImageFit = FitContain
	cfg.Appearance.BackgroundColor = "rgb(10, 20, 30)"
	cfg.Animation.AutoRotateDirection = CounterClockwise
	cfg.Animation.BendConstraint = BendRight
	cfg.Interaction.Friction = 0.8
	cfg.Normalize()

	assert.Equal(t, FitContain, cfg.Appearance.ImageFit)
	assert.Equal(t, "rgb(10, 20, 30)", cfg.Appearance.BackgroundColor)
	assert.Equal(t, CounterClockwise, cfg.Animation.AutoRotateDirection)
	assert.Equal(t, BendRight, cfg.Animation.BendConstraint)
	assert.Equal(t, float32(0.8), cfg.Interaction.Friction)
}

func TestStructural(t *testing.T) {
	base := DefaultConfig()
	base.Items = testItems(4)

	cases := []struct {
		name       string
		mutate     func(*Config)
		structural bool
	}{
		{"identical", func(*Config) {}, false},
		{"scene rotation", func(c *Config) { c.SceneTransform.RotationY = 30 }, false},
		{"camera", func(c *Config) { c.Camera.FOV = 60 }, false},
		{"auto rotate", func(c *Config) { c.Animation.AutoRotate = false }, false},
		{"bend intensity", func(c *Config) { c.Animation.BendIntensity = 1 }, false},
		{"faded opacity", func(c *Config) { c.Interaction.FadedOpacity = 0.5 }, false},
		{"item count", func(c *Config) { c.Items = testItems(5) }, true},
		{"item image", func(c *Config) { c.Items[1].Image = "other.png" }, true},
		{"item tab flag", func(c *Config) { c.Items[2].OpenInNewTab = boolPtr(false) }, true},
		{"radius", func(c *Config) { c.Layout.WheelRadius = 5 }, true},
		{"card size", func(c *Config) { c.Layout.CardHeight = 2 }, true},
		{"card tilt", func(c *Config) { c.Layout.CardTilt = 10 }, true},
		{"image fit", func(c *Config) { c.Appearance.ImageFit = FitFill }, true},
		{"image radius", func(c *Config) { c.Appearance.ImageBorderRadius = 0.2 }, true},
		{"card rotation", func(c *Config) { c.CardTransform.RotationZ = 5 }, true},
		{"bend axis", func(c *Config) { c.Animation.BendConstraint = BendLeft }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := base.Clone()
			tc.mutate(&next)
			assert.Equal(t, tc.structural, base.Structural(next))
		})
	}
}

func TestStructuralTreatsNilTabFlagAsTrue(t *testing.T) {
	a := DefaultConfig()
	a.Items = []Item{{Image: "a.png"}}
	b := a.Clone()
	b.Items[0].OpenInNewTab = boolPtr(true)
	assert.False(t, a.Structural(b))
}

func TestCloneDoesNotAlias(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Items = []Item{{Image: "a.png", OpenInNewTab: boolPtr(true)}}
	cp := cfg.Clone()
	require.Equal(t, cfg, cp)

	cp.Items[0].Image = "b.png"
	*cp.Items[0].OpenInNewTab = false
	assert.Equal(t, "a.png", cfg.Items[0].Image)
	assert.True(t, *cfg.Items[0].OpenInNewTab)
}

func TestRigSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lighting.Key.Color = "#ff0000"
	cfg.Lighting.Key.Intensity = 2
	rig := cfg.Lighting.RigSettings()
	assert.Equal(t, float32(2), rig.Key.Intensity)
	assert.InDelta(t, 1, rig.Key.Color.X(), 1e-6)
	assert.InDelta(t, 0, rig.Key.Color.Y(), 1e-6)
}

func TestIsNavigable(t *testing.T) {
	assert.False(t, IsNavigable(""))
	assert.False(t, IsNavigable("   "))
	assert.False(t, IsNavigable("#"))
	assert.False(t, IsNavigable(" # "))
	assert.True(t, IsNavigable("https://example.com"))
	assert.True(t, IsNavigable("#section"))
}

func TestItemNewTab(t *testing.T) {
	assert.True(t, Item{}.NewTab())
	assert.True(t, Item{OpenInNewTab: boolPtr(true)}.NewTab())
	assert.False(t, Item{OpenInNewTab: boolPtr(false)}.NewTab())
}

func boolPtr(b bool) *bool {
	return &b
}
