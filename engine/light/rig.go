package light

import "github.com/go-gl/mathgl/mgl32"

// Settings describes one light of a Rig.
type Settings struct {
	Intensity float32
	Color     mgl32.Vec3
	Position  mgl32.Vec3
}

// RigSettings describes the full three-point setup plus the ambient fill.
type RigSettings struct {
	Ambient Settings
	Key     Settings
	Fill    Settings
	Rim     Settings
}

// DefaultRigSettings returns a neutral studio setup: a warm key from the upper front right,
// a cool fill from the left, and a rim light from behind.
//
// Returns:
//   - RigSettings: the default settings
func DefaultRigSettings() RigSettings {
	return RigSettings{
		Ambient: Settings{Intensity: 0.55, Color: mgl32.Vec3{1, 1, 1}},
		Key:     Settings{Intensity: 0.8, Color: mgl32.Vec3{1, 0.96, 0.9}, Position: mgl32.Vec3{5, 6, 8}},
		Fill:    Settings{Intensity: 0.35, Color: mgl32.Vec3{0.85, 0.9, 1}, Position: mgl32.Vec3{-6, 2, 6}},
		Rim:     Settings{Intensity: 0.5, Color: mgl32.Vec3{1, 1, 1}, Position: mgl32.Vec3{0, 4, -8}},
	}
}

// Rig is the classic three-point lighting arrangement plus an ambient term.
// The four lights are created once and retuned in place by Apply.
type Rig struct {
	ambient Light
	key     Light
	fill    Light
	rim     Light
}

// NewRig creates the four rig lights from the given settings.
//
// Parameters:
//   - s: the initial settings
//
// Returns:
//   - *Rig: the rig
func NewRig(s RigSettings) *Rig {
	r := &Rig{
		ambient: NewLight(LightTypeAmbient, WithName("ambient")),
		key:     NewLight(LightTypePoint, WithName("key")),
		fill:    NewLight(LightTypePoint, WithName("fill")),
		rim:     NewLight(LightTypePoint, WithName("rim")),
	}
	r.Apply(s)
	return r
}

// Apply retunes every rig light.
//
// Parameters:
//   - s: the new settings
func (r *Rig) Apply(s RigSettings) {
	apply(r.ambient, s.Ambient)
	apply(r.key, s.Key)
	apply(r.fill, s.Fill)
	apply(r.rim, s.Rim)
}

// SetEnabled toggles all four lights.
//
// Parameters:
//   - enabled: true to enable
func (r *Rig) SetEnabled(enabled bool) {
	for _, l := range r.Lights() {
		l.SetEnabled(enabled)
	}
}

// Lights returns the rig lights in ambient, key, fill, rim order.
//
// Returns:
//   - []Light: the lights
func (r *Rig) Lights() []Light {
	return []Light{r.ambient, r.key, r.fill, r.rim}
}

func apply(l Light, s Settings) {
	l.SetIntensity(s.Intensity)
	l.SetColor(s.Color)
	l.SetPosition(s.Position)
}
