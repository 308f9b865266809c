package light

import "github.com/go-gl/mathgl/mgl32"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient represents uniform light with no position or direction.
	// Every lit fragment receives color * intensity regardless of its normal.
	LightTypeAmbient LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Card scenes are small, so point lights do not attenuate with distance.
	LightTypePoint

	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources. The stored vector is the direction the light travels.
	LightTypeDirectional
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypePoint:
		return "point"
	case LightTypeDirectional:
		return "directional"
	}
	return "unknown"
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	name      string
	lightType LightType
	position  mgl32.Vec3
	color     mgl32.Vec3
	intensity float32
	enabled   bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are scene-level entities that contribute to the final pixel color
// of lit materials. All light types share this interface; the position is
// meaningless for ambient lights and holds the travel direction for
// directional lights.
//
// Lights are marshaled into the per-frame uniform via the gpu_types helpers.
type Light interface {
	// Name returns the light's label, used in logs.
	//
	// Returns:
	//   - string: the light name
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of a point light, or the travel
	// direction of a directional light.
	//
	// Returns:
	//   - mgl32.Vec3: the position or direction
	Position() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the world-space position, or direction for directional lights.
	//
	// Parameters:
	//   - pos: position or direction
	SetPosition(pos mgl32.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - c: color components
	SetColor(c mgl32.Vec3)

	// SetIntensity sets the scalar intensity multiplier. Negative values clamp to 0.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		name:      lightType.String(),
		lightType: lightType,
		position:  mgl32.Vec3{0, 0, 0},
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
	}
	if lightType == LightTypeDirectional {
		l.position = mgl32.Vec3{0, -1, 0}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(pos mgl32.Vec3) {
	l.position = pos
}

func (l *lightImpl) SetColor(c mgl32.Vec3) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
