package light

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeHemisphere blends from a sky colour overhead to a ground colour below.
	// Fragments facing along Direction receive the sky colour, fragments facing away the ground colour.
	LightTypeHemisphere LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// Affects all fragments uniformly with no distance attenuation.
	LightTypeDirectional

	// LightTypeAmbient lights every fragment equally regardless of orientation.
	LightTypeAmbient
)

func (t LightType) String() string {
	switch t {
	case LightTypeHemisphere:
		return "hemisphere"
	case LightTypeDirectional:
		return "directional"
	case LightTypeAmbient:
		return "ambient"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType   LightType
	position    mgl32.Vec3
	color       mgl32.Vec3
	groundColor mgl32.Vec3
	intensity   float32
	enabled     bool
}

// Light defines the interface for a light source in the scene.
//
// Directional and hemisphere lights shine from Position toward the origin, so only the direction of
// Position matters. Lights are marshaled into the renderer's light uniform each frame via the gpu_types helpers.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the normalized direction pointing from the origin toward the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - mgl32.Vec3: the unit direction, or zero if Position is the origin
	Direction() mgl32.Vec3

	// Color returns the RGB colour of the light. For hemisphere lights this is the sky colour.
	//
	// Returns:
	//   - mgl32.Vec3: the colour
	Color() mgl32.Vec3

	// GroundColor returns the hemisphere ground colour. Zero for other light types.
	//
	// Returns:
	//   - mgl32.Vec3: the ground colour
	GroundColor() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// Irradiance returns the light reaching a surface with the given normal. It mirrors the scene shader.
	//
	// Parameters:
	//   - normal: unit surface normal
	//
	// Returns:
	//   - mgl32.Vec3: the incoming light colour
	Irradiance(normal mgl32.Vec3) mgl32.Vec3

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - p: the position
	SetPosition(p mgl32.Vec3)

	// SetColor sets the RGB colour (sky colour for hemisphere lights).
	//
	// Parameters:
	//   - c: the colour
	SetColor(c mgl32.Vec3)

	// SetGroundColor sets the hemisphere ground colour.
	//
	// Parameters:
	//   - c: the colour
	SetGroundColor(c mgl32.Vec3)

	// SetIntensity sets the scalar intensity multiplier.
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

// NewLight creates a new Light of the specified type: white, intensity 1, directly overhead.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		position:  mgl32.Vec3{0, 1, 0},
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewHemisphereLight creates the view's default light: a white sky over a light-gray (0xaaaaaa) ground
// at intensity 1, shining from normalize(0, 1, 1).
//
// Parameters:
//   - opts: options applied after the defaults
//
// Returns:
//   - Light: the hemisphere light
func NewHemisphereLight(opts ...LightBuilderOption) Light {
	defaults := []LightBuilderOption{
		WithColor(1, 1, 1),
		WithGroundColor(0xaa/255.0, 0xaa/255.0, 0xaa/255.0),
		WithIntensity(1),
		WithPosition(0, 1, 1),
	}
	return NewLight(LightTypeHemisphere, append(defaults, opts...)...)
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	if l.position.LenSqr() == 0 {
		return mgl32.Vec3{}
	}
	return l.position.Normalize()
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) GroundColor() mgl32.Vec3 {
	return l.groundColor
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) Irradiance(normal mgl32.Vec3) mgl32.Vec3 {
	if !l.enabled {
		return mgl32.Vec3{}
	}
	switch l.lightType {
	case LightTypeHemisphere:
		w := 0.5*normal.Dot(l.Direction()) + 0.5
		return lerp(l.groundColor, l.color, w).Mul(l.intensity)
	case LightTypeDirectional:
		return l.color.Mul(max(normal.Dot(l.Direction()), 0) * l.intensity)
	default:
		return l.color.Mul(l.intensity)
	}
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.position = p
}

func (l *lightImpl) SetColor(c mgl32.Vec3) {
	l.color = c
}

func (l *lightImpl) SetGroundColor(c mgl32.Vec3) {
	l.groundColor = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
