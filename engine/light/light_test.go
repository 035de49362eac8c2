package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHemisphereDefaults(t *testing.T) {
	l := NewHemisphereLight()

	assert.Equal(t, LightTypeHemisphere, l.Type())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.InDelta(t, 0xaa/255.0, l.GroundColor()[0], 1e-6)
	assert.Equal(t, float32(1), l.Intensity())
	assert.True(t, l.Direction().ApproxEqual(mgl32.Vec3{0, 1, 1}.Normalize()))
	assert.Equal(t, "hemisphere", l.Type().String())
}

func TestHemisphereIrradiance(t *testing.T) {
	l := NewHemisphereLight(WithPosition(0, 1, 0), WithGroundColor(0, 0, 0))

	assert.True(t, l.Irradiance(mgl32.Vec3{0, 1, 0}).ApproxEqual(mgl32.Vec3{1, 1, 1}))
	assert.True(t, l.Irradiance(mgl32.Vec3{0, -1, 0}).ApproxEqual(mgl32.Vec3{}))
	assert.True(t, l.Irradiance(mgl32.Vec3{1, 0, 0}).ApproxEqual(mgl32.Vec3{0.5, 0.5, 0.5}))

	l.SetEnabled(false)
	assert.Equal(t, mgl32.Vec3{}, l.Irradiance(mgl32.Vec3{0, 1, 0}))
}

func TestDirectionalAndAmbientIrradiance(t *testing.T) {
	d := NewLight(LightTypeDirectional, WithPosition(0, 10, 0), WithIntensity(2))
	assert.True(t, d.Irradiance(mgl32.Vec3{0, 1, 0}).ApproxEqual(mgl32.Vec3{2, 2, 2}))
	assert.Equal(t, mgl32.Vec3{}, d.Irradiance(mgl32.Vec3{0, -1, 0}))

	a := NewLight(LightTypeAmbient, WithColor(0.1, 0.2, 0.3))
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, a.Irradiance(mgl32.Vec3{1, 0, 0}))

	origin := NewLight(LightTypeDirectional, WithPosition(0, 0, 0))
	assert.Equal(t, mgl32.Vec3{}, origin.Direction())
}

func TestMarshalLights(t *testing.T) {
	lights := []Light{
		NewHemisphereLight(),
		NewLight(LightTypeAmbient, WithEnabled(false)),
		nil,
		NewLight(LightTypeDirectional, WithIntensity(3)),
	}
	buf := MarshalLights(lights)
	require.Len(t, buf, UniformSize)

	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint32(LightTypeHemisphere), binary.LittleEndian.Uint32(buf[16+12:]))
	assert.Equal(t, uint32(LightTypeDirectional), binary.LittleEndian.Uint32(buf[64+12:]))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[64+28:])))

	g := GPULight{}
	assert.Equal(t, 48, g.Size())
	h := GPULightHeader{}
	assert.Equal(t, 16, h.Size())
}

func TestMarshalLightsCapsSlots(t *testing.T) {
	var lights []Light
	for range MaxGPULights + 3 {
		lights = append(lights, NewLight(LightTypeAmbient))
	}
	buf := MarshalLights(lights)
	assert.Equal(t, uint32(MaxGPULights), binary.LittleEndian.Uint32(buf[0:4]))
}
