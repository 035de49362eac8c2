package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(2000)
	proj := Perspective(mgl32.DegToRad(50), 16.0/9.0, near, far)

	nearClip := proj.Mul4x1(mgl32.Vec4{0, 0, -near, 1})
	farClip := proj.Mul4x1(mgl32.Vec4{0, 0, -far, 1})

	assert.InDelta(t, 0, nearClip[2]/nearClip[3], 1e-5)
	assert.InDelta(t, 1, farClip[2]/farClip[3], 1e-5)
}

func TestUnprojectRoundTrip(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 25, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	viewProj := Perspective(mgl32.DegToRad(50), 1.5, 0.1, 100).Mul4(view)

	world := mgl32.Vec3{1, 2, -3}
	clip := viewProj.Mul4x1(world.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip[3])

	got := Unproject(ndc, viewProj.Inv())
	assert.True(t, got.ApproxEqualThreshold(world, 1e-2), "got %v", got)
}

func TestModelMatrix(t *testing.T) {
	m := ModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, math.Pi / 2, 0}, mgl32.Vec3{2, 2, 2})

	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{1, 2, 1}, 1e-5), "got %v", p)
}

func TestLerpAndClamp(t *testing.T) {
	a, b := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 4, 6}
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, LerpVec3(a, b, 0.5))
	assert.Equal(t, 0.0, Clamp01(-1))
	assert.Equal(t, 1.0, Clamp01(3))
	assert.Equal(t, 0.25, Clamp01(0.25))
}

func TestFrustumIntersectsAABB(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustum(Perspective(mgl32.DegToRad(60), 1, 0.1, 100).Mul4(view))

	assert.True(t, f.IntersectsAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	assert.False(t, f.IntersectsAABB(mgl32.Vec3{-1, -1, 20}, mgl32.Vec3{1, 1, 22}), "behind the camera")
	assert.False(t, f.IntersectsAABB(mgl32.Vec3{500, -1, -1}, mgl32.Vec3{502, 1, 1}), "far to the right")
}

func TestHexColorAndCoalesce(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, HexColor(0xffffff))
	assert.InDelta(t, float32(0xaa)/255, HexColor(0xaaaaaa)[1], 1e-6)
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestChooseAndSamplerFlags(t *testing.T) {
	assert.Equal(t, 0, Choose(true, 0, 7), "an explicit zero wins")
	assert.Equal(t, 7, Choose(false, 3, 7))

	s := SamplerStagingData{Set: SamplerMagFilter | SamplerLodMaxClamp}
	assert.True(t, s.Has(SamplerMagFilter))
	assert.True(t, s.Has(SamplerLodMaxClamp))
	assert.False(t, s.Has(SamplerMinFilter))
	assert.False(t, SamplerStagingData{}.Has(SamplerAddressModeU))
}
