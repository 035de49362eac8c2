package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.InDelta(t, 50*math.Pi/180, c.Fov(), 1e-6)
	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(2000), c.Far())
	assert.Equal(t, mgl32.Vec3{0, 25, 5}, c.Position())
	assert.Equal(t, mgl32.Vec3{}, c.Target())
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(2))
	before := c.ProjectionMatrix()

	c.SetAspect(0)
	c.SetAspect(-1)
	c.SetAspect(float32(math.Inf(1)))
	assert.Equal(t, float32(2), c.Aspect())
	assert.Equal(t, before, c.ProjectionMatrix())

	c.SetAspect(0.5)
	assert.Equal(t, float32(0.5), c.Aspect())
	assert.NotEqual(t, before, c.ProjectionMatrix())
}

func TestCenterRayLooksAtTarget(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10), WithAspect(16.0/9.0))

	r := c.Ray(0, 0)
	assert.True(t, r.Origin.ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-5))
	assert.True(t, r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4), "got %v", r.Direction)

	right := c.Ray(1, 0)
	assert.Greater(t, right.Direction.X(), float32(0))
	up := c.Ray(0, 1)
	assert.Greater(t, up.Direction.Y(), float32(0))
}

func TestViewProjectionIsProjectionTimesView(t *testing.T) {
	c := NewCamera(WithPosition(3, 4, 5), WithTarget(1, 0, 0), WithClipPlanes(0.5, 100))
	want := common.Perspective(c.Fov(), c.Aspect(), 0.5, 100).Mul4(mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}))
	assert.True(t, c.ViewProjectionMatrix().ApproxEqualThreshold(want, 1e-5))
	assert.True(t, c.ViewProjectionMatrix().Mul4(c.InverseViewProjectionMatrix()).ApproxEqualThreshold(mgl32.Ident4(), 1e-3))
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera()
	u := c.Uniform()

	buf := u.Marshal()
	require.Len(t, buf, 96)
	assert.Equal(t, math.Float32bits(u.ViewProj[0]), uint32(buf[0])|uint32(buf[1])<<8|uint32(buf[2])<<16|uint32(buf[3])<<24)
	assert.Equal(t, math.Float32bits(25), uint32(buf[68])|uint32(buf[69])<<8|uint32(buf[70])<<16|uint32(buf[71])<<24)
}

func TestControllerUpdateWithoutInputKeepsPosition(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController(c, WithDamping(0))

	assert.False(t, cc.Update(0.016))
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 25, 5}, 1e-4))
}

func TestControllerSyncRespectsExternalPosition(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController(c)

	c.SetPosition(mgl32.Vec3{10, 3, -4})
	cc.Sync()
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{10, 3, -4}, 1e-4), "got %v", c.Position())
}

func TestControllerRotate(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController(c, WithDamping(0))
	cc.SetViewport(200, 100)
	dist := cc.Distance()

	cc.Rotate(25, 0)
	require.True(t, cc.Update(0))

	p := c.Position()
	assert.InDelta(t, 25, p.Y(), 1e-3)
	assert.InDelta(t, -5, p.X(), 1e-3)
	assert.InDelta(t, 0, p.Z(), 1e-3)
	assert.InDelta(t, dist, cc.Distance(), 1e-3)
}

func TestControllerZoomAndBounds(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))
	cc := NewCameraController(c, WithDamping(0), WithDistanceBounds(5, 20))

	cc.Zoom(1)
	cc.Update(0)
	assert.InDelta(t, 9.5, cc.Distance(), 1e-4)

	cc.Zoom(100)
	cc.Update(0)
	assert.InDelta(t, 5, cc.Distance(), 1e-4)

	cc.Zoom(-1000)
	cc.Update(0)
	assert.InDelta(t, 20, cc.Distance(), 1e-3)

	lo, hi := cc.DistanceBounds()
	assert.Equal(t, float32(5), lo)
	assert.Equal(t, float32(20), hi)
}

func TestControllerPanMovesTargetAndPosition(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))
	cc := NewCameraController(c, WithDamping(0))
	cc.SetViewport(100, 100)

	cc.Pan(10, 0)
	cc.Update(0)

	target := c.Target()
	assert.Less(t, target.X(), float32(0), "dragging right moves the scene right, so the target moves left")
	assert.InDelta(t, 0, target.Y(), 1e-5)
	assert.True(t, c.Position().Sub(target).ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-4))
}

func TestControllerPanKey(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))
	cc := NewCameraController(c, WithDamping(0))
	cc.SetViewport(100, 100)

	assert.False(t, cc.PanKey(common.KeySpace))
	assert.True(t, cc.PanKey(common.KeyUp))
	cc.Update(0)
	assert.Greater(t, c.Target().Y(), float32(0))
}

func TestControllerDampingSpreadsMotion(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))
	cc := NewCameraController(c)
	cc.SetViewport(100, 100)

	enabled, factor := cc.Damping()
	require.True(t, enabled)
	require.Equal(t, float32(0.05), factor)

	cc.Rotate(25, 0)
	require.True(t, cc.Update(0))
	first := c.Position()
	require.True(t, cc.Update(0), "decaying motion keeps moving the camera")
	assert.NotEqual(t, first, c.Position())

	cc.Reset()
	assert.False(t, cc.Update(0))
}

func TestControllerAutoRotate(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))
	cc := NewCameraController(c, WithDamping(0), WithAutoRotate(2))

	assert.False(t, cc.Update(0))
	// 2 turns per minute: 7.5 seconds is a quarter turn
	assert.True(t, cc.Update(7.5))
	p := c.Position()
	assert.InDelta(t, -10, p.X(), 1e-3)
	assert.InDelta(t, 0, p.Z(), 1e-3)
}
