package drift

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCamera struct {
	pos   mgl32.Vec3
	syncs int
}

func (f *fakeCamera) Position() mgl32.Vec3     { return f.pos }
func (f *fakeCamera) SetPosition(p mgl32.Vec3) { f.pos = p }
func (f *fakeCamera) Sync()                    { f.syncs++ }

func newDriven(pos mgl32.Vec3) (*fakeCamera, Controller) {
	cam := &fakeCamera{pos: pos}
	return cam, NewController(cam, cam)
}

func TestEaseOutCubic(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutCubic(0))
	assert.Equal(t, 1.0, EaseOutCubic(1))
	assert.InDelta(t, 0.875, EaseOutCubic(0.5), 1e-12)

	prev := EaseOutCubic(0)
	for i := 1; i <= 1000; i++ {
		v := EaseOutCubic(float64(i) / 1000)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestScaleTargetPreservesMagnitude(t *testing.T) {
	tests := []struct {
		from, to mgl32.Vec3
	}{
		{mgl32.Vec3{0, 25, 5}, mgl32.Vec3{0, 50, 10}},
		{mgl32.Vec3{3, 4, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-10, 2, 7}},
	}
	for _, tt := range tests {
		got := ScaleTarget(tt.from, tt.to)
		assert.InDelta(t, tt.from.Len(), got.Len(), 1e-4)
		assert.True(t, got.Normalize().ApproxEqualThreshold(tt.to.Normalize(), 1e-5))
	}
}

func TestIdleAdvanceIsNoop(t *testing.T) {
	cam, c := newDriven(mgl32.Vec3{1, 2, 3})

	assert.False(t, c.Advance(0))
	assert.False(t, c.Advance(5000))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.pos)
	assert.Equal(t, 0, cam.syncs)
	assert.Equal(t, StateIdle, c.State())
}

func TestDriftScenario(t *testing.T) {
	cam, c := newDriven(mgl32.Vec3{0, 25, 5})

	require.NoError(t, c.DriftTo(mgl32.Vec3{0, 50, 10}))
	assert.Equal(t, StatePending, c.State())

	to, ok := c.Target()
	require.True(t, ok)
	assert.True(t, to.ApproxEqualThreshold(mgl32.Vec3{0, 25, 5}, 1e-5), "got %v", to)

	// first observed frame binds the start and does not move
	assert.True(t, c.Advance(10_000))
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, 0, cam.syncs)

	assert.True(t, c.Advance(11_000))
	assert.True(t, cam.pos.ApproxEqualThreshold(mgl32.Vec3{0, 25, 5}, 1e-4))
	assert.Equal(t, 1, cam.syncs)
}

func TestDriftInterpolatesWithEase(t *testing.T) {
	cam, c := newDriven(mgl32.Vec3{0, 0, 10})
	require.NoError(t, c.DriftTo(mgl32.Vec3{10, 0, 0}))

	c.Advance(100)
	c.Advance(1100)

	// progress 0.5 eases to 0.875, so the position sits much nearer the target than the midpoint
	want := mgl32.Vec3{8.75, 0, 1.25}
	assert.True(t, cam.pos.ApproxEqualThreshold(want, 1e-4), "got %v", cam.pos)
}

func TestDriftBoundaryIsExclusive(t *testing.T) {
	cam, c := newDriven(mgl32.Vec3{0, 0, 10})
	require.NoError(t, c.DriftTo(mgl32.Vec3{10, 0, 0}))

	c.Advance(500)
	assert.True(t, c.Advance(2500), "elapsed == duration is still active")
	assert.True(t, cam.pos.ApproxEqualThreshold(mgl32.Vec3{10, 0, 0}, 1e-4))
	syncs := cam.syncs

	cam.pos = mgl32.Vec3{1, 1, 1}
	assert.False(t, c.Advance(2500.001))
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, cam.pos, "clearing tick does not interpolate")
	assert.Equal(t, syncs, cam.syncs)
}

func TestDriftToReplacesInFlight(t *testing.T) {
	cam, c := newDriven(mgl32.Vec3{0, 0, 10})
	require.NoError(t, c.DriftTo(mgl32.Vec3{10, 0, 0}))
	c.Advance(0)
	c.Advance(1000)

	require.NoError(t, c.DriftTo(mgl32.Vec3{0, 10, 0}))
	assert.Equal(t, StatePending, c.State(), "the replacement waits for its own first frame")

	c.Advance(1500)
	c.Advance(3500)
	assert.True(t, cam.pos.Normalize().ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-4), "got %v", cam.pos)
}

func TestDriftToZeroTarget(t *testing.T) {
	_, c := newDriven(mgl32.Vec3{0, 0, 10})
	assert.ErrorIs(t, c.DriftTo(mgl32.Vec3{}), ErrZeroTarget)
	assert.Equal(t, StateIdle, c.State())
}

func TestOptionsAndCancel(t *testing.T) {
	cam := &fakeCamera{pos: mgl32.Vec3{0, 0, 10}}
	c := NewController(cam, nil, WithDuration(100), WithEase(func(p float64) float64 { return p }))

	require.NoError(t, c.DriftTo(mgl32.Vec3{10, 0, 0}))
	c.Advance(0)
	c.Advance(50)
	assert.True(t, cam.pos.ApproxEqualThreshold(mgl32.Vec3{5, 0, 5}, 1e-4), "got %v", cam.pos)

	c.Cancel()
	assert.Equal(t, StateIdle, c.State())
	_, ok := c.Target()
	assert.False(t, ok)
}

func TestZeroTimestampBindsStart(t *testing.T) {
	cam, c := newDriven(mgl32.Vec3{0, 0, 10})
	require.NoError(t, c.DriftTo(mgl32.Vec3{10, 0, 0}))

	assert.True(t, c.Advance(0))
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, cam.pos)

	assert.True(t, c.Advance(1000))
	to, _ := c.Target()
	want := common.LerpVec3(mgl32.Vec3{0, 0, 10}, to, 0.875)
	assert.True(t, cam.pos.ApproxEqualThreshold(want, 1e-4), "got %v", cam.pos)
}
