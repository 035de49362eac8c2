package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/stretchr/testify/assert"
)

func TestTickReportsAfterInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithLogger(logger.Nop()),
		WithInterval(time.Second),
		WithClock(func() time.Time { return now }),
	)

	for i := 0; i < 29; i++ {
		now = now.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	now = now.Add(time.Second/2 + time.Second/60)
	assert.True(t, p.Tick())
	assert.InDelta(t, 30, p.Last().FPS, 0.5)
	assert.Greater(t, p.Last().SysMB, 0.0)

	// the window restarts after a report
	now = now.Add(time.Millisecond)
	assert.False(t, p.Tick())
}
