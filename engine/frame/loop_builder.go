package frame

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/logger"
)

// LoopBuilderOption is a functional option used to configure a Loop during construction.
type LoopBuilderOption func(*loop)

// WithRate sets the tick rate in frames per second. Values <= 0 select 60.
//
// Parameters:
//   - fps: target frames per second
//
// Returns:
//   - LoopBuilderOption: a function that sets the tick rate
func WithRate(fps float64) LoopBuilderOption {
	return func(l *loop) {
		if fps <= 0 {
			fps = 60
		}
		l.interval = time.Duration(float64(time.Second) / fps)
	}
}

// WithQueueSize sets how many posted functions may wait before Post blocks.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - LoopBuilderOption: a function that sets the post queue capacity
func WithQueueSize(n int) LoopBuilderOption {
	return func(l *loop) {
		if n > 0 {
			l.postChannel = make(chan func(), n)
		}
	}
}

// WithClock replaces the time source used for timestamps.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - LoopBuilderOption: a function that sets the clock
func WithClock(now func() time.Time) LoopBuilderOption {
	return func(l *loop) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger used to report recovered panics.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - LoopBuilderOption: a function that sets the logger
func WithLogger(log *logger.Logger) LoopBuilderOption {
	return func(l *loop) {
		if log != nil {
			l.log = log
		}
	}
}
