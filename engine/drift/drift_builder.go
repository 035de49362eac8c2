package drift

import (
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
)

// ControllerBuilderOption is a functional option applied to a controller during construction via NewController.
type ControllerBuilderOption func(*controllerImpl)

// WithDuration overrides the drift length in milliseconds. Non-positive values are ignored.
//
// Parameters:
//   - ms: the duration in milliseconds
//
// Returns:
//   - ControllerBuilderOption: a function that applies the duration
func WithDuration(ms float64) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if ms > 0 {
			c.duration = ms
		}
	}
}

// WithEase replaces the easing curve. Defaults to EaseOutCubic.
//
// Parameters:
//   - ease: the easing function, nil is ignored
//
// Returns:
//   - ControllerBuilderOption: a function that applies the easing curve
func WithEase(ease EaseFunc) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if ease != nil {
			c.ease = ease
		}
	}
}

// WithLogger sets the logger used for drift lifecycle messages.
func WithLogger(l *logger.Logger) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if l != nil {
			c.log = l.Named("drift")
		}
	}
}
