package drift

import (
	"errors"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/go-gl/mathgl/mgl32"
)

// Duration is the length of a drift in milliseconds of frame time.
const Duration = 2000.0

// ErrZeroTarget is returned by DriftTo when the requested target has zero length, which leaves the
// distance-preserving rescale undefined.
var ErrZeroTarget = errors.New("drift: target has zero length")

// State is the drift controller's position in its lifecycle.
type State int

const (
	// StateIdle means no drift is requested.
	StateIdle State = iota

	// StatePending means a drift was requested but no frame has been observed since, so its start time is unbound.
	StatePending

	// StateActive means the drift is interpolating the camera.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// EaseFunc reparametrizes animation progress in [0, 1].
type EaseFunc func(progress float64) float64

// EaseOutCubic decelerates towards the end: 1 - (1 - p)^3.
func EaseOutCubic(progress float64) float64 {
	inv := 1 - progress
	return 1 - inv*inv*inv
}

// Positioner is the object being driven, usually the camera.
type Positioner interface {
	Position() mgl32.Vec3
	SetPosition(p mgl32.Vec3)
}

// Syncer is notified after every interpolation step so interactive controls can rebuild their
// reference frame from the driven position.
type Syncer interface {
	Sync()
}

type drift struct {
	from, to mgl32.Vec3
	start    float64
	started  bool
}

type controllerImpl struct {
	mu *sync.Mutex

	target   Positioner
	syncer   Syncer
	ease     EaseFunc
	duration float64
	log      *logger.Logger

	current *drift
}

// Controller animates a Positioner from its current position to a rescaled target over a fixed window of
// frame time. The window starts at the first frame observed after DriftTo, not at the call itself.
type Controller interface {
	// DriftTo starts a drift towards target, replacing any drift in progress. The target direction is kept
	// but it is rescaled so the driven object ends at its current distance from the origin:
	// to * sqrt(|from|² / |to|²).
	//
	// Parameters:
	//   - target: the requested destination
	//
	// Returns:
	//   - error: ErrZeroTarget when target has zero length; the current drift is left untouched
	DriftTo(target mgl32.Vec3) error

	// Advance steps the drift to the given frame timestamp in milliseconds.
	// A pending drift binds its start time and does not move. An active drift eases the position from
	// its origin to its target and notifies the Syncer. Once more than the drift duration has elapsed
	// since the start the drift is cleared without moving.
	//
	// Parameters:
	//   - timestamp: the frame timestamp in milliseconds
	//
	// Returns:
	//   - bool: true while a drift is pending or active after this call
	Advance(timestamp float64) bool

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: idle, pending or active
	State() State

	// Target returns the rescaled destination of the current drift.
	//
	// Returns:
	//   - mgl32.Vec3: the destination
	//   - bool: false when idle
	Target() (mgl32.Vec3, bool)

	// Cancel drops the current drift, leaving the driven object where it is.
	Cancel()
}

var _ Controller = &controllerImpl{}

// NewController creates a drift controller driving target.
//
// Parameters:
//   - target: the object whose position is animated
//   - syncer: notified after each interpolation step, may be nil
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(target Positioner, syncer Syncer, options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		mu:       &sync.Mutex{},
		target:   target,
		syncer:   syncer,
		ease:     EaseOutCubic,
		duration: Duration,
		log:      logger.L(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// ScaleTarget applies the distance-preserving rescale used by DriftTo.
//
// Parameters:
//   - from: the current position
//   - to: the requested target, must have non-zero length
//
// Returns:
//   - mgl32.Vec3: to * sqrt(|from|² / |to|²)
func ScaleTarget(from, to mgl32.Vec3) mgl32.Vec3 {
	ratio := math.Sqrt(float64(from.LenSqr()) / float64(to.LenSqr()))
	return to.Mul(float32(ratio))
}

func (c *controllerImpl) DriftTo(target mgl32.Vec3) error {
	if target.LenSqr() == 0 {
		c.log.Warnw("ignoring drift to zero-length target")
		return ErrZeroTarget
	}

	from := c.target.Position()
	to := ScaleTarget(from, target)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &drift{from: from, to: to}
	c.log.Debugw("drift requested", "from", from, "to", to)
	return nil
}

func (c *controllerImpl) Advance(timestamp float64) bool {
	c.mu.Lock()
	d := c.current
	if d == nil {
		c.mu.Unlock()
		return false
	}
	// started, not a non-zero start, marks the binding: 0 is a valid frame timestamp
	if !d.started {
		d.start = timestamp
		d.started = true
		c.mu.Unlock()
		return true
	}

	elapsed := timestamp - d.start
	if elapsed > c.duration {
		c.current = nil
		c.mu.Unlock()
		c.log.Debugw("drift finished", "elapsed", elapsed)
		return false
	}
	eased := c.ease(common.Clamp01(elapsed / c.duration))
	from, to := d.from, d.to
	c.mu.Unlock()

	c.target.SetPosition(common.LerpVec3(from, to, float32(eased)))
	if c.syncer != nil {
		c.syncer.Sync()
	}
	return true
}

func (c *controllerImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.current == nil:
		return StateIdle
	case !c.current.started:
		return StatePending
	default:
		return StateActive
	}
}

func (c *controllerImpl) Target() (mgl32.Vec3, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return mgl32.Vec3{}, false
	}
	return c.current.to, true
}

func (c *controllerImpl) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}
