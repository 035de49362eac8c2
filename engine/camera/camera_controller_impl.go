package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

const polarEpsilon = 1e-6

// cameraControllerImpl keeps only pending motion. The camera itself is the source of truth for
// position and target, which is what lets Sync pick up positions written by other systems.
type cameraControllerImpl struct {
	mu *sync.Mutex

	camera Camera

	// pending motion
	deltaTheta float64
	deltaPhi   float64
	scale      float64
	panOffset  mgl32.Vec3

	minDistance float64
	maxDistance float64
	minPolar    float64
	maxPolar    float64

	dampingEnabled bool
	dampingFactor  float64

	rotateSpeed float32
	zoomSpeed   float32
	panSpeed    float32
	keyPanSpeed float32

	autoRotate      bool
	autoRotateSpeed float64

	viewportWidth  float32
	viewportHeight float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates orbit controls for cam. Defaults: damping enabled with factor 0.05,
// unit rotate/zoom/pan speeds, key pan speed 7, unbounded distance and the full polar range.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		camera: cam,
		scale:  1.0,

		minDistance: 0,
		maxDistance: math.Inf(1),
		minPolar:    0,
		maxPolar:    math.Pi,

		dampingEnabled: true,
		dampingFactor:  0.05,

		rotateSpeed: 1.0,
		zoomSpeed:   1.0,
		panSpeed:    1.0,
		keyPanSpeed: 7.0,

		autoRotateSpeed: 2.0,

		viewportWidth:  1,
		viewportHeight: 1,
	}

	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) Update(delta float64) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.update(delta)
}

func (cc *cameraControllerImpl) Sync() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.update(0)
}

func (cc *cameraControllerImpl) SetViewport(width, height float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if width > 0 {
		cc.viewportWidth = width
	}
	if height > 0 {
		cc.viewportHeight = height
	}
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaTheta -= 2 * math.Pi * float64(dx*cc.rotateSpeed/cc.viewportHeight)
	cc.deltaPhi -= 2 * math.Pi * float64(dy*cc.rotateSpeed/cc.viewportHeight)
}

func (cc *cameraControllerImpl) Zoom(steps float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.scale *= math.Pow(0.95, float64(cc.zoomSpeed*steps))
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pan(dx*cc.panSpeed, dy*cc.panSpeed)
}

func (cc *cameraControllerImpl) PanKey(key int) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	switch key {
	case common.KeyUp:
		cc.pan(0, cc.keyPanSpeed)
	case common.KeyDown:
		cc.pan(0, -cc.keyPanSpeed)
	case common.KeyLeft:
		cc.pan(cc.keyPanSpeed, 0)
	case common.KeyRight:
		cc.pan(-cc.keyPanSpeed, 0)
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) Distance() float32 {
	return cc.camera.Position().Sub(cc.camera.Target()).Len()
}

func (cc *cameraControllerImpl) DistanceBounds() (float32, float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return float32(cc.minDistance), float32(cc.maxDistance)
}

func (cc *cameraControllerImpl) Damping() (bool, float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingEnabled, float32(cc.dampingFactor)
}

func (cc *cameraControllerImpl) SetDamping(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dampingEnabled = enabled
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaTheta = 0
	cc.deltaPhi = 0
	cc.scale = 1
	cc.panOffset = mgl32.Vec3{}
}

// --- internal helpers ---

// pan converts a pixel movement into a world-space offset in the camera plane.
// The offset is scaled by the visible height at the target distance so dragged geometry tracks the pointer.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) pan(dx, dy float32) {
	offset := cc.camera.Position().Sub(cc.camera.Target())
	targetDistance := offset.Len() * float32(math.Tan(float64(cc.camera.Fov())/2))

	view := cc.camera.ViewMatrix()
	right := view.Row(0).Vec3()
	up := view.Row(1).Vec3()

	left := right.Mul(-2 * dx * targetDistance / cc.viewportHeight)
	upward := up.Mul(2 * dy * targetDistance / cc.viewportHeight)
	cc.panOffset = cc.panOffset.Add(left).Add(upward)
}

// update moves the camera by the pending motion and decays it.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) update(delta float64) bool {
	position := cc.camera.Position()
	target := cc.camera.Target()
	offset := position.Sub(target)

	radius := float64(offset.Len())
	theta := math.Atan2(float64(offset.X()), float64(offset.Z()))
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(clamp(float64(offset.Y())/radius, -1, 1))
	}

	if cc.autoRotate && delta > 0 {
		cc.deltaTheta -= 2 * math.Pi / 60 * cc.autoRotateSpeed * delta
	}

	factor := 1.0
	if cc.dampingEnabled {
		factor = cc.dampingFactor
	}

	theta += cc.deltaTheta * factor
	phi += cc.deltaPhi * factor
	phi = clamp(phi, cc.minPolar, cc.maxPolar)
	phi = clamp(phi, polarEpsilon, math.Pi-polarEpsilon)

	radius = clamp(radius*cc.scale, cc.minDistance, cc.maxDistance)

	target = target.Add(cc.panOffset.Mul(float32(factor)))

	sinPhi := math.Sin(phi)
	offset = mgl32.Vec3{
		float32(radius * sinPhi * math.Sin(theta)),
		float32(radius * math.Cos(phi)),
		float32(radius * sinPhi * math.Cos(theta)),
	}
	next := target.Add(offset)

	cc.camera.SetTarget(target)
	cc.camera.SetPosition(next)

	if cc.dampingEnabled {
		cc.deltaTheta *= 1 - cc.dampingFactor
		cc.deltaPhi *= 1 - cc.dampingFactor
		cc.panOffset = cc.panOffset.Mul(float32(1 - cc.dampingFactor))
	} else {
		cc.deltaTheta = 0
		cc.deltaPhi = 0
		cc.panOffset = mgl32.Vec3{}
	}
	cc.scale = 1

	moved := next.Sub(position).LenSqr()
	return moved > 1e-10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
