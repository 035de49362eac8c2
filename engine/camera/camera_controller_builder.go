package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithDistanceBounds limits how close to and far from the target the camera may orbit.
//
// Parameters:
//   - min: minimum distance from the target
//   - max: maximum distance from the target
//
// Returns:
//   - CameraControllerOption: functional option to set the distance bounds
func WithDistanceBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if min >= 0 && max >= min {
			cc.minDistance = float64(min)
			cc.maxDistance = float64(max)
		}
	}
}

// WithPolarBounds limits the vertical orbit angle, measured from +Y.
//
// Parameters:
//   - min: minimum polar angle in radians (0 = looking straight down)
//   - max: maximum polar angle in radians (π = looking straight up)
//
// Returns:
//   - CameraControllerOption: functional option to set the polar bounds
func WithPolarBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if max >= min {
			cc.minPolar = float64(min)
			cc.maxPolar = float64(max)
		}
	}
}

// WithDamping configures inertial damping. A factor of zero or below disables it.
//
// Parameters:
//   - factor: fraction of pending motion applied per update, in (0, 1]
//
// Returns:
//   - CameraControllerOption: functional option to set damping
func WithDamping(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if factor <= 0 {
			cc.dampingEnabled = false
			return
		}
		cc.dampingEnabled = true
		cc.dampingFactor = float64(min(factor, 1))
	}
}

// WithRotateSpeed scales pointer rotation.
//
// Parameters:
//   - speed: rotation multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set rotation speed
func WithRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = speed
	}
}

// WithZoomSpeed scales wheel zoom.
//
// Parameters:
//   - speed: zoom multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed scales pointer panning.
//
// Parameters:
//   - speed: pan multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithKeyPanSpeed sets the pixel-equivalent distance one arrow key press pans.
//
// Parameters:
//   - speed: pixels per key press
//
// Returns:
//   - CameraControllerOption: functional option to set the key pan speed
func WithKeyPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.keyPanSpeed = speed
	}
}

// WithAutoRotate spins the camera around the target continuously.
//
// Parameters:
//   - speed: turns per minute; 2 completes a turn in 30 seconds
//
// Returns:
//   - CameraControllerOption: functional option to enable auto-rotation
func WithAutoRotate(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.autoRotate = true
		cc.autoRotateSpeed = float64(speed)
	}
}
