package camera

// CameraController orbits a Camera around its target. Input methods only accumulate motion;
// the camera is moved when Update or Sync runs, so several inputs in one frame are applied together.
// With damping enabled the accumulated motion decays over subsequent updates instead of stopping at once.
type CameraController interface {
	// Camera returns the camera driven by this controller.
	//
	// Returns:
	//   - Camera: the controlled camera
	Camera() Camera

	// Update applies pending rotation, zoom and pan to the camera and decays them.
	// The spherical state is re-read from the camera's current position each call, so external
	// position changes are respected.
	//
	// Parameters:
	//   - delta: seconds since the previous update, used by auto-rotation
	//
	// Returns:
	//   - bool: true if the camera moved
	Update(delta float64) bool

	// Sync re-derives the orbit from the camera's current position and target and reapplies it.
	// Called after something outside the controller has moved the camera.
	Sync()

	// SetViewport records the viewport size in pixels. Rotation and pan amounts are relative to the height.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height float32)

	// Rotate queues an orbit by a pointer movement in pixels.
	//
	// Parameters:
	//   - dx: horizontal pointer movement in pixels
	//   - dy: vertical pointer movement in pixels
	Rotate(dx, dy float32)

	// Zoom queues a dolly toward (positive) or away from (negative) the target.
	//
	// Parameters:
	//   - steps: wheel steps, positive zooms in
	Zoom(steps float32)

	// Pan queues a screen-space translation of the camera and its target by a pointer movement in pixels.
	//
	// Parameters:
	//   - dx: horizontal pointer movement in pixels
	//   - dy: vertical pointer movement in pixels
	Pan(dx, dy float32)

	// PanKey pans by the key pan speed when key is an arrow key.
	//
	// Parameters:
	//   - key: GLFW key code
	//
	// Returns:
	//   - bool: true if the key was handled
	PanKey(key int) bool

	// Distance returns the current distance between camera and target.
	//
	// Returns:
	//   - float32: the orbit distance
	Distance() float32

	// DistanceBounds returns the allowed orbit distance range.
	//
	// Returns:
	//   - float32: minimum distance
	//   - float32: maximum distance
	DistanceBounds() (float32, float32)

	// Damping reports whether inertial damping is enabled and its factor.
	//
	// Returns:
	//   - bool: true if damping is enabled
	//   - float32: the damping factor in (0, 1]
	Damping() (bool, float32)

	// SetDamping enables or disables inertial damping.
	//
	// Parameters:
	//   - enabled: whether damping is applied
	SetDamping(enabled bool)

	// Reset clears any pending or decaying motion.
	Reset()
}
