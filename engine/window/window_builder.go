package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the base title. Tooltip text is appended to it while the pointer hovers a tagged node.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial surface size in logical pixels. Non-positive values keep the default.
//
// Parameters:
//   - width, height: the initial size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithMinSize sets the smallest size the user can shrink the view to. Zero removes the limit.
//
// Parameters:
//   - width, height: the minimum size in logical pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = max(width, 0)
		w.minHeight = max(height, 0)
	}
}

// WithMaxSize sets the largest size the user can grow the view to. Zero removes the limit.
//
// Parameters:
//   - width, height: the maximum size in logical pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = max(width, 0)
		w.maxHeight = max(height, 0)
	}
}

// clampSize keeps the initial size inside the limits. A maximum below the minimum is raised to it.
func (w *engineWindow) clampSize() {
	w.width, w.maxWidth = clampDimension(w.width, w.minWidth, w.maxWidth)
	w.height, w.maxHeight = clampDimension(w.height, w.minHeight, w.maxHeight)
}

func clampDimension(size, lo, hi int) (int, int) {
	if hi > 0 && hi < lo {
		hi = lo
	}
	size = max(size, lo)
	if hi > 0 {
		size = min(size, hi)
	}
	return size, hi
}
