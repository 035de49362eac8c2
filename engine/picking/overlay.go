package picking

import "sync"

// Sink is the tooltip overlay controlled by a Picker: a visibility flag, a position and content.
type Sink interface {
	// Show makes the overlay visible at (x, y) with the given HTML-safe content.
	Show(x, y float64, content string)

	// Hide makes the overlay invisible. Position and content are kept.
	Hide()
}

// OverlayState is a copy of an Overlay's state.
type OverlayState struct {
	Visible bool
	X       float64
	Y       float64
	Content string
}

type overlayImpl struct {
	mu       *sync.Mutex
	state    OverlayState
	onChange func(OverlayState)
}

// Overlay is an in-process Sink that records its state so a host can draw it however it likes.
// It is safe for concurrent use.
type Overlay interface {
	Sink

	// State returns the current overlay state.
	//
	// Returns:
	//   - OverlayState: a copy of the state
	State() OverlayState

	// OnChange registers a callback invoked after every Show or Hide that changes the state.
	//
	// Parameters:
	//   - fn: the callback, nil removes it
	OnChange(fn func(OverlayState))
}

var _ Overlay = &overlayImpl{}

// NewOverlay creates a hidden, empty overlay.
//
// Returns:
//   - Overlay: the newly created overlay
func NewOverlay() Overlay {
	return &overlayImpl{mu: &sync.Mutex{}}
}

func (o *overlayImpl) Show(x, y float64, content string) {
	o.set(OverlayState{Visible: true, X: x, Y: y, Content: content})
}

func (o *overlayImpl) Hide() {
	o.mu.Lock()
	next := o.state
	o.mu.Unlock()
	next.Visible = false
	o.set(next)
}

func (o *overlayImpl) State() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *overlayImpl) OnChange(fn func(OverlayState)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onChange = fn
}

func (o *overlayImpl) set(next OverlayState) {
	o.mu.Lock()
	changed := next != o.state
	o.state = next
	fn := o.onChange
	o.mu.Unlock()

	if changed && fn != nil {
		fn(next)
	}
}
