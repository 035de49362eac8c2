package picking

import (
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
)

// PickerBuilderOption is a functional option applied to a picker during construction via NewPicker.
type PickerBuilderOption func(*pickerImpl)

// WithSink sets the tooltip sink driven by PointerMove.
//
// Parameters:
//   - s: the sink
//
// Returns:
//   - PickerBuilderOption: a function that sets the sink
func WithSink(s Sink) PickerBuilderOption {
	return func(p *pickerImpl) {
		p.sink = s
	}
}

// WithOffset sets how far right of and below the pointer the tooltip is placed.
//
// Parameters:
//   - dx, dy: offset in pixels
//
// Returns:
//   - PickerBuilderOption: a function that sets the offset
func WithOffset(dx, dy float64) PickerBuilderOption {
	return func(p *pickerImpl) {
		p.offsetX = dx
		p.offsetY = dy
	}
}

// WithLogger sets the logger used for pick diagnostics.
func WithLogger(l *logger.Logger) PickerBuilderOption {
	return func(p *pickerImpl) {
		if l != nil {
			p.log = l.Named("picking")
		}
	}
}
