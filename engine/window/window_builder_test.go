package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderOptionsClampSize(t *testing.T) {
	tests := []struct {
		name          string
		options       []WindowBuilderOption
		width, height int
		maxW, maxH    int
	}{
		{"defaults", nil, 1280, 720, 0, 0},
		{"size", []WindowBuilderOption{WithSize(800, 600)}, 800, 600, 0, 0},
		{"non-positive size keeps default", []WindowBuilderOption{WithSize(0, -1)}, 1280, 720, 0, 0},
		{"raised to minimum", []WindowBuilderOption{WithSize(100, 100)}, 320, 200, 0, 0},
		{"capped at maximum", []WindowBuilderOption{WithMaxSize(1024, 512)}, 1024, 512, 1024, 512},
		{"maximum below minimum", []WindowBuilderOption{WithMinSize(640, 480), WithMaxSize(100, 100)}, 640, 480, 640, 480},
		{"no minimum", []WindowBuilderOption{WithMinSize(0, 0), WithSize(10, 10)}, 10, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &engineWindow{minWidth: 320, minHeight: 200, width: 1280, height: 720}
			for _, opt := range tt.options {
				opt(w)
			}
			w.clampSize()
			assert.Equal(t, tt.width, w.width)
			assert.Equal(t, tt.height, w.height)
			assert.Equal(t, tt.maxW, w.maxWidth)
			assert.Equal(t, tt.maxH, w.maxHeight)
		})
	}
}

func TestWithTitle(t *testing.T) {
	w := &engineWindow{}
	WithTitle("view")(w)
	assert.Equal(t, "view", w.title)
}
