package engine

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// poster runs functions on the goroutine that owns the scene.
type poster interface {
	Post(fn func()) error
}

// input turns window events into scene calls. Event callbacks arrive on the main thread;
// drag state lives there and only the resulting scene calls are posted.
type input struct {
	loop  poster
	scene scene.Scene
	log   *logger.Logger

	// viewpoints maps number keys to drift targets
	viewpoints map[uint32]mgl32.Vec3

	dragging   bool
	dragButton window.MouseButton
	lastX      float64
	lastY      float64
}

func newInput(loop poster, s scene.Scene, home mgl32.Vec3, log *logger.Logger) *input {
	return &input{
		loop:  loop,
		scene: s,
		log:   log,
		viewpoints: map[uint32]mgl32.Vec3{
			common.Key1: home,
			common.Key2: {0, 50, 10},
			common.Key3: {25, 5, 0},
		},
	}
}

func (in *input) post(fn func()) {
	if err := in.loop.Post(fn); err != nil {
		in.log.Debugw("dropped input event", "error", err)
	}
}

func (in *input) resize(width, height int) {
	in.post(func() {
		if err := in.scene.Resize(width, height); err != nil {
			in.log.Errorw("resize failed", "width", width, "height", height, "error", err)
		}
	})
}

func (in *input) mouseButton(button window.MouseButton, pressed bool, x, y float64) {
	if pressed {
		if !in.dragging {
			in.dragging = true
			in.dragButton = button
		}
		in.lastX, in.lastY = x, y
		return
	}
	if button == in.dragButton {
		in.dragging = false
	}
}

func (in *input) mouseMove(x, y float64) {
	dx, dy := float32(x-in.lastX), float32(y-in.lastY)
	in.lastX, in.lastY = x, y

	dragging, button := in.dragging, in.dragButton
	in.post(func() {
		if dragging {
			switch button {
			case window.MouseButtonLeft:
				in.scene.Controls().Rotate(dx, dy)
			case window.MouseButtonRight, window.MouseButtonMiddle:
				in.scene.Controls().Pan(dx, dy)
			}
		}
		in.scene.PointerMove(x, y)
	})
}

func (in *input) mouseLeave() {
	in.post(func() {
		in.scene.Overlay().Hide()
	})
}

func (in *input) scroll(delta float32) {
	in.post(func() {
		in.scene.Controls().Zoom(delta)
	})
}

func (in *input) keyDown(keyCode uint32) {
	if target, ok := in.viewpoints[keyCode]; ok {
		in.post(func() {
			if err := in.scene.DriftTo(target); err != nil {
				in.log.Debugw("viewpoint ignored", "key", keyCode, "error", err)
			}
		})
		return
	}
	if keyCode == common.KeyR {
		in.post(func() {
			in.scene.Drift().Cancel()
			in.scene.Controls().Reset()
		})
		return
	}
	in.post(func() {
		in.scene.Controls().PanKey(int(keyCode))
	})
}
