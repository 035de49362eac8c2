package engine

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/config"
	"github.com/Carmen-Shannon/oxy-view/engine/drift"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/Carmen-Shannon/oxy-view/engine/picking"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu       sync.Mutex
	frames   int
	released bool
}

func (f *fakeBackend) ConfigureSurface(width, height, bloomWidth, bloomHeight int) error { return nil }
func (f *fakeBackend) SetPresentMode(renderer.PresentMode)                               {}

func (f *fakeBackend) Draw(*renderer.FrameData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	return nil
}

func (f *fakeBackend) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

type fakeWindow struct {
	mu     sync.Mutex
	title  string
	closed bool
	quit   chan struct{}
	once   sync.Once

	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onMouseButton func(button window.MouseButton, pressed bool, x, y float64)
	onMouseMove   func(x, y float64)
	onMouseLeave  func()
}

var _ window.Window = &fakeWindow{}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{title: "view", quit: make(chan struct{})}
}

func (w *fakeWindow) SetUpdateCallback(func())                     {}
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float32))     { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))        {}
func (w *fakeWindow) SetMouseMoveCallback(cb func(x, y float64))   { w.onMouseMove = cb }
func (w *fakeWindow) SetMouseLeaveCallback(cb func())              { w.onMouseLeave = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) ContentScale() float32                        { return 1 }
func (w *fakeWindow) IsRunning() bool                              { return !w.isClosed() }
func (w *fakeWindow) Width() int                                   { return 800 }
func (w *fakeWindow) Height() int                                  { return 400 }
func (w *fakeWindow) RequestClose()                                { w.once.Do(func() { close(w.quit) }) }
func (w *fakeWindow) ProcessMessages()                             { <-w.quit }

func (w *fakeWindow) SetMouseButtonCallback(cb func(button window.MouseButton, pressed bool, x, y float64)) {
	w.onMouseButton = cb
}

func (w *fakeWindow) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

func (w *fakeWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWindow) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// syncLoop runs posted functions immediately and frames on Step.
type syncLoop struct {
	*frame.Manual
}

func (l syncLoop) Post(fn func()) error          { fn(); return nil }
func (l syncLoop) Run(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }
func (l syncLoop) Stop()                         {}
func (l syncLoop) SetRate(float64)               {}
func (l syncLoop) Now() float64                  { return 0 }

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (Engine, *fakeWindow, *fakeBackend) {
	t.Helper()
	w := newFakeWindow()
	backend := &fakeBackend{}
	opts := append([]EngineBuilderOption{
		WithLogger(logger.Nop()),
		WithWindow(w),
		WithSceneOptions(scene.WithRendererOptions(renderer.WithBackend(backend))),
	}, options...)
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	return e, w, backend
}

func TestTooltipTitle(t *testing.T) {
	assert.Equal(t, "view", TooltipTitle("view", picking.OverlayState{}))
	state := picking.OverlayState{Visible: true, Content: picking.FormatContent(node.Tooltip{"crate", "a & b"})}
	assert.Equal(t, "view | crate / a & b", TooltipTitle("view", state))
	state.Visible = false
	assert.Equal(t, "view", TooltipTitle("view", state))
}

func TestSceneOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Fov = 90
	cfg.Camera.Position = [3]float32{0, 0, 10}
	cfg.Bloom.Threshold = 0.7
	cfg.Render.ToneMapping = "aces"

	backend := &fakeBackend{}
	opts := append(SceneOptions(cfg, nil), scene.WithLogger(logger.Nop()), scene.WithRendererOptions(renderer.WithBackend(backend)))
	s, err := scene.NewScene(100, 100, opts...)
	require.NoError(t, err)
	defer s.Close(context.Background())

	assert.InDelta(t, math.Pi/2, s.Camera().Fov(), 1e-5)
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, s.Camera().Position())
	bloom, ok := s.Renderer().Composer().Bloom()
	require.True(t, ok)
	assert.Equal(t, float32(0.7), bloom.Threshold)
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.MSAA = 3
	_, err := NewEngine(WithConfig(cfg), WithWindow(newFakeWindow()), WithLogger(logger.Nop()))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBloomDisabledByConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Bloom.Enabled = false
	e, _, _ := newTestEngine(t, WithConfig(cfg))
	defer e.Scene().Close(context.Background())

	bloom, ok := e.Scene().Renderer().Composer().Bloom()
	require.True(t, ok)
	assert.False(t, bloom.Enabled())
}

func TestInputReachesScene(t *testing.T) {
	box := node.NewMesh(geometry.NewBox(4, 4, 4), mgl32.Vec3{1, 1, 1}, node.WithTooltip("crate"))
	loop := syncLoop{frame.NewManual()}
	e, w, backend := newTestEngine(t, WithLoop(loop), WithSceneOptions(scene.WithNodes(box)))
	s := e.Scene()
	defer s.Close(context.Background())

	w.onResize(400, 400)
	assert.Equal(t, float32(1), s.Camera().Aspect())
	assert.Equal(t, 1, backend.count())

	w.onMouseMove(200, 200)
	assert.True(t, s.Overlay().State().Visible)
	assert.Equal(t, "view | crate", w.Title())

	w.onMouseLeave()
	assert.False(t, s.Overlay().State().Visible)
	assert.Equal(t, "view", w.Title())

	start := s.Camera().Position()
	w.onMouseButton(window.MouseButtonLeft, true, 200, 200)
	w.onMouseMove(240, 200)
	w.onMouseButton(window.MouseButtonLeft, false, 240, 200)
	require.NoError(t, s.Render(0))
	assert.NotEqual(t, start, s.Camera().Position())

	distance := s.Controls().Distance()
	w.onScroll(10)
	for i := 0; i < 200; i++ {
		require.NoError(t, s.Render(float64(i*16)))
	}
	assert.Less(t, s.Controls().Distance(), distance)

	target := s.Camera().Target()
	w.onKeyDown(common.KeyUp)
	for i := 200; i < 400; i++ {
		require.NoError(t, s.Render(float64(i*16)))
	}
	assert.NotEqual(t, target, s.Camera().Target())
}

func TestViewpointKeys(t *testing.T) {
	loop := syncLoop{frame.NewManual()}
	e, w, _ := newTestEngine(t, WithLoop(loop))
	s := e.Scene()
	defer s.Close(context.Background())

	from := s.Camera().Position()
	w.onKeyDown(common.Key2)
	assert.Equal(t, drift.StatePending, s.Drift().State())
	target, ok := s.Drift().Target()
	require.True(t, ok)
	assert.InDelta(t, from.Len(), target.Len(), 1e-4)
	assert.InDelta(t, 0, target.Normalize().Sub(mgl32.Vec3{0, 50, 10}.Normalize()).Len(), 1e-5)

	w.onKeyDown(common.KeyR)
	assert.Equal(t, drift.StateIdle, s.Drift().State())
	assert.Equal(t, from, s.Camera().Position())
}

func TestRunStopsOnQuit(t *testing.T) {
	loop := frame.NewLoop(frame.WithRate(500), frame.WithLogger(logger.Nop()))
	e, w, backend := newTestEngine(t, WithLoop(loop), WithProfiling(true))

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	deadline := time.After(5 * time.Second)
	for backend.count() < 3 {
		select {
		case <-deadline:
			t.Fatal("no frames rendered")
		case <-time.After(time.Millisecond):
		}
	}

	e.Quit()
	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-deadline:
		t.Fatal("Run did not return")
	}
	assert.True(t, w.isClosed())
	assert.False(t, e.Scene().Running())
	backend.mu.Lock()
	assert.True(t, backend.released)
	backend.mu.Unlock()
	assert.ErrorIs(t, e.Run(), frame.ErrRunning)
}
