package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/config"
	"github.com/Carmen-Shannon/oxy-view/engine/drift"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/picking"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// engine implements the Engine interface.
// The main thread pumps window events; the frame loop goroutine owns the scene.
type engine struct {
	cfg config.Config

	window window.Window
	loop   frame.Loop
	scene  scene.Scene
	input  *input

	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once
	running     atomic.Bool

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	sceneOptions []scene.SceneBuilderOption
	log          *logger.Logger
}

// Engine hosts one Scene in a window: it drives the frame loop, forwards window input to the
// scene on the loop goroutine and mirrors the tooltip overlay into the window title.
type Engine interface {
	// Window returns the host window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the hosted scene. Attach entities and add nodes before or during Run.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Loop returns the frame loop. Post work to it to touch the scene from other goroutines.
	//
	// Returns:
	//   - frame.Loop: the frame loop
	Loop() frame.Loop

	// Config returns the configuration the engine was built from.
	//
	// Returns:
	//   - config.Config: the configuration
	Config() config.Config

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameRate sets the frame loop rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetFrameRate(fps float64)

	// Run starts the frame loop and pumps window events on the calling thread, which must be
	// the main thread. Blocks until the window closes or Quit is called, then tears the scene down.
	//
	// Returns:
	//   - error: the first loop or teardown failure
	Run() error

	// Quit asks Run to return. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates the window (unless WithWindow supplies one), the frame loop and the scene.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the configuration is invalid or the scene could not be built
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		cfg:         config.Default(),
		quitChannel: make(chan struct{}),
		log:         logger.L().Named("engine"),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	e.profilingEnabled.Store(e.cfg.Log.Profile)
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.log.Named("profiler")))
	}
	if e.loop == nil {
		e.loop = frame.NewLoop(frame.WithRate(e.cfg.Render.FrameRate), frame.WithLogger(e.log.Named("frame")))
	}
	if e.window == nil {
		e.window = window.NewWindow(
			window.WithTitle(e.cfg.Window.Title),
			window.WithSize(e.cfg.Window.Width, e.cfg.Window.Height),
		)
	}

	opts := append(SceneOptions(e.cfg, e.window), scene.WithLogger(e.log), scene.WithErrorHandler(e.onRenderError))
	s, err := scene.NewScene(e.window.Width(), e.window.Height(), append(opts, e.sceneOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if bloom, ok := s.Renderer().Composer().Bloom(); ok {
		bloom.SetEnabled(e.cfg.Bloom.Enabled)
	}
	e.scene = s

	p := e.cfg.Camera.Position
	e.input = newInput(e.loop, s, mgl32.Vec3{p[0], p[1], p[2]}, e.log)
	e.window.SetResizeCallback(e.input.resize)
	e.window.SetMouseMoveCallback(e.input.mouseMove)
	e.window.SetMouseButtonCallback(e.input.mouseButton)
	e.window.SetMouseLeaveCallback(e.input.mouseLeave)
	e.window.SetScrollCallback(e.input.scroll)
	e.window.SetKeyDownCallback(e.input.keyDown)

	base := e.window.Title()
	s.Overlay().OnChange(func(state picking.OverlayState) {
		e.window.SetTitle(TooltipTitle(base, state))
	})

	return e, nil
}

// SceneOptions translates a configuration into scene options rendering to surface.
//
// Parameters:
//   - cfg: the configuration
//   - surface: the drawing surface, may be nil when a backend is supplied separately
//
// Returns:
//   - []scene.SceneBuilderOption: the options
func SceneOptions(cfg config.Config, surface renderer.Surface) []scene.SceneBuilderOption {
	presentMode := renderer.PresentModeVSync
	if !cfg.Render.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	rendererOptions := []renderer.RendererBuilderOption{
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Render.MSAA)),
		renderer.WithBloom(cfg.Bloom.Threshold, cfg.Bloom.Strength, cfg.Bloom.Radius),
		renderer.WithToneMapping(cfg.Render.ToneMappingOperator()),
		renderer.WithExposure(cfg.Render.Exposure),
	}
	if surface != nil {
		rendererOptions = append(rendererOptions, renderer.WithSurface(surface))
	}
	if cfg.Render.PixelRatio > 0 {
		rendererOptions = append(rendererOptions, renderer.WithPixelRatio(cfg.Render.PixelRatio))
	}
	if cfg.Render.ForceSoftware {
		rendererOptions = append(rendererOptions, renderer.WithForceSoftwareRenderer())
	}

	p := cfg.Camera.Position
	cameraOptions := []camera.CameraBuilderOption{
		camera.WithPosition(p[0], p[1], p[2]),
		camera.WithFov(cfg.Camera.Fov * math.Pi / 180),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
	}

	controlsOptions := []camera.CameraControllerOption{camera.WithDamping(cfg.Controls.Damping)}
	if cfg.Controls.AutoRotate != 0 {
		controlsOptions = append(controlsOptions, camera.WithAutoRotate(cfg.Controls.AutoRotate))
	}
	if cfg.Controls.MaxDistance > 0 {
		controlsOptions = append(controlsOptions, camera.WithDistanceBounds(cfg.Controls.MinDistance, cfg.Controls.MaxDistance))
	}

	return []scene.SceneBuilderOption{
		scene.WithRendererOptions(rendererOptions...),
		scene.WithCameraOptions(cameraOptions...),
		scene.WithControlsOptions(controlsOptions...),
		scene.WithDriftOptions(drift.WithDuration(cfg.Drift.DurationMS)),
	}
}

// TooltipTitle renders the overlay into a window title, the only text surface a bare window offers.
//
// Parameters:
//   - base: the window title without a tooltip
//   - state: the overlay state
//
// Returns:
//   - string: base, followed by the tooltip lines while the overlay is visible
func TooltipTitle(base string, state picking.OverlayState) string {
	if !state.Visible || state.Content == "" {
		return base
	}
	return base + " | " + picking.PlainText(state.Content, " / ")
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Loop() frame.Loop {
	return e.loop
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetFrameRate(fps float64) {
	e.loop.SetRate(fps)
}

func (e *engine) Run() error {
	if !e.running.CompareAndSwap(false, true) {
		return frame.ErrRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var loopErr error
	e.wg.Add(2)
	go e.handleFrames(ctx, &loopErr)
	go e.handleQuit()

	e.scene.Start(e.loop)
	e.loop.Request(e.profile)

	e.window.ProcessMessages()

	e.Quit()
	e.wg.Wait()

	closeErr := e.scene.Close(ctx)
	if err := e.window.Close(); err != nil {
		e.log.Debugw("window close", "error", err)
	}
	return errors.Join(loopErr, closeErr)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleFrames runs the frame loop on its own locked thread until quit.
func (e *engine) handleFrames(ctx context.Context, loopErr *error) {
	defer e.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := e.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		*loopErr = err
		e.Quit()
	}
}

// handleQuit waits for Quit, then stops the loop and releases the window's message pump.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
	e.scene.Stop()
	e.loop.Stop()
	e.window.RequestClose()
}

// profile ticks the profiler once per frame.
func (e *engine) profile(float64) {
	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
	select {
	case <-e.quitChannel:
	default:
		e.loop.Request(e.profile)
	}
}

func (e *engine) onRenderError(err error) {
	e.log.Errorw("render failed, shutting down", "error", err)
	e.Quit()
}
