package scene

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/drift"
	"github.com/Carmen-Shannon/oxy-view/engine/entity"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/Carmen-Shannon/oxy-view/engine/picking"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrClosed is returned by operations on a closed Scene.
	ErrClosed = errors.New("scene: closed")
	// ErrRenderPanic wraps a panic recovered from a scheduled frame.
	ErrRenderPanic = errors.New("scene: render panicked")
)

// Scene is the composition root of an interactive 3D view. It owns the renderer, camera,
// orbit controls, drift animation, pointer picking and the child entity registry, and runs
// one update and render cycle per frame.
//
// Frames are a best-effort snapshot: entity renders run concurrently with the frame and are
// never awaited, so a frame may composite a graph an entity is still changing.
type Scene interface {
	// Render runs one frame: controls update with the delta since the previous frame, drift advance,
	// entity render fan-out without waiting, then the composite pass.
	//
	// Parameters:
	//   - timestamp: the frame timestamp in milliseconds
	//
	// Returns:
	//   - error: a backend failure from the composite pass
	Render(timestamp float64) error

	// Resize updates the viewport, camera aspect and render targets, then renders one frame immediately.
	//
	// Parameters:
	//   - width, height: the new surface size in logical pixels
	//
	// Returns:
	//   - error: a backend failure
	Resize(width, height int) error

	// PointerMove hit-tests the pointer against the graph and drives the tooltip.
	//
	// Parameters:
	//   - x, y: the pointer position relative to the surface
	//
	// Returns:
	//   - bool: true if a tooltip is shown
	PointerMove(x, y float64) bool

	// DriftTo starts a camera drift towards target, replacing any drift in progress.
	//
	// Parameters:
	//   - target: the requested camera destination
	//
	// Returns:
	//   - error: drift.ErrZeroTarget for a zero target
	DriftTo(target mgl32.Vec3) error

	// Attach adds an entity and waits for its Apply. The entity stays attached when Apply fails.
	//
	// Parameters:
	//   - ctx: bounds the Apply call
	//   - e: the entity
	//
	// Returns:
	//   - error: entity.ErrNilEntity, ErrClosed or the logged Apply failure
	Attach(ctx context.Context, e entity.Entity) error

	// Detach removes an entity and waits for its Destroy.
	//
	// Parameters:
	//   - ctx: bounds the Destroy call
	//   - e: the entity
	//
	// Returns:
	//   - error: entity.ErrNotAttached, ErrClosed or the Destroy failure
	Detach(ctx context.Context, e entity.Entity) error

	// Start requests the first frame from s. Each frame requests the next one until Stop,
	// Close or a render error. Starting a running scene does nothing.
	//
	// Parameters:
	//   - s: the frame scheduler
	Start(s frame.Scheduler)

	// Stop cancels the pending frame. In-flight entity work is not cancelled.
	Stop()

	// Running reports whether a frame is scheduled.
	Running() bool

	// Close stops the loop, destroys every entity and releases the renderer. Safe to call multiple times.
	//
	// Parameters:
	//   - ctx: bounds the entity teardown
	//
	// Returns:
	//   - error: joined Destroy failures
	Close(ctx context.Context) error

	Camera() camera.Camera
	Controls() camera.CameraController
	Drift() drift.Controller
	Graph() node.Graph
	Overlay() picking.Overlay
	Picker() picking.Picker
	Registry() entity.Registry
	Renderer() renderer.Renderer
}

type sceneImpl struct {
	mu *sync.Mutex

	camera   camera.Camera
	controls camera.CameraController
	drift    drift.Controller
	graph    node.Graph
	overlay  picking.Overlay
	picker   picking.Picker
	registry entity.Registry
	renderer renderer.Renderer

	lastTimestamp float64
	hasLast       bool

	// frame handle is per instance
	scheduler frame.Scheduler
	handle    frame.Handle
	running   bool

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	closed    bool
	closeErr  error

	onError func(error)
	log     *logger.Logger

	// construction inputs
	width, height   int
	ownsGraph       bool
	nodes           []node.Node
	rendererOptions []renderer.RendererBuilderOption
	cameraOptions   []camera.CameraBuilderOption
	controlsOptions []camera.CameraControllerOption
	driftOptions    []drift.ControllerBuilderOption
	pickerOptions   []picking.PickerBuilderOption
	registryOptions []entity.RegistryBuilderOption
}

var _ Scene = &sceneImpl{}

// NewScene builds a scene for a surface of width x height logical pixels and configures its renderer.
// Without WithRendererOptions supplying a surface or backend, configuration fails with renderer.ErrNoSurface.
//
// Parameters:
//   - width, height: the initial surface size
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the configured scene
//   - error: an error if the renderer could not be configured
func NewScene(width, height int, options ...SceneBuilderOption) (Scene, error) {
	s := &sceneImpl{
		mu:     &sync.Mutex{},
		width:  width,
		height: height,
		log:    logger.L().Named("scene"),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.onError == nil {
		s.onError = func(err error) {
			s.log.Errorw("frame loop stopped", "error", err)
		}
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if s.graph == nil {
		s.graph = node.NewGraph()
		s.ownsGraph = true
	}
	s.graph.Add(s.nodes...)

	s.camera = camera.NewCamera(s.cameraOptions...)
	s.controls = camera.NewCameraController(s.camera, s.controlsOptions...)
	s.drift = drift.NewController(s.camera, s.controls, append([]drift.ControllerBuilderOption{drift.WithLogger(s.log)}, s.driftOptions...)...)

	s.overlay = picking.NewOverlay()
	s.picker = picking.NewPicker(s.camera, s.graph, append([]picking.PickerBuilderOption{picking.WithSink(s.overlay), picking.WithLogger(s.log)}, s.pickerOptions...)...)
	s.registry = entity.NewRegistry(s.graph, append([]entity.RegistryBuilderOption{entity.WithLogger(s.log)}, s.registryOptions...)...)

	s.renderer = renderer.NewRenderer(s.camera, s.graph, append([]renderer.RendererBuilderOption{renderer.WithLogger(s.log.Named("renderer"))}, s.rendererOptions...)...)
	if err := s.renderer.Configure(width, height); err != nil {
		s.cancel()
		if s.ownsGraph {
			s.graph.Close()
		}
		return nil, fmt.Errorf("scene: configure renderer: %w", err)
	}
	s.controls.SetViewport(float32(width), float32(height))

	return s, nil
}

func (s *sceneImpl) Render(timestamp float64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	delta := 0.0
	if s.hasLast {
		delta = (timestamp - s.lastTimestamp) / 1000
	}
	s.lastTimestamp = timestamp
	s.hasLast = true
	s.mu.Unlock()

	s.controls.Update(delta)
	s.drift.Advance(timestamp)
	s.registry.RenderAll(s.ctx)
	return s.renderer.RenderFrame()
}

func (s *sceneImpl) Resize(width, height int) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	s.controls.SetViewport(float32(width), float32(height))
	if err := s.renderer.Resize(width, height); err != nil {
		return fmt.Errorf("scene: resize: %w", err)
	}
	return nil
}

func (s *sceneImpl) PointerMove(x, y float64) bool {
	w, h := s.renderer.Size()
	return s.picker.PointerMove(x, y, w, h)
}

func (s *sceneImpl) DriftTo(target mgl32.Vec3) error {
	return s.drift.DriftTo(target)
}

func (s *sceneImpl) Attach(ctx context.Context, e entity.Entity) error {
	if s.isClosed() {
		return ErrClosed
	}
	return s.registry.Attach(ctx, e)
}

func (s *sceneImpl) Detach(ctx context.Context, e entity.Entity) error {
	if s.isClosed() {
		return ErrClosed
	}
	return s.registry.Detach(ctx, e)
}

func (s *sceneImpl) Start(sched frame.Scheduler) {
	if sched == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.closed {
		return
	}
	s.scheduler = sched
	s.running = true
	s.handle = sched.Request(s.tick)
}

func (s *sceneImpl) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
}

func (s *sceneImpl) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *sceneImpl) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.stop()
		s.closed = true
		s.mu.Unlock()

		s.closeErr = s.registry.Close(ctx)
		s.cancel()
		s.renderer.Release()
		if s.ownsGraph {
			s.graph.Close()
		}
	})
	return s.closeErr
}

func (s *sceneImpl) Camera() camera.Camera {
	return s.camera
}

func (s *sceneImpl) Controls() camera.CameraController {
	return s.controls
}

func (s *sceneImpl) Drift() drift.Controller {
	return s.drift
}

func (s *sceneImpl) Graph() node.Graph {
	return s.graph
}

func (s *sceneImpl) Overlay() picking.Overlay {
	return s.overlay
}

func (s *sceneImpl) Picker() picking.Picker {
	return s.picker
}

func (s *sceneImpl) Registry() entity.Registry {
	return s.registry
}

func (s *sceneImpl) Renderer() renderer.Renderer {
	return s.renderer
}

// tick renders one scheduled frame and requests the next.
func (s *sceneImpl) tick(timestamp float64) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.handle = 0
	s.mu.Unlock()

	if err := s.renderFrame(timestamp); err != nil {
		s.Stop()
		s.onError(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.handle = s.scheduler.Request(s.tick)
	}
}

// renderFrame renders one scheduled frame, turning a panic into an error so the loop state stays truthful.
func (s *sceneImpl) renderFrame(timestamp float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
	}()
	return s.Render(timestamp)
}

// stop must be called with mu held.
func (s *sceneImpl) stop() {
	if s.scheduler != nil && s.handle != 0 {
		s.scheduler.Cancel(s.handle)
	}
	s.handle = 0
	s.running = false
}

func (s *sceneImpl) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
