package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/Carmen-Shannon/oxy-view/engine/postprocess"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNotConfigured is returned by RenderFrame and Resize before Configure succeeded.
	ErrNotConfigured = errors.New("renderer: not configured")

	// ErrNoSurface is returned by Configure when no backend was supplied and no surface is available to create one.
	ErrNoSurface = errors.New("renderer: no surface to create a backend for")
)

// Surface provides the platform surface a WebGPU backend renders into. window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// ContentScaler is implemented by surfaces that know their display's pixel ratio.
type ContentScaler interface {
	ContentScale() float32
}

// FrameStats describes the last frame drawn.
type FrameStats struct {
	Drawn   int
	Culled  int
	Batches int
}

type renderer struct {
	mu *sync.Mutex

	backendType          RendererBackendType
	backend              RendererBackend
	surface              Surface
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount

	camera   camera.Camera
	graph    node.Graph
	lights   []light.Light
	composer postprocess.Composer

	pixelRatio  float32
	toneMapping *postprocess.ToneMapping
	exposure    *float32

	configured bool
	stats      FrameStats

	log *logger.Logger
}

// Renderer draws the scene graph from the camera through the postprocess chain:
// geometry into an HDR target, bloom, then a tone-mapped output pass onto the surface.
type Renderer interface {
	// Configure sizes the pass chain and the surface and creates the backend if none was supplied.
	// Sizes below 1 are clamped to 1.
	//
	// Parameters:
	//   - width: logical width
	//   - height: logical height
	//
	// Returns:
	//   - error: an error if the chain is invalid or the backend could not configure the surface
	Configure(width, height int) error

	// Resize updates the camera aspect, resizes every target and immediately renders one frame.
	//
	// Parameters:
	//   - width: logical width
	//   - height: logical height
	//
	// Returns:
	//   - error: an error from reconfiguring or rendering
	Resize(width, height int) error

	// RenderFrame collects the visible, frustum-culled geometry and runs the pass chain once.
	//
	// Returns:
	//   - error: the backend error, wrapped
	RenderFrame() error

	// Camera returns the camera the renderer draws from.
	Camera() camera.Camera

	// Graph returns the scene graph being drawn.
	Graph() node.Graph

	// Composer returns the postprocess chain. Pass settings changed through it apply from the next frame.
	Composer() postprocess.Composer

	// Lights returns the lights uploaded every frame.
	Lights() []light.Light

	// AddLight appends a light.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// Size returns the logical size last configured.
	//
	// Returns:
	//   - int: logical width
	//   - int: logical height
	Size() (int, int)

	// Stats returns counters from the last frame.
	//
	// Returns:
	//   - FrameStats: the counters
	Stats() FrameStats

	// Release frees the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer for the given camera and scene graph. Without WithLight the scene is lit
// by a single hemisphere light. Without WithBackend a WebGPU backend is created on Configure from the
// surface set by WithSurface.
//
// Parameters:
//   - cam: the camera to draw from
//   - graph: the scene graph to draw
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer, unconfigured
func NewRenderer(cam camera.Camera, graph node.Graph, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeWGPU,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
		camera:      cam,
		graph:       graph,
		log:         logger.L().Named("renderer"),
	}
	for _, option := range options {
		option(r)
	}
	if r.composer == nil {
		r.composer = postprocess.NewComposer()
	}
	if len(r.lights) == 0 {
		r.lights = []light.Light{light.NewHemisphereLight()}
	}
	if out, ok := r.composer.Output(); ok {
		if r.toneMapping != nil {
			out.ToneMapping = *r.toneMapping
		}
		if r.exposure != nil {
			out.Exposure = *r.exposure
		}
	}
	return r
}

func (r *renderer) Configure(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.composer.Validate(); err != nil {
		return err
	}

	ratio := r.pixelRatio
	if ratio <= 0 {
		ratio = 1
		if cs, ok := r.surface.(ContentScaler); ok && cs.ContentScale() > 0 {
			ratio = cs.ContentScale()
		}
	}
	r.composer.SetPixelRatio(ratio)

	if r.backend == nil {
		if r.surface == nil {
			return ErrNoSurface
		}
		switch r.backendType {
		case BackendTypeWGPU:
			r.backend = newWGPURendererBackend(r.surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
		default:
			return fmt.Errorf("renderer: unsupported backend type %d", r.backendType)
		}
	}
	r.backend.SetPresentMode(r.presentMode)

	if err := r.resize(width, height); err != nil {
		return err
	}
	r.configured = true
	r.log.Debugw("renderer configured", "width", width, "height", height, "pixelRatio", ratio, "msaa", r.msaa)
	return nil
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.configured {
		return ErrNotConfigured
	}
	if err := r.resize(width, height); err != nil {
		return err
	}
	return r.renderFrame()
}

func (r *renderer) RenderFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.configured {
		return ErrNotConfigured
	}
	return r.renderFrame()
}

func (r *renderer) Camera() camera.Camera {
	return r.camera
}

func (r *renderer) Graph() node.Graph {
	return r.graph
}

func (r *renderer) Composer() postprocess.Composer {
	return r.composer
}

func (r *renderer) Lights() []light.Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]light.Light, len(r.lights))
	copy(out, r.lights)
	return out
}

func (r *renderer) AddLight(l light.Light) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lights = append(r.lights, l)
}

func (r *renderer) Size() (int, int) {
	return r.composer.Size()
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
	r.configured = false
}

// resize clamps the size, updates the camera aspect and reconfigures the backend. Caller must hold the mutex.
func (r *renderer) resize(width, height int) error {
	width = max(width, 1)
	height = max(height, 1)

	r.camera.SetAspect(float32(width) / float32(height))
	r.composer.SetSize(width, height)

	pw, ph := r.composer.PhysicalSize()
	bw, bh := pw, ph
	if bloom, ok := r.composer.Bloom(); ok {
		bw, bh = bloom.Resolution()
	}
	if err := r.backend.ConfigureSurface(pw, ph, bw, bh); err != nil {
		return fmt.Errorf("renderer: configure surface %dx%d: %w", pw, ph, err)
	}
	return nil
}

// renderFrame builds the frame and hands it to the backend. Caller must hold the mutex.
func (r *renderer) renderFrame() error {
	frame, stats := r.buildFrame()
	r.stats = stats
	if err := r.backend.Draw(frame); err != nil {
		return fmt.Errorf("renderer: draw frame: %w", err)
	}
	return nil
}

// buildFrame snapshots the graph, culls against the camera frustum and groups instances by geometry
// in first-seen order. Caller must hold the mutex.
func (r *renderer) buildFrame() (*FrameData, FrameStats) {
	uniform := r.camera.Uniform()
	frustum := common.ExtractFrustum(r.camera.ViewProjectionMatrix())

	var stats FrameStats
	groups := map[*geometry.Geometry][]node.Item{}
	var order []*geometry.Geometry
	for _, it := range r.graph.Snapshot() {
		bmin, bmax := it.Geometry.Bounds()
		wmin, wmax := geometry.TransformAABB(bmin, bmax, it.World)
		if !frustum.IntersectsAABB(wmin, wmax) {
			stats.Culled++
			continue
		}
		if _, ok := groups[it.Geometry]; !ok {
			order = append(order, it.Geometry)
		}
		groups[it.Geometry] = append(groups[it.Geometry], it)
		stats.Drawn++
	}

	frame := &FrameData{
		Camera:    uniform.Marshal(),
		Lights:    light.MarshalLights(r.lights),
		Instances: make([]byte, 0, stats.Drawn*80),
		Batches:   make([]DrawBatch, 0, len(order)),
		Post:      r.postParams(),
	}
	var first uint32
	for _, g := range order {
		items := groups[g]
		for _, it := range items {
			inst := instanceFromItem(it)
			frame.Instances = append(frame.Instances, inst.Marshal()...)
		}
		frame.Batches = append(frame.Batches, DrawBatch{Geometry: g, First: first, Count: uint32(len(items))})
		first += uint32(len(items))
	}
	stats.Batches = len(frame.Batches)

	if rp, ok := r.composer.Render(); ok {
		frame.ClearColor = rp.ClearColor
	}
	return frame, stats
}

func (r *renderer) postParams() PostParams {
	p := PostParams{ToneMapping: postprocess.ToneMappingNone, Exposure: 1}
	if bloom, ok := r.composer.Bloom(); ok && bloom.Enabled() {
		p.Bloom = true
		p.Threshold = bloom.Threshold
		p.SmoothWidth = bloom.SmoothWidth()
		p.Strength = bloom.Strength
		p.Weights = bloom.Weights(MaxBloomTaps)
		p.BloomWidth, p.BloomHeight = bloom.Resolution()
	}
	if out, ok := r.composer.Output(); ok && out.Enabled() {
		p.ToneMapping = out.ToneMapping
		p.Exposure = out.Exposure
	}
	return p
}
