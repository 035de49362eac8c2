package picking

import (
	"html"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultOffset is the distance in pixels the tooltip sits right of and below the pointer.
const DefaultOffset = 2.0

// RayCaster produces a world-space ray through a point in normalized device coordinates.
// camera.Camera satisfies it.
type RayCaster interface {
	Ray(ndcX, ndcY float32) geometry.Ray
}

// Intersector returns every hit of a ray against a scene, nearest first. node.Graph satisfies it.
type Intersector interface {
	Intersect(ray geometry.Ray) []node.Hit
}

// Result is the outcome of a successful pick.
type Result struct {
	Node     node.Node
	Tooltip  node.Tooltip
	Distance float32
	Point    mgl32.Vec3
}

type pickerImpl struct {
	mu *sync.Mutex

	camera RayCaster
	scene  Intersector
	sink   Sink

	offsetX float64
	offsetY float64

	log *logger.Logger
}

// Picker resolves pointer positions to the nearest tooltip-bearing node and drives a tooltip Sink.
// It keeps no state between events.
type Picker interface {
	// PointerMove handles one pointer-move event. The nearest intersected node carrying a tooltip is
	// shown on the sink at the pointer plus the offset; when no such node is hit the sink is hidden.
	//
	// Parameters:
	//   - x, y: pointer position in surface-local pixels
	//   - width, height: surface size in pixels
	//
	// Returns:
	//   - bool: true if a tooltip is shown
	PointerMove(x, y float64, width, height int) bool

	// Pick performs the hit-test for a pointer position without touching the sink.
	//
	// Parameters:
	//   - x, y: pointer position in surface-local pixels
	//   - width, height: surface size in pixels
	//
	// Returns:
	//   - Result: the nearest tooltip-bearing hit
	//   - bool: false if nothing with a tooltip was hit
	Pick(x, y float64, width, height int) (Result, bool)

	// Sink returns the tooltip sink.
	//
	// Returns:
	//   - Sink: the sink driven by PointerMove
	Sink() Sink

	// SetSink replaces the tooltip sink.
	//
	// Parameters:
	//   - s: the new sink, nil installs a fresh Overlay
	SetSink(s Sink)
}

var _ Picker = &pickerImpl{}

// NewPicker creates a picker casting rays from camera into scene. Without WithSink the picker drives a fresh Overlay.
//
// Parameters:
//   - camera: the ray source
//   - scene: the intersection target
//   - options: functional options to configure the picker
//
// Returns:
//   - Picker: the newly created picker
func NewPicker(camera RayCaster, scene Intersector, options ...PickerBuilderOption) Picker {
	p := &pickerImpl{
		mu:      &sync.Mutex{},
		camera:  camera,
		scene:   scene,
		offsetX: DefaultOffset,
		offsetY: DefaultOffset,
		log:     logger.L().Named("picking"),
	}
	for _, option := range options {
		option(p)
	}
	if p.sink == nil {
		p.sink = NewOverlay()
	}
	return p
}

// NDC converts a surface-local pixel position into normalized device coordinates with Y pointing up.
//
// Parameters:
//   - x, y: pointer position in pixels
//   - width, height: surface size in pixels, must be positive
//
// Returns:
//   - float32: x in [-1, 1]
//   - float32: y in [-1, 1]
func NDC(x, y float64, width, height int) (float32, float32) {
	nx := (x/float64(width))*2 - 1
	ny := -((y/float64(height))*2 - 1)
	return float32(nx), float32(ny)
}

// FormatContent renders tooltip lines as the overlay's HTML-safe content: each line escaped, joined by <br>,
// wrapped in a <div>.
//
// Parameters:
//   - t: the tooltip lines
//
// Returns:
//   - string: the overlay content
func FormatContent(t node.Tooltip) string {
	escaped := make([]string, len(t))
	for i, line := range t {
		escaped[i] = html.EscapeString(line)
	}
	return "<div>" + strings.Join(escaped, "<br>") + "</div>"
}

// PlainText reverses FormatContent into a single line for sinks that cannot render markup.
//
// Parameters:
//   - content: content produced by FormatContent
//   - sep: separator placed between lines
//
// Returns:
//   - string: the unescaped text
func PlainText(content, sep string) string {
	content = strings.TrimPrefix(content, "<div>")
	content = strings.TrimSuffix(content, "</div>")
	lines := strings.Split(content, "<br>")
	for i, line := range lines {
		lines[i] = html.UnescapeString(line)
	}
	return strings.Join(lines, sep)
}

func (p *pickerImpl) PointerMove(x, y float64, width, height int) bool {
	res, ok := p.Pick(x, y, width, height)

	p.mu.Lock()
	sink, ox, oy := p.sink, p.offsetX, p.offsetY
	p.mu.Unlock()

	if !ok {
		sink.Hide()
		return false
	}
	sink.Show(x+ox, y+oy, FormatContent(res.Tooltip))
	return true
}

func (p *pickerImpl) Pick(x, y float64, width, height int) (Result, bool) {
	if width <= 0 || height <= 0 {
		return Result{}, false
	}
	nx, ny := NDC(x, y, width, height)
	ray := p.camera.Ray(nx, ny)

	for _, hit := range p.scene.Intersect(ray) {
		tip := hit.Node.Tooltip()
		if len(tip) == 0 {
			continue
		}
		p.log.Debugw("pick", "node", hit.Node.Name(), "distance", hit.Distance)
		return Result{Node: hit.Node, Tooltip: tip, Distance: hit.Distance, Point: hit.Point}, true
	}
	return Result{}, false
}

func (p *pickerImpl) Sink() Sink {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink
}

func (p *pickerImpl) SetSink(s Sink) {
	if s == nil {
		s = NewOverlay()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = s
}
