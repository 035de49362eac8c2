package postprocess

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Pass is one full-screen stage of the postprocess chain.
type Pass interface {
	// Name identifies the pass in logs and GPU labels.
	Name() string

	// Enabled reports whether the pass runs.
	Enabled() bool

	// SetEnabled turns the pass on or off.
	SetEnabled(enabled bool)

	// SetSize resizes the pass's targets, in physical pixels.
	SetSize(width, height int)

	// Size returns the pass's size in physical pixels.
	Size() (int, int)
}

type passBase struct {
	enabled bool
	width   int
	height  int
}

func (p *passBase) Enabled() bool {
	return p.enabled
}

func (p *passBase) SetEnabled(enabled bool) {
	p.enabled = enabled
}

func (p *passBase) SetSize(width, height int) {
	p.width = max(width, 1)
	p.height = max(height, 1)
}

func (p *passBase) Size() (int, int) {
	return p.width, p.height
}

// RenderPass draws the scene geometry into the HDR target, cleared to ClearColor first.
type RenderPass struct {
	passBase
	ClearColor mgl32.Vec4
}

var _ Pass = &RenderPass{}

// DefaultClearColor is opaque black.
var DefaultClearColor = mgl32.Vec4{0, 0, 0, 1}

// NewRenderPass creates an enabled geometry pass.
//
// Parameters:
//   - clear: the clear colour (RGBA)
//
// Returns:
//   - *RenderPass: the pass
func NewRenderPass(clear mgl32.Vec4) *RenderPass {
	return &RenderPass{passBase: passBase{enabled: true, width: 1, height: 1}, ClearColor: clear}
}

func (p *RenderPass) Name() string {
	return "render"
}

// OutputPass tone maps the HDR composite into the display surface.
type OutputPass struct {
	passBase
	ToneMapping ToneMapping
	Exposure    float32
}

var _ Pass = &OutputPass{}

// NewOutputPass creates an enabled output pass.
//
// Parameters:
//   - tm: the tone-mapping operator
//   - exposure: exposure multiplier applied before tone mapping
//
// Returns:
//   - *OutputPass: the pass
func NewOutputPass(tm ToneMapping, exposure float32) *OutputPass {
	return &OutputPass{passBase: passBase{enabled: true, width: 1, height: 1}, ToneMapping: tm, Exposure: exposure}
}

func (p *OutputPass) Name() string {
	return "output"
}

// Apply runs the pass on one linear HDR colour, the CPU mirror of the output shader.
//
// Parameters:
//   - rgb: linear HDR colour
//
// Returns:
//   - mgl32.Vec3: the display colour
func (p *OutputPass) Apply(rgb mgl32.Vec3) mgl32.Vec3 {
	return p.ToneMapping.Apply(rgb, p.Exposure)
}
