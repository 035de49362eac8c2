package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/postprocess"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the graphics API a backend drives.
type RendererBackendType int

const (
	// BackendTypeWGPU drives WebGPU through wgpu-native.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode selects how finished frames are presented to the surface.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank (FIFO).
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately, may tear.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel for the geometry pass.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// DrawBatch is one indexed draw of a shared geometry: Count instances starting at First in FrameData.Instances.
type DrawBatch struct {
	Geometry *geometry.Geometry
	First    uint32
	Count    uint32
}

// PostParams carries the bloom and output pass settings of one frame.
type PostParams struct {
	Bloom       bool
	Threshold   float32
	SmoothWidth float32
	Strength    float32
	Weights     []float32
	BloomWidth  int
	BloomHeight int

	ToneMapping postprocess.ToneMapping
	Exposure    float32
}

// Uniform builds the post uniform for one fullscreen pass.
//
// Parameters:
//   - direction: blur axis, zero for non-blur passes
//   - width: width of the sampled texture
//   - height: height of the sampled texture
//
// Returns:
//   - GPUPostUniform: the uniform
func (p PostParams) Uniform(direction mgl32.Vec2, width, height int) GPUPostUniform {
	u := GPUPostUniform{
		Threshold:   p.Threshold,
		SmoothWidth: p.SmoothWidth,
		Strength:    p.Strength,
		Exposure:    p.Exposure,
		Texel:       mgl32.Vec2{1 / float32(max(width, 1)), 1 / float32(max(height, 1))},
		Direction:   direction,
		ToneMapping: uint32(p.ToneMapping),
	}
	n := copy(u.Weights[:], p.Weights)
	u.Taps = uint32(n)
	if p.Bloom {
		u.BloomEnabled = 1
	}
	return u
}

// FrameData is everything a backend needs to draw one frame. The renderer assembles it from the
// camera, lights, scene graph snapshot and composer.
type FrameData struct {
	Camera     []byte
	Lights     []byte
	Instances  []byte
	Batches    []DrawBatch
	ClearColor mgl32.Vec4
	Post       PostParams
}

// RendererBackend is the device-facing half of the renderer. Implementations own the surface,
// GPU resources and the pass chain's render targets.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and every size-dependent render target.
	//
	// Parameters:
	//   - width: physical surface width, at least 1
	//   - height: physical surface height, at least 1
	//   - bloomWidth: bloom target width
	//   - bloomHeight: bloom target height
	//
	// Returns:
	//   - error: an error if a target could not be created
	ConfigureSurface(width, height, bloomWidth, bloomHeight int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// Draw executes the pass chain once and presents the result.
	//
	// Parameters:
	//   - frame: the frame to draw
	//
	// Returns:
	//   - error: an error if any stage failed; the frame is not presented
	Draw(frame *FrameData) error

	// Release frees every GPU resource held by the backend.
	Release()
}
