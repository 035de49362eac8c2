package postprocess

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidChain is returned by Validate when the pass chain cannot be executed.
var ErrInvalidChain = errors.New("postprocess: invalid pass chain")

type composerImpl struct {
	mu *sync.Mutex

	passes []Pass

	width      int
	height     int
	pixelRatio float32
}

// Composer holds the ordered pass chain and keeps every pass sized to the output.
// Sizes given to the composer are logical pixels; passes are sized in physical pixels (logical * pixel ratio).
type Composer interface {
	// AddPass appends a pass and sizes it to the composer.
	//
	// Parameters:
	//   - p: the pass to append
	AddPass(p Pass)

	// Passes returns the chain in execution order.
	//
	// Returns:
	//   - []Pass: a copy of the pass list
	Passes() []Pass

	// SetSize resizes the composer and every pass. Dimensions below 1 are clamped to 1.
	//
	// Parameters:
	//   - width: logical width
	//   - height: logical height
	SetSize(width, height int)

	// Size returns the logical size.
	//
	// Returns:
	//   - int: logical width
	//   - int: logical height
	Size() (int, int)

	// SetPixelRatio sets the physical-to-logical pixel ratio and resizes every pass.
	//
	// Parameters:
	//   - ratio: the ratio, non-positive values are ignored
	SetPixelRatio(ratio float32)

	// PixelRatio returns the physical-to-logical pixel ratio.
	//
	// Returns:
	//   - float32: the ratio
	PixelRatio() float32

	// PhysicalSize returns the size passes are rendered at.
	//
	// Returns:
	//   - int: physical width
	//   - int: physical height
	PhysicalSize() (int, int)

	// Render returns the first RenderPass in the chain.
	Render() (*RenderPass, bool)

	// Bloom returns the first BloomPass in the chain.
	Bloom() (*BloomPass, bool)

	// Output returns the first OutputPass in the chain.
	Output() (*OutputPass, bool)

	// Validate checks that the chain begins with a RenderPass and ends with an OutputPass.
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidChain, or nil
	Validate() error

	// Apply runs the enabled colour stages of the chain on one pixel: bloom's bright pass is added back
	// unblurred, then the output pass tone maps. It mirrors the GPU chain for a flat-coloured image.
	//
	// Parameters:
	//   - rgb: the linear HDR scene colour
	//
	// Returns:
	//   - mgl32.Vec3: the display colour
	Apply(rgb mgl32.Vec3) mgl32.Vec3
}

var _ Composer = &composerImpl{}

// NewComposer creates a composer. Without WithPasses the chain is the view's default:
// render (clear black) → bloom (threshold 0, strength 0.05, radius 0.3) → output (Reinhard, exposure 1).
//
// Parameters:
//   - options: functional options to configure the composer
//
// Returns:
//   - Composer: the newly created composer
func NewComposer(options ...ComposerBuilderOption) Composer {
	c := &composerImpl{
		mu:         &sync.Mutex{},
		width:      1,
		height:     1,
		pixelRatio: 1,
	}
	for _, option := range options {
		option(c)
	}
	if c.passes == nil {
		c.passes = []Pass{
			NewRenderPass(DefaultClearColor),
			NewBloomPass(DefaultBloomThreshold, DefaultBloomStrength, DefaultBloomRadius),
			NewOutputPass(ToneMappingReinhard, 1.0),
		}
	}
	c.resizePasses()
	return c
}

func (c *composerImpl) AddPass(p Pass) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, h := c.physicalSize()
	p.SetSize(w, h)
	c.passes = append(c.passes, p)
}

func (c *composerImpl) Passes() []Pass {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Pass, len(c.passes))
	copy(out, c.passes)
	return out
}

func (c *composerImpl) SetSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.resizePasses()
}

func (c *composerImpl) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *composerImpl) SetPixelRatio(ratio float32) {
	if ratio <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pixelRatio = ratio
	c.resizePasses()
}

func (c *composerImpl) PixelRatio() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelRatio
}

func (c *composerImpl) PhysicalSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.physicalSize()
}

func (c *composerImpl) Render() (*RenderPass, bool) {
	return find[*RenderPass](c)
}

func (c *composerImpl) Bloom() (*BloomPass, bool) {
	return find[*BloomPass](c)
}

func (c *composerImpl) Output() (*OutputPass, bool) {
	return find[*OutputPass](c)
}

func (c *composerImpl) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.passes) < 2 {
		return fmt.Errorf("%w: need at least a render and an output pass, have %d passes", ErrInvalidChain, len(c.passes))
	}
	if _, ok := c.passes[0].(*RenderPass); !ok {
		return fmt.Errorf("%w: first pass is %q, want render", ErrInvalidChain, c.passes[0].Name())
	}
	last := c.passes[len(c.passes)-1]
	if _, ok := last.(*OutputPass); !ok {
		return fmt.Errorf("%w: last pass is %q, want output", ErrInvalidChain, last.Name())
	}
	return nil
}

func (c *composerImpl) Apply(rgb mgl32.Vec3) mgl32.Vec3 {
	for _, p := range c.Passes() {
		if !p.Enabled() {
			continue
		}
		switch pass := p.(type) {
		case *BloomPass:
			rgb = pass.Composite(rgb, pass.BrightPass(rgb))
		case *OutputPass:
			rgb = pass.Apply(rgb)
		}
	}
	return rgb
}

// physicalSize returns logical size times pixel ratio. Caller must hold the mutex.
func (c *composerImpl) physicalSize() (int, int) {
	w := max(int(float32(c.width)*c.pixelRatio), 1)
	h := max(int(float32(c.height)*c.pixelRatio), 1)
	return w, h
}

// resizePasses sizes every pass to the physical size. Caller must hold the mutex.
func (c *composerImpl) resizePasses() {
	w, h := c.physicalSize()
	for _, p := range c.passes {
		p.SetSize(w, h)
	}
}

func find[T Pass](c *composerImpl) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.passes {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
