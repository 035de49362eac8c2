package postprocess

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Default bloom settings of the view.
const (
	DefaultBloomThreshold = 0.0
	DefaultBloomStrength  = 0.05
	DefaultBloomRadius    = 0.3

	// BloomTaps is the number of one-sided kernel weights the blur shader samples.
	BloomTaps = 8

	// bloomSmoothWidth softens the bright-pass cutoff.
	bloomSmoothWidth = 0.01
)

// BloomPass extracts bright areas, blurs them at half resolution and adds them back onto the scene.
type BloomPass struct {
	passBase

	// Threshold is the luminance above which pixels glow.
	Threshold float32
	// Strength scales the blurred glow when it is added back.
	Strength float32
	// Radius widens the blur; 0 is a tight halo, 1 a wide one.
	Radius float32
}

var _ Pass = &BloomPass{}

// NewBloomPass creates an enabled bloom pass.
//
// Parameters:
//   - threshold: luminance threshold
//   - strength: glow strength
//   - radius: blur radius in [0, 1]
//
// Returns:
//   - *BloomPass: the pass
func NewBloomPass(threshold, strength, radius float32) *BloomPass {
	return &BloomPass{
		passBase:  passBase{enabled: true, width: 1, height: 1},
		Threshold: threshold,
		Strength:  strength,
		Radius:    radius,
	}
}

func (p *BloomPass) Name() string {
	return "bloom"
}

// Resolution returns the size of the blur targets: half the pass size, at least 1x1.
//
// Returns:
//   - int: width in pixels
//   - int: height in pixels
func (p *BloomPass) Resolution() (int, int) {
	return max(p.width/2, 1), max(p.height/2, 1)
}

// Sigma returns the standard deviation of the blur kernel in blur-target pixels.
//
// Returns:
//   - float32: the sigma
func (p *BloomPass) Sigma() float32 {
	r := float32(mgl32.Clamp(p.Radius, 0, 1))
	return 1 + r*float32(BloomTaps-1)
}

// Weights returns a one-sided Gaussian kernel of taps weights. Weight 0 is the centre sample and weights
// 1..taps-1 are used on both sides, so w[0] + 2*(w[1] + ... + w[taps-1]) == 1.
//
// Parameters:
//   - taps: number of weights, at least 1
//
// Returns:
//   - []float32: the normalised weights
func (p *BloomPass) Weights(taps int) []float32 {
	taps = max(taps, 1)
	sigma := float64(p.Sigma())

	w := make([]float64, taps)
	sum := 0.0
	for i := range w {
		w[i] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
		if i == 0 {
			sum += w[i]
		} else {
			sum += 2 * w[i]
		}
	}

	out := make([]float32, taps)
	for i := range w {
		out[i] = float32(w[i] / sum)
	}
	return out
}

// BrightPass keeps the part of rgb that glows: colours whose luminance clears the threshold pass
// unchanged, darker ones fade to black over a short smooth band.
//
// Parameters:
//   - rgb: linear HDR colour
//
// Returns:
//   - mgl32.Vec3: the glowing part of the colour
func (p *BloomPass) BrightPass(rgb mgl32.Vec3) mgl32.Vec3 {
	alpha := smoothstep(p.Threshold, p.Threshold+bloomSmoothWidth, Luminance(rgb))
	return rgb.Mul(alpha)
}

// SmoothWidth returns the luminance band over which BrightPass fades from black to full colour.
func (p *BloomPass) SmoothWidth() float32 {
	return bloomSmoothWidth
}

// Composite adds the blurred glow to the scene colour.
//
// Parameters:
//   - scene: the scene colour
//   - glow: the blurred bright-pass colour
//
// Returns:
//   - mgl32.Vec3: the combined colour
func (p *BloomPass) Composite(scene, glow mgl32.Vec3) mgl32.Vec3 {
	return scene.Add(glow.Mul(p.Strength))
}

// Luminance returns the Rec. 709 relative luminance of a linear colour.
//
// Parameters:
//   - rgb: linear colour
//
// Returns:
//   - float32: the luminance
func Luminance(rgb mgl32.Vec3) float32 {
	return rgb.Dot(mgl32.Vec3{0.2126, 0.7152, 0.0722})
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := mgl32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
