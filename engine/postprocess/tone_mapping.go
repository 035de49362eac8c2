package postprocess

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ToneMapping selects how HDR colour is compressed into the displayable range.
// The numeric values are shared with the output shader.
type ToneMapping uint32

const (
	ToneMappingNone ToneMapping = iota
	ToneMappingLinear
	ToneMappingReinhard
	ToneMappingCineon
	ToneMappingACESFilmic
)

var toneMappingNames = map[ToneMapping]string{
	ToneMappingNone:       "none",
	ToneMappingLinear:     "linear",
	ToneMappingReinhard:   "reinhard",
	ToneMappingCineon:     "cineon",
	ToneMappingACESFilmic: "aces",
}

func (t ToneMapping) String() string {
	if name, ok := toneMappingNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ToneMapping(%d)", uint32(t))
}

// ParseToneMapping returns the operator with the given name (case-insensitive), as printed by String.
//
// Parameters:
//   - s: the operator name
//
// Returns:
//   - ToneMapping: the operator
//   - error: an error if the name is unknown
func ParseToneMapping(s string) (ToneMapping, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for tm, name := range toneMappingNames {
		if name == s {
			return tm, nil
		}
	}
	if s == "acesfilmic" {
		return ToneMappingACESFilmic, nil
	}
	return ToneMappingNone, fmt.Errorf("unknown tone mapping %q", s)
}

var (
	acesInput = mgl32.Mat3{
		0.59719, 0.07600, 0.02840,
		0.35458, 0.90834, 0.13383,
		0.04823, 0.01566, 0.83777,
	}
	acesOutput = mgl32.Mat3{
		1.60475, -0.10208, -0.00327,
		-0.53108, 1.10813, -0.07276,
		-0.07367, -0.00605, 1.07602,
	}
)

// Apply maps a linear HDR colour to display range. It mirrors the output shader and is what tests check against.
//
// Parameters:
//   - rgb: linear HDR colour
//   - exposure: multiplier applied first
//
// Returns:
//   - mgl32.Vec3: the tone-mapped colour
func (t ToneMapping) Apply(rgb mgl32.Vec3, exposure float32) mgl32.Vec3 {
	switch t {
	case ToneMappingLinear:
		return saturate(rgb.Mul(exposure))
	case ToneMappingReinhard:
		c := rgb.Mul(exposure)
		return saturate(mgl32.Vec3{c[0] / (1 + c[0]), c[1] / (1 + c[1]), c[2] / (1 + c[2])})
	case ToneMappingCineon:
		c := rgb.Mul(exposure)
		var out mgl32.Vec3
		for i := range c {
			x := max(c[i]-0.004, 0)
			out[i] = float32(math.Pow(float64((x*(6.2*x+0.5))/(x*(6.2*x+1.7)+0.06)), 2.2))
		}
		return out
	case ToneMappingACESFilmic:
		c := acesInput.Mul3x1(rgb.Mul(exposure / 0.6))
		for i := range c {
			v := c[i]
			c[i] = (v*(v+0.0245786) - 0.000090537) / (v*(0.983729*v+0.4329510) + 0.238081)
		}
		return saturate(acesOutput.Mul3x1(c))
	default:
		return rgb
	}
}

func saturate(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.Clamp(c[0], 0, 1), mgl32.Clamp(c[1], 0, 1), mgl32.Clamp(c[2], 0, 1)}
}
