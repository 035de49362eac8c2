package common

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// SamplerField flags one field of SamplerStagingData as explicitly set.
type SamplerField uint16

const (
	SamplerAddressModeU SamplerField = 1 << iota
	SamplerAddressModeV
	SamplerAddressModeW
	SamplerMagFilter
	SamplerMinFilter
	SamplerMipmapFilter
	SamplerLodMinClamp
	SamplerLodMaxClamp
)

// SamplerStagingData holds sampler settings before the GPU sampler is created.
// Several wgpu enums use zero for a real mode (FilterModeNearest, AddressModeRepeat), so a field only
// overrides the backend default when its flag is in Set. MaxAnisotropy has no valid zero and is
// overridden whenever it is non-zero.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	MaxAnisotropy                            uint16

	Set SamplerField
}

// Has reports whether field was explicitly set.
//
// Parameters:
//   - field: the field flag
//
// Returns:
//   - bool: true if the flag is in Set
func (s SamplerStagingData) Has(field SamplerField) bool {
	return s.Set&field != 0
}

// HexColor converts a 0xRRGGBB value into a linear RGB vector with components in [0, 1].
//
// Parameters:
//   - hex: the packed colour
//
// Returns:
//   - mgl32.Vec3: the colour as floats
func HexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}
