package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights is the number of light slots in the renderer's light uniform.
// Enabled lights beyond this count are dropped.
const MaxGPULights = 4

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct in the renderer's scene shader.
// Size: 48 bytes (uniform aligned).
type GPULight struct {
	Direction   mgl32.Vec3 // offset  0: unit direction toward the light
	LightType   uint32     // offset 12: LightType value
	Color       mgl32.Vec3 // offset 16: RGB colour (sky colour for hemisphere)
	Intensity   float32    // offset 28: scalar multiplier
	GroundColor mgl32.Vec3 // offset 32: hemisphere ground colour
	_pad        uint32     // offset 44: padding to 48 bytes
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 48)
	putVec3(buf[0:12], g.Direction)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	putVec3(buf[16:28], g.Color)
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	putVec3(buf[32:44], g.GroundColor)
	return buf
}

// GPULightHeader is the header at the start of the light uniform.
// Size: 16 bytes (u32 + padding).
type GPULightHeader struct {
	LightCount uint32    // offset 0: number of populated light slots
	_pad       [3]uint32 // offset 4: padding to 16 bytes
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], h.LightCount)
	return buf
}

// ToGPU converts a light into its GPU representation.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - GPULight: the GPU light
func ToGPU(l Light) GPULight {
	return GPULight{
		Direction:   l.Direction(),
		LightType:   uint32(l.Type()),
		Color:       l.Color(),
		Intensity:   l.Intensity(),
		GroundColor: l.GroundColor(),
	}
}

// UniformSize is the byte size of the buffer produced by MarshalLights.
const UniformSize = 16 + MaxGPULights*48

// MarshalLights packs the enabled lights into the light uniform layout: a header followed by
// MaxGPULights slots. Unused slots are zero.
//
// Parameters:
//   - lights: the scene lights
//
// Returns:
//   - []byte: UniformSize bytes ready for GPU upload
func MarshalLights(lights []Light) []byte {
	buf := make([]byte, UniformSize)
	count := 0
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		if count == MaxGPULights {
			break
		}
		g := ToGPU(l)
		copy(buf[16+count*48:], g.Marshal())
		count++
	}
	h := GPULightHeader{LightCount: uint32(count)}
	copy(buf[0:16], h.Marshal())
	return buf
}

func putVec3(buf []byte, v mgl32.Vec3) {
	for i := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}
