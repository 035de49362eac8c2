package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneShaderSource is the geometry pass shader: camera and light uniforms in group 0,
// the instance storage buffer in group 1, and a lit, emissive fragment written to the HDR target.
//
//go:embed assets/scene.wgsl
var SceneShaderSource string

// PostShaderSource holds the fullscreen passes of the chain: fs_bright, fs_blur and fs_output.
//
//go:embed assets/post.wgsl
var PostShaderSource string

// MaxBloomTaps is the number of one-sided blur weights the post uniform can carry.
const MaxBloomTaps = 8

// GPUInstance is the GPU-aligned representation of one drawn node.
// Matches the WGSL Instance struct in SceneShaderSource.
// Size: 80 bytes (std430 aligned).
type GPUInstance struct {
	Model    mgl32.Mat4 // offset  0: world matrix (mat4x4<f32>)
	Color    mgl32.Vec3 // offset 64: base colour
	Emissive float32    // offset 76: emissive multiplier
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, 80)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Color[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.Emissive))
	return buf
}

func instanceFromItem(it node.Item) GPUInstance {
	return GPUInstance{Model: it.World, Color: it.Color, Emissive: it.Emissive}
}

// GPUPostUniform is the GPU-aligned uniform shared by the fullscreen passes.
// Matches the WGSL Post struct in PostShaderSource.
// Size: 80 bytes (uniform aligned).
type GPUPostUniform struct {
	Threshold    float32               // offset  0: bright pass luminance threshold
	SmoothWidth  float32               // offset  4: bright pass fade band
	Strength     float32               // offset  8: bloom mix strength
	Exposure     float32               // offset 12: output exposure
	Texel        mgl32.Vec2            // offset 16: 1/size of the sampled texture
	Direction    mgl32.Vec2            // offset 24: blur axis, (1,0) or (0,1)
	Weights      [MaxBloomTaps]float32 // offset 32: one-sided gaussian weights (array<vec4<f32>, 2>)
	ToneMapping  uint32                // offset 64: postprocess.ToneMapping value
	Taps         uint32                // offset 68: populated weights
	BloomEnabled uint32                // offset 72: 1 when the bloom texture is composited
	EncodeSRGB   uint32                // offset 76: 1 when the surface format is not sRGB
}

// Size returns the size of the GPUPostUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUPostUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPostUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (g *GPUPostUniform) Marshal() []byte {
	buf := make([]byte, 80)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], math.Float32bits(g.Threshold))
	le.PutUint32(buf[4:], math.Float32bits(g.SmoothWidth))
	le.PutUint32(buf[8:], math.Float32bits(g.Strength))
	le.PutUint32(buf[12:], math.Float32bits(g.Exposure))
	le.PutUint32(buf[16:], math.Float32bits(g.Texel[0]))
	le.PutUint32(buf[20:], math.Float32bits(g.Texel[1]))
	le.PutUint32(buf[24:], math.Float32bits(g.Direction[0]))
	le.PutUint32(buf[28:], math.Float32bits(g.Direction[1]))
	for i, w := range g.Weights {
		le.PutUint32(buf[32+i*4:], math.Float32bits(w))
	}
	le.PutUint32(buf[64:], g.ToneMapping)
	le.PutUint32(buf[68:], g.Taps)
	le.PutUint32(buf[72:], g.BloomEnabled)
	le.PutUint32(buf[76:], g.EncodeSRGB)
	return buf
}
