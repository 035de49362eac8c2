package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/Carmen-Shannon/oxy-view/engine/postprocess"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type surfaceSize struct {
	width, height, bloomWidth, bloomHeight int
}

type fakeBackend struct {
	configured  []surfaceSize
	frames      []*FrameData
	presentMode PresentMode
	drawErr     error
	released    bool
}

func (f *fakeBackend) ConfigureSurface(width, height, bloomWidth, bloomHeight int) error {
	f.configured = append(f.configured, surfaceSize{width, height, bloomWidth, bloomHeight})
	return nil
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {
	f.presentMode = mode
}

func (f *fakeBackend) Draw(frame *FrameData) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeBackend) Release() {
	f.released = true
}

type fakeSurface struct {
	scale float32
}

func (s fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (s fakeSurface) ContentScale() float32 {
	return s.scale
}

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (Renderer, *fakeBackend, node.Graph) {
	t.Helper()
	backend := &fakeBackend{}
	g := node.NewGraph()
	t.Cleanup(g.Close)
	opts := append([]RendererBuilderOption{WithBackend(backend), WithLogger(logger.Nop())}, options...)
	return NewRenderer(camera.NewCamera(), g, opts...), backend, g
}

func readFloat(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestConfigure(t *testing.T) {
	r, backend, _ := newTestRenderer(t, WithPresentMode(PresentModeUncapped))

	require.NoError(t, r.Configure(800, 400))
	require.Len(t, backend.configured, 1)
	assert.Equal(t, surfaceSize{800, 400, 400, 200}, backend.configured[0])
	assert.Equal(t, PresentModeUncapped, backend.presentMode)
	assert.Equal(t, float32(2), r.Camera().Aspect())
	assert.Empty(t, backend.frames, "configure does not render")

	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)
}

func TestConfigurePixelRatio(t *testing.T) {
	r, backend, _ := newTestRenderer(t, WithSurface(fakeSurface{scale: 2}))
	require.NoError(t, r.Configure(100, 50))
	assert.Equal(t, surfaceSize{200, 100, 100, 50}, backend.configured[0])

	r, backend, _ = newTestRenderer(t, WithSurface(fakeSurface{scale: 2}), WithPixelRatio(1.5))
	require.NoError(t, r.Configure(100, 50))
	assert.Equal(t, 150, backend.configured[0].width)
}

func TestConfigureErrors(t *testing.T) {
	g := node.NewGraph()
	defer g.Close()

	r := NewRenderer(camera.NewCamera(), g, WithLogger(logger.Nop()))
	assert.ErrorIs(t, r.Configure(10, 10), ErrNoSurface)
	assert.ErrorIs(t, r.RenderFrame(), ErrNotConfigured)
	assert.ErrorIs(t, r.Resize(10, 10), ErrNotConfigured)

	bad := postprocess.NewComposer(postprocess.WithPasses(postprocess.NewOutputPass(postprocess.ToneMappingNone, 1)))
	r, _, _ = newTestRenderer(t, WithComposer(bad))
	assert.ErrorIs(t, r.Configure(10, 10), postprocess.ErrInvalidChain)
}

func TestResizeRendersImmediately(t *testing.T) {
	r, backend, _ := newTestRenderer(t)
	require.NoError(t, r.Configure(100, 100))

	require.NoError(t, r.Resize(300, 150))
	assert.Equal(t, float32(2), r.Camera().Aspect())
	assert.Len(t, backend.frames, 1)
	assert.Equal(t, surfaceSize{300, 150, 150, 75}, backend.configured[1])

	// the projection follows the aspect
	p := r.Camera().ProjectionMatrix()
	assert.InDelta(t, p.At(1, 1)/2, p.At(0, 0), 1e-5)
}

func TestResizeClampsZero(t *testing.T) {
	r, backend, _ := newTestRenderer(t)
	require.NoError(t, r.Configure(100, 100))

	require.NoError(t, r.Resize(0, 0))
	assert.Equal(t, surfaceSize{1, 1, 1, 1}, backend.configured[1])
	assert.Equal(t, float32(1), r.Camera().Aspect())
}

func TestRenderFrameBatchesAndCulls(t *testing.T) {
	r, backend, g := newTestRenderer(t)
	shared := geometry.NewBox(1, 1, 1)
	sphere := geometry.NewSphere(1, 8, 6)

	g.Add(
		node.NewMesh(shared, mgl32.Vec3{1, 0, 0}, node.WithPosition(-2, 0, 0)),
		node.NewMesh(sphere, mgl32.Vec3{0, 1, 0}),
		node.NewMesh(shared, mgl32.Vec3{0, 0, 1}, node.WithPosition(2, 0, 0)),
		node.NewMesh(shared, mgl32.Vec3{1, 1, 1}, node.WithPosition(0, 60, 12)),
		node.NewMesh(shared, mgl32.Vec3{1, 1, 1}, node.WithVisible(false)),
	)
	require.NoError(t, r.Configure(640, 480))
	require.NoError(t, r.RenderFrame())
	require.Len(t, backend.frames, 1)

	frame := backend.frames[0]
	require.Len(t, frame.Batches, 2)
	assert.Equal(t, DrawBatch{Geometry: shared, First: 0, Count: 2}, frame.Batches[0])
	assert.Equal(t, DrawBatch{Geometry: sphere, First: 2, Count: 1}, frame.Batches[1])
	require.Len(t, frame.Instances, 3*80)

	// second instance of the shared box sits at x = 2 and is blue
	assert.Equal(t, float32(2), readFloat(frame.Instances, 80+48))
	assert.Equal(t, float32(1), readFloat(frame.Instances, 80+64+8))

	assert.Equal(t, FrameStats{Drawn: 3, Culled: 1, Batches: 2}, r.Stats())
	assert.Equal(t, postprocess.DefaultClearColor, frame.ClearColor)
}

func TestRenderFrameUniforms(t *testing.T) {
	r, backend, _ := newTestRenderer(t)
	require.NoError(t, r.Configure(100, 100))
	require.NoError(t, r.RenderFrame())

	frame := backend.frames[0]
	require.Len(t, frame.Camera, 96)
	assert.Equal(t, float32(25), readFloat(frame.Camera, 68))
	require.Len(t, frame.Lights, light.UniformSize)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(frame.Lights))
	assert.Empty(t, frame.Batches)
}

func TestRenderFramePostParams(t *testing.T) {
	r, backend, _ := newTestRenderer(t, WithToneMapping(postprocess.ToneMappingACESFilmic), WithExposure(1.5))
	require.NoError(t, r.Configure(200, 100))
	require.NoError(t, r.RenderFrame())

	post := backend.frames[0].Post
	assert.True(t, post.Bloom)
	assert.Equal(t, float32(postprocess.DefaultBloomThreshold), post.Threshold)
	assert.Equal(t, float32(postprocess.DefaultBloomStrength), post.Strength)
	assert.Len(t, post.Weights, MaxBloomTaps)
	assert.Equal(t, 100, post.BloomWidth)
	assert.Equal(t, 50, post.BloomHeight)
	assert.Equal(t, postprocess.ToneMappingACESFilmic, post.ToneMapping)
	assert.Equal(t, float32(1.5), post.Exposure)

	bloom, ok := r.Composer().Bloom()
	require.True(t, ok)
	bloom.SetEnabled(false)
	require.NoError(t, r.RenderFrame())
	assert.False(t, backend.frames[1].Post.Bloom)
}

func TestWithBloom(t *testing.T) {
	r, backend, _ := newTestRenderer(t, WithBloom(0.8, 1.2, 0))
	require.NoError(t, r.Configure(10, 10))
	require.NoError(t, r.RenderFrame())

	post := backend.frames[0].Post
	assert.Equal(t, float32(0.8), post.Threshold)
	assert.Equal(t, float32(1.2), post.Strength)
	assert.Equal(t, postprocess.ToneMappingReinhard, post.ToneMapping)
}

func TestRenderFrameBackendError(t *testing.T) {
	r, backend, _ := newTestRenderer(t)
	require.NoError(t, r.Configure(10, 10))

	lost := errors.New("device lost")
	backend.drawErr = lost
	assert.ErrorIs(t, r.RenderFrame(), lost)
	assert.ErrorIs(t, r.Resize(20, 20), lost)
}

func TestLights(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	require.Len(t, r.Lights(), 1)
	assert.Equal(t, light.LightTypeHemisphere, r.Lights()[0].Type())

	r.AddLight(light.NewLight(light.LightTypeAmbient))
	r.AddLight(nil)
	assert.Len(t, r.Lights(), 2)

	r, _, _ = newTestRenderer(t, WithLight(light.NewLight(light.LightTypeDirectional)))
	require.Len(t, r.Lights(), 1)
	assert.Equal(t, light.LightTypeDirectional, r.Lights()[0].Type())
}

func TestRelease(t *testing.T) {
	r, backend, _ := newTestRenderer(t)
	require.NoError(t, r.Configure(10, 10))
	r.Release()
	assert.True(t, backend.released)
	assert.ErrorIs(t, r.RenderFrame(), ErrNotConfigured)
}

func TestGPUTypes(t *testing.T) {
	inst := GPUInstance{Model: mgl32.Translate3D(1, 2, 3), Color: mgl32.Vec3{0.5, 0.25, 1}, Emissive: 2}
	assert.Equal(t, 80, inst.Size())
	buf := inst.Marshal()
	assert.Equal(t, float32(3), readFloat(buf, 56))
	assert.Equal(t, float32(0.25), readFloat(buf, 68))
	assert.Equal(t, float32(2), readFloat(buf, 76))

	p := PostParams{Bloom: true, Strength: 0.05, Weights: []float32{0.5, 0.25}, ToneMapping: postprocess.ToneMappingReinhard, Exposure: 1}
	u := p.Uniform(mgl32.Vec2{1, 0}, 4, 0)
	assert.Equal(t, 80, u.Size())
	assert.Equal(t, mgl32.Vec2{0.25, 1}, u.Texel)
	assert.Equal(t, uint32(2), u.Taps)
	assert.Equal(t, uint32(1), u.BloomEnabled)

	out := u.Marshal()
	assert.Equal(t, float32(0.25), readFloat(out, 36))
	assert.Equal(t, uint32(postprocess.ToneMappingReinhard), binary.LittleEndian.Uint32(out[64:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(out[68:]))
}

func TestSamplerDescriptor(t *testing.T) {
	d := samplerDescriptor("defaults", common.SamplerStagingData{})
	assert.Equal(t, "defaults", d.Label)
	assert.Equal(t, wgpu.AddressModeClampToEdge, d.AddressModeU)
	assert.Equal(t, wgpu.FilterModeLinear, d.MagFilter)
	assert.Equal(t, wgpu.MipmapFilterModeLinear, d.MipmapFilter)
	assert.Equal(t, float32(32), d.LodMaxClamp)
	assert.Equal(t, uint16(1), d.MaxAnisotropy)

	// zero-valued modes are honoured when flagged
	d = samplerDescriptor("explicit", common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMaxClamp:  4,
		Set:          common.SamplerAddressModeU | common.SamplerMagFilter | common.SamplerMipmapFilter | common.SamplerLodMaxClamp,
	})
	assert.Equal(t, wgpu.AddressModeRepeat, d.AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, d.AddressModeV)
	assert.Equal(t, wgpu.FilterModeNearest, d.MagFilter)
	assert.Equal(t, wgpu.FilterModeLinear, d.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeNearest, d.MipmapFilter)
	assert.Equal(t, float32(4), d.LodMaxClamp)

	// unflagged values are ignored
	d = samplerDescriptor("unflagged", common.SamplerStagingData{MagFilter: wgpu.FilterModeNearest, LodMaxClamp: 4})
	assert.Equal(t, wgpu.FilterModeLinear, d.MagFilter)
	assert.Equal(t, float32(32), d.LodMaxClamp)
}
