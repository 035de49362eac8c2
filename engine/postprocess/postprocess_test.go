package postprocess

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gray(v float32) mgl32.Vec3 {
	return mgl32.Vec3{v, v, v}
}

func TestToneMappingApply(t *testing.T) {
	tests := []struct {
		name     string
		tm       ToneMapping
		in       float32
		exposure float32
		want     float32
	}{
		{"none passes through", ToneMappingNone, 3, 1, 3},
		{"linear scales", ToneMappingLinear, 0.25, 2, 0.5},
		{"linear saturates", ToneMappingLinear, 3, 1, 1},
		{"reinhard at one", ToneMappingReinhard, 1, 1, 0.5},
		{"reinhard with exposure", ToneMappingReinhard, 1, 2, 2.0 / 3.0},
		{"cineon black", ToneMappingCineon, 0, 1, 0},
		{"aces black", ToneMappingACESFilmic, 0, 1, 0},
		{"aces saturates", ToneMappingACESFilmic, 1000, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tm.Apply(gray(tt.in), tt.exposure)
			for i := range got {
				assert.InDelta(t, tt.want, got[i], 1e-3)
			}
		})
	}
}

func TestToneMappingMonotonic(t *testing.T) {
	for _, tm := range []ToneMapping{ToneMappingLinear, ToneMappingReinhard, ToneMappingCineon, ToneMappingACESFilmic} {
		prev := float32(-1)
		for i := 0; i <= 100; i++ {
			v := tm.Apply(gray(float32(i)/10), 1)[0]
			assert.GreaterOrEqual(t, v, prev, "%s at %d", tm, i)
			prev = v
		}
	}
}

func TestParseToneMapping(t *testing.T) {
	for tm, name := range toneMappingNames {
		got, err := ParseToneMapping(name)
		require.NoError(t, err)
		assert.Equal(t, tm, got)
		assert.Equal(t, name, tm.String())
	}

	got, err := ParseToneMapping(" Reinhard ")
	require.NoError(t, err)
	assert.Equal(t, ToneMappingReinhard, got)

	got, err = ParseToneMapping("ACESFilmic")
	require.NoError(t, err)
	assert.Equal(t, ToneMappingACESFilmic, got)

	_, err = ParseToneMapping("filmic-ish")
	assert.Error(t, err)
	assert.Equal(t, "ToneMapping(42)", ToneMapping(42).String())
}

func TestBloomWeights(t *testing.T) {
	b := NewBloomPass(DefaultBloomThreshold, DefaultBloomStrength, DefaultBloomRadius)
	w := b.Weights(BloomTaps)
	require.Len(t, w, BloomTaps)

	sum := w[0]
	for i := 1; i < len(w); i++ {
		sum += 2 * w[i]
		assert.Less(t, w[i], w[i-1])
	}
	assert.InDelta(t, 1, sum, 1e-5)

	wide := NewBloomPass(0, 1, 1).Weights(BloomTaps)
	assert.Less(t, wide[0], w[0], "a larger radius spreads the kernel")

	assert.Equal(t, []float32{1}, b.Weights(0))
}

func TestBloomResolution(t *testing.T) {
	b := NewBloomPass(0, 1, 0)
	b.SetSize(1920, 1080)
	w, h := b.Resolution()
	assert.Equal(t, 960, w)
	assert.Equal(t, 540, h)

	b.SetSize(1, 0)
	w, h = b.Resolution()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestBloomBrightPass(t *testing.T) {
	b := NewBloomPass(0, DefaultBloomStrength, DefaultBloomRadius)
	assert.Equal(t, gray(0.5), b.BrightPass(gray(0.5)), "threshold 0 lets everything visible glow")
	assert.Equal(t, gray(0), b.BrightPass(gray(0)))

	b.Threshold = 0.5
	assert.Equal(t, gray(0), b.BrightPass(gray(0.1)))
	assert.Equal(t, gray(2), b.BrightPass(gray(2)))

	assert.True(t, b.Composite(gray(1), gray(1)).ApproxEqual(gray(1.05)))
}

func TestComposerDefaults(t *testing.T) {
	c := NewComposer()
	require.NoError(t, c.Validate())

	names := []string{}
	for _, p := range c.Passes() {
		names = append(names, p.Name())
		assert.True(t, p.Enabled())
	}
	assert.Equal(t, []string{"render", "bloom", "output"}, names)

	bloom, ok := c.Bloom()
	require.True(t, ok)
	assert.Equal(t, float32(DefaultBloomStrength), bloom.Strength)
	out, ok := c.Output()
	require.True(t, ok)
	assert.Equal(t, ToneMappingReinhard, out.ToneMapping)
	rp, ok := c.Render()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, rp.ClearColor)
}

func TestComposerSizing(t *testing.T) {
	c := NewComposer(WithSize(800, 600), WithPixelRatio(2))
	w, h := c.PhysicalSize()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 1200, h)

	bloom, _ := c.Bloom()
	bw, bh := bloom.Resolution()
	assert.Equal(t, 800, bw)
	assert.Equal(t, 600, bh)

	c.SetPixelRatio(1)
	c.SetSize(0, 0)
	w, h = c.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	for _, p := range c.Passes() {
		pw, ph := p.Size()
		assert.Equal(t, 1, pw)
		assert.Equal(t, 1, ph)
	}

	c.SetPixelRatio(-1)
	assert.Equal(t, float32(1), c.PixelRatio())

	extra := NewBloomPass(0, 1, 0)
	c.SetSize(100, 50)
	c.AddPass(extra)
	ew, eh := extra.Size()
	assert.Equal(t, 100, ew)
	assert.Equal(t, 50, eh)
}

func TestComposerValidate(t *testing.T) {
	tests := []struct {
		name   string
		passes []Pass
		ok     bool
	}{
		{"empty", nil, false},
		{"output first", []Pass{NewOutputPass(ToneMappingNone, 1), NewRenderPass(mgl32.Vec4{})}, false},
		{"missing output", []Pass{NewRenderPass(mgl32.Vec4{}), NewBloomPass(0, 1, 0)}, false},
		{"no bloom", []Pass{NewRenderPass(mgl32.Vec4{}), NewOutputPass(ToneMappingNone, 1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewComposer(WithPasses(tt.passes...)).Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidChain)
			}
		})
	}
}

func TestComposerApply(t *testing.T) {
	c := NewComposer()
	got := c.Apply(gray(1))
	assert.InDelta(t, 1.05/2.05, got[0], 1e-5)

	bloom, _ := c.Bloom()
	bloom.SetEnabled(false)
	got = c.Apply(gray(1))
	assert.InDelta(t, 0.5, got[0], 1e-5)
}
