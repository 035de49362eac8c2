package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("post bright", WithSampler(2, nil))

	assert.Equal(t, "post bright", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Zero(t, p.BufferSize(0))
	assert.Nil(t, p.TextureView(1))
	assert.Zero(t, p.IndexCount())
}

func TestReleaseEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetMesh(nil, nil, 36)
	assert.Equal(t, 36, p.IndexCount())

	p.Release()
	assert.Zero(t, p.IndexCount())
	p.Release()
}

func TestBufferWriteFits(t *testing.T) {
	assert.False(t, BufferWrite{Data: []byte{1}}.Fits())

	p := NewBindGroupProvider("camera")
	assert.False(t, BufferWrite{Provider: p, Binding: 0, Data: []byte{1}}.Fits(), "no buffer at binding")
}
