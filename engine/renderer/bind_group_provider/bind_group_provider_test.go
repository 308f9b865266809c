package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderVersionAndRelease(t *testing.T) {
	p := NewBindGroupProvider("card-0", WithMesh(nil, nil, 36))
	assert.Equal(t, "card-0", p.Label())
	assert.Equal(t, 36, p.IndexCount())
	assert.Nil(t, p.Buffer(0))

	p.SetVersion(7)
	assert.Equal(t, uint64(7), p.Version())

	assert.False(t, p.Released())
	p.Release()
	p.Release()
	assert.True(t, p.Released())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.BindGroup())
}
