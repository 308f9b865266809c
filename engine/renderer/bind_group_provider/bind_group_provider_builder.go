package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithMesh sets the vertex and index buffers for indexed draws.
//
// Parameters:
//   - vb: the vertex buffer
//   - ib: the index buffer
//   - count: the number of indices
//
// Returns:
//   - BindGroupProviderOption: a function that sets the mesh buffers for this provider
func WithMesh(vb, ib *wgpu.Buffer, count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = vb
		p.indexBuffer = ib
		p.indexCount = count
	}
}
