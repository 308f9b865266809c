package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Group is a contiguous range of indices drawn with a single material.
type Group struct {
	// Start is the first index of the range.
	Start int
	// Count is the number of indices in the range, always a multiple of three.
	Count int
	// MaterialIndex selects the material slot used for this range.
	MaterialIndex int
}

// geometry is the implementation of the Geometry interface.
type geometry struct {
	common.DisposeTracker

	mu             *sync.Mutex
	name           string
	vertices       []GPUVertex
	indices        []uint32
	groups         []Group
	boundingRadius float32
	vertexData     []byte
	indexData      []byte
}

// Geometry defines the interface for an indexed triangle mesh held in CPU memory.
// Renderer backends upload it lazily and release their GPU copies when it is disposed.
type Geometry interface {
	common.Disposable

	// Name retrieves the geometry identifier.
	//
	// Returns:
	//   - string: the geometry name
	Name() string

	// Vertices retrieves the vertex list in model space.
	//
	// Returns:
	//   - []GPUVertex: the vertices, shared with the geometry and not to be modified
	Vertices() []GPUVertex

	// Indices retrieves the triangle index list.
	//
	// Returns:
	//   - []uint32: the indices, three per triangle
	Indices() []uint32

	// Groups retrieves the material groups partitioning the index list.
	// A geometry without explicit groups reports a single group covering every index.
	//
	// Returns:
	//   - []Group: the material groups
	Groups() []Group

	// BoundingRadius returns the bounding sphere radius around the model-space origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexData returns the vertex list marshaled for GPU upload. The buffer is computed once.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the index list marshaled for GPU upload. The buffer is computed once.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// IntersectRay tests a model-space ray against every triangle and returns the nearest hit.
	//
	// Parameters:
	//   - origin: the ray origin in model space
	//   - dir: the ray direction in model space, need not be normalized
	//
	// Returns:
	//   - float32: the ray parameter of the nearest hit, in units of dir
	//   - bool: true if any triangle was hit in front of the origin
	IntersectRay(origin, dir mgl32.Vec3) (float32, bool)
}

var _ Geometry = &geometry{}

// NewGeometry creates a new Geometry instance with the specified options applied.
// The bounding radius is computed from the vertices unless WithBoundingRadius overrides it.
//
// Parameters:
//   - options: a variadic list of GeometryBuilderOption functions to configure the Geometry
//
// Returns:
//   - Geometry: a new instance of Geometry configured with the provided options
func NewGeometry(options ...GeometryBuilderOption) Geometry {
	g := &geometry{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(g)
	}
	if g.boundingRadius == 0 {
		g.boundingRadius = ComputeBoundingRadius(g.vertices)
	}
	if len(g.groups) == 0 && len(g.indices) > 0 {
		g.groups = []Group{{Start: 0, Count: len(g.indices)}}
	}
	return g
}

func (g *geometry) Name() string {
	return g.name
}

func (g *geometry) Vertices() []GPUVertex {
	return g.vertices
}

func (g *geometry) Indices() []uint32 {
	return g.indices
}

func (g *geometry) Groups() []Group {
	return g.groups
}

func (g *geometry) BoundingRadius() float32 {
	return g.boundingRadius
}

func (g *geometry) VertexData() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.vertexData == nil {
		g.vertexData = MarshalVertices(g.vertices)
	}
	return g.vertexData
}

func (g *geometry) IndexData() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.indexData == nil {
		g.indexData = MarshalIndices(g.indices)
	}
	return g.indexData
}

func (g *geometry) IndexCount() int {
	return len(g.indices)
}

func (g *geometry) IntersectRay(origin, dir mgl32.Vec3) (float32, bool) {
	if !raySphere(origin, dir, g.boundingRadius) {
		return 0, false
	}
	best := float32(-1)
	for i := 0; i+2 < len(g.indices); i += 3 {
		a := mgl32.Vec3(g.vertices[g.indices[i]].Position)
		b := mgl32.Vec3(g.vertices[g.indices[i+1]].Position)
		c := mgl32.Vec3(g.vertices[g.indices[i+2]].Position)
		if t, ok := rayTriangle(origin, dir, a, b, c); ok && (best < 0 || t < best) {
			best = t
		}
	}
	return best, best >= 0
}

// raySphere is a conservative early-out against the origin-centered bounding sphere.
func raySphere(origin, dir mgl32.Vec3, radius float32) bool {
	a := dir.Dot(dir)
	if a == 0 {
		return false
	}
	b := origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius*1.0001
	if c <= 0 {
		return true
	}
	return b <= 0 && b*b-a*c >= 0
}

// rayTriangle is the Möller–Trumbore intersection test; both faces count as hits.
func rayTriangle(origin, dir, a, b, c mgl32.Vec3) (float32, bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= eps {
		return 0, false
	}
	return t, true
}
