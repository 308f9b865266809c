package model

// GeometryBuilderOption is a functional option for configuring a Geometry via NewGeometry.
type GeometryBuilderOption func(*geometry)

// WithName is an option builder that sets the name of the Geometry.
//
// Parameters:
//   - name: the geometry identifier
//
// Returns:
//   - GeometryBuilderOption: a function that applies the name option to a geometry
func WithName(name string) GeometryBuilderOption {
	return func(g *geometry) {
		g.name = name
	}
}

// WithVertices is an option builder that sets the vertex list of the Geometry.
//
// Parameters:
//   - vertices: the vertices in model space
//
// Returns:
//   - GeometryBuilderOption: a function that applies the vertices option to a geometry
func WithVertices(vertices []GPUVertex) GeometryBuilderOption {
	return func(g *geometry) {
		g.vertices = vertices
	}
}

// WithIndices is an option builder that sets the triangle index list of the Geometry.
//
// Parameters:
//   - indices: the indices, three per triangle
//
// Returns:
//   - GeometryBuilderOption: a function that applies the indices option to a geometry
func WithIndices(indices []uint32) GeometryBuilderOption {
	return func(g *geometry) {
		g.indices = indices
	}
}

// WithGroups is an option builder that sets the material groups of the Geometry.
//
// Parameters:
//   - groups: the material groups partitioning the index list
//
// Returns:
//   - GeometryBuilderOption: a function that applies the groups option to a geometry
func WithGroups(groups ...Group) GeometryBuilderOption {
	return func(g *geometry) {
		g.groups = groups
	}
}

// WithMeshData is an option builder that copies vertices, indices and groups from generated mesh data.
//
// Parameters:
//   - data: the generated mesh data
//
// Returns:
//   - GeometryBuilderOption: a function that applies the mesh data option to a geometry
func WithMeshData(data MeshData) GeometryBuilderOption {
	return func(g *geometry) {
		g.vertices = data.Vertices
		g.indices = data.Indices
		g.groups = data.Groups
	}
}

// WithBoundingRadius is an option builder that manually sets the bounding sphere radius.
//
// Parameters:
//   - radius: the bounding radius to set
//
// Returns:
//   - GeometryBuilderOption: a function that applies the bounding radius option to a geometry
func WithBoundingRadius(radius float32) GeometryBuilderOption {
	return func(g *geometry) {
		g.boundingRadius = radius
	}
}
