package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Intersection is one ray hit against a mesh node.
type Intersection struct {
	// Node is the mesh that was hit.
	Node Node
	// Distance is the world-space distance from the ray origin to Point.
	Distance float32
	// Point is the world-space hit position.
	Point mgl32.Vec3
}

// IntersectObjects casts a world-space ray against the given nodes and returns every hit
// sorted nearest first. Disabled nodes and their subtrees are skipped. With recursive set,
// descendants are tested too.
//
// Parameters:
//   - nodes: the nodes to test
//   - origin: the world-space ray origin
//   - dir: the world-space ray direction
//   - recursive: whether to descend into children
//
// Returns:
//   - []Intersection: the hits, nearest first
func IntersectObjects(nodes []Node, origin, dir mgl32.Vec3, recursive bool) []Intersection {
	var hits []Intersection
	for _, n := range nodes {
		hits = intersect(n, origin, dir, recursive, hits)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// IntersectObject is IntersectObjects for a single node.
func IntersectObject(n Node, origin, dir mgl32.Vec3, recursive bool) []Intersection {
	return IntersectObjects([]Node{n}, origin, dir, recursive)
}

func intersect(n Node, origin, dir mgl32.Vec3, recursive bool, hits []Intersection) []Intersection {
	if n == nil || !n.Enabled() {
		return hits
	}
	if geo := n.Geometry(); geo != nil && !geo.Disposed() {
		world := n.WorldMatrix()
		inv := world.Inv()
		localOrigin := inv.Mul4x1(origin.Vec4(1)).Vec3()
		localDir := inv.Mul4x1(dir.Vec4(0)).Vec3()
		if t, ok := geo.IntersectRay(localOrigin, localDir); ok {
			local := localOrigin.Add(localDir.Mul(t))
			point := world.Mul4x1(local.Vec4(1)).Vec3()
			hits = append(hits, Intersection{
				Node:     n,
				Distance: point.Sub(origin).Len(),
				Point:    point,
			})
		}
	}
	if recursive {
		for _, child := range n.Children() {
			hits = intersect(child, origin, dir, true, hits)
		}
	}
	return hits
}
