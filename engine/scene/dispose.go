package scene

import (
	"github.com/Carmen-Shannon/oxy-ring/common"
)

// DisposeStats counts the resources a dispose pass released.
type DisposeStats struct {
	Geometries int
	Materials  int
	Textures   int
}

// Total returns the number of resources released.
func (d DisposeStats) Total() int {
	return d.Geometries + d.Materials + d.Textures
}

// DisposeTree disposes every geometry, material, and material map reachable from root.
// Shared resources are released once, and resources already disposed are skipped, so the
// pass can be repeated safely. Nodes stay attached; callers detach them separately.
//
// Parameters:
//   - root: the subtree to release
//
// Returns:
//   - DisposeStats: how many resources this call released
func DisposeTree(root Node) DisposeStats {
	var stats DisposeStats
	if root == nil {
		return stats
	}
	seen := make(map[common.Disposable]struct{})
	release := func(d common.Disposable, counter *int) {
		if d == nil {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		if d.Disposed() {
			return
		}
		d.Dispose()
		*counter++
	}

	traverse(root, func(n Node) bool {
		if geo := n.Geometry(); geo != nil {
			release(geo, &stats.Geometries)
		}
		for _, mat := range n.Materials() {
			if mat == nil {
				continue
			}
			if m := mat.Map(); m != nil {
				release(m, &stats.Textures)
			}
			release(mat, &stats.Materials)
		}
		return true
	})
	return stats
}
