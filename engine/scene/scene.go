package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/engine/camera"
	"github.com/Carmen-Shannon/oxy-ring/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene defines the interface for a retained scene: a root node, the lights shading it,
// the camera viewing it, and the background the renderer clears to.
type Scene interface {
	// Name returns the scene's name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Active returns whether the scene is drawn.
	//
	// Returns:
	//   - bool: true if the scene is active
	Active() bool

	// SetActive sets whether the scene is drawn.
	//
	// Parameters:
	//   - active: true to activate
	SetActive(active bool)

	// Root returns the root node every scene object hangs from.
	//
	// Returns:
	//   - Node: the root node
	Root() Node

	// Camera returns the camera the scene is viewed through.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetCamera replaces the camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Background returns the straight-alpha clear color.
	//
	// Returns:
	//   - mgl32.Vec4: the background color
	Background() mgl32.Vec4

	// SetBackground sets the straight-alpha clear color.
	//
	// Parameters:
	//   - c: the new background color
	SetBackground(c mgl32.Vec4)

	// Add attaches nodes directly under the root.
	//
	// Parameters:
	//   - nodes: the nodes to attach
	Add(nodes ...Node)

	// Remove detaches a node from wherever it sits in the scene. Its resources are not disposed.
	//
	// Parameters:
	//   - n: the node to detach
	//
	// Returns:
	//   - bool: true if the node was part of the scene
	Remove(n Node) bool

	// Get finds a node in the scene by ID.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - Node: the node, or nil if not found
	Get(id uint64) Node

	// Count returns the number of nodes below the root.
	//
	// Returns:
	//   - int: the node count
	Count() int

	// Clear detaches every node below the root without disposing anything.
	Clear()

	// Traverse visits the root and its descendants depth-first in insertion order.
	// Returning false from fn skips that node's subtree.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(n Node) bool)

	// Meshes collects every enabled mesh node whose ancestors are all enabled.
	//
	// Returns:
	//   - []Node: the drawable nodes in traversal order
	Meshes() []Node

	// AddLight registers a light.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight unregisters a light.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// Lights returns a snapshot of the registered lights.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// LightingEnabled reports whether lit materials are shaded by the scene lights.
	// When false every material renders unlit.
	//
	// Returns:
	//   - bool: true if lighting is on
	LightingEnabled() bool

	// SetLightingEnabled toggles scene lighting.
	//
	// Parameters:
	//   - enabled: true to enable
	SetLightingEnabled(enabled bool)

	// Dispose detaches and disposes every geometry, material, and texture reachable from the
	// root, each exactly once. Safe to call repeatedly.
	//
	// Returns:
	//   - DisposeStats: how many resources this call released
	Dispose() DisposeStats
}

type scene struct {
	mu *sync.RWMutex

	name            string
	active          bool
	root            Node
	cam             camera.Camera
	background      mgl32.Vec4
	lights          []light.Light
	lightingEnabled bool
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with an empty root.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to view through
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:              &sync.RWMutex{},
		name:            name,
		active:          true,
		root:            NewGroup(WithName(name + "_root")),
		cam:             cam,
		background:      mgl32.Vec4{0, 0, 0, 1},
		lightingEnabled: true,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Background() mgl32.Vec4 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackground(c mgl32.Vec4) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

func (s *scene) Add(nodes ...Node) {
	s.root.Add(nodes...)
}

func (s *scene) Remove(n Node) bool {
	if n == nil || !s.contains(n) {
		return false
	}
	return n.Parent().Remove(n)
}

func (s *scene) Get(id uint64) Node {
	var found Node
	s.Traverse(func(n Node) bool {
		if found != nil {
			return false
		}
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

func (s *scene) Count() int {
	count := -1
	s.Traverse(func(Node) bool {
		count++
		return true
	})
	return count
}

func (s *scene) Clear() {
	for _, child := range s.root.Children() {
		s.root.Remove(child)
	}
}

func (s *scene) Traverse(fn func(n Node) bool) {
	traverse(s.root, fn)
}

func (s *scene) Meshes() []Node {
	var out []Node
	s.Traverse(func(n Node) bool {
		if !n.Enabled() {
			return false
		}
		if n.Geometry() != nil {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.lights, l) {
		return
	}
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := slices.Index(s.lights, l); idx >= 0 {
		s.lights = slices.Delete(s.lights, idx, idx+1)
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) LightingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightingEnabled
}

func (s *scene) SetLightingEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightingEnabled = enabled
}

func (s *scene) Dispose() DisposeStats {
	stats := DisposeTree(s.root)
	s.Clear()
	return stats
}

// contains reports whether n hangs below the root.
func (s *scene) contains(n Node) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur == s.root {
			return true
		}
	}
	return false
}

func traverse(n Node, fn func(n Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children() {
		traverse(child, fn)
	}
}
