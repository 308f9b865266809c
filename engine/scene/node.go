package scene

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ring/engine/model"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// nodeCount is an atomic counter used to hand out unique node IDs.
var nodeCount atomic.Uint64

type node struct {
	mu *sync.Mutex

	id      uint64
	name    string
	enabled bool

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	parent   Node
	children []Node

	geometry  model.Geometry
	materials []material.Material
}

// Node defines the interface for an entity in the retained scene graph.
// A node carries a local transform (translation, quaternion rotation, scale) composed with its
// parent's world transform. Group nodes have no geometry; mesh nodes draw their geometry with
// one material per geometry group.
type Node interface {
	// ID returns the node's unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's label.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this node and its subtree are drawn and hit-tested.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the node and its subtree are drawn and hit-tested.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the translation relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// SetPosition sets the translation relative to the parent.
	//
	// Parameters:
	//   - pos: the local position
	SetPosition(pos mgl32.Vec3)

	// Rotation returns the orientation relative to the parent.
	//
	// Returns:
	//   - mgl32.Quat: the local rotation
	Rotation() mgl32.Quat

	// SetRotation sets the orientation relative to the parent. The quaternion is normalized.
	//
	// Parameters:
	//   - rot: the local rotation
	SetRotation(rot mgl32.Quat)

	// Scale returns the per-axis scale relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: the local scale
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale relative to the parent.
	//
	// Parameters:
	//   - scale: the local scale
	SetScale(scale mgl32.Vec3)

	// LocalMatrix composes translation * rotation * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the local transform
	LocalMatrix() mgl32.Mat4

	// WorldMatrix composes every ancestor's local matrix with this node's.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	WorldMatrix() mgl32.Mat4

	// Parent returns the node this one is attached to.
	//
	// Returns:
	//   - Node: the parent, or nil for a detached node or a scene root
	Parent() Node

	// Children returns a snapshot of the attached children in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Add attaches children, detaching each from any previous parent first.
	// Adding a node to itself or to one of its descendants is ignored.
	//
	// Parameters:
	//   - children: the nodes to attach
	Add(children ...Node)

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if child was attached to this node
	Remove(child Node) bool

	// Geometry returns the mesh geometry.
	//
	// Returns:
	//   - model.Geometry: the geometry, or nil for a group
	Geometry() model.Geometry

	// Materials returns the material slots indexed by geometry group.
	//
	// Returns:
	//   - []material.Material: the materials, nil for a group
	Materials() []material.Material

	setParent(parent Node)
}

var _ Node = &node{}

// NewGroup creates an empty transform node.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the new group
func NewGroup(options ...NodeBuilderOption) Node {
	return newNode(nil, nil, options...)
}

// NewMesh creates a node that draws geometry. Material i is used for geometry groups whose
// MaterialIndex is i; a group whose index is out of range uses the last material.
//
// Parameters:
//   - geometry: the mesh geometry
//   - materials: the material slots
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the new mesh
func NewMesh(geometry model.Geometry, materials []material.Material, options ...NodeBuilderOption) Node {
	return newNode(geometry, materials, options...)
}

func newNode(geometry model.Geometry, materials []material.Material, options ...NodeBuilderOption) *node {
	n := &node{
		mu:        &sync.Mutex{},
		id:        nodeCount.Add(1),
		enabled:   true,
		rotation:  mgl32.QuatIdent(),
		scale:     mgl32.Vec3{1, 1, 1},
		geometry:  geometry,
		materials: materials,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *node) ID() uint64 {
	return n.id
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

func (n *node) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

func (n *node) Position() mgl32.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.position
}

func (n *node) SetPosition(pos mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position = pos
}

func (n *node) Rotation() mgl32.Quat {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rotation
}

func (n *node) SetRotation(rot mgl32.Quat) {
	if rot.Len() < 1e-8 {
		rot = mgl32.QuatIdent()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rotation = rot.Normalize()
}

func (n *node) Scale() mgl32.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.scale
}

func (n *node) SetScale(scale mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scale = scale
}

func (n *node) LocalMatrix() mgl32.Mat4 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.localMatrix()
}

func (n *node) WorldMatrix() mgl32.Mat4 {
	n.mu.Lock()
	local := n.localMatrix()
	parent := n.parent
	n.mu.Unlock()
	if parent == nil {
		return local
	}
	return parent.WorldMatrix().Mul4(local)
}

func (n *node) Parent() Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parent
}

func (n *node) Children() []Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.children)
}

func (n *node) Add(children ...Node) {
	for _, child := range children {
		if child == nil || n.isSelfOrAncestor(child) {
			continue
		}
		if prev := child.Parent(); prev != nil {
			prev.Remove(child)
		}
		n.mu.Lock()
		n.children = append(n.children, child)
		n.mu.Unlock()
		child.setParent(n)
	}
}

func (n *node) Remove(child Node) bool {
	n.mu.Lock()
	idx := slices.Index(n.children, child)
	if idx < 0 {
		n.mu.Unlock()
		return false
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	n.mu.Unlock()
	child.setParent(nil)
	return true
}

func (n *node) Geometry() model.Geometry {
	return n.geometry
}

func (n *node) Materials() []material.Material {
	return n.materials
}

func (n *node) setParent(parent Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.parent = parent
}

// localMatrix composes translation * rotation * scale.
// Caller must hold the mutex.
func (n *node) localMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.position[0], n.position[1], n.position[2])
	s := mgl32.Scale3D(n.scale[0], n.scale[1], n.scale[2])
	return t.Mul4(n.rotation.Mat4()).Mul4(s)
}

// isSelfOrAncestor reports whether candidate is n or one of n's ancestors, which would create
// a cycle if attached below n.
func (n *node) isSelfOrAncestor(candidate Node) bool {
	var cur Node = n
	for cur != nil {
		if cur == candidate {
			return true
		}
		cur = cur.Parent()
	}
	return false
}

// MaterialFor returns the material slot used by a geometry group index.
//
// Parameters:
//   - n: the mesh node
//   - index: the group's material index
//
// Returns:
//   - material.Material: the material, or nil if the node has none
func MaterialFor(n Node, index int) material.Material {
	mats := n.Materials()
	if len(mats) == 0 {
		return nil
	}
	if index < 0 || index >= len(mats) {
		return mats[len(mats)-1]
	}
	return mats[index]
}
