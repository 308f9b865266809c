package scene

import "github.com/go-gl/mathgl/mgl32"

// NodeBuilderOption is a functional option for configuring a Node.
type NodeBuilderOption func(n *node)

// WithName labels the node.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithPosition sets the initial local translation.
//
// Parameters:
//   - pos: the local position
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithPosition(pos mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.position = pos
	}
}

// WithRotation sets the initial local orientation.
//
// Parameters:
//   - rot: the local rotation
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithRotation(rot mgl32.Quat) NodeBuilderOption {
	return func(n *node) {
		n.rotation = rot.Normalize()
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - scale: the local scale
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithScale(scale mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.scale = scale
	}
}

// WithEnabled sets whether the node starts enabled.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithEnabled(enabled bool) NodeBuilderOption {
	return func(n *node) {
		n.enabled = enabled
	}
}

// WithChildren attaches initial children.
//
// Parameters:
//   - children: the nodes to attach
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		n.Add(children...)
	}
}
