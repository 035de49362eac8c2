package node

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeBuilderOption is a functional option applied to a node during construction via NewNode.
type NodeBuilderOption func(*nodeImpl)

// WithName sets the node's name.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - NodeBuilderOption: a function that applies the name
func WithName(name string) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.name = name
	}
}

// WithPosition sets the node's local translation.
//
// Parameters:
//   - x, y, z: the translation
//
// Returns:
//   - NodeBuilderOption: a function that applies the position
func WithPosition(x, y, z float32) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the node's local Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: rotation angles around each axis
//
// Returns:
//   - NodeBuilderOption: a function that applies the rotation
func WithRotation(rx, ry, rz float32) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.rotation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithScale sets the node's local scale.
//
// Parameters:
//   - sx, sy, sz: scale factors along each axis
//
// Returns:
//   - NodeBuilderOption: a function that applies the scale
func WithScale(sx, sy, sz float32) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithVisible sets the initial visibility flag.
func WithVisible(visible bool) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.visible = visible
	}
}

// WithGeometry sets the mesh drawn by the node.
func WithGeometry(g *geometry.Geometry) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.geom = g
	}
}

// WithColor sets the base colour.
func WithColor(c mgl32.Vec3) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.color = c
	}
}

// WithEmissive sets the emissive multiplier.
func WithEmissive(e float32) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.emissive = e
	}
}

// WithTooltip attaches hover text. Several lines are shown one per row.
//
// Parameters:
//   - lines: the tooltip lines
//
// Returns:
//   - NodeBuilderOption: a function that applies the tooltip
func WithTooltip(lines ...string) NodeBuilderOption {
	return func(n *nodeImpl) {
		if len(lines) > 0 {
			n.tooltip = slices.Clone(lines)
		}
	}
}

// WithChildren adds children to the node at construction.
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.Add(children...)
	}
}
