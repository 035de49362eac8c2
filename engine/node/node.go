package node

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// nodeCount is an atomic counter used to generate unique node IDs.
var nodeCount atomic.Uint64

// Tooltip is the hover text attached to a node. A scalar tooltip is a single-line Tooltip.
type Tooltip []string

// String joins the lines with newlines.
func (t Tooltip) String() string {
	return strings.Join(t, "\n")
}

type nodeImpl struct {
	mu *sync.RWMutex

	id     uint64
	name   string
	parent *nodeImpl

	children []Node

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
	visible  bool

	geom     *geometry.Geometry
	color    mgl32.Vec3
	emissive float32

	tooltip Tooltip
}

// Node is one element of the scene graph: a transform, optional geometry with a flat material,
// an optional tooltip payload, and an ordered list of children.
// A node without geometry acts as a group. All methods are safe for concurrent use.
type Node interface {
	// ID returns the node's process-unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's name.
	//
	// Returns:
	//   - string: the name, possibly empty
	Name() string

	// Position returns the local translation relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Rotation returns the local Euler rotation in radians (applied Y, X, Z).
	//
	// Returns:
	//   - mgl32.Vec3: the rotation angles
	Rotation() mgl32.Vec3

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale factors
	Scale() mgl32.Vec3

	// Visible reports whether the node and its subtree are drawn and pickable.
	//
	// Returns:
	//   - bool: the visibility flag
	Visible() bool

	// Geometry returns the node's mesh, or nil for a group.
	//
	// Returns:
	//   - *geometry.Geometry: the mesh or nil
	Geometry() *geometry.Geometry

	// Color returns the node's base colour in linear RGB.
	//
	// Returns:
	//   - mgl32.Vec3: the colour
	Color() mgl32.Vec3

	// Emissive returns the emissive multiplier applied to the base colour. Values above
	// the bloom threshold glow.
	//
	// Returns:
	//   - float32: the emissive factor
	Emissive() float32

	// Tooltip returns the hover text attached to the node.
	//
	// Returns:
	//   - Tooltip: the lines, or nil when the node carries no tooltip
	Tooltip() Tooltip

	// Parent returns the node's parent, or nil for a detached node or the graph root.
	//
	// Returns:
	//   - Node: the parent or nil
	Parent() Node

	// Children returns a copy of the node's children in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// LocalMatrix returns the node's transform relative to its parent.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the node's transform relative to the graph root by walking up the parent chain.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// Add appends children to this node. A child that already has a parent is removed from it first.
	// Adding a node to itself or to one of its own descendants is ignored.
	//
	// Parameters:
	//   - children: the nodes to add
	Add(children ...Node)

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the node to remove
	//
	// Returns:
	//   - bool: true if child was a direct child of this node
	Remove(child Node) bool

	// Traverse visits this node and then its descendants depth-first in child order.
	// Returning false from fn skips the visited node's subtree.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(Node) bool)

	SetName(name string)
	SetPosition(p mgl32.Vec3)
	SetRotation(r mgl32.Vec3)
	SetScale(s mgl32.Vec3)
	SetVisible(visible bool)
	SetGeometry(g *geometry.Geometry)
	SetColor(c mgl32.Vec3)
	SetEmissive(e float32)
	SetTooltip(lines ...string)
}

var _ Node = &nodeImpl{}

// NewNode creates a visible node with identity transform and a white colour.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the newly created node
func NewNode(options ...NodeBuilderOption) Node {
	n := &nodeImpl{
		mu:      &sync.RWMutex{},
		id:      nodeCount.Add(1),
		scale:   mgl32.Vec3{1, 1, 1},
		visible: true,
		color:   mgl32.Vec3{1, 1, 1},
	}
	for _, option := range options {
		option(n)
	}
	return n
}

// NewMesh creates a node drawing g with colour c.
//
// Parameters:
//   - g: the mesh
//   - c: the base colour
//   - options: additional functional options
//
// Returns:
//   - Node: the mesh node
func NewMesh(g *geometry.Geometry, c mgl32.Vec3, options ...NodeBuilderOption) Node {
	return NewNode(append([]NodeBuilderOption{WithGeometry(g), WithColor(c)}, options...)...)
}

func (n *nodeImpl) ID() uint64 {
	return n.id
}

func (n *nodeImpl) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

func (n *nodeImpl) Position() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.position
}

func (n *nodeImpl) Rotation() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.rotation
}

func (n *nodeImpl) Scale() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.scale
}

func (n *nodeImpl) Visible() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.visible
}

func (n *nodeImpl) Geometry() *geometry.Geometry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.geom
}

func (n *nodeImpl) Color() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.color
}

func (n *nodeImpl) Emissive() float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.emissive
}

func (n *nodeImpl) Tooltip() Tooltip {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tooltip
}

func (n *nodeImpl) Parent() Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *nodeImpl) Children() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.children)
}

func (n *nodeImpl) LocalMatrix() mgl32.Mat4 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return common.ModelMatrix(n.position, n.rotation, n.scale)
}

func (n *nodeImpl) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parentImpl(); p != nil; p = p.parentImpl() {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *nodeImpl) Add(children ...Node) {
	for _, c := range children {
		child, ok := c.(*nodeImpl)
		if !ok || child == nil || child == n || child.isAncestorOf(n) {
			continue
		}
		if old := child.parentImpl(); old != nil {
			old.Remove(child)
		}

		n.mu.Lock()
		n.children = append(n.children, child)
		n.mu.Unlock()

		child.mu.Lock()
		child.parent = n
		child.mu.Unlock()
	}
}

func (n *nodeImpl) Remove(c Node) bool {
	child, ok := c.(*nodeImpl)
	if !ok || child == nil {
		return false
	}

	n.mu.Lock()
	idx := slices.IndexFunc(n.children, func(x Node) bool { return x == Node(child) })
	if idx < 0 {
		n.mu.Unlock()
		return false
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	n.mu.Unlock()

	child.mu.Lock()
	if child.parent == n {
		child.parent = nil
	}
	child.mu.Unlock()
	return true
}

func (n *nodeImpl) Traverse(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Traverse(fn)
	}
}

func (n *nodeImpl) SetName(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.name = name
}

func (n *nodeImpl) SetPosition(p mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position = p
}

func (n *nodeImpl) SetRotation(r mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rotation = r
}

func (n *nodeImpl) SetScale(s mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scale = s
}

func (n *nodeImpl) SetVisible(visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = visible
}

func (n *nodeImpl) SetGeometry(g *geometry.Geometry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.geom = g
}

func (n *nodeImpl) SetColor(c mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.color = c
}

func (n *nodeImpl) SetEmissive(e float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emissive = e
}

func (n *nodeImpl) SetTooltip(lines ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(lines) == 0 {
		n.tooltip = nil
		return
	}
	n.tooltip = slices.Clone(lines)
}

func (n *nodeImpl) parentImpl() *nodeImpl {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

// isAncestorOf reports whether n appears on other's parent chain.
func (n *nodeImpl) isAncestorOf(other *nodeImpl) bool {
	for p := other.parentImpl(); p != nil; p = p.parentImpl() {
		if p == n {
			return true
		}
	}
	return false
}
