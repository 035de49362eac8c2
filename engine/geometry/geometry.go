package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the number of float32 values per interleaved vertex: position (3) followed by normal (3).
const FloatsPerVertex = 6

// VertexStride is the size in bytes of one interleaved vertex.
const VertexStride = FloatsPerVertex * 4

// Geometry is an indexed triangle mesh with an object-space bounding box.
// A Geometry is immutable once built and may be shared by any number of nodes.
type Geometry struct {
	label    string
	vertices []float32
	indices  []uint32
	min, max mgl32.Vec3
}

// NewGeometry builds a Geometry from interleaved position/normal vertices and triangle indices.
// The bounding box is computed from the vertex positions.
//
// Parameters:
//   - label: a debug label used for GPU resource names
//   - vertices: interleaved vertex data, FloatsPerVertex floats per vertex
//   - indices: triangle list indices into vertices
//
// Returns:
//   - *Geometry: the mesh
func NewGeometry(label string, vertices []float32, indices []uint32) *Geometry {
	g := &Geometry{
		label:    label,
		vertices: vertices,
		indices:  indices,
	}
	g.computeBounds()
	return g
}

func (g *Geometry) Label() string {
	return g.label
}

// Vertices returns the interleaved vertex data. Callers must not modify it.
func (g *Geometry) Vertices() []float32 {
	return g.vertices
}

// Indices returns the triangle list indices. Callers must not modify it.
func (g *Geometry) Indices() []uint32 {
	return g.indices
}

func (g *Geometry) IndexCount() int {
	return len(g.indices)
}

func (g *Geometry) VertexCount() int {
	return len(g.vertices) / FloatsPerVertex
}

// Bounds returns the object-space axis-aligned bounding box.
//
// Returns:
//   - min, max: the box corners
func (g *Geometry) Bounds() (min, max mgl32.Vec3) {
	return g.min, g.max
}

// Position returns the object-space position of vertex i.
func (g *Geometry) Position(i uint32) mgl32.Vec3 {
	o := int(i) * FloatsPerVertex
	return mgl32.Vec3{g.vertices[o], g.vertices[o+1], g.vertices[o+2]}
}

// Raycast intersects an object-space ray with every triangle and returns the nearest hit distance.
// Both faces of each triangle are tested.
//
// Parameters:
//   - ray: the ray in this geometry's object space
//
// Returns:
//   - float32: the ray parameter of the nearest hit
//   - bool: true if any triangle was hit
func (g *Geometry) Raycast(ray Ray) (float32, bool) {
	if _, ok := ray.IntersectAABB(g.min, g.max); !ok {
		return 0, false
	}

	best := float32(math.MaxFloat32)
	hit := false
	for i := 0; i+2 < len(g.indices); i += 3 {
		t, ok := ray.IntersectTriangle(g.Position(g.indices[i]), g.Position(g.indices[i+1]), g.Position(g.indices[i+2]))
		if ok && t < best {
			best = t
			hit = true
		}
	}
	return best, hit
}

func (g *Geometry) computeBounds() {
	n := g.VertexCount()
	if n == 0 {
		return
	}
	g.min = g.Position(0)
	g.max = g.min
	for i := 1; i < n; i++ {
		p := g.Position(uint32(i))
		for axis := range 3 {
			g.min[axis] = min(g.min[axis], p[axis])
			g.max[axis] = max(g.max[axis], p[axis])
		}
	}
}

// TransformAABB returns the world-space bounding box of an object-space box under m.
//
// Parameters:
//   - bmin, bmax: object-space box corners
//   - m: the object-to-world matrix
//
// Returns:
//   - min, max: the world-space box corners enclosing all eight transformed corners
func TransformAABB(bmin, bmax mgl32.Vec3, m mgl32.Mat4) (mgl32.Vec3, mgl32.Vec3) {
	var outMin, outMax mgl32.Vec3
	for c := range 8 {
		corner := mgl32.Vec3{bmin[0], bmin[1], bmin[2]}
		if c&1 != 0 {
			corner[0] = bmax[0]
		}
		if c&2 != 0 {
			corner[1] = bmax[1]
		}
		if c&4 != 0 {
			corner[2] = bmax[2]
		}
		p := mgl32.TransformCoordinate(corner, m)
		if c == 0 {
			outMin, outMax = p, p
			continue
		}
		for axis := range 3 {
			outMin[axis] = min(outMin[axis], p[axis])
			outMax[axis] = max(outMax[axis], p[axis])
		}
	}
	return outMin, outMax
}
