package geometry

import (
	"math"
)

// NewBox builds an axis-aligned box centred on the origin with per-face normals.
//
// Parameters:
//   - width, height, depth: the box extents along x, y and z
//
// Returns:
//   - *Geometry: the box mesh (24 vertices, 36 indices)
func NewBox(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2

	// Each face: normal, then four corners counter-clockwise seen from outside.
	faces := [6]struct {
		n       [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}

	vertices := make([]float32, 0, 24*FloatsPerVertex)
	indices := make([]uint32, 0, 36)
	for f, face := range faces {
		for _, c := range face.corners {
			vertices = append(vertices, c[0], c[1], c[2], face.n[0], face.n[1], face.n[2])
		}
		base := uint32(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewGeometry("box", vertices, indices)
}

// NewSphere builds a UV sphere centred on the origin.
//
// Parameters:
//   - radius: the sphere radius
//   - widthSegments: number of segments around the equator (minimum 3)
//   - heightSegments: number of segments from pole to pole (minimum 2)
//
// Returns:
//   - *Geometry: the sphere mesh
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	vertices := make([]float32, 0, (widthSegments+1)*(heightSegments+1)*FloatsPerVertex)
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * math.Pi
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * math.Pi

			nx := float32(-math.Cos(phi) * math.Sin(theta))
			ny := float32(math.Cos(theta))
			nz := float32(math.Sin(phi) * math.Sin(theta))
			vertices = append(vertices, nx*radius, ny*radius, nz*radius, nx, ny, nz)
		}
	}

	row := uint32(widthSegments + 1)
	indices := make([]uint32, 0, widthSegments*heightSegments*6)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y)*row + uint32(x) + 1
			b := uint32(y)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x)
			d := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				indices = append(indices, a, b, d)
			}
			if y != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return NewGeometry("sphere", vertices, indices)
}

// NewPlane builds a flat quad in the XZ plane facing +Y, centred on the origin.
//
// Parameters:
//   - width: extent along x
//   - depth: extent along z
//
// Returns:
//   - *Geometry: the plane mesh
func NewPlane(width, depth float32) *Geometry {
	hx, hz := width/2, depth/2
	vertices := []float32{
		-hx, 0, hz, 0, 1, 0,
		hx, 0, hz, 0, 1, 0,
		hx, 0, -hz, 0, 1, 0,
		-hx, 0, -hz, 0, 1, 0,
	}
	return NewGeometry("plane", vertices, []uint32{0, 1, 2, 0, 2, 3})
}
