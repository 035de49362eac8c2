package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-7

// Ray is a half-line starting at Origin travelling along the unit vector Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray through m. The direction is not renormalized, so hit parameters
// computed against the transformed ray are valid along the original ray as well.
//
// Parameters:
//   - m: the transform to apply, typically a world-to-object matrix
//
// Returns:
//   - Ray: the transformed ray
func (r Ray) Transform(m mgl32.Mat4) Ray {
	return Ray{
		Origin:    mgl32.TransformCoordinate(r.Origin, m),
		Direction: mgl32.TransformNormal(r.Direction, m),
	}
}

// IntersectAABB intersects the ray with an axis-aligned box using the slab method.
//
// Parameters:
//   - min, max: the box corners
//
// Returns:
//   - float32: the entry parameter, 0 when the origin is inside the box
//   - bool: true if the ray hits the box
func (r Ray) IntersectAABB(min, max mgl32.Vec3) (float32, bool) {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))

	for axis := range 3 {
		o, d := r.Origin[axis], r.Direction[axis]
		if mgl32.Abs(d) < epsilon {
			if o < min[axis] || o > max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (min[axis] - o) / d
		t2 := (max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar || tFar < 0 {
			return 0, false
		}
	}

	if tNear < 0 {
		return 0, true
	}
	return tNear, true
}

// IntersectTriangle intersects the ray with triangle (a, b, c) using the Möller-Trumbore algorithm.
// Back faces are hit as well.
//
// Returns:
//   - float32: the ray parameter of the hit
//   - bool: true if the ray hits the triangle in front of its origin
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (float32, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	p := r.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if mgl32.Abs(det) < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := edge2.Dot(q) * inv
	if t <= epsilon {
		return 0, false
	}
	return t, true
}
