package scene

import "github.com/achilleasa/mlt-pathtracer/vecmath"

// Ray is a half-line in world space, used for both visibility queries and
// BVH traversal.
type Ray struct {
	Origin    vecmath.Vec3
	Direction vecmath.Vec3
}

// At returns the point along the ray at parameter t.
func (r Ray) At(t float32) vecmath.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
