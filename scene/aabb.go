package scene

import (
	"math"

	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// AABB is an axis-aligned bounding box. The zero value is a degenerate box
// at the origin; start from EmptyAABB to grow a box with Fit.
type AABB struct {
	Min vecmath.Vec3
	Max vecmath.Vec3
}

// EmptyAABB returns an AABB with inverted infinite bounds, ready to be
// grown by Fit.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: vecmath.Vec3{inf, inf, inf},
		Max: vecmath.Vec3{-inf, -inf, -inf},
	}
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() vecmath.Vec3 { return b.Max.Sub(b.Min) }

// LargestAxis returns the index (0=x, 1=y, 2=z) of the box's longest axis.
func (b AABB) LargestAxis() int {
	size := b.Size()
	if size[0] > size[1] && size[0] > size[2] {
		return 0
	} else if size[1] > size[2] {
		return 1
	}
	return 2
}

// Fit grows the box to include v.
func (b *AABB) Fit(v vecmath.Vec3) {
	b.Min = vecmath.MinVec3(b.Min, v)
	b.Max = vecmath.MaxVec3(b.Max, v)
}

// HalfArea returns half the surface area of the box, the quantity the SAH
// cost function actually needs.
func (b AABB) HalfArea() float32 {
	size := b.Size()
	return size[0]*(size[1]+size[2]) + size[1]*size[2]
}

// Area returns the full surface area of the box.
func (b AABB) Area() float32 { return 2 * b.HalfArea() }

// Intersect performs a slab test against the ray, returning the near
// distance and whether the ray hits the box at all. A box entirely behind
// the ray origin is a miss; when the origin lies inside the box the near
// distance is negative.
func (b AABB) Intersect(ray Ray) (float32, bool) {
	tx1 := (b.Min[0] - ray.Origin[0]) / ray.Direction[0]
	tx2 := (b.Max[0] - ray.Origin[0]) / ray.Direction[0]
	ty1 := (b.Min[1] - ray.Origin[1]) / ray.Direction[1]
	ty2 := (b.Max[1] - ray.Origin[1]) / ray.Direction[1]
	tz1 := (b.Min[2] - ray.Origin[2]) / ray.Direction[2]
	tz2 := (b.Max[2] - ray.Origin[2]) / ray.Direction[2]

	if tx1 > tx2 {
		tx1, tx2 = tx2, tx1
	}
	if ty1 > ty2 {
		ty1, ty2 = ty2, ty1
	}
	if tz1 > tz2 {
		tz1, tz2 = tz2, tz1
	}

	t1 := vecmath.Max(tx1, vecmath.Max(ty1, tz1))
	t2 := vecmath.Min(tx2, vecmath.Min(ty2, tz2))

	if t1 > t2 {
		return 0, false
	}
	if t1 < 0 && t2 < 0 {
		return 0, false
	}
	return t1, true
}
