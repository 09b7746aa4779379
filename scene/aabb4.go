package scene

import (
	"math"

	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// AABB4 packs four AABBs lane-wise so a single traversal step can test a
// BVH node's four children together.
type AABB4 struct {
	minX, minY, minZ [4]float32
	maxX, maxY, maxZ [4]float32
}

// NewAABB4 packs four boxes into lanes 0..3.
func NewAABB4(boxes [4]AABB) AABB4 {
	var a AABB4
	for i, b := range boxes {
		a.minX[i], a.minY[i], a.minZ[i] = b.Min[0], b.Min[1], b.Min[2]
		a.maxX[i], a.maxY[i], a.maxZ[i] = b.Max[0], b.Max[1], b.Max[2]
	}
	return a
}

// EmptyAABB4 returns four inverted-infinite boxes.
func EmptyAABB4() AABB4 {
	inf := float32(math.Inf(1))
	var a AABB4
	for i := 0; i < 4; i++ {
		a.minX[i], a.minY[i], a.minZ[i] = inf, inf, inf
		a.maxX[i], a.maxY[i], a.maxZ[i] = -inf, -inf, -inf
	}
	return a
}

// HitInfo4 reports, per lane, whether the ray hit and at what near distance.
type HitInfo4 struct {
	Hit       [4]bool
	Distances [4]float32
}

// Intersect tests the ray against all four lanes at once.
func (a AABB4) Intersect(ray Ray) HitInfo4 {
	invDX := 1 / ray.Direction[0]
	invDY := 1 / ray.Direction[1]
	invDZ := 1 / ray.Direction[2]

	var info HitInfo4
	for i := 0; i < 4; i++ {
		tx1 := (a.minX[i] - ray.Origin[0]) * invDX
		tx2 := (a.maxX[i] - ray.Origin[0]) * invDX
		ty1 := (a.minY[i] - ray.Origin[1]) * invDY
		ty2 := (a.maxY[i] - ray.Origin[1]) * invDY
		tz1 := (a.minZ[i] - ray.Origin[2]) * invDZ
		tz2 := (a.maxZ[i] - ray.Origin[2]) * invDZ

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

		info.Hit[i] = t1 <= t2 && !(t1 < 0 && t2 < 0)
		info.Distances[i] = t1
	}
	return info
}

func (a *AABB4) fit(idx int, p vecmath.Vec3) {
	a.minX[idx] = vecmath.Min(a.minX[idx], p[0])
	a.minY[idx] = vecmath.Min(a.minY[idx], p[1])
	a.minZ[idx] = vecmath.Min(a.minZ[idx], p[2])
	a.maxX[idx] = vecmath.Max(a.maxX[idx], p[0])
	a.maxY[idx] = vecmath.Max(a.maxY[idx], p[1])
	a.maxZ[idx] = vecmath.Max(a.maxZ[idx], p[2])
}

// GetMin returns the minimum bound of lane idx along axis.
func (a AABB4) GetMin(idx, axis int) float32 {
	switch axis {
	case 0:
		return a.minX[idx]
	case 1:
		return a.minY[idx]
	default:
		return a.minZ[idx]
	}
}

// GetSize returns the extent of lane idx along axis.
func (a AABB4) GetSize(idx, axis int) float32 {
	switch axis {
	case 0:
		return a.maxX[idx] - a.minX[idx]
	case 1:
		return a.maxY[idx] - a.minY[idx]
	default:
		return a.maxZ[idx] - a.minZ[idx]
	}
}
