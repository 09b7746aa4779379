package scene

import (
	"testing"

	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

func TestEmptyAABBGrowsCorrectlyUnderFit(t *testing.T) {
	b := EmptyAABB()
	b.Fit(vecmath.Vec3{1, 2, 3})
	b.Fit(vecmath.Vec3{-1, 5, 0})

	if b.Min != (vecmath.Vec3{-1, 2, 0}) {
		t.Fatalf("Min = %v, want (-1, 2, 0)", b.Min)
	}
	if b.Max != (vecmath.Vec3{1, 5, 3}) {
		t.Fatalf("Max = %v, want (1, 5, 3)", b.Max)
	}
}

func TestLargestAxis(t *testing.T) {
	b := AABB{Min: vecmath.Vec3{0, 0, 0}, Max: vecmath.Vec3{10, 1, 1}}
	if got := b.LargestAxis(); got != 0 {
		t.Fatalf("LargestAxis = %d, want 0", got)
	}
	b = AABB{Min: vecmath.Vec3{0, 0, 0}, Max: vecmath.Vec3{1, 10, 1}}
	if got := b.LargestAxis(); got != 1 {
		t.Fatalf("LargestAxis = %d, want 1", got)
	}
	b = AABB{Min: vecmath.Vec3{0, 0, 0}, Max: vecmath.Vec3{1, 1, 10}}
	if got := b.LargestAxis(); got != 2 {
		t.Fatalf("LargestAxis = %d, want 2", got)
	}
}

func TestAABBIntersectHitsAndMisses(t *testing.T) {
	b := AABB{Min: vecmath.Vec3{-1, -1, -1}, Max: vecmath.Vec3{1, 1, 1}}

	ray := Ray{Origin: vecmath.Vec3{0, 0, -5}, Direction: vecmath.Vec3{0, 0, 1}}
	if _, ok := b.Intersect(ray); !ok {
		t.Fatalf("expected a ray pointed at the box to hit it")
	}

	miss := Ray{Origin: vecmath.Vec3{5, 5, -5}, Direction: vecmath.Vec3{0, 0, 1}}
	if _, ok := b.Intersect(miss); ok {
		t.Fatalf("expected a ray pointed away from the box to miss it")
	}

	behind := Ray{Origin: vecmath.Vec3{0, 0, 5}, Direction: vecmath.Vec3{0, 0, 1}}
	if _, ok := b.Intersect(behind); ok {
		t.Fatalf("expected a ray pointed away from the box, from the far side, to miss it")
	}
}

func TestAABBAreaIsTwiceHalfArea(t *testing.T) {
	b := AABB{Min: vecmath.Vec3{0, 0, 0}, Max: vecmath.Vec3{2, 3, 4}}
	if got, want := b.Area(), 2*b.HalfArea(); got != want {
		t.Fatalf("Area() = %v, want 2*HalfArea() = %v", got, want)
	}
}
