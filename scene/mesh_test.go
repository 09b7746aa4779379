package scene

import (
	"testing"

	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

func quadMesh() *Mesh {
	mesh := &Mesh{
		Triangles: []Triangle{
			{Positions: [3]vecmath.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}},
			{Positions: [3]vecmath.Vec3{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}}},
			{Positions: [3]vecmath.Vec3{{10, 10, 10}, {11, 10, 10}, {11, 11, 10}}},
		},
	}
	mesh.ComputeTriangleAreas()
	return mesh
}

func TestComputeTriangleAreasMatchesPerTriangleArea(t *testing.T) {
	mesh := quadMesh()
	for i, tri := range mesh.Triangles {
		if got, want := mesh.TriangleAreas[i], tri.Area(); got != want {
			t.Fatalf("TriangleAreas[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestAddPrimitiveComputesTotalArea(t *testing.T) {
	mesh := quadMesh()
	mesh.AddPrimitive(0, 2, 0, true)

	want := mesh.TriangleAreas[0] + mesh.TriangleAreas[1]
	if got := mesh.Primitives[0].TotalArea; got != want {
		t.Fatalf("TotalArea = %v, want %v", got, want)
	}
}

func TestSampleTriangleIsProportionalToArea(t *testing.T) {
	mesh := &Mesh{
		Triangles: []Triangle{
			// A big triangle and a tiny one holding about 1e-8 of the total
			// area, so both u=0 and u close to 1 land on the big one.
			{Positions: [3]vecmath.Vec3{{0, 0, 0}, {100, 0, 0}, {100, 100, 0}}},
			{Positions: [3]vecmath.Vec3{{0, 0, 0}, {0.01, 0, 0}, {0.01, 0.01, 0}}},
		},
	}
	mesh.ComputeTriangleAreas()
	mesh.AddPrimitive(0, 2, 0, true)

	if got := mesh.Primitives[0].SampleTriangle(0); got != 0 {
		t.Fatalf("SampleTriangle(0) = %d, want 0", got)
	}
	if got := mesh.Primitives[0].SampleTriangle(0.999999); got != 0 {
		t.Fatalf("SampleTriangle(~1) = %d, want 0", got)
	}
}

func TestSampleTriangleReturnsAbsoluteIndexWithinMesh(t *testing.T) {
	mesh := quadMesh()
	mesh.AddPrimitive(1, 2, 0, true)

	for _, u := range []float32{0, 0.25, 0.5, 0.75, 0.999} {
		idx := mesh.Primitives[0].SampleTriangle(u)
		if idx < 1 || idx > 2 {
			t.Fatalf("SampleTriangle(%v) = %d, want [1, 2]", u, idx)
		}
	}
}
