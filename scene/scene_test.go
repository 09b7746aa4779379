package scene

import (
	"testing"

	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

func singleTriangleMesh(name string, z float32) *Mesh {
	mesh := &Mesh{
		Name: name,
		Triangles: []Triangle{
			{
				Positions: [3]vecmath.Vec3{{-10, -10, z}, {10, -10, z}, {0, 10, z}},
				Normals:   [3]vecmath.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			},
		},
	}
	mesh.ComputeTriangleAreas()
	mesh.AddPrimitive(0, 1, 0, false)
	return mesh
}

func TestAddMeshRejectsUnknownMaterialIndex(t *testing.T) {
	s := NewScene(Camera{})
	mesh := &Mesh{
		Triangles: []Triangle{{Positions: [3]vecmath.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}},
	}
	mesh.ComputeTriangleAreas()
	mesh.AddPrimitive(0, 1, 3, true)

	if err := s.AddMesh(mesh); err == nil {
		t.Fatalf("expected an error for a primitive referencing an unregistered material")
	}
}

func TestAddMeshAcceptsValidMaterialIndex(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(DefaultMaterialData)

	mesh := &Mesh{
		Triangles: []Triangle{{Positions: [3]vecmath.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}},
	}
	mesh.ComputeTriangleAreas()
	mesh.AddPrimitive(0, 1, matIdx, true)

	if err := s.AddMesh(mesh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Meshes) != 1 {
		t.Fatalf("len(Meshes) = %d, want 1", len(s.Meshes))
	}
}

func TestGetMaterialDataFallsBackToDefault(t *testing.T) {
	s := NewScene(Camera{})
	if got := s.GetMaterialData(0, false); got != DefaultMaterialData {
		t.Fatalf("GetMaterialData(_, false) = %+v, want DefaultMaterialData", got)
	}
}

func TestIntersectReturnsClosestHitAcrossMeshes(t *testing.T) {
	s := NewScene(Camera{})
	near := singleTriangleMesh("near", -5)
	far := singleTriangleMesh("far", -15)
	if err := s.AddMesh(near); err != nil {
		t.Fatalf("AddMesh(near): %v", err)
	}
	if err := s.AddMesh(far); err != nil {
		t.Fatalf("AddMesh(far): %v", err)
	}

	ray := Ray{Origin: vecmath.Vec3{0, 0, 0}, Direction: vecmath.Vec3{0, 0, -1}}
	hit, ok := s.Intersect(ray, 0, MaxDistance)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Distance < 4.9 || hit.Distance > 5.1 {
		t.Fatalf("Distance = %v, want ~5 (the near mesh, not the far one)", hit.Distance)
	}
}

func TestIntersectMissesWhenNothingInPath(t *testing.T) {
	s := NewScene(Camera{})
	if err := s.AddMesh(singleTriangleMesh("behind", -5)); err != nil {
		t.Fatalf("AddMesh: %v", err)
	}

	ray := Ray{Origin: vecmath.Vec3{0, 0, 0}, Direction: vecmath.Vec3{0, 0, 1}}
	if _, ok := s.Intersect(ray, 0, MaxDistance); ok {
		t.Fatalf("expected a miss for a ray pointed away from all geometry")
	}
}
