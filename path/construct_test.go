package path

import (
	"testing"

	"github.com/achilleasa/mlt-pathtracer/rng"
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

func groundPlaneScene() *scene.Scene {
	s := scene.NewScene(scene.Camera{})
	matIdx := s.AddMaterial(scene.DefaultMaterialData)

	mesh := &scene.Mesh{
		Triangles: []scene.Triangle{
			{
				Positions: [3]vecmath.Vec3{{-10, 0, -10}, {10, 0, -10}, {10, 0, 10}},
				Normals:   [3]vecmath.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
			},
			{
				Positions: [3]vecmath.Vec3{{-10, 0, -10}, {10, 0, 10}, {-10, 0, 10}},
				Normals:   [3]vecmath.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
			},
		},
	}
	mesh.ComputeTriangleAreas()
	mesh.AddPrimitive(0, 2, matIdx, true)
	if err := s.AddMesh(mesh); err != nil {
		panic(err)
	}

	s.Lights = append(s.Lights, scene.MeshLightOf(scene.MeshLight{MeshIdx: 0, PrimitiveIdx: 0}))
	return s
}

func TestFromVertexProducesLengthOnePath(t *testing.T) {
	p := FromVertex(Vertex{Position: vecmath.Vec3{1, 2, 3}})
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	if p.Vertex(0).Position != (vecmath.Vec3{1, 2, 3}) {
		t.Fatalf("Vertex(0).Position = %v, want (1, 2, 3)", p.Vertex(0).Position)
	}
}

func TestTruncateDropsTrailingVertices(t *testing.T) {
	p := FromVertex(Vertex{})
	p.AppendPath([]Vertex{{}, {}})
	if p.Len() != 3 {
		t.Fatalf("Len() after AppendPath = %d, want 3", p.Len())
	}
	p.Truncate(1)
	if p.Len() != 1 {
		t.Fatalf("Len() after Truncate(1) = %d, want 1", p.Len())
	}
}

func TestSetVertexAndSetLastOverwriteInPlace(t *testing.T) {
	p := FromVertex(Vertex{MaterialIdx: 1})
	p.SetLast(Vertex{MaterialIdx: 2})
	if p.Last().MaterialIdx != 2 {
		t.Fatalf("Last().MaterialIdx = %d, want 2", p.Last().MaterialIdx)
	}
	p.SetVertex(0, Vertex{MaterialIdx: 3})
	if p.Vertex(0).MaterialIdx != 3 {
		t.Fatalf("Vertex(0).MaterialIdx = %d, want 3", p.Vertex(0).MaterialIdx)
	}
}

func TestCreateRandomLightPathWithNoLightsReturnsEmptyPath(t *testing.T) {
	s := scene.NewScene(scene.Camera{})
	g := rng.NewPCG32(1)
	p := CreateRandomLightPath(s, g)
	if p.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for a scene with no lights", p.Len())
	}
}

func TestCreateRandomLightPathStartsOnTheLightSurface(t *testing.T) {
	s := groundPlaneScene()
	g := rng.NewPCG32(1)
	p := CreateRandomLightPath(s, g)

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	v := p.Vertex(0)
	if !v.HasLightIdx || v.LightIdx != 0 {
		t.Fatalf("light path origin vertex has HasLightIdx=%v LightIdx=%d, want true/0", v.HasLightIdx, v.LightIdx)
	}
	if v.Position.Y() != 0 {
		t.Fatalf("light path origin %v should lie on the y=0 ground plane", v.Position)
	}
}

func TestCreateRandomEyePathStartsAtRayOrigin(t *testing.T) {
	s := groundPlaneScene()
	g := rng.NewPCG32(2)
	ray := scene.Ray{Origin: vecmath.Vec3{0, 5, 0}, Direction: vecmath.Vec3{0, -1, 0}}
	p := CreateRandomEyePath(s, ray, g)

	if p.Len() == 0 {
		t.Fatalf("expected a non-empty eye path")
	}
	if p.Vertex(0).Position != ray.Origin {
		t.Fatalf("Vertex(0).Position = %v, want ray origin %v", p.Vertex(0).Position, ray.Origin)
	}
	if p.Vertex(0).ConnectionType != scene.ConnectionOrigin {
		t.Fatalf("Vertex(0).ConnectionType = %v, want ConnectionOrigin", p.Vertex(0).ConnectionType)
	}
}

func TestCreateRandomEyePathNeverExceedsMaxLength(t *testing.T) {
	s := groundPlaneScene()
	g := rng.NewPCG32(3)
	for i := 0; i < 50; i++ {
		ray := scene.Ray{Origin: vecmath.Vec3{0, 5, 0}, Direction: vecmath.Vec3{0, -1, 0}}
		p := CreateRandomEyePath(s, ray, g)
		if p.Len() > MaxLength {
			t.Fatalf("Len() = %d, want <= MaxLength=%d", p.Len(), MaxLength)
		}
	}
}

func TestAddBounceReturnsFalseOnMiss(t *testing.T) {
	s := groundPlaneScene()
	g := rng.NewPCG32(4)
	p := FromVertex(Vertex{ConnectionType: scene.ConnectionOrigin, Position: vecmath.Vec3{0, 5, 0}})

	upwardRay := scene.Ray{Origin: vecmath.Vec3{0, 5, 0}, Direction: vecmath.Vec3{0, 1, 0}}
	_, ok := p.AddBounce(s, upwardRay, TerminationProbability, true, g)
	if ok {
		t.Fatalf("expected AddBounce to report a miss for a ray pointed away from all geometry")
	}
}
