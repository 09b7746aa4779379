package cmd

import (
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// proceduralLoader ignores the path it is given and builds a small
// hard-coded scene instead: a diffuse floor and back wall, an emissive
// quad standing in for an area light, and one point light. It exists so
// the CLI renders something end-to-end without a real GLTF loader wired
// in.
type proceduralLoader struct{}

func (proceduralLoader) Load(path string, width, height int) (*scene.Scene, error) {
	camera := scene.NewCamera(width, height, 45, 0.032,
		vecmath.Vec3{0, 0, 1.5}, vecmath.Vec3{0, 0, -1}, vecmath.Vec3{0, 1, 0})
	s := scene.NewScene(camera)

	floorMat := s.AddMaterial(scene.MaterialData{
		Name:            "floor",
		BaseColorFactor: vecmath.Vec4{0.7, 0.7, 0.75, 1},
		RoughnessFactor: 1,
		IOR:             1.5,
	})
	wallMat := s.AddMaterial(scene.MaterialData{
		Name:            "wall",
		BaseColorFactor: vecmath.Vec4{0.6, 0.2, 0.2, 1},
		RoughnessFactor: 1,
		IOR:             1.5,
	})
	lightMat := s.AddMaterial(scene.MaterialData{
		Name:             "areaLight",
		BaseColorFactor:  vecmath.Vec4{1, 1, 1, 1},
		EmissiveFactor:   vecmath.Vec3{1, 0.95, 0.85},
		EmissiveStrength: 12,
	})

	floor := &scene.Mesh{
		Name: "floor",
		Triangles: []scene.Triangle{
			{
				Positions: [3]vecmath.Vec3{{-2, -1, -2}, {2, -1, -2}, {2, -1, 1}},
				Normals:   [3]vecmath.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
			},
			{
				Positions: [3]vecmath.Vec3{{-2, -1, -2}, {2, -1, 1}, {-2, -1, 1}},
				Normals:   [3]vecmath.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
			},
		},
	}
	floor.ComputeTriangleAreas()
	floor.AddPrimitive(0, 2, floorMat, true)
	if err := s.AddMesh(floor); err != nil {
		return nil, err
	}

	wall := &scene.Mesh{
		Name: "wall",
		Triangles: []scene.Triangle{
			{
				Positions: [3]vecmath.Vec3{{-2, -1, -2}, {-2, 2, -2}, {2, 2, -2}},
				Normals:   [3]vecmath.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			},
			{
				Positions: [3]vecmath.Vec3{{-2, -1, -2}, {2, 2, -2}, {2, -1, -2}},
				Normals:   [3]vecmath.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			},
		},
	}
	wall.ComputeTriangleAreas()
	wall.AddPrimitive(0, 2, wallMat, true)
	if err := s.AddMesh(wall); err != nil {
		return nil, err
	}

	lightMesh := &scene.Mesh{
		Name: "areaLight",
		Triangles: []scene.Triangle{
			{
				Positions: [3]vecmath.Vec3{{-0.5, 1.99, -0.5}, {0.5, 1.99, -0.5}, {0.5, 1.99, 0.5}},
				Normals:   [3]vecmath.Vec3{{0, -1, 0}, {0, -1, 0}, {0, -1, 0}},
			},
			{
				Positions: [3]vecmath.Vec3{{-0.5, 1.99, -0.5}, {0.5, 1.99, 0.5}, {-0.5, 1.99, 0.5}},
				Normals:   [3]vecmath.Vec3{{0, -1, 0}, {0, -1, 0}, {0, -1, 0}},
			},
		},
	}
	lightMesh.ComputeTriangleAreas()
	lightMesh.AddPrimitive(0, 2, lightMat, true)
	if err := s.AddMesh(lightMesh); err != nil {
		return nil, err
	}
	lightMeshIdx := len(s.Meshes) - 1
	s.Lights = append(s.Lights, scene.MeshLightOf(scene.MeshLight{MeshIdx: lightMeshIdx, PrimitiveIdx: 0}))

	s.Lights = append(s.Lights, scene.PointLightOf(scene.PointLight{
		Position: vecmath.Vec3{1, 1.5, 1},
		Wattage:  vecmath.Vec3{60, 55, 50},
	}))

	return s, nil
}
