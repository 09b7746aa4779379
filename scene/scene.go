package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/mlt-pathtracer/framebuffer"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// MaterialData holds the raw PBR parameters for one material slot. It is
// intentionally a plain data struct: the behavior built on top of it
// (BSDF evaluation, sampling) lives in the Material type in material.go,
// which wraps a MaterialData together with the Scene it belongs to.
type MaterialData struct {
	Name string

	BaseColorFactor      vecmath.Vec4
	HasBaseColorTexture  bool
	BaseColorTextureIdx  int

	MetallicFactor               float32
	RoughnessFactor              float32
	HasMetallicRoughnessTexture  bool
	MetallicRoughnessTextureIdx  int

	EmissiveFactor      vecmath.Vec3
	EmissiveStrength    float32
	HasEmissiveTexture  bool
	EmissiveTextureIdx  int

	TransmissionFactor      float32
	HasTransmissionTexture  bool
	TransmissionTextureIdx  int

	IOR float32
}

// DefaultMaterialData is used for any primitive with no assigned material,
// matching the original's implicit default-constructed MaterialData.
var DefaultMaterialData = MaterialData{
	BaseColorFactor: vecmath.Vec4{1, 1, 1, 1},
	MetallicFactor:  1,
	RoughnessFactor: 1,
	IOR:             1.5,
}

// Scene is the full set of triangulated geometry, lights, materials and
// textures a renderer traces against.
type Scene struct {
	Camera Camera

	Meshes    []*Mesh
	Lights    []Light
	Textures  []Texture
	Images    []*framebuffer.Image
	Materials []MaterialData

	BgColor vecmath.Vec3
}

// NewScene constructs an empty scene around the given camera.
func NewScene(camera Camera) *Scene {
	return &Scene{Camera: camera}
}

// AddMaterial registers a new material and returns its index.
func (s *Scene) AddMaterial(data MaterialData) int {
	s.Materials = append(s.Materials, data)
	return len(s.Materials) - 1
}

// AddMesh registers a mesh, validating that any material index its
// primitives reference already exists.
func (s *Scene) AddMesh(mesh *Mesh) error {
	for _, p := range mesh.Primitives {
		if p.HasMaterial && (p.MaterialIdx < 0 || p.MaterialIdx >= len(s.Materials)) {
			return fmt.Errorf("scene: mesh %q references unknown material %d", mesh.Name, p.MaterialIdx)
		}
	}
	s.Meshes = append(s.Meshes, mesh)
	return nil
}

// GetMaterialData returns the material data for materialIdx, or
// DefaultMaterialData if hasMaterial is false.
func (s *Scene) GetMaterialData(materialIdx int, hasMaterial bool) MaterialData {
	if !hasMaterial {
		return DefaultMaterialData
	}
	return s.Materials[materialIdx]
}

// HitInfo describes the closest surface a ray intersects.
type HitInfo struct {
	Distance        float32
	Position        vecmath.Vec3
	Normal          vecmath.Vec3
	GeometricNormal vecmath.Vec3
	TextureCoord    vecmath.Vec2
	MaterialIdx     int
	HasMaterial     bool
}

// MaxDistance is the maxDistance value meaning "unbounded"; pass it to
// Intersect for rays with no fixed far plane.
const MaxDistance = float32(math.MaxFloat32)

// Intersect finds the closest hit across every mesh primitive in the scene.
func (s *Scene) Intersect(ray Ray, minDistance, maxDistance float32) (HitInfo, bool) {
	type closestHit struct {
		mesh      *Mesh
		primitive *Primitive
		hit       BVHHit
	}
	var best *closestHit

	for _, mesh := range s.Meshes {
		for i := range mesh.Primitives {
			p := &mesh.Primitives[i]
			hit, ok := p.BVH.Intersect(ray, minDistance, maxDistance)
			if ok && (best == nil || hit.Distance < best.hit.Distance) {
				best = &closestHit{mesh: mesh, primitive: p, hit: hit}
			}
		}
	}
	if best == nil {
		return HitInfo{}, false
	}

	tri := best.mesh.Triangles[best.hit.TriangleIdx]
	edge1 := tri.Positions[1].Sub(tri.Positions[0])
	edge2 := tri.Positions[2].Sub(tri.Positions[0])
	w := best.hit.Barycentric

	normal := tri.Normals[0].Scale(w[0]).Add(tri.Normals[1].Scale(w[1])).Add(tri.Normals[2].Scale(w[2])).Normalize()
	uv := vecmath.Vec2{
		tri.UV[0][0]*w[0] + tri.UV[1][0]*w[1] + tri.UV[2][0]*w[2],
		tri.UV[0][1]*w[0] + tri.UV[1][1]*w[1] + tri.UV[2][1]*w[2],
	}

	return HitInfo{
		Distance:        best.hit.Distance,
		Position:        best.hit.Position,
		Normal:          normal,
		GeometricNormal: edge1.Cross(edge2).Normalize(),
		TextureCoord:    uv,
		MaterialIdx:     best.primitive.MaterialIdx,
		HasMaterial:     best.primitive.HasMaterial,
	}, true
}
