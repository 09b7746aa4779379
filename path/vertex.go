// Package path builds and evaluates light-transport paths: random eye and
// light subpaths, Russian-roulette-terminated bounces, and the radiance
// contribution of a fully assembled path.
package path

import (
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// MaxLength is the largest number of vertices a Path can hold.
const MaxLength = 10

// TerminationProbability is the per-bounce Russian roulette kill
// probability used when constructing eye paths.
const TerminationProbability = 0.35826

// Vertex is one point along a light-transport path.
type Vertex struct {
	ConnectionType scene.ConnectionType
	BounceType     scene.BounceType

	Position        vecmath.Vec3
	Normal          vecmath.Vec3
	GeometricNormal vecmath.Vec3
	TextureCoord    vecmath.Vec2

	MaterialIdx int
	HasMaterial bool

	LightIdx    int
	HasLightIdx bool
}

// SurfacePoint extracts the shading data the scene package's material
// operations need.
func (v Vertex) SurfacePoint() scene.SurfacePoint {
	return scene.SurfacePoint{
		Position:        v.Position,
		Normal:          v.Normal,
		GeometricNormal: v.GeometricNormal,
		TextureCoord:    v.TextureCoord,
	}
}

// Material resolves this vertex's bound material.
func (v Vertex) Material(s *scene.Scene) scene.Material {
	return s.GetMaterial(v.MaterialIdx, v.HasMaterial)
}
