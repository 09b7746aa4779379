package scene

import "github.com/achilleasa/mlt-pathtracer/vecmath"

// PointLight is an isotropic point light, specified directly in watts per
// channel (already converted from whatever input unit the scene loader
// used).
type PointLight struct {
	Position vecmath.Vec3
	Wattage  vecmath.Vec3
}

// MeshLight marks one primitive of one mesh as emissive; its radiance comes
// from the primitive's material emission rather than from this struct.
type MeshLight struct {
	MeshIdx      int
	PrimitiveIdx int
}

// Light is either a PointLight or a MeshLight. Exactly one of the two
// pointer fields is non-nil.
type Light struct {
	Point *PointLight
	Mesh  *MeshLight
}

// PointLightOf wraps a PointLight as a Light.
func PointLightOf(l PointLight) Light { return Light{Point: &l} }

// MeshLightOf wraps a MeshLight as a Light.
func MeshLightOf(l MeshLight) Light { return Light{Mesh: &l} }

// PBRLumensToWatts converts a luminous intensity in candelas into radiant
// power in watts under the lumens-to-watts approximation used throughout
// the renderer (1 watt == 683 lumens).
const PBRLumensToWatts = 1.0 / 683.0

// Texture references one decoded image by index.
type Texture struct {
	ImageIdx int
}
