package scene

import (
	"github.com/achilleasa/mlt-pathtracer/rng"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// SurfacePoint is the subset of a path vertex's shading data that material
// evaluation and sampling need. Keeping this separate from the path
// package's richer Vertex type lets material logic live here, next to the
// Scene it needs for texture lookups, without an import cycle.
type SurfacePoint struct {
	Position        vecmath.Vec3
	Normal          vecmath.Vec3
	GeometricNormal vecmath.Vec3
	TextureCoord    vecmath.Vec2
}

// Material binds a MaterialData to the Scene it was loaded into, so it can
// resolve texture references.
type Material struct {
	scene *Scene
	data  MaterialData
}

// GetMaterial returns the bound Material for a primitive's (possibly
// absent) material index.
func (s *Scene) GetMaterial(materialIdx int, hasMaterial bool) Material {
	return Material{scene: s, data: s.GetMaterialData(materialIdx, hasMaterial)}
}

// Type reports this material's bounce behavior.
func (m Material) Type() BounceType { return m.data.GetType() }

// BSDF evaluates the material's (non-specular) BSDF at a surface point.
func (m Material) BSDF(p SurfacePoint) vecmath.Vec3 {
	result := vecmath.Vec3{m.data.BaseColorFactor[0], m.data.BaseColorFactor[1], m.data.BaseColorFactor[2]}.Scale(1 / vecmath.Pi)
	if m.data.HasBaseColorTexture {
		result = result.Mul(m.scene.SampleTexture(m.data.BaseColorTextureIdx, p.TextureCoord))
	}
	return result
}

// ExpectedContribution returns the throughput multiplier for an implicit
// (BSDF-sampled) bounce off this material.
//
// inDir is unused: implicit-bounce throughput here depends only on the
// surface's own color, not on the incoming direction.
func (m Material) ExpectedContribution(p SurfacePoint, inDir vecmath.Vec3) vecmath.Vec3 {
	baseColor := vecmath.Vec3{1, 1, 1}
	if m.data.GetType() != BounceRefractive {
		baseColor = vecmath.Vec3{m.data.BaseColorFactor[0], m.data.BaseColorFactor[1], m.data.BaseColorFactor[2]}
		if m.data.HasBaseColorTexture {
			baseColor = baseColor.Mul(m.scene.SampleTexture(m.data.BaseColorTextureIdx, p.TextureCoord))
		}
	}
	// Refractive materials are always white for now.
	return baseColor
}

// Emission returns this material's emitted radiance at a surface point.
func (m Material) Emission(p SurfacePoint) vecmath.Vec3 {
	emission := m.data.EmissiveFactor.Scale(m.data.EmissiveStrength)
	if emission != (vecmath.Vec3{}) && m.data.HasEmissiveTexture {
		emission = emission.Mul(m.scene.SampleTexture(m.data.EmissiveTextureIdx, p.TextureCoord))
	}
	return emission
}

// SampleDirection samples an outgoing ray and its bounce type for a
// BSDF-sampled continuation of a path through this material. inDir points
// away from the surface (i.e. back toward the previous vertex).
func (m Material) SampleDirection(inDir vecmath.Vec3, p SurfacePoint, g *rng.PCG32) (Ray, BounceType) {
	switch m.data.GetType() {
	case BounceRefractive:
		return sampleRefractedRay(inDir, p.Position, p.Normal, p.GeometricNormal, m.data.IOR, g)
	case BounceReflective:
		return sampleReflectedRay(inDir, p.Position, p.Normal, p.GeometricNormal), BounceReflective
	default:
		return sampleDiffuseRay(p.Position, p.Normal, p.GeometricNormal, g)
	}
}

func sampleReflectedRay(inDir, position, shadingNormal, geometricNormal vecmath.Vec3) Ray {
	reflected := vecmath.Reflect(inDir, shadingNormal).Neg()
	if reflected.Dot(geometricNormal) < 0 {
		reflected = vecmath.Reflect(inDir, geometricNormal).Neg()
	}
	return Ray{
		Origin:    position.Add(geometricNormal.Scale(vecmath.Epsilon)),
		Direction: reflected,
	}
}

func computeFresnel(cosIn, cosOut, eta1, eta2 float32) float32 {
	ps := (eta1*cosIn - eta2*cosOut) / (eta1*cosIn + eta2*cosOut)
	pt := (eta1*cosOut - eta2*cosIn) / (eta1*cosOut + eta2*cosIn)
	return 0.5 * (ps*ps + pt*pt)
}

func sampleRefractedRay(inDir, position, shadingNormal, geometricNormal vecmath.Vec3, ior float32, g *rng.PCG32) (Ray, BounceType) {
	trueDir := inDir.Neg()
	isEntering := trueDir.Dot(shadingNormal) < 0

	eta1, eta2 := float32(1), ior
	if !isEntering {
		eta1, eta2 = ior, 1
	}
	refractionRatio := eta1 / eta2

	normal := shadingNormal
	if !isEntering {
		normal = shadingNormal.Neg()
	}

	cosIn := -normal.Dot(trueDir)
	discriminant := 1 - refractionRatio*refractionRatio*(1-cosIn*cosIn)
	if discriminant < 0 {
		return sampleReflectedRay(inDir, position, shadingNormal, geometricNormal), BounceReflective
	}

	cosOut := vecmath.Sqrt(discriminant)
	refracted := trueDir.Scale(refractionRatio).Add(normal.Scale(refractionRatio*cosIn - cosOut)).Normalize()
	fresnel := computeFresnel(cosIn, cosOut, eta1, eta2)

	if g.Float32() < fresnel {
		return sampleReflectedRay(inDir, position, shadingNormal, geometricNormal), BounceReflective
	}

	biasSign := float32(-1)
	if !isEntering {
		biasSign = 1
	}
	bias := geometricNormal.Scale(vecmath.Epsilon * biasSign)
	return Ray{Origin: position.Add(bias), Direction: refracted}, BounceRefractive
}

func sampleDiffuseRay(position, shadingNormal, geometricNormal vecmath.Vec3, g *rng.PCG32) (Ray, BounceType) {
	r := vecmath.Sqrt(g.Float32())
	theta := 2 * vecmath.Pi * g.Float32()

	x := r * vecmath.Cos(theta)
	y := r * vecmath.Sin(theta)
	z := vecmath.Sqrt(vecmath.Max(0, 1-x*x-y*y))

	dir := vecmath.ToWorld(shadingNormal, vecmath.Vec3{x, y, z})
	return Ray{
		Origin:    position.Add(geometricNormal.Scale(vecmath.Epsilon)),
		Direction: dir,
	}, BounceDiffuse
}
