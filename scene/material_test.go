package scene

import (
	"testing"

	"github.com/achilleasa/mlt-pathtracer/rng"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

func TestBSDFScalesBaseColorByInversePi(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(MaterialData{BaseColorFactor: vecmath.Vec4{1, 0.5, 0.25, 1}})
	m := s.GetMaterial(matIdx, true)

	got := m.BSDF(SurfacePoint{})
	want := vecmath.Vec3{1, 0.5, 0.25}.Scale(1 / vecmath.Pi)
	if got != want {
		t.Fatalf("BSDF = %v, want %v", got, want)
	}
}

func TestExpectedContributionIsWhiteForRefractiveMaterials(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(MaterialData{TransmissionFactor: 1, BaseColorFactor: vecmath.Vec4{0, 0, 0, 1}})
	m := s.GetMaterial(matIdx, true)

	if got := m.ExpectedContribution(SurfacePoint{}, vecmath.Vec3{}); got != (vecmath.Vec3{1, 1, 1}) {
		t.Fatalf("ExpectedContribution for a refractive material = %v, want (1, 1, 1)", got)
	}
}

func TestExpectedContributionUsesBaseColorForNonRefractive(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(MaterialData{BaseColorFactor: vecmath.Vec4{0.2, 0.4, 0.6, 1}})
	m := s.GetMaterial(matIdx, true)

	if got := m.ExpectedContribution(SurfacePoint{}, vecmath.Vec3{}); got != (vecmath.Vec3{0.2, 0.4, 0.6}) {
		t.Fatalf("ExpectedContribution = %v, want (0.2, 0.4, 0.6)", got)
	}
}

func TestEmissionScalesFactorByStrength(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(MaterialData{EmissiveFactor: vecmath.Vec3{1, 1, 1}, EmissiveStrength: 12})
	m := s.GetMaterial(matIdx, true)

	if got := m.Emission(SurfacePoint{}); got != (vecmath.Vec3{12, 12, 12}) {
		t.Fatalf("Emission = %v, want (12, 12, 12)", got)
	}
}

func TestSampleDirectionDiffuseStaysInNormalHemisphere(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(DefaultMaterialData)
	m := s.GetMaterial(matIdx, true)

	normal := vecmath.Vec3{0, 1, 0}
	g := rng.NewPCG32(1)
	for i := 0; i < 200; i++ {
		ray, bounce := m.SampleDirection(vecmath.Vec3{0, 1, 0}, SurfacePoint{Position: vecmath.Vec3{}, Normal: normal, GeometricNormal: normal}, g)
		if bounce != BounceDiffuse {
			t.Fatalf("bounce type = %v, want BounceDiffuse", bounce)
		}
		if got := ray.Direction.Dot(normal); got < -1e-4 {
			t.Fatalf("sampled diffuse direction %v points below the normal %v (dot=%v)", ray.Direction, normal, got)
		}
	}
}

func TestSampleDirectionReflectiveMirrorsAboutNormal(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(MaterialData{MetallicFactor: 1, RoughnessFactor: 0})
	m := s.GetMaterial(matIdx, true)

	normal := vecmath.Vec3{0, 1, 0}
	inDir := vecmath.Vec3{1, 1, 0}.Normalize()
	g := rng.NewPCG32(1)
	ray, bounce := m.SampleDirection(inDir, SurfacePoint{Normal: normal, GeometricNormal: normal}, g)

	if bounce != BounceReflective {
		t.Fatalf("bounce type = %v, want BounceReflective", bounce)
	}
	// A mirror reflection about the normal preserves the angle to the normal.
	inAngle := inDir.Dot(normal)
	outAngle := ray.Direction.Dot(normal)
	if diff := inAngle - outAngle; diff < -1e-3 || diff > 1e-3 {
		t.Fatalf("reflected direction %v does not preserve angle to normal: in=%v out=%v", ray.Direction, inAngle, outAngle)
	}
}

func TestSampleDirectionRefractiveProducesUnitDirection(t *testing.T) {
	s := NewScene(Camera{})
	matIdx := s.AddMaterial(MaterialData{TransmissionFactor: 1, IOR: 1.5})
	m := s.GetMaterial(matIdx, true)

	normal := vecmath.Vec3{0, 1, 0}
	inDir := vecmath.Vec3{0.3, 1, 0}.Normalize()
	g := rng.NewPCG32(5)
	ray, bounce := m.SampleDirection(inDir, SurfacePoint{Normal: normal, GeometricNormal: normal}, g)

	if bounce != BounceRefractive && bounce != BounceReflective {
		t.Fatalf("bounce type = %v, want BounceRefractive or BounceReflective (total internal reflection / Fresnel)", bounce)
	}
	if got := ray.Direction.Len(); got < 0.999 || got > 1.001 {
		t.Fatalf("sampled direction %v is not unit length: %v", ray.Direction, got)
	}
}
