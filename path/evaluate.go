package path

import (
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// continuationProbability is 1 - TerminationProbability, the survival
// weight implicit bounces are divided by under Russian roulette.
const continuationProbability = 1 - TerminationProbability

// HasVisibility reports whether v1 and v2 can see each other: v1 must be
// oriented toward v2 (and, if v2 carries a normal, v2 oriented back toward
// v1), and the scene must have no occluder between them.
func HasVisibility(s *scene.Scene, v1, v2 Vertex) bool {
	origin := v1.Position.Add(v1.GeometricNormal.Scale(vecmath.Epsilon))
	delta := v2.Position.Sub(origin)
	dist := delta.Len()
	dir := delta.Scale(1 / dist)

	if dir.Dot(v1.Normal) < vecmath.Epsilon {
		return false
	}
	if v2.Normal.LenSq() > vecmath.Epsilon && dir.Neg().Dot(v2.Normal) < vecmath.Epsilon {
		return false
	}

	_, hit := s.Intersect(scene.Ray{Origin: origin, Direction: dir}, 0, dist-2*vecmath.Epsilon)
	return !hit
}

// Result pairs a path's true radiance with the radiance scaled by inverse
// Russian roulette survival weight; MLT needs the latter for its target
// function while image accumulation needs the former.
type Result struct {
	Radiance                 vecmath.Vec3
	RussianRouletteRadiance vecmath.Vec3
}

// EvaluateImplicit evaluates the throughput contributed by bouncing off v2
// via a BSDF-sampled (implicit) direction, having arrived from v1.
//
// v3 and the duplicated inDir/outDir computation are unused: this mirrors
// the upstream formula, which derives the implicit throughput purely from
// v2's material response and never actually needs the outgoing vertex.
func EvaluateImplicit(s *scene.Scene, v1, v2, v3 Vertex) Result {
	inDir := v1.Position.Sub(v2.Position).Normalize()
	outDir := v1.Position.Sub(v2.Position).Normalize()
	_, _ = inDir, outDir

	material := v2.Material(s)
	radiance := material.ExpectedContribution(v2.SurfacePoint(), v1.Position.Sub(v2.Position))

	return Result{
		Radiance:                 radiance,
		RussianRouletteRadiance: radiance.Scale(1 / continuationProbability),
	}
}

// EvaluateExplicitLight evaluates the throughput of connecting x2 to an
// explicitly sampled point on a light, having arrived at x2 from x1.
func EvaluateExplicitLight(s *scene.Scene, x1, x2, lightVertex Vertex) vecmath.Vec3 {
	result := vecmath.Vec3{1, 1, 1}
	lightDist := lightVertex.Position.Sub(x2.Position).Len()

	inDir := x1.Position.Sub(x2.Position).Normalize()
	outDir := lightVertex.Position.Sub(x2.Position).Normalize()
	_ = inDir

	if !HasVisibility(s, x2, lightVertex) {
		return vecmath.Vec3{}
	}

	material := x2.Material(s)
	result = result.Mul(material.BSDF(x2.SurfacePoint()))
	result = result.Scale(1 / (lightDist * lightDist))
	result = result.Scale(vecmath.Max(0, x2.Normal.Dot(outDir)))

	light := s.Lights[lightVertex.LightIdx]
	if light.Point != nil {
		result = result.Scale(1 / (4 * vecmath.Pi))
		result = result.Mul(light.Point.Wattage)
	} else {
		primitive := &s.Meshes[light.Mesh.MeshIdx].Primitives[light.Mesh.PrimitiveIdx]
		lightMaterial := lightVertex.Material(s)
		result = result.Scale(vecmath.Max(0, lightVertex.Normal.Dot(outDir.Neg())))
		result = result.Scale(primitive.TotalArea)
		result = result.Mul(lightMaterial.Emission(lightVertex.SurfacePoint()))
	}

	result = result.Scale(float32(len(s.Lights)))
	return result
}

// EvaluateExplicit evaluates the throughput of a bidirectional connection
// between eye subpath vertex x2 and light subpath vertex y2.
//
// material2's BSDF is deliberately evaluated at x2, not y2: this mirrors
// the upstream connection formula, which was never updated after an
// earlier refactor.
func EvaluateExplicit(s *scene.Scene, x1, x2, y1, y2 Vertex) vecmath.Vec3 {
	result := vecmath.Vec3{1, 1, 1}

	delta := y2.Position.Sub(x2.Position)
	dist := delta.Len()
	invDist := 1 / dist
	x2toy2 := delta.Scale(invDist)

	material1 := x2.Material(s)
	material2 := y2.Material(s)

	result = result.Mul(material1.BSDF(x2.SurfacePoint()))
	result = result.Mul(material2.BSDF(x2.SurfacePoint()))
	result = result.Scale(invDist * invDist)

	result = result.Scale(vecmath.Max(0, x2.Normal.Dot(x2toy2)))
	result = result.Scale(vecmath.Max(0, y2.Normal.Dot(x2toy2.Neg())))

	return result
}

// Evaluate walks a full path and sums its radiance contribution, returning
// both the true radiance and the radiance rescaled by inverse Russian
// roulette survival weight.
func Evaluate(s *scene.Scene, verts []Vertex) Result {
	throughput := vecmath.Vec3{1, 1, 1}
	rrThroughput := vecmath.Vec3{1, 1, 1}
	result := Result{}

	for i := 1; i < len(verts)-1; i++ {
		switch verts[i+1].ConnectionType {
		case scene.ConnectionImplicit:
			implicit := EvaluateImplicit(s, verts[i-1], verts[i], verts[i+1])
			throughput = throughput.Mul(implicit.Radiance)
			rrThroughput = rrThroughput.Mul(implicit.RussianRouletteRadiance)
			if i == len(verts)-2 {
				material := verts[i+1].Material(s)
				emission := material.Emission(verts[i+1].SurfacePoint())
				result.Radiance = result.Radiance.Add(throughput.Mul(emission))
				result.RussianRouletteRadiance = result.RussianRouletteRadiance.Add(rrThroughput.Mul(emission))
			}
		case scene.ConnectionExplicit:
			if i < len(verts)-2 {
				explicit := EvaluateExplicit(s, verts[i-1], verts[i], verts[i+1], verts[i+2])
				throughput = throughput.Mul(explicit)
				rrThroughput = rrThroughput.Mul(explicit)
			} else if verts[i+1].HasLightIdx {
				explicit := EvaluateExplicitLight(s, verts[i-1], verts[i], verts[i+1])
				result.Radiance = result.Radiance.Add(throughput.Mul(explicit))
				result.RussianRouletteRadiance = result.RussianRouletteRadiance.Add(rrThroughput.Mul(explicit))
			} else {
				material := verts[i+1].Material(s)
				emission := material.Emission(verts[i+1].SurfacePoint())
				result.Radiance = result.Radiance.Add(throughput.Mul(emission))
				result.RussianRouletteRadiance = result.RussianRouletteRadiance.Add(rrThroughput.Mul(emission))
			}
		}

		material := verts[i].Material(s)
		emission := material.Emission(verts[i].SurfacePoint())
		result.Radiance = result.Radiance.Add(throughput.Mul(emission))
		result.RussianRouletteRadiance = result.RussianRouletteRadiance.Add(rrThroughput.Mul(emission))
	}

	return result
}
