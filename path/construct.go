package path

import (
	"github.com/achilleasa/mlt-pathtracer/rng"
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// Path is a fixed-capacity sequence of light-transport vertices.
type Path struct {
	vertices [MaxLength]Vertex
	length   int
}

// FromVertex builds a single-vertex path.
func FromVertex(v Vertex) Path {
	var p Path
	p.vertices[0] = v
	p.length = 1
	return p
}

// Len returns the number of vertices currently in the path.
func (p *Path) Len() int { return p.length }

// Vertex returns the vertex at idx.
func (p *Path) Vertex(idx int) Vertex { return p.vertices[idx] }

// SetVertex overwrites the vertex at idx.
func (p *Path) SetVertex(idx int, v Vertex) { p.vertices[idx] = v }

// Last returns the most recently added vertex.
func (p *Path) Last() Vertex { return p.vertices[p.length-1] }

// SetLast overwrites the most recently added vertex.
func (p *Path) SetLast(v Vertex) { p.vertices[p.length-1] = v }

// Slice returns the vertices in [first, last).
func (p *Path) Slice(first, last int) []Vertex { return p.vertices[first:last] }

// ToSlice returns every vertex currently in the path.
func (p *Path) ToSlice() []Vertex { return p.vertices[:p.length] }

// Truncate drops every vertex from idx onward.
func (p *Path) Truncate(idx int) { p.length = idx }

// AppendPath appends other's vertices after this path's current tail.
// Panics if the combined length would exceed MaxLength.
func (p *Path) AppendPath(other []Vertex) {
	if p.length+len(other) > MaxLength {
		panic("path: AppendPath would exceed MaxLength")
	}
	copy(p.vertices[p.length:], other)
	p.length += len(other)
}

func chooseRandomLight(s *scene.Scene, g *rng.PCG32) int {
	return g.Intn(len(s.Lights))
}

// chooseRandomVertexOnTriangle samples a uniformly random point on a
// triangle via barycentric coordinates.
func chooseRandomVertexOnTriangle(t scene.Triangle, g *rng.PCG32) Vertex {
	sqrtU1 := vecmath.Sqrt(g.Float32())
	u2 := g.Float32()

	alpha := 1 - sqrtU1
	beta := (1 - u2) * sqrtU1
	gamma := u2 * sqrtU1

	position := t.Positions[0].Scale(alpha).Add(t.Positions[1].Scale(beta)).Add(t.Positions[2].Scale(gamma))
	normal := t.Normals[0].Scale(alpha).Add(t.Normals[1].Scale(beta)).Add(t.Normals[2].Scale(gamma)).Normalize()
	geomNormal := t.Positions[1].Sub(t.Positions[0]).Cross(t.Positions[2].Sub(t.Positions[0])).Normalize()
	uv := vecmath.Vec2{
		t.UV[0][0]*alpha + t.UV[1][0]*beta + t.UV[2][0]*gamma,
		t.UV[0][1]*alpha + t.UV[1][1]*beta + t.UV[2][1]*gamma,
	}

	return Vertex{
		ConnectionType:  scene.ConnectionExplicit,
		BounceType:      scene.BounceNone,
		Position:        position,
		Normal:          normal,
		GeometricNormal: geomNormal,
		TextureCoord:    uv,
	}
}

func chooseRandomVertexOnLight(s *scene.Scene, lightIdx int, g *rng.PCG32) Vertex {
	light := s.Lights[lightIdx]
	if light.Point != nil {
		return Vertex{
			ConnectionType: scene.ConnectionExplicit,
			Position:       light.Point.Position,
			LightIdx:       lightIdx,
			HasLightIdx:    true,
		}
	}

	mesh := s.Meshes[light.Mesh.MeshIdx]
	primitive := &mesh.Primitives[light.Mesh.PrimitiveIdx]
	triangleIdx := primitive.SampleTriangle(g.Float32())
	triangle := mesh.Triangles[triangleIdx]

	vertex := chooseRandomVertexOnTriangle(triangle, g)
	vertex.MaterialIdx = primitive.MaterialIdx
	vertex.HasMaterial = primitive.HasMaterial
	vertex.LightIdx = lightIdx
	vertex.HasLightIdx = true
	return vertex
}

// CreateRandomLightPath starts a path at a uniformly chosen light.
func CreateRandomLightPath(s *scene.Scene, g *rng.PCG32) Path {
	var p Path
	if len(s.Lights) == 0 {
		return p
	}
	p.vertices[0] = chooseRandomVertexOnLight(s, chooseRandomLight(s, g), g)
	p.length = 1
	return p
}

// AddBounce intersects inRay against the scene, appends the hit as a new
// implicit vertex, optionally Russian-roulette kills the path, and samples
// a continuation ray. It returns ok=false when the ray misses the scene or
// the path is terminated by roulette.
func (p *Path) AddBounce(s *scene.Scene, inRay scene.Ray, terminationProbability float32, hasTermination bool, g *rng.PCG32) (scene.Ray, bool) {
	hit, ok := s.Intersect(inRay, 0, scene.MaxDistance)
	if !ok {
		return scene.Ray{}, false
	}

	material := s.GetMaterial(hit.MaterialIdx, hit.HasMaterial)
	if material.Type() != scene.BounceRefractive && inRay.Direction.Dot(hit.GeometricNormal) > 0 {
		hit.Normal = hit.Normal.Neg()
		hit.GeometricNormal = hit.GeometricNormal.Neg()
	}

	p.vertices[p.length] = Vertex{
		ConnectionType:  scene.ConnectionImplicit,
		BounceType:      scene.BounceNone,
		Position:        hit.Position,
		Normal:          hit.Normal,
		GeometricNormal: hit.GeometricNormal,
		TextureCoord:    hit.TextureCoord,
		MaterialIdx:     hit.MaterialIdx,
		HasMaterial:     hit.HasMaterial,
	}
	p.length++

	if hasTermination && g.Float32() < terminationProbability {
		return scene.Ray{}, false
	}

	newRay, bounceType := material.SampleDirection(inRay.Direction.Neg(), p.Last().SurfacePoint(), g)
	last := p.Last()
	last.BounceType = bounceType
	p.SetLast(last)
	return newRay, true
}

// CreateRandomEyePath constructs a path starting at ray.Origin, extending it
// with Russian-roulette-terminated bounces until it hits MaxLength or dies.
func CreateRandomEyePath(s *scene.Scene, ray scene.Ray, g *rng.PCG32) Path {
	var p Path
	p.vertices[0] = Vertex{ConnectionType: scene.ConnectionOrigin, BounceType: scene.BounceNone, Position: ray.Origin}
	p.length = 1

	for p.length < MaxLength {
		nextRay, ok := p.AddBounce(s, ray, TerminationProbability, true, g)
		if !ok {
			return p
		}
		ray = nextRay
	}
	return p
}
