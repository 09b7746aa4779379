package scene

import "github.com/achilleasa/mlt-pathtracer/vecmath"

// Triangle is one triangle of a mesh, with interpolated shading data at its
// three vertices.
type Triangle struct {
	Positions [3]vecmath.Vec3
	Normals   [3]vecmath.Vec3
	UV        [3]vecmath.Vec2
}

// Area returns the triangle's surface area.
func (t Triangle) Area() float32 {
	edge1 := t.Positions[1].Sub(t.Positions[0])
	edge2 := t.Positions[2].Sub(t.Positions[0])
	return edge1.Cross(edge2).Len()
}

// Primitive is a contiguous run of triangles in a Mesh sharing one material,
// together with its own acceleration structure and emission data.
type Primitive struct {
	StartIdx    int
	Count       int
	MaterialIdx int
	HasMaterial bool
	BVH         *BVH
	TotalArea   float32

	// Cumulative area of each triangle within the primitive, used to pick a
	// triangle on a mesh light proportional to its contribution to the
	// primitive's total area.
	cumulativeArea []float32
}

// SampleTriangle picks a triangle index (absolute, into the mesh's Triangles
// slice) within this primitive with probability proportional to its area.
func (p *Primitive) SampleTriangle(u float32) int {
	target := u * p.TotalArea
	lo, hi := 0, len(p.cumulativeArea)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if p.cumulativeArea[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return p.StartIdx + lo
}

// Mesh is a triangulated surface, partitioned into material-homogeneous
// primitives.
type Mesh struct {
	Name          string
	Triangles     []Triangle
	Primitives    []Primitive
	TriangleAreas []float32
}

// AddPrimitive registers a contiguous triangle range as a new primitive,
// building its BVH and area-sampling tables.
func (m *Mesh) AddPrimitive(startIdx, count int, materialIdx int, hasMaterial bool) {
	p := Primitive{
		StartIdx:    startIdx,
		Count:       count,
		MaterialIdx: materialIdx,
		HasMaterial: hasMaterial,
		BVH:         BuildBVH(m, startIdx, count),
	}
	p.cumulativeArea = make([]float32, count)
	var total float32
	for i := 0; i < count; i++ {
		total += m.TriangleAreas[startIdx+i]
		p.cumulativeArea[i] = total
	}
	p.TotalArea = total
	m.Primitives = append(m.Primitives, p)
}

// ComputeTriangleAreas populates TriangleAreas for every triangle in the
// mesh. Must be called once all triangles have been added.
func (m *Mesh) ComputeTriangleAreas() {
	m.TriangleAreas = make([]float32, len(m.Triangles))
	for i, t := range m.Triangles {
		m.TriangleAreas[i] = t.Area()
	}
}
