package scene

import (
	"math"

	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

const (
	numSplitCandidates = 5
	maxLeafTriangles   = 4
	triangleEpsilon    = 5e-7
)

// bvhTriangle is a working copy of a mesh triangle's positions plus its
// original (absolute) index into the mesh, reordered in place as the
// builder partitions triangles between child nodes.
type bvhTriangle struct {
	positions [3]vecmath.Vec3
	idx       int
}

func (t bvhTriangle) center() vecmath.Vec3 {
	return t.positions[0].Add(t.positions[1]).Add(t.positions[2]).Scale(1.0 / 3.0)
}

// BVHNode is a 4-ary node. A node is a leaf when NumTriangles != 0, in which
// case Idx is the offset of its first triangle in BVH.Triangles; otherwise
// Idx is the index of the node's first child, with the four children stored
// consecutively.
type BVHNode struct {
	ChildBounds  AABB4
	Idx          uint32
	NumTriangles uint32
}

// IsLeaf reports whether this node directly holds triangles.
func (n BVHNode) IsLeaf() bool { return n.NumTriangles != 0 }

// BVH is a 4-ary bounding volume hierarchy built over a contiguous range of
// a Mesh's triangles using a cascading-binary surface-area-heuristic split.
type BVH struct {
	Triangles []bvhTriangle
	Nodes     []BVHNode
	RootBounds AABB
}

// BVHHit describes a ray/triangle intersection found during BVH traversal.
type BVHHit struct {
	TriangleIdx int
	Distance    float32
	Position    vecmath.Vec3
	Barycentric vecmath.Vec3
}

// BuildBVH constructs a hierarchy over mesh.Triangles[startIdx:startIdx+count].
func BuildBVH(mesh *Mesh, startIdx, count int) *BVH {
	b := &BVH{
		Triangles:  make([]bvhTriangle, 0, count),
		RootBounds: EmptyAABB(),
	}
	centers := make([]vecmath.Vec3, 0, count)
	for i := startIdx; i < startIdx+count; i++ {
		tri := mesh.Triangles[i]
		bt := bvhTriangle{positions: tri.Positions, idx: i}
		b.Triangles = append(b.Triangles, bt)
		centers = append(centers, bt.center())
		for _, p := range tri.Positions {
			b.RootBounds.Fit(p)
		}
	}
	b.Nodes = append(b.Nodes, BVHNode{NumTriangles: uint32(count)})
	b.split(-1, 0, float32(count)*b.RootBounds.HalfArea(), centers)
	return b
}

// splitInfo holds the result of evaluating one candidate split plane.
type splitInfo struct {
	axis              int
	position          float32
	leftBBox, rightBBox AABB
	numLeft, numRight int
	leftCost, rightCost float32
}

func evaluateSplit(triangles []bvhTriangle, centers []vecmath.Vec3, axis int, splitPos float32) splitInfo {
	info := splitInfo{axis: axis, position: splitPos, leftBBox: EmptyAABB(), rightBBox: EmptyAABB()}
	for i := range triangles {
		if centers[i][axis] < splitPos {
			for _, p := range triangles[i].positions {
				info.leftBBox.Fit(p)
			}
			info.numLeft++
		} else {
			for _, p := range triangles[i].positions {
				info.rightBBox.Fit(p)
			}
		}
	}
	info.numRight = len(triangles) - info.numLeft
	info.leftCost = float32(info.numLeft) * info.leftBBox.HalfArea()
	info.rightCost = float32(info.numRight) * info.rightBBox.HalfArea()
	return info
}

// trySplitAndPartition scores numSplitCandidates split planes per axis over
// triangles[firstIdx:firstIdx+numTriangles], reorders that range so the
// winning split's left side comes first, and returns it. ok is false when no
// candidate beats bestCost.
func trySplitAndPartition(
	boundsSize func(axis int) float32,
	boundsMin func(axis int) float32,
	triangles []bvhTriangle,
	centers []vecmath.Vec3,
	firstIdx, numTriangles int,
	bestCost float32,
) (splitInfo, bool) {
	rangeTriangles := triangles[firstIdx : firstIdx+numTriangles]
	rangeCenters := centers[firstIdx : firstIdx+numTriangles]

	var best splitInfo
	found := false
	for axis := 0; axis < 3; axis++ {
		separation := boundsSize(axis) / float32(numSplitCandidates+1)
		for split := 0; split < numSplitCandidates; split++ {
			pos := boundsMin(axis) + float32(split+1)*separation
			info := evaluateSplit(rangeTriangles, rangeCenters, axis, pos)
			cost := info.leftCost + info.rightCost
			if cost < bestCost {
				bestCost = cost
				best = info
				found = true
			}
		}
	}
	if !found {
		return splitInfo{}, false
	}

	numLeft := 0
	for i := range rangeTriangles {
		if rangeCenters[i][best.axis] < best.position {
			rangeTriangles[i], rangeTriangles[numLeft] = rangeTriangles[numLeft], rangeTriangles[i]
			rangeCenters[i], rangeCenters[numLeft] = rangeCenters[numLeft], rangeCenters[i]
			numLeft++
		}
	}
	return best, true
}

// split recursively subdivides the node identified by (parentNodeIdx,
// childIdx) into four children, or leaves it as a leaf if no 4-way split
// beats nodeCost. parentNodeIdx is -1 for the root.
func (b *BVH) split(parentNodeIdx, childIdx int, nodeCost float32, centers []vecmath.Vec3) {
	var nodeIdx int
	if parentNodeIdx >= 0 {
		nodeIdx = int(b.Nodes[parentNodeIdx].Idx) + childIdx
	} else {
		nodeIdx = 0
	}
	if int(b.Nodes[nodeIdx].NumTriangles) <= maxLeafTriangles {
		return
	}

	var boundsSize, boundsMin func(axis int) float32
	if parentNodeIdx >= 0 {
		parent := &b.Nodes[parentNodeIdx]
		boundsSize = func(axis int) float32 { return parent.ChildBounds.GetSize(childIdx, axis) }
		boundsMin = func(axis int) float32 { return parent.ChildBounds.GetMin(childIdx, axis) }
	} else {
		boundsSize = func(axis int) float32 { return b.RootBounds.Size()[axis] }
		boundsMin = func(axis int) float32 { return b.RootBounds.Min[axis] }
	}

	node := b.Nodes[nodeIdx]
	initial, ok := trySplitAndPartition(boundsSize, boundsMin, b.Triangles, centers, int(node.Idx), int(node.NumTriangles), nodeCost)
	if !ok {
		return
	}

	left, ok := trySplitAndPartition(
		func(axis int) float32 { return initial.leftBBox.Size()[axis] },
		func(axis int) float32 { return initial.leftBBox.Min[axis] },
		b.Triangles, centers, int(node.Idx), initial.numLeft, nodeCost)
	if !ok {
		return
	}

	right, ok := trySplitAndPartition(
		func(axis int) float32 { return initial.rightBBox.Size()[axis] },
		func(axis int) float32 { return initial.rightBBox.Min[axis] },
		b.Triangles, centers, int(node.Idx)+initial.numLeft, initial.numRight, nodeCost)
	if !ok {
		return
	}

	totalCost := left.leftCost + left.rightCost + right.leftCost + right.rightCost
	if totalCost > nodeCost {
		return
	}

	firstChildIdx := uint32(len(b.Nodes))
	b.Nodes[nodeIdx].ChildBounds = NewAABB4([4]AABB{left.leftBBox, left.rightBBox, right.leftBBox, right.rightBBox})

	trianglesIdx := node.Idx
	counts := []int{left.numLeft, left.numRight, right.numLeft, right.numRight}
	for _, n := range counts {
		b.Nodes = append(b.Nodes, BVHNode{Idx: trianglesIdx, NumTriangles: uint32(n)})
		trianglesIdx += uint32(n)
	}

	b.Nodes[nodeIdx].NumTriangles = 0
	b.Nodes[nodeIdx].Idx = firstChildIdx

	b.split(nodeIdx, 0, left.leftCost, centers)
	b.split(nodeIdx, 1, left.rightCost, centers)
	b.split(nodeIdx, 2, right.leftCost, centers)
	b.split(nodeIdx, 3, right.rightCost, centers)
}

func intersectTriangle(ray Ray, t bvhTriangle, minDistance, maxDistance float32) (BVHHit, bool) {
	ab := t.positions[0].Sub(t.positions[1])
	ac := t.positions[0].Sub(t.positions[2])
	ao := t.positions[0].Sub(ray.Origin)
	normal := ab.Cross(ac)
	determinant := normal.Dot(ray.Direction)

	if vecmath.Abs(determinant) < triangleEpsilon {
		return BVHHit{}, false
	}
	invDet := 1 / determinant

	beta := ao.Cross(ac).Dot(ray.Direction) * invDet
	if beta < 0 || beta > 1 {
		return BVHHit{}, false
	}
	gamma := ab.Cross(ao).Dot(ray.Direction) * invDet
	if gamma < 0 || beta+gamma > 1 {
		return BVHHit{}, false
	}
	alpha := 1 - beta - gamma

	dist := normal.Dot(ao) * invDet
	if dist < minDistance || dist > maxDistance {
		return BVHHit{}, false
	}

	return BVHHit{
		TriangleIdx: t.idx,
		Distance:    dist,
		Position:    ray.At(dist),
		Barycentric: vecmath.Vec3{alpha, beta, gamma},
	}, true
}

type traversalEntry struct {
	idx      uint32
	distance float32
}

// Intersect finds the closest triangle hit within [minDistance,
// maxDistance], or reports ok=false if nothing is hit.
func (b *BVH) Intersect(ray Ray, minDistance, maxDistance float32) (BVHHit, bool) {
	rootDist, rootHit := b.RootBounds.Intersect(ray)
	if !rootHit {
		return BVHHit{}, false
	}

	var closest BVHHit
	haveClosest := false

	stack := make([]traversalEntry, 0, 64)
	stack = append(stack, traversalEntry{0, rootDist})

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if haveClosest && closest.Distance < entry.distance {
			continue
		}

		node := b.Nodes[entry.idx]
		if node.IsLeaf() {
			for i := node.Idx; i < node.Idx+node.NumTriangles; i++ {
				hit, ok := intersectTriangle(ray, b.Triangles[i], minDistance, maxDistance)
				if ok && (!haveClosest || hit.Distance < closest.Distance) {
					closest = hit
					haveClosest = true
				}
			}
			continue
		}

		info := node.ChildBounds.Intersect(ray)
		for i := 0; i < 4; i++ {
			bestIdx := -1
			bestDist := float32(math.Inf(1))
			for j := 0; j < 4; j++ {
				if info.Hit[j] && info.Distances[j] < bestDist {
					bestDist = info.Distances[j]
					bestIdx = j
				}
			}
			if bestIdx < 0 {
				break
			}
			stack = append(stack, traversalEntry{node.Idx + uint32(bestIdx), bestDist})
			info.Hit[bestIdx] = false
		}
	}

	return closest, haveClosest
}
