package rng

import "github.com/chewxy/math32"

// ClippedGeometric is a geometric distribution over {0, 1, ..., n} produced
// by truncating and renormalizing an unbounded geometric distribution with
// ratio base. It is used to pick the deletion length for a bidirectional
// MLT mutation.
type ClippedGeometric struct {
	base          float32
	invLogBase    float32
	normalization float32
	invNorm       float32
}

// NewClippedGeometric builds a distribution with the given ratio. Call
// SetN before sampling.
func NewClippedGeometric(base float32) *ClippedGeometric {
	return &ClippedGeometric{
		base:       base,
		invLogBase: 1 / math32.Log2(base),
	}
}

// SetN configures the upper bound of the support to n (inclusive).
func (d *ClippedGeometric) SetN(n int) {
	d.normalization = 1 - math32.Pow(d.base, float32(n+1))
	d.invNorm = 1 / d.normalization
}

// Sample draws an integer in [0, n].
func (d *ClippedGeometric) Sample(g *PCG32) int {
	u := g.Float32() * d.normalization
	v := math32.Ceil(math32.Log2(1-u)*d.invLogBase) - 1
	if v < 0 {
		return 0
	}
	return int(v)
}

// PDF returns the probability mass at i.
func (d *ClippedGeometric) PDF(i int) float32 {
	return (1 - d.base) * math32.Pow(d.base, float32(i)) * d.invNorm
}

// TwoSidedClippedGeometric is a geometric distribution centered at an
// arbitrary point and clipped on both sides, used to pick the addition
// length for a bidirectional MLT mutation relative to the deletion point.
type TwoSidedClippedGeometric struct {
	base          float32
	invLogBase    float32
	normalization float32
	invNorm       float32
	offset        float32
	left          int
	center        int
}

// NewTwoSidedClippedGeometric builds a distribution with the given ratio.
// Call SetParameters before sampling.
func NewTwoSidedClippedGeometric(base float32) *TwoSidedClippedGeometric {
	return &TwoSidedClippedGeometric{
		base:       base,
		invLogBase: 1 / math32.Log2(base),
	}
}

// SetParameters configures the support [left, right] and the center of mass.
func (d *TwoSidedClippedGeometric) SetParameters(left, center, right int) {
	d.offset = math32.Pow(d.base, float32(center-left+1))
	d.normalization = 2 - d.offset - math32.Pow(d.base, float32(right-center+1))
	d.invNorm = 1 / d.normalization
	d.left = left
	d.center = center
}

// Sample draws an integer in [left, right].
func (d *TwoSidedClippedGeometric) Sample(g *PCG32) int {
	u := g.Float32()*d.normalization + d.offset
	var v int
	if u < 1 {
		v = d.center - int(math32.Ceil(math32.Log2(u)*d.invLogBase)) + 1
	} else {
		v = d.center + int(math32.Ceil(math32.Log2(2-u)*d.invLogBase)) - 1
	}
	if v < d.left {
		return d.left
	}
	return v
}

// PDF returns the probability mass at i.
func (d *TwoSidedClippedGeometric) PDF(i int) float32 {
	result := (1 - d.base) * math32.Pow(d.base, math32.Abs(float32(i-d.center))) * d.invNorm
	if i == d.center {
		result *= 2
	}
	return result
}
