// Package vecmath provides the float32 vector and scalar math used across
// the scene, path and sampler packages.
package vecmath

import "golang.org/x/image/math/f32"

// Vec2 is a 2-component float32 vector.
type Vec2 f32.Vec2

// Vec3 is a 3-component float32 vector.
type Vec3 f32.Vec3

// Vec4 is a 4-component float32 vector.
type Vec4 f32.Vec4

func (v Vec2) X() float32 { return v[0] }
func (v Vec2) Y() float32 { return v[1] }

func (v Vec3) X() float32 { return v[0] }
func (v Vec3) Y() float32 { return v[1] }
func (v Vec3) Z() float32 { return v[2] }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]} }
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }
func (v Vec3) Neg() Vec3 { return Vec3{-v[0], -v[1], -v[2]} }

func (v Vec3) Dot(o Vec3) float32 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) LenSq() float32 { return v.Dot(v) }
func (v Vec3) Len() float32   { return Sqrt(v.LenSq()) }

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// MinVec3 returns the component-wise minimum of a and b.
func MinVec3(a, b Vec3) Vec3 {
	return Vec3{Min(a[0], b[0]), Min(a[1], b[1]), Min(a[2], b[2])}
}

// MaxVec3 returns the component-wise maximum of a and b.
func MaxVec3(a, b Vec3) Vec3 {
	return Vec3{Max(a[0], b[0]), Max(a[1], b[1]), Max(a[2], b[2])}
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// Reflect reflects d around normal n (both assumed normalized).
func Reflect(d, n Vec3) Vec3 {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}

// ToWorld maps a direction given in a tangent-space frame (where z is the
// normal) into world space, using an arbitrary orthonormal basis built from
// n.
func ToWorld(n, local Vec3) Vec3 {
	tangent, bitangent := Basis(n)
	return tangent.Scale(local[0]).Add(bitangent.Scale(local[1])).Add(n.Scale(local[2]))
}

// Basis builds an arbitrary orthonormal (tangent, bitangent) pair for the
// plane perpendicular to n.
func Basis(n Vec3) (Vec3, Vec3) {
	var up Vec3
	if Abs(n[0]) > 0.99 {
		up = Vec3{0, 1, 0}
	} else {
		up = Vec3{1, 0, 0}
	}
	tangent := up.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}
