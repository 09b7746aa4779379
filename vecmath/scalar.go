package vecmath

import "github.com/chewxy/math32"

const (
	Pi      = math32.Pi
	Epsilon = 1e-4
)

func Sqrt(x float32) float32  { return math32.Sqrt(x) }
func Sin(x float32) float32   { return math32.Sin(x) }
func Cos(x float32) float32   { return math32.Cos(x) }
func Tan(x float32) float32   { return math32.Tan(x) }
func Log(x float32) float32   { return math32.Log(x) }
func Exp(x float32) float32   { return math32.Exp(x) }
func Pow(x, y float32) float32 { return math32.Pow(x, y) }

func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Clamp(x, lo, hi float32) float32 {
	return Max(lo, Min(hi, x))
}

func DegToRad(deg float32) float32 {
	return deg * Pi / 180
}
