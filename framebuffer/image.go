// Package framebuffer provides the RGB pixel buffer type shared by decoded
// scene textures and the renderer's progressively-accumulated output.
package framebuffer

import (
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// Image is a width x height grid of Vec3 pixels.
type Image struct {
	width, height int
	pixels         []vecmath.Vec3
}

// NewImage allocates a black image of the given size.
func NewImage(width, height int) *Image {
	return &Image{width: width, height: height, pixels: make([]vecmath.Vec3, width*height)}
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Valid reports whether (x, y) is within bounds.
func (img *Image) Valid(x, y int) bool {
	return x >= 0 && x < img.width && y >= 0 && y < img.height
}

// RGB returns the pixel at (x, y).
func (img *Image) RGB(x, y int) vecmath.Vec3 {
	return img.pixels[x+y*img.width]
}

// SetRGB writes the pixel at (x, y).
func (img *Image) SetRGB(x, y int, v vecmath.Vec3) {
	img.pixels[x+y*img.width] = v
}

// AddRGB accumulates v into the pixel at (x, y).
func (img *Image) AddRGB(x, y int, v vecmath.Vec3) {
	img.pixels[x+y*img.width] = img.pixels[x+y*img.width].Add(v)
}

// Clear resets every pixel to value.
func (img *Image) Clear(value vecmath.Vec3) {
	for i := range img.pixels {
		img.pixels[i] = value
	}
}

// CopyFrom overwrites img's contents with src's. Panics if the dimensions
// differ.
func (img *Image) CopyFrom(src *Image) {
	if img.width != src.width || img.height != src.height {
		panic("framebuffer: CopyFrom size mismatch")
	}
	copy(img.pixels, src.pixels)
}

// ToneMap clamps a channel value into [0, 1].
func ToneMap(r float32) float32 { return vecmath.Clamp(r, 0, 1) }

// GammaCorrect raises a channel value to the power 1/gamma.
func GammaCorrect(r, gamma float32) float32 { return vecmath.Pow(r, 1/gamma) }

// ApplyCorrection tone-maps then gamma-corrects (gamma 2.2) a pixel.
func ApplyCorrection(v vecmath.Vec3) vecmath.Vec3 {
	var out vecmath.Vec3
	for i := 0; i < 3; i++ {
		out[i] = GammaCorrect(ToneMap(v[i]), 2.2)
	}
	return out
}
