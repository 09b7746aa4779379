package scene

import (
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// SampleTexture performs a repeating, nearest-neighbor lookup of a decoded
// texture image at the given UV coordinate.
func (s *Scene) SampleTexture(textureIdx int, uv vecmath.Vec2) vecmath.Vec3 {
	tex := s.Textures[textureIdx]
	img := s.Images[tex.ImageIdx]
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return vecmath.Vec3{1, 1, 1}
	}

	u := int(uv[0]*float32(img.Width())) % img.Width()
	v := int(uv[1]*float32(img.Height())) % img.Height()
	if u < 0 {
		u += img.Width()
	}
	if v < 0 {
		v += img.Height()
	}
	return img.RGB(u, v)
}
